package rag_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localrag/src/core/rag"
)

// numberedWords returns n distinct 9-character words; the last one ends with
// a period so n words joined by spaces are exactly n*10 characters long.
func numberedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%05d", i)
	}
	words[n-1] += "."
	return words
}

// mergeOverlapping rebuilds the word sequence from chunks by dropping, from
// each chunk, the longest prefix that repeats the tail of what came before.
func mergeOverlapping(chunks []rag.Chunk) []string {
	var out []string
	for _, c := range chunks {
		words := strings.Fields(c.Content)
		overlap := 0
		for k := min(len(out), len(words)); k > 0; k-- {
			if equalWords(out[len(out)-k:], words[:k]) {
				overlap = k
				break
			}
		}
		out = append(out, words[overlap:]...)
	}
	return out
}

func equalWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "defaults", size: rag.DefaultChunkSize, overlap: rag.DefaultChunkOverlap},
		{name: "no overlap", size: 100, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap above size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := rag.NewChunker(tt.size, tt.overlap)
			if tt.wantErr {
				assert.ErrorIs(t, err, rag.ErrInvalidChunkConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, c.ChunkSize())
			assert.Equal(t, tt.overlap, c.ChunkOverlap())
		})
	}
}

func TestChunker_Split_2500Characters(t *testing.T) {
	words := numberedWords(250)
	text := strings.Join(words, " ")
	require.Equal(t, 2500, utf8.RuneCountInString(text))

	c, err := rag.NewChunker(1000, 200)
	require.NoError(t, err)

	doc := rag.Document{ID: 42, Name: "doc.pdf", Content: text}
	chunks, err := c.Split(doc, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, int64(42), chunk.DocumentID)
		assert.Equal(t, "doc.pdf", chunk.DocumentName)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 1000)
	}

	// 20 words (199 characters) are carried into the next chunk.
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Content)
		next := strings.Fields(chunks[i].Content)
		assert.Equal(t, prev[len(prev)-20:], next[:20])
	}

	assert.Equal(t, words, mergeOverlapping(chunks))
}

func TestChunker_Split_Paragraphs(t *testing.T) {
	var paragraphs []string
	var all []string
	for p := 0; p < 6; p++ {
		var words []string
		for w := 0; w < 30; w++ {
			words = append(words, fmt.Sprintf("p%dw%05d", p, w))
		}
		all = append(all, words...)
		paragraphs = append(paragraphs, strings.Join(words, " "))
	}
	text := strings.Join(paragraphs, "\n\n")

	c, err := rag.NewChunker(1000, 200)
	require.NoError(t, err)
	chunks, err := c.Split(rag.Document{Content: text}, 5)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.Equal(t, 5+i, chunk.Index)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 1000)
	}
	assert.Equal(t, all, mergeOverlapping(chunks))
}

func TestChunker_Split_CountsRunes(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = strings.Repeat("é", 9)
	}

	c, err := rag.NewChunker(50, 10)
	require.NoError(t, err)
	chunks, err := c.Split(rag.Document{Content: strings.Join(words, " ")}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 50)
	}
	assert.Greater(t, len(chunks[0].Content), 50, "byte length exceeds the rune limit")
}

func TestChunker_Split_Deterministic(t *testing.T) {
	text := strings.Join(numberedWords(400), " ")
	c, err := rag.NewChunker(300, 50)
	require.NoError(t, err)

	first, err := c.Split(rag.Document{Content: text}, 0)
	require.NoError(t, err)
	second, err := c.Split(rag.Document{Content: text}, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChunker_Split_EmptyText(t *testing.T) {
	c, err := rag.NewChunker(100, 10)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\n \n"} {
		chunks, err := c.Split(rag.Document{Content: text}, 0)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}
