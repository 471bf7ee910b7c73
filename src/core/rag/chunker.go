package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried coarsest first: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunker splits document text with a recursive character splitter. Lengths
// are counted in runes.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	splitter     textsplitter.TextSplitter
}

// NewChunker validates the size/overlap pair and builds the splitter.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, chunkSize, chunkOverlap)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators(DefaultSeparators),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)

	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		splitter:     splitter,
	}, nil
}

func (c *Chunker) ChunkSize() int    { return c.chunkSize }
func (c *Chunker) ChunkOverlap() int { return c.chunkOverlap }

// Split returns the chunks of doc in document order, numbering them from
// firstIndex. Whitespace-only pieces are dropped.
func (c *Chunker) Split(doc Document, firstIndex int) ([]Chunk, error) {
	texts, err := c.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to split document %s: %w", doc.Name, err)
	}

	chunks := make([]Chunk, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Index:        firstIndex + len(chunks),
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			Page:         doc.Page,
			Content:      text,
		})
	}
	return chunks, nil
}
