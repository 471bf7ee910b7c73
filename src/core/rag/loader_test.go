package rag_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localrag/src/core/rag"
	"localrag/src/fsutil"
)

// buildPDF renders a minimal PDF with one line of Helvetica text per page.
func buildPDF(pages ...string) []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	kids := make([]string, len(pages))
	for i, text := range pages {
		pageObj := len(objs) + 1
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestPDFLoader_Load(t *testing.T) {
	path := writeFile(t, "two-pages.pdf", buildPDF("Hello page one", "Second page text"))
	loader := rag.NewPDFLoader(fsutil.NewLocalFileStore())

	docs, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, path, doc.Name)
	assert.Equal(t, 2, doc.Pages)
	assert.Zero(t, doc.Page)
	assert.Contains(t, doc.Content, "Hello page one")
	assert.Contains(t, doc.Content, "Second page text")
	assert.Less(t, strings.Index(doc.Content, "Hello page one"), strings.Index(doc.Content, "Second page text"))
	assert.Contains(t, doc.Content, rag.PageSeparator)
}

func TestPDFLoader_Load_SplitPages(t *testing.T) {
	path := writeFile(t, "three-pages.pdf", buildPDF("First", "", "Third"))
	loader := rag.NewPDFLoader(fsutil.NewLocalFileStore(), rag.WithSplitPages(true))

	docs, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 2, "blank pages are skipped")

	assert.Equal(t, 1, docs[0].Page)
	assert.Equal(t, 3, docs[1].Page)
	assert.Equal(t, 3, docs[0].Pages)
	assert.Contains(t, docs[0].Content, "First")
	assert.Contains(t, docs[1].Content, "Third")
}

func TestPDFLoader_Load_Errors(t *testing.T) {
	dir := t.TempDir()
	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just some text, not a pdf"), 0o600))
	blank := filepath.Join(dir, "blank.pdf")
	require.NoError(t, os.WriteFile(blank, buildPDF(""), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), wantErr: os.ErrNotExist},
		{name: "not a pdf", path: notPDF},
		{name: "no text", path: blank, wantErr: rag.ErrEmptyDocument},
	}

	loader := rag.NewPDFLoader(fsutil.NewLocalFileStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := loader.Load(context.Background(), tt.path)
			assert.Nil(t, docs)

			var loadErr *rag.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.path, loadErr.Path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
