package rag

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"localrag/src/fsutil"
)

// PageSeparator joins page texts when pages are not split.
const PageSeparator = "\n\n"

// PDFLoader extracts plain text from PDF files read through a FileStore.
type PDFLoader struct {
	fs         fsutil.FileStore
	splitPages bool
}

// LoaderOption configures a PDFLoader.
type LoaderOption func(*PDFLoader)

// WithSplitPages makes Load return one document per page instead of a single
// concatenated document.
func WithSplitPages(split bool) LoaderOption {
	return func(l *PDFLoader) {
		l.splitPages = split
	}
}

// NewPDFLoader creates a loader reading files from fs.
func NewPDFLoader(fs fsutil.FileStore, opts ...LoaderOption) *PDFLoader {
	l := &PDFLoader{fs: fs}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the PDF at path. Every failure is reported as a *LoadError.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]Document, error) {
	data, err := l.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	pages, err := extractPages(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var docs []Document
	if l.splitPages {
		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			docs = append(docs, Document{
				Name:    path,
				Page:    i + 1,
				Pages:   len(pages),
				Content: text,
			})
		}
	} else {
		content := strings.Join(pages, PageSeparator)
		if strings.TrimSpace(content) != "" {
			docs = append(docs, Document{
				Name:    path,
				Pages:   len(pages),
				Content: content,
			})
		}
	}

	if len(docs) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyDocument}
	}
	return docs, nil
}

// extractPages returns the plain text of every page in order. The pdf package
// panics on some malformed inputs, so panics are turned into errors.
func extractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
