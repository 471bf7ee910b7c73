// Package rag implements a linear retrieval-augmented generation pipeline:
// load a PDF, split it into overlapping chunks, embed and store every chunk,
// retrieve the top-K chunks for a query and ask a language model to answer
// from that context only.
package rag

import (
	"context"
	"time"
)

// Document is the extracted text of a source file, or of one page of it when
// pages are loaded separately.
type Document struct {
	ID      int64
	Name    string // source path
	Page    int    // 1-based page number; 0 when all pages are concatenated
	Pages   int    // total page count of the source file
	Content string
}

// Chunk is a bounded substring of a document.
type Chunk struct {
	Index        int   // position in document order
	DocumentID   int64 // the document the chunk belongs to
	DocumentName string
	Page         int
	Content      string
}

// Entry is a chunk paired with its embedding, as handed to a VectorStore.
type Entry struct {
	Chunk  Chunk
	Vector []float32
}

// SearchResult is one entry returned by a similarity search. Higher scores
// are more similar.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Chunk Chunk   `json:"chunk"`
}

// Answer is the outcome of a retrieval + generation round.
type Answer struct {
	Query    string         `json:"query"`
	Prompt   string         `json:"prompt"`
	Response string         `json:"response"`
	Sources  []SearchResult `json:"sources"`
}

// IngestResult summarises an ImportFile call.
type IngestResult struct {
	Documents []Document
	Chunks    int
	Inserted  int
	Duration  time.Duration
}

// Loader extracts documents from a source path.
type Loader interface {
	Load(ctx context.Context, path string) ([]Document, error)
}

// LLMProvider defines operations for language model interactions
type LLMProvider interface {
	// GetEmbedding generates embeddings for the given input text
	GetEmbedding(ctx context.Context, model string, input string) ([]float32, error)
	// Generate returns the complete, non-streamed response for prompt
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// VectorStore defines operations for vector storage and search
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist yet
	EnsureCollection(ctx context.Context, collection string) error
	// Add inserts a single entry and returns its assigned ID
	Add(ctx context.Context, collection string, entry Entry) (string, error)
	// Search returns up to k entries ordered by descending similarity
	Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error)
	// Count returns the number of entries stored in the collection
	Count(ctx context.Context, collection string) (int, error)
	// Reset drops the collection and everything in it
	Reset(ctx context.Context, collection string) error
}
