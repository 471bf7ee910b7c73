package rag

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")
	ErrInvalidTopK        = errors.New("top k must be positive")
	ErrEmptyDocument      = errors.New("document has no extractable text")
)

// Pipeline stages, also used as metric labels.
const (
	StageLoad     = "load"
	StageSplit    = "split"
	StageEmbed    = "embed"
	StageStore    = "store"
	StageRetrieve = "retrieve"
	StageGenerate = "generate"
)

// LoadError is returned when a source document is missing, unreadable or not
// a parsable PDF.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load document %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// EmbeddingError is returned when the embedding service fails. ChunkIndex is
// -1 when the query was being embedded.
type EmbeddingError struct {
	ChunkIndex int
	Model      string
	Err        error
}

func (e *EmbeddingError) Error() string {
	if e.ChunkIndex < 0 {
		return fmt.Sprintf("failed to embed query with model %s: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("failed to embed chunk %d with model %s: %v", e.ChunkIndex, e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// StoreError is returned when the vector store rejects an operation. ChunkIndex
// is -1 for operations not tied to a chunk.
type StoreError struct {
	ChunkIndex int
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ChunkIndex < 0 {
		return fmt.Sprintf("vector store error on collection %s: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("failed to store chunk %d in collection %s: %v", e.ChunkIndex, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GenerationError is returned when the inference service is unreachable or
// does not know the model.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate answer with model %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
