package fsutil

import "context"

// FileStore provides read access to source documents
type FileStore interface {
	// ReadFile reads a file and returns its contents
	ReadFile(ctx context.Context, path string) ([]byte, error)
}
