package fsutil

import (
	"context"
	"fmt"
	"strings"
)

// Mux dispatches reads by URL scheme ("s3://bucket/key"). Paths without a
// scheme go to the fallback store.
type Mux struct {
	fallback FileStore
	schemes  map[string]FileStore
}

// NewMux creates a Mux that reads plain paths from fallback
func NewMux(fallback FileStore) *Mux {
	return &Mux{
		fallback: fallback,
		schemes:  make(map[string]FileStore),
	}
}

// Register routes paths with the given scheme to fs
func (m *Mux) Register(scheme string, fs FileStore) {
	m.schemes[strings.ToLower(scheme)] = fs
}

func (m *Mux) ReadFile(ctx context.Context, path string) ([]byte, error) {
	scheme, ok := SplitScheme(path)
	if !ok {
		return m.fallback.ReadFile(ctx, path)
	}
	fs, ok := m.schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("no file store registered for scheme %q", scheme)
	}
	return fs.ReadFile(ctx, path)
}

// SplitScheme returns the lower-cased scheme of a "scheme://..." path.
func SplitScheme(path string) (string, bool) {
	i := strings.Index(path, "://")
	if i <= 0 {
		return "", false
	}
	return strings.ToLower(path[:i]), true
}
