package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"localrag/src/core/rag"
)

type record struct {
	id    string
	entry rag.Entry
}

// Store is an in-process rag.VectorStore ranking entries by cosine similarity.
// Collections live for the lifetime of the Store.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]record
}

func New() *Store {
	return &Store{
		collections: make(map[string][]record),
	}
}

func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = []record{}
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, entry rag.Entry) (string, error) {
	if len(entry.Vector) == 0 {
		return "", fmt.Errorf("entry for chunk %d has an empty vector", entry.Chunk.Index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.collections[collection]
	if !ok {
		return "", fmt.Errorf("collection %s does not exist", collection)
	}
	if len(records) > 0 && len(records[0].entry.Vector) != len(entry.Vector) {
		return "", fmt.Errorf("vector dimension mismatch: collection has %d, got %d",
			len(records[0].entry.Vector), len(entry.Vector))
	}

	id := uuid.New().String()
	s.collections[collection] = append(records, record{id: id, entry: entry})
	return id, nil
}

// Search returns up to k entries by descending cosine similarity. Ties keep
// insertion order.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, k int) ([]rag.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid limit %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}

	results := make([]rag.SearchResult, 0, len(records))
	for _, r := range records {
		results = append(results, rag.SearchResult{
			ID:    r.id,
			Score: cosine(vector, r.entry.Vector),
			Chunk: r.entry.Chunk,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func (s *Store) Reset(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
