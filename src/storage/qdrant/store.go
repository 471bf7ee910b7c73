package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"localrag/src/core/rag"
)

var ErrCollectionNotFound = errors.New("collection not found")

// Store is a rag.VectorStore backed by Qdrant over gRPC. Collections use
// cosine distance; their vector size is taken from the first inserted entry.
type Store struct {
	client  *qdrant.Client
	pending *pendingCollections
}

// pendingCollections tracks collections that must be created before their
// first insert.
type pendingCollections struct {
	mu    sync.Mutex
	names map[string]bool
}

func newPendingCollections() *pendingCollections {
	return &pendingCollections{names: make(map[string]bool)}
}

func (p *pendingCollections) set(name string, pending bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pending {
		p.names[name] = true
	} else {
		delete(p.names, name)
	}
}

func (p *pendingCollections) isPending(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.names[name]
}

// create runs fn if name is pending and clears it once fn succeeds. Callers
// racing on the same name wait, so fn runs at most once per success.
func (p *pendingCollections) create(name string, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.names[name] {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	delete(p.names, name)
	return nil
}

// NewStore connects to Qdrant and checks that it answers.
func NewStore(ctx context.Context, cfg *qdrant.Config) (*Store, error) {
	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	if _, err := client.HealthCheck(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("qdrant health check failed: %w", err)
	}
	return &Store{
		client:  client,
		pending: newPendingCollections(),
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// EnsureCollection marks a missing collection for creation. Qdrant needs the
// vector size up front, so the collection is created by the first Add.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", collection, err)
	}

	s.pending.set(collection, !exists)
	return nil
}

func (s *Store) createPending(ctx context.Context, collection string, size int) error {
	return s.pending.create(collection, func() error {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(size),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", collection, err)
		}
		return nil
	})
}

// Add upserts one point and waits until it is persisted, so a following
// Count includes it.
func (s *Store) Add(ctx context.Context, collection string, entry rag.Entry) (string, error) {
	if len(entry.Vector) == 0 {
		return "", fmt.Errorf("entry for chunk %d has an empty vector", entry.Chunk.Index)
	}
	if err := s.createPending(ctx, collection, len(entry.Vector)); err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(id),
			Vectors: qdrant.NewVectors(entry.Vector...),
			Payload: qdrant.NewValueMap(chunkToPayload(entry.Chunk)),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upsert point: %w", err)
	}
	return id, nil
}

func (s *Store) Search(ctx context.Context, collection string, vector []float32, k int) ([]rag.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid limit %d", k)
	}
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	results := make([]rag.SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, rag.SearchResult{
			ID:    p.GetId().GetUuid(),
			Score: float64(p.GetScore()),
			Chunk: payloadToChunk(p.GetPayload()),
		})
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return 0, nil
	}

	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(n), nil
}

func (s *Store) Reset(ctx context.Context, collection string) error {
	s.pending.set(collection, false)

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return nil
	}
	if err := s.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

func chunkToPayload(c rag.Chunk) map[string]any {
	return map[string]any{
		"text":       c.Content,
		"source":     c.DocumentName,
		"documentId": strconv.FormatInt(c.DocumentID, 10),
		"chunkIndex": c.Index,
		"page":       c.Page,
	}
}

func payloadToChunk(payload map[string]*qdrant.Value) rag.Chunk {
	docID, _ := strconv.ParseInt(payload["documentId"].GetStringValue(), 10, 64)
	return rag.Chunk{
		Index:        int(payload["chunkIndex"].GetIntegerValue()),
		DocumentID:   docID,
		DocumentName: payload["source"].GetStringValue(),
		Page:         int(payload["page"].GetIntegerValue()),
		Content:      payload["text"].GetStringValue(),
	}
}

var _ rag.VectorStore = (*Store)(nil)
