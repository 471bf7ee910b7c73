package weaviate

import (
	"context"
	"strconv"

	"github.com/weaviate/weaviate/entities/models"

	"localrag/src/core/rag"
)

const (
	propText       = "text"
	propSource     = "source"
	propDocumentID = "documentId"
	propChunkIndex = "chunkIndex"
	propPage       = "page"
)

// chunkProperties is the schema of a chunk class. Vectors are supplied by
// the caller, so the class has no vectorizer.
var chunkProperties = []*models.Property{
	{
		Name:        propText,
		DataType:    []string{"text"},
		Description: "The content of the chunk",
	},
	{
		Name:        propSource,
		DataType:    []string{"text"},
		Description: "Path of the source document",
	},
	{
		Name:        propDocumentID,
		DataType:    []string{"text"},
		Description: "ID of the source document",
	},
	{
		Name:        propChunkIndex,
		DataType:    []string{"int"},
		Description: "Order of the chunk within the document",
	},
	{
		Name:        propPage,
		DataType:    []string{"int"},
		Description: "Page of the chunk, 0 when pages were concatenated",
	},
}

var queryFields = []string{propText, propSource, propDocumentID, propChunkIndex, propPage}

// Store adapts the SDK to rag.VectorStore. Collection names are mapped to
// class names with ClassName.
type Store struct {
	sdk *SDK
}

func NewStore(sdk *SDK) *Store {
	return &Store{sdk: sdk}
}

func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	className := ClassName(collection)
	exists, err := s.sdk.ClassExists(ctx, className)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.sdk.CreateSchema(ctx, className, chunkProperties, "none")
}

func (s *Store) Add(ctx context.Context, collection string, entry rag.Entry) (string, error) {
	return s.sdk.AddVector(ctx, ClassName(collection), VectorObject{
		Vector:     entry.Vector,
		Properties: chunkToProperties(entry.Chunk),
	})
}

func (s *Store) Search(ctx context.Context, collection string, vector []float32, k int) ([]rag.SearchResult, error) {
	results, err := s.sdk.QueryVectors(ctx, ClassName(collection), vector, QueryConfig{
		Fields: queryFields,
		Limit:  k,
	})
	if err != nil {
		return nil, err
	}

	out := make([]rag.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, rag.SearchResult{
			ID:    r.ID,
			Score: 1 - r.Distance,
			Chunk: propertiesToChunk(r.Properties),
		})
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	className := ClassName(collection)
	exists, err := s.sdk.ClassExists(ctx, className)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return s.sdk.Count(ctx, className)
}

func (s *Store) Reset(ctx context.Context, collection string) error {
	className := ClassName(collection)
	exists, err := s.sdk.ClassExists(ctx, className)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.sdk.DeleteSchema(ctx, className)
}

func chunkToProperties(c rag.Chunk) map[string]interface{} {
	return map[string]interface{}{
		propText:       c.Content,
		propSource:     c.DocumentName,
		propDocumentID: strconv.FormatInt(c.DocumentID, 10),
		propChunkIndex: c.Index,
		propPage:       c.Page,
	}
}

func propertiesToChunk(props map[string]interface{}) rag.Chunk {
	var c rag.Chunk
	c.Content, _ = props[propText].(string)
	c.DocumentName, _ = props[propSource].(string)
	if id, ok := props[propDocumentID].(string); ok {
		c.DocumentID, _ = strconv.ParseInt(id, 10, 64)
	}
	c.Index = intProperty(props[propChunkIndex])
	c.Page = intProperty(props[propPage])
	return c
}

// intProperty handles ints decoded from JSON as float64.
func intProperty(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

var _ rag.VectorStore = (*Store)(nil)
