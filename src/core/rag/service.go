package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"

	"localrag/src/log"
	"localrag/src/metrics"
)

const (
	DefaultCollection      = "my_collection"
	DefaultEmbeddingModel  = "nomic-embed-text:v1.5"
	DefaultGenerationModel = "deepseek-r1:8b"
	DefaultTopK            = 4
)

// Config names the collection and models a Service works with.
type Config struct {
	Collection      string
	EmbeddingModel  string
	GenerationModel string
	TopK            int
}

// Service runs the load → split → embed/store → retrieve → generate pipeline.
// Every stage is a plain sequential call; an error stops the run.
type Service struct {
	cfg       Config
	loader    Loader
	chunker   *Chunker
	llm       LLMProvider
	store     VectorStore
	snowflake *snowflake.Node
}

// NewService creates a pipeline service from its collaborators
func NewService(cfg Config, loader Loader, chunker *Chunker, llm LLMProvider, store VectorStore) (*Service, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	s := &Service{
		cfg:       cfg,
		loader:    loader,
		chunker:   chunker,
		llm:       llm,
		store:     store,
		snowflake: node,
	}
	if err := s.validateDependencies(); err != nil {
		return nil, fmt.Errorf("failed to validate dependencies: %w", err)
	}
	return s, nil
}

func (s *Service) validateDependencies() error {
	if s.loader == nil {
		return fmt.Errorf("document loader is required")
	}
	if s.chunker == nil {
		return fmt.Errorf("chunker is required")
	}
	if s.llm == nil {
		return fmt.Errorf("llm provider is required")
	}
	if s.store == nil {
		return fmt.Errorf("vector store is required")
	}
	if s.cfg.Collection == "" {
		return fmt.Errorf("collection name is required")
	}
	if s.cfg.EmbeddingModel == "" {
		return fmt.Errorf("embedding model is required")
	}
	if s.cfg.GenerationModel == "" {
		return fmt.Errorf("generation model is required")
	}
	if s.cfg.TopK <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTopK, s.cfg.TopK)
	}
	return nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Run ingests the document at path and answers query against the collection.
func (s *Service) Run(ctx context.Context, path, query string, progress ProgressFunc) (*Answer, error) {
	if _, err := s.ImportFile(ctx, path, progress); err != nil {
		return nil, err
	}
	return s.Ask(ctx, query, s.cfg.TopK)
}

// ImportFile loads, splits and stores the document at path. On an ingest
// failure the result still reports how many chunks were inserted.
func (s *Service) ImportFile(ctx context.Context, path string, progress ProgressFunc) (*IngestResult, error) {
	start := time.Now()

	docs, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks, err := s.Split(docs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyDocument}
	}
	log.Info("document split", "path", path, "chunks", len(chunks),
		"chunkSize", s.chunker.ChunkSize(), "chunkOverlap", s.chunker.ChunkOverlap())

	result := &IngestResult{Documents: docs, Chunks: len(chunks)}

	if err := s.store.EnsureCollection(ctx, s.cfg.Collection); err != nil {
		return result, &StoreError{ChunkIndex: -1, Collection: s.cfg.Collection, Err: err}
	}

	result.Inserted, err = s.Ingest(ctx, chunks, progress)
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	log.Info("document ingested", "path", path, "collection", s.cfg.Collection,
		"inserted", result.Inserted, "duration", result.Duration)
	return result, nil
}

// Load reads the source document and assigns document IDs.
func (s *Service) Load(ctx context.Context, path string) ([]Document, error) {
	start := time.Now()
	docs, err := s.loader.Load(ctx, path)
	metrics.ObserveStage(StageLoad, start, err)
	if err != nil {
		return nil, err
	}

	id := s.snowflake.Generate().Int64()
	for i := range docs {
		docs[i].ID = id
	}
	log.Debug("document loaded", "path", path, "documents", len(docs), "pages", docs[0].Pages)
	return docs, nil
}

// Split chunks every document and numbers chunks continuously across them.
func (s *Service) Split(docs []Document) ([]Chunk, error) {
	var chunks []Chunk
	for _, doc := range docs {
		part, err := s.chunker.Split(doc, len(chunks))
		if err != nil {
			metrics.StageErrorsTotal.WithLabelValues(StageSplit).Inc()
			return nil, err
		}
		chunks = append(chunks, part...)
	}
	return chunks, nil
}

// Ingest embeds and stores chunks one at a time, in order, reporting progress
// after each insert. It returns the number of chunks stored before any error.
// Nothing is rolled back on failure.
func (s *Service) Ingest(ctx context.Context, chunks []Chunk, progress ProgressFunc) (int, error) {
	total := len(chunks)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("ingest interrupted after %d of %d chunks: %w", i, total, err)
		}

		start := time.Now()
		vector, err := s.llm.GetEmbedding(ctx, s.cfg.EmbeddingModel, chunk.Content)
		metrics.ObserveStage(StageEmbed, start, err)
		if err != nil {
			return i, &EmbeddingError{ChunkIndex: i, Model: s.cfg.EmbeddingModel, Err: err}
		}

		start = time.Now()
		id, err := s.store.Add(ctx, s.cfg.Collection, Entry{Chunk: chunk, Vector: vector})
		metrics.ObserveStage(StageStore, start, err)
		if err != nil {
			return i, &StoreError{ChunkIndex: i, Collection: s.cfg.Collection, Err: err}
		}
		metrics.ChunksIngestedTotal.Inc()
		log.V(2).Info("chunk stored", "index", i, "id", id, "dimensions", len(vector))

		if progress != nil {
			progress(Progress{Done: i + 1, Total: total})
		}
	}
	return total, nil
}

// Retrieve embeds query and returns the k most similar stored chunks, most
// similar first.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, k)
	}

	start := time.Now()
	vector, err := s.llm.GetEmbedding(ctx, s.cfg.EmbeddingModel, query)
	metrics.ObserveStage(StageEmbed, start, err)
	if err != nil {
		return nil, &EmbeddingError{ChunkIndex: -1, Model: s.cfg.EmbeddingModel, Err: err}
	}

	start = time.Now()
	results, err := s.store.Search(ctx, s.cfg.Collection, vector, k)
	metrics.ObserveStage(StageRetrieve, start, err)
	if err != nil {
		return nil, &StoreError{ChunkIndex: -1, Collection: s.cfg.Collection, Err: err}
	}

	log.Debug("chunks retrieved", "collection", s.cfg.Collection, "k", k, "results", len(results))
	return results, nil
}

// GenerateAnswer prompts the generation model with query grounded on results
// and returns the full response.
func (s *Service) GenerateAnswer(ctx context.Context, query string, results []SearchResult) (*Answer, error) {
	prompt := BuildPrompt(query, results)

	start := time.Now()
	response, err := s.llm.Generate(ctx, s.cfg.GenerationModel, prompt)
	metrics.ObserveStage(StageGenerate, start, err)
	if err != nil {
		return nil, &GenerationError{Model: s.cfg.GenerationModel, Err: err}
	}

	return &Answer{
		Query:    query,
		Prompt:   prompt,
		Response: response,
		Sources:  results,
	}, nil
}

// Ask retrieves the top k chunks for query and generates an answer from them.
// k == 0 falls back to the configured TopK.
func (s *Service) Ask(ctx context.Context, query string, k int) (*Answer, error) {
	if k == 0 {
		k = s.cfg.TopK
	}
	results, err := s.Retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}
	return s.GenerateAnswer(ctx, query, results)
}

// Count returns the number of entries in the collection.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx, s.cfg.Collection)
	if err != nil {
		return 0, &StoreError{ChunkIndex: -1, Collection: s.cfg.Collection, Err: err}
	}
	return n, nil
}

// Reset drops the collection so the next import starts from empty.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx, s.cfg.Collection); err != nil {
		return &StoreError{ChunkIndex: -1, Collection: s.cfg.Collection, Err: err}
	}
	log.Info("collection reset", "collection", s.cfg.Collection)
	return nil
}
