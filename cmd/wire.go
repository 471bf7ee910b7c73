package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	qdrantClient "github.com/qdrant/go-client/qdrant"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"localrag/src/core/rag"
	"localrag/src/fsutil"
	"localrag/src/infrastructure/integrations/ollama"
	"localrag/src/infrastructure/integrations/openai"
	"localrag/src/infrastructure/integrations/unstructured"
	"localrag/src/log"
	"localrag/src/storage/memstore"
	"localrag/src/storage/minioctrl"
	"localrag/src/storage/qdrant"
	"localrag/src/storage/weaviate"
)

// newFileStore reads plain paths from disk and, when a MinIO endpoint is
// configured, s3:// paths from MinIO.
func newFileStore() (fsutil.FileStore, error) {
	mux := fsutil.NewMux(fsutil.NewLocalFileStore())

	endpoint := viper.GetString("minio.endpoint")
	if endpoint == "" {
		return mux, nil
	}
	ms, err := minioctrl.NewMinioService(
		endpoint,
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		viper.GetBool("minio.use_ssl"),
	)
	if err != nil {
		return nil, err
	}
	mux.Register("s3", fsutil.NewObjectFileStore(ms))
	log.Debug("MinIO document source enabled", "endpoint", endpoint)
	return mux, nil
}

// newHTTPClient builds a client whose timeout is read from key. "0" means no
// timeout.
func newHTTPClient(key string) (*http.Client, error) {
	timeout, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid %s: negative duration %s", key, timeout)
	}
	return &http.Client{Timeout: timeout}, nil
}

func newLoader(fs fsutil.FileStore) (rag.Loader, error) {
	splitPages := viper.GetBool("document.split_pages")
	switch name := viper.GetString("document.loader"); name {
	case "", "pdf":
		return rag.NewPDFLoader(fs, rag.WithSplitPages(splitPages)), nil
	case "unstructured":
		hc, err := newHTTPClient("unstructured.timeout")
		if err != nil {
			return nil, err
		}
		client := unstructured.NewClient(viper.GetString("unstructured.url"), hc)
		return unstructured.NewLoader(client, fs, splitPages), nil
	default:
		return nil, fmt.Errorf("unknown document loader %q", name)
	}
}

// newLLMProvider returns the embedding/generation backend and the address it
// talks to.
func newLLMProvider(ctx context.Context) (rag.LLMProvider, string, error) {
	hc, err := newHTTPClient("ollama.timeout")
	if err != nil {
		return nil, "", err
	}

	switch provider := viper.GetString("llm.provider"); provider {
	case "", "ollama":
		oc, err := ollama.NewClient(viper.GetString("ollama.url"), hc)
		if err != nil {
			return nil, "", err
		}
		// Not fatal: the first embedding call reports the real error.
		if err := oc.Heartbeat(ctx); err != nil {
			log.Error(err, "Ollama is not reachable", "url", oc.BaseURL())
		}
		return oc, oc.BaseURL(), nil
	case "openai":
		c := openai.NewClient(viper.GetString("openai.base_url"), viper.GetString("openai.api_key"), hc)
		return c, c.BaseURL(), nil
	default:
		return nil, "", fmt.Errorf("unknown llm provider %q", provider)
	}
}

func newVectorStore(ctx context.Context) (rag.VectorStore, error) {
	switch backend := viper.GetString("store.backend"); backend {
	case "memory":
		return memstore.New(), nil
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.host"),
			Scheme: viper.GetString("weaviate.scheme"),
		})
		wsdk := weaviate.NewSDK(wc)
		ready, err := wsdk.Ready(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to reach weaviate at %s: %w", viper.GetString("weaviate.host"), err)
		}
		if !ready {
			return nil, fmt.Errorf("weaviate at %s is not ready", viper.GetString("weaviate.host"))
		}
		return weaviate.NewStore(wsdk), nil
	case "qdrant":
		return qdrant.NewStore(ctx, &qdrantClient.Config{
			Host:   viper.GetString("qdrant.host"),
			Port:   viper.GetInt("qdrant.port"),
			APIKey: viper.GetString("qdrant.api_key"),
			UseTLS: viper.GetBool("qdrant.use_tls"),
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// newService builds the pipeline from the current configuration.
func newService(ctx context.Context) (*rag.Service, error) {
	fs, err := newFileStore()
	if err != nil {
		return nil, err
	}
	loader, err := newLoader(fs)
	if err != nil {
		return nil, err
	}

	chunker, err := rag.NewChunker(viper.GetInt("chunk.size"), viper.GetInt("chunk.overlap"))
	if err != nil {
		return nil, err
	}

	llm, llmURL, err := newLLMProvider(ctx)
	if err != nil {
		return nil, err
	}

	store, err := newVectorStore(ctx)
	if err != nil {
		return nil, err
	}

	cfg := rag.Config{
		Collection:      viper.GetString("store.collection"),
		EmbeddingModel:  viper.GetString("ollama.embedding_model"),
		GenerationModel: viper.GetString("ollama.generation_model"),
		TopK:            viper.GetInt("retrieval.top_k"),
	}
	log.Debug("Pipeline configured",
		"collection", cfg.Collection,
		"store", viper.GetString("store.backend"),
		"llm", llmURL,
		"embeddingModel", cfg.EmbeddingModel,
		"generationModel", cfg.GenerationModel,
		"topK", cfg.TopK)

	return rag.NewService(cfg, loader, chunker, llm, store)
}
