package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Source document and chunking
	viper.BindEnv("document.path", "DOCUMENT_PATH")
	viper.BindEnv("document.split_pages", "DOCUMENT_SPLIT_PAGES")
	viper.BindEnv("document.loader", "DOCUMENT_LOADER")
	viper.BindEnv("chunk.size", "CHUNK_SIZE")
	viper.BindEnv("chunk.overlap", "CHUNK_OVERLAP")

	viper.SetDefault("document.path", "./path/to/document.pdf")
	viper.SetDefault("document.split_pages", false)
	viper.SetDefault("document.loader", "pdf")
	viper.SetDefault("chunk.size", 1000)
	viper.SetDefault("chunk.overlap", 200)

	// Language model provider: "ollama" (native API) or "openai" (any
	// OpenAI-compatible endpoint, including Ollama's /v1)
	viper.BindEnv("llm.provider", "LLM_PROVIDER")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")

	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("openai.base_url", "http://localhost:11434/v1/")

	// Ollama
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.timeout", "OLLAMA_TIMEOUT")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("ollama.generation_model", "OLLAMA_GENERATION_MODEL")

	viper.SetDefault("ollama.url", "http://localhost:11434")
	// 0 disables the client timeout; long non-streamed answers must not be cut off
	viper.SetDefault("ollama.timeout", "0")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text:v1.5")
	viper.SetDefault("ollama.generation_model", "deepseek-r1:8b")

	// Vector store
	viper.BindEnv("store.backend", "STORE_BACKEND")
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")
	viper.BindEnv("store.collection", "STORE_COLLECTION", "WEAVIATE_COLLECTION")

	viper.SetDefault("store.backend", "weaviate")
	viper.SetDefault("weaviate.host", "localhost:8000")
	viper.SetDefault("weaviate.scheme", "http")
	viper.SetDefault("store.collection", "my_collection")

	viper.BindEnv("qdrant.host", "QDRANT_HOST")
	viper.BindEnv("qdrant.port", "QDRANT_PORT")
	viper.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	viper.BindEnv("qdrant.use_tls", "QDRANT_USE_TLS")

	viper.SetDefault("qdrant.host", "localhost")
	viper.SetDefault("qdrant.port", 6334)
	viper.SetDefault("qdrant.use_tls", false)

	// Retrieval and output
	viper.BindEnv("retrieval.top_k", "RETRIEVAL_TOP_K")
	viper.BindEnv("query", "RAG_QUERY")
	viper.BindEnv("progress.style", "PROGRESS_STYLE")

	viper.SetDefault("retrieval.top_k", 4)
	viper.SetDefault("query", "Your query (Ex: What can you tell me about 'X' topic?)")
	viper.SetDefault("progress.style", "lines")

	// MinIO, only used for s3:// document paths
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")

	viper.SetDefault("minio.endpoint", "")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.use_ssl", false)

	// Set default values for Unstructured API, used when document.loader is "unstructured"
	viper.BindEnv("unstructured.url", "UNSTRUCTURED_API_URL")
	viper.BindEnv("unstructured.timeout", "UNSTRUCTURED_TIMEOUT")
	viper.SetDefault("unstructured.url", "http://unstructured_api:8000")
	viper.SetDefault("unstructured.timeout", "0")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Logging
	viper.BindEnv("log.format", "LOG_FORMAT")
	viper.BindEnv("log.verbosity", "LOG_VERBOSITY")

	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.verbosity", 0)
}
