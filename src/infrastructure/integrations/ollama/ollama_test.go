package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localrag/src/infrastructure/integrations/ollama"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req api.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Model != "nomic-embed-text:v1.5" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model \"` + req.Model + `\" not found, try pulling it first"}`))
			return
		}
		if req.Prompt == "" {
			_, _ = w.Write([]byte(`{"embedding":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"embedding":[0.5,-1.25,2]}`))
	})

	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req api.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Model != "deepseek-r1:8b" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model \"` + req.Model + `\" not found, try pulling it first"}`))
			return
		}
		if req.Stream == nil || *req.Stream {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"expected a non-streaming request"}`))
			return
		}
		resp := api.GenerateResponse{Model: req.Model, Response: "echo: " + req.Prompt, Done: true}
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetEmbedding(t *testing.T) {
	srv := newServer(t)
	c, err := ollama.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	vec, err := c.GetEmbedding(context.Background(), "nomic-embed-text:v1.5", "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1.25, 2}, vec)

	_, err = c.GetEmbedding(context.Background(), "nomic-embed-text:v1.5", "")
	assert.ErrorContains(t, err, "empty embedding")

	_, err = c.GetEmbedding(context.Background(), "unknown", "hello")
	assert.ErrorContains(t, err, "not found")
}

func TestClient_Generate(t *testing.T) {
	srv := newServer(t)
	c, err := ollama.NewClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), "deepseek-r1:8b", "why?")
	require.NoError(t, err)
	assert.Equal(t, "echo: why?", out)

	_, err = c.Generate(context.Background(), "missing:1b", "why?")
	assert.ErrorContains(t, err, "not found")
}

func TestClient_Unreachable(t *testing.T) {
	srv := newServer(t)
	c, err := ollama.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	require.NoError(t, c.Heartbeat(context.Background()))
	srv.Close()

	_, err = c.GetEmbedding(context.Background(), "nomic-embed-text:v1.5", "hello")
	assert.Error(t, err)
	assert.Error(t, c.Heartbeat(context.Background()))
}

func TestNewClient(t *testing.T) {
	c, err := ollama.NewClient("", nil)
	require.NoError(t, err)
	assert.Equal(t, ollama.DefaultURL, c.BaseURL())

	_, err = ollama.NewClient("localhost:11434", nil)
	assert.Error(t, err)
}
