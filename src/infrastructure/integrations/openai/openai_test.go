package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localrag/src/infrastructure/integrations/openai"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["model"] != "nomic-embed-text" {
			http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","model":"nomic-embed-text",
			"data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Stream || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": "echo: " + req.Messages[0].Content},
			}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetEmbedding(t *testing.T) {
	srv := newServer(t)
	c := openai.NewClient(srv.URL+"/v1", "", srv.Client())

	vec, err := c.GetEmbedding(context.Background(), "nomic-embed-text", "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)

	_, err = c.GetEmbedding(context.Background(), "unknown", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_Generate(t *testing.T) {
	srv := newServer(t)
	c := openai.NewClient(srv.URL+"/v1", "key", srv.Client())
	assert.Equal(t, srv.URL+"/v1/", c.BaseURL())

	out, err := c.Generate(context.Background(), "deepseek-r1:8b", "question")
	require.NoError(t, err)
	assert.Equal(t, "echo: question", out)
}
