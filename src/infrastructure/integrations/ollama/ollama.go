package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"localrag/src/log"
)

const (
	DefaultURL = "http://localhost:11434"
)

// Client wraps the Ollama API for embeddings and non-streaming generation
type Client struct {
	api     *api.Client
	baseURL string
}

// NewClient creates a new Ollama API client
func NewClient(baseURL string, c *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if c == nil {
		c = http.DefaultClient
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ollama url %q: scheme and host are required", baseURL)
	}

	return &Client{
		api:     api.NewClient(u, c),
		baseURL: u.String(),
	}, nil
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetEmbedding generates an embedding vector for the given text using the specified model
func (c *Client) GetEmbedding(ctx context.Context, model string, text string) ([]float32, error) {
	resp, err := c.api.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned by model %s", model)
	}

	// Convert float64 to float32
	embedding32 := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		embedding32[i] = float32(v)
	}

	return embedding32, nil
}

// Generate performs model generation with the given prompt and waits for the
// complete response
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	var fullResponse strings.Builder
	var done bool
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		fullResponse.WriteString(resp.Response)
		done = resp.Done
		return nil
	})
	if err != nil {
		log.Error(err, "failed to make request to ollama", "model", model)
		return "", fmt.Errorf("error making request: %w", err)
	}

	if !done && fullResponse.Len() == 0 {
		return "", fmt.Errorf("no response received from Ollama")
	}

	return fullResponse.String(), nil
}

// Heartbeat checks that the server is reachable
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.api.Heartbeat(ctx)
}
