package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"localrag/src/log"
)

// DefaultBaseURL is Ollama's OpenAI-compatible endpoint.
const DefaultBaseURL = "http://localhost:11434/v1/"

// Client implements rag.LLMProvider against any OpenAI-compatible API.
type Client struct {
	client  openai.Client
	baseURL string
}

// NewClient creates a client for baseURL. apiKey may be empty for servers
// that do not check it.
func NewClient(baseURL, apiKey string, c *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if apiKey == "" {
		apiKey = "unused"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if c != nil {
		opts = append(opts, option.WithHTTPClient(c))
	}

	return &Client{
		client:  openai.NewClient(opts...),
		baseURL: baseURL,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetEmbedding returns the embedding of a single input text
func (c *Client) GetEmbedding(ctx context.Context, model string, input string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(input),
		},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", describe(err))
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned by model %s", model)
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Generate sends prompt as a single user message and returns the reply
func (c *Client) Generate(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(model),
	})
	if err != nil {
		log.Error(err, "Chat completion failed", "model", model)
		return "", fmt.Errorf("chat completion failed: %w", describe(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned by model %s", model)
	}
	return resp.Choices[0].Message.Content, nil
}

// describe keeps the status code of API errors in the message
func describe(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("status %d: %w", apiErr.StatusCode, err)
	}
	return err
}
