package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"gopair/internal/chat"
	"gopair/internal/logging"
)

// OllamaConfig holds configuration for a local or remote Ollama server.
type OllamaConfig struct {
	BaseURL     string // default: "http://localhost:11434"
	APIKey      string // optional, for remote servers behind auth
	Model       string
	Temperature float32
	MaxTokens   int32
	HTTPTimeout time.Duration
}

// OllamaClient implements Client for the Ollama API.
type OllamaClient struct {
	client *api.Client
	config OllamaConfig
}

// authTransport adds an Authorization header to every request.
type authTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(clone)
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(config OllamaConfig) (*OllamaClient, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 8192
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}
	if baseURL.Scheme == "http" {
		host := baseURL.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			logging.Warn("ollama connection uses unencrypted HTTP to remote host", "host", host)
		}
	}

	httpClient := &http.Client{Timeout: config.HTTPTimeout}
	if config.APIKey != "" {
		httpClient.Transport = &authTransport{
			base:   http.DefaultTransport,
			apiKey: config.APIKey,
		}
	}

	return &OllamaClient{
		client: api.NewClient(baseURL, httpClient),
		config: config,
	}, nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the Ollama client holds no persistent resources.
func (c *OllamaClient) Close() error {
	return nil
}

// Chat sends the messages and returns a streaming response.
func (c *OllamaClient) Chat(ctx context.Context, messages []chat.Message) (*StreamingResponse, error) {
	apiMessages := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		apiMessages = append(apiMessages, api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: apiMessages,
		Stream:   ptr(true),
		Options: map[string]interface{}{
			"num_predict": c.config.MaxTokens,
		},
	}
	if c.config.Temperature > 0 {
		req.Options["temperature"] = c.config.Temperature
	}

	chunks := make(chan Chunk, 10)

	go func() {
		defer close(chunks)

		err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			chunk := Chunk{Text: resp.Message.Content, Done: resp.Done}
			if chunk.Text == "" && !chunk.Done {
				return nil
			}
			select {
			case chunks <- chunk:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case chunks <- Chunk{Err: err, Done: true}:
			case <-ctx.Done():
			}
		}
	}()

	return &StreamingResponse{Chunks: chunks}, nil
}

func ptr[T any](v T) *T {
	return &v
}
