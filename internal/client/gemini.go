package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"gopair/internal/chat"
	"gopair/internal/logging"
)

// GeminiConfig holds configuration for the Gemini API.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
	MaxRetries  int
	RetryDelay  time.Duration
}

// GeminiClient implements Client for the Gemini API via the genai SDK.
type GeminiClient struct {
	client *genai.Client
	config GeminiConfig
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config GeminiConfig) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the genai client holds no persistent resources.
func (c *GeminiClient) Close() error {
	return nil
}

// Chat sends the messages and returns a streaming response, retrying
// transient failures with exponential backoff.
func (c *GeminiClient) Chat(ctx context.Context, messages []chat.Message) (*StreamingResponse, error) {
	contents, genConfig := c.convertMessages(messages)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay * time.Duration(1<<uint(attempt-1))
			logging.Info("retrying Gemini request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		response, err := c.doStream(ctx, contents, genConfig)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !IsRetryable(err, 0) {
			return nil, err
		}
		logging.Warn("Gemini request failed, will retry", "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.config.MaxRetries, lastErr)
}

// convertMessages maps chat messages to genai contents. System messages are
// carried via the API's system-instruction parameter, not the history.
func (c *GeminiClient) convertMessages(messages []chat.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.config.Temperature),
		MaxOutputTokens: c.config.MaxTokens,
	}

	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			genConfig.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case chat.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText(" ", genai.RoleUser))
	}
	return contents, genConfig
}

func (c *GeminiClient) doStream(ctx context.Context, contents []*genai.Content, genConfig *genai.GenerateContentConfig) (*StreamingResponse, error) {
	stream := c.client.Models.GenerateContentStream(ctx, c.config.Model, contents, genConfig)

	chunks := make(chan Chunk, 10)

	go func() {
		defer close(chunks)

		for resp, err := range stream {
			if err != nil {
				select {
				case chunks <- Chunk{Err: err, Done: true}:
				case <-ctx.Done():
				}
				return
			}

			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case chunks <- Chunk{Text: text}:
			case <-ctx.Done():
				select {
				case chunks <- Chunk{Err: ctx.Err(), Done: true}:
				default:
				}
				return
			}
		}

		select {
		case chunks <- Chunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return &StreamingResponse{Chunks: chunks}, nil
}
