package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopair/internal/chat"
	"gopair/internal/logging"
)

// OpenAIConfig holds configuration for OpenAI-compatible chat-completion APIs.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // default: "https://api.openai.com"
	Model       string
	Temperature float32
	MaxTokens   int32
	MaxRetries  int
	RetryDelay  time.Duration
	HTTPTimeout time.Duration
}

// OpenAIClient implements Client for OpenAI-compatible APIs.
type OpenAIClient struct {
	config     OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(config OpenAIConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid BaseURL: must start with http:// or https://")
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	return &OpenAIClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close releases idle connections.
func (c *OpenAIClient) Close() error {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// Chat sends the messages and returns a streaming response, retrying
// transient failures with exponential backoff.
func (c *OpenAIClient) Chat(ctx context.Context, messages []chat.Message) (*StreamingResponse, error) {
	requestBody := map[string]interface{}{
		"model":      c.config.Model,
		"messages":   toWireMessages(messages),
		"stream":     true,
		"max_tokens": c.config.MaxTokens,
	}
	if c.config.Temperature > 0 {
		requestBody["temperature"] = c.config.Temperature
	}

	var lastErr error
	var lastStatusCode int

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay * time.Duration(1<<uint(attempt-1))
			logging.Info("retrying request", "attempt", attempt, "delay", delay, "last_status", lastStatusCode)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		response, err := c.doStreamRequest(ctx, requestBody)
		if err == nil {
			return response, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			lastStatusCode = httpErr.StatusCode
		}
		if !IsRetryable(err, lastStatusCode) {
			return nil, err
		}
		logging.Warn("request failed, will retry", "attempt", attempt, "error", err, "status", lastStatusCode)
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.config.MaxRetries, lastErr)
}

func toWireMessages(messages []chat.Message) []map[string]string {
	wire := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, map[string]string{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}
	return wire
}

// streamEvent is the subset of a chat-completion SSE frame we consume.
type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// doStreamRequest performs a single streaming request attempt.
func (c *OpenAIClient) doStreamRequest(ctx context.Context, requestBody map[string]interface{}) (*StreamingResponse, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/v1/chat/completions"
	logging.Info("chat-completion request", "url", url, "model", c.config.Model)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			body = []byte("(failed to read response body)")
		}
		resp.Body.Close()
		logging.Warn("API error", "status", resp.StatusCode, "body", string(body))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	chunks := make(chan Chunk, 10)

	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			// Check cancellation before scanning the next frame.
			select {
			case <-ctx.Done():
				select {
				case chunks <- Chunk{Err: ctx.Err(), Done: true}:
				default:
				}
				return
			default:
			}

			if !scanner.Scan() {
				break
			}
			line := scanner.Text()

			// SSE frames: "data: {...}" or "data:{...}".
			var data string
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
			} else if strings.HasPrefix(line, "data:") {
				data = strings.TrimPrefix(line, "data:")
			} else {
				continue
			}

			// End-of-stream sentinel: skipped, never parsed as content.
			if data == "[DONE]" {
				select {
				case chunks <- Chunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}

			var event streamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				// A malformed or partial frame must not lose the rest
				// of the stream.
				logging.Warn("skipping malformed SSE frame", "error", err, "data", truncate(data, 100))
				continue
			}

			if event.Error != nil {
				select {
				case chunks <- Chunk{
					Err:  fmt.Errorf("API error (%s): %s", event.Error.Type, event.Error.Message),
					Done: true,
				}:
				case <-ctx.Done():
				}
				return
			}

			chunk := Chunk{}
			if len(event.Choices) > 0 {
				chunk.Text = event.Choices[0].Delta.Content
				if event.Choices[0].FinishReason != nil && *event.Choices[0].FinishReason != "" {
					chunk.Done = true
				}
			}
			if chunk.Text == "" && !chunk.Done {
				continue
			}

			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			logging.Warn("SSE scanner error", "error", err)
			select {
			case chunks <- Chunk{Err: err, Done: true}:
			case <-ctx.Done():
			}
			return
		}

		// Stream ended without [DONE]; treat as complete.
		select {
		case chunks <- Chunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return &StreamingResponse{Chunks: chunks}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
