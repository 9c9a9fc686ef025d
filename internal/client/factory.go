package client

import (
	"context"
	"fmt"

	"gopair/internal/config"
)

// New creates a Client for the configured provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	provider := cfg.API.GetActiveProvider()

	switch provider {
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.API.OpenAIKey,
			BaseURL:     cfg.API.OpenAIBaseURL,
			Model:       cfg.Model.Name,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxOutputTokens,
			MaxRetries:  cfg.API.Retry.MaxRetries,
			RetryDelay:  cfg.API.Retry.RetryDelay,
			HTTPTimeout: cfg.API.Retry.HTTPTimeout,
		})
	case "ollama":
		return NewOllamaClient(OllamaConfig{
			BaseURL:     cfg.API.OllamaBaseURL,
			APIKey:      cfg.API.OllamaKey,
			Model:       cfg.Model.Name,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxOutputTokens,
			HTTPTimeout: cfg.API.Retry.HTTPTimeout,
		})
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:      cfg.API.GeminiKey,
			Model:       cfg.Model.Name,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxOutputTokens,
			MaxRetries:  cfg.API.Retry.MaxRetries,
			RetryDelay:  cfg.API.Retry.RetryDelay,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
