package config

import "time"

// Default configuration values.
const (
	DefaultProvider        = "openai"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultOllamaModel     = "qwen2.5-coder"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultMaxOutputTokens = 8192

	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultHTTPTimeout = 120 * time.Second

	DefaultWatchDebounceMs = 500

	DefaultFallbackCommitMessage = "apply model-suggested changes"
)

// DefaultModelFor returns the default model name for a provider.
func DefaultModelFor(provider string) string {
	switch provider {
	case "ollama":
		return DefaultOllamaModel
	case "gemini":
		return DefaultGeminiModel
	default:
		return DefaultOpenAIModel
	}
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			ActiveProvider: DefaultProvider,
			Retry: RetryConfig{
				MaxRetries:  DefaultMaxRetries,
				RetryDelay:  DefaultRetryDelay,
				HTTPTimeout: DefaultHTTPTimeout,
			},
		},
		Model: ModelConfig{
			// Name is resolved per provider by Load once overrides settle.
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		Git: GitConfig{
			FallbackMessage: DefaultFallbackCommitMessage,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: DefaultWatchDebounceMs,
		},
	}
}
