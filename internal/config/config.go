package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAuth is returned by Validate when no API key is configured for a
// provider that requires one.
var ErrMissingAuth = errors.New("no API key configured")

// Config represents the main application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Model   ModelConfig   `yaml:"model"`
	Git     GitConfig     `yaml:"git"`
	Logging LoggingConfig `yaml:"logging"`
	Watcher WatcherConfig `yaml:"watcher"`
}

// APIConfig holds provider and credential settings.
type APIConfig struct {
	// Separate keys per provider
	OpenAIKey string `yaml:"openai_key,omitempty"`
	GeminiKey string `yaml:"gemini_key,omitempty"`
	OllamaKey string `yaml:"ollama_key,omitempty"` // optional, for remote Ollama servers

	// Endpoint overrides
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"` // default: https://api.openai.com
	OllamaBaseURL string `yaml:"ollama_base_url,omitempty"` // default: http://localhost:11434

	// Active provider: openai, ollama, gemini (default: openai)
	ActiveProvider string `yaml:"active_provider"`

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig holds retry settings for API calls.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// ModelConfig holds model-related settings.
type ModelConfig struct {
	Name            string  `yaml:"name"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// GitConfig holds version-control settings.
type GitConfig struct {
	// AutoCommit controls whether `ask` commits applied changes automatically.
	AutoCommit bool `yaml:"auto_commit"`
	// FallbackMessage is used when the commit-message request fails.
	FallbackMessage string `yaml:"fallback_message"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	ToFile bool   `yaml:"to_file"`
}

// WatcherConfig holds file-watcher settings.
type WatcherConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// GetActiveProvider returns the active provider name.
func (c *APIConfig) GetActiveProvider() string {
	if c.ActiveProvider != "" {
		return c.ActiveProvider
	}
	return "openai"
}

// GetActiveKey returns the API key for the active provider.
func (c *APIConfig) GetActiveKey() string {
	switch c.GetActiveProvider() {
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	case "ollama":
		// Optional: local servers need no key.
		return c.OllamaKey
	}
	return ""
}

// Validate checks the configuration for unrecoverable problems.
func (c *Config) Validate() error {
	provider := c.API.GetActiveProvider()
	switch provider {
	case "openai", "gemini":
		if c.API.GetActiveKey() == "" {
			return fmt.Errorf("%w for provider %q", ErrMissingAuth, provider)
		}
	case "ollama":
		// No key required.
	default:
		return fmt.Errorf("unknown provider %q (want openai, ollama, or gemini)", provider)
	}
	if c.Model.Name == "" {
		return errors.New("model name is empty")
	}
	return nil
}
