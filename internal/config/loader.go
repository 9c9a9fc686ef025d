package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	// The model default depends on the provider that won the overrides.
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModelFor(cfg.API.GetActiveProvider())
	}
	return cfg, nil
}

// ConfigDir returns the directory holding the config file and logs.
func ConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gopair")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "gopair")
}

func getConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	// The provider override is applied first: it decides where the generic
	// key and base URL overrides land.
	if provider := os.Getenv("GOPAIR_PROVIDER"); provider != "" {
		cfg.API.ActiveProvider = provider
	}
	if model := os.Getenv("GOPAIR_MODEL"); model != "" {
		cfg.Model.Name = model
	}

	// Priority: GOPAIR_API_KEY > provider-specific keys
	if key := os.Getenv("GOPAIR_API_KEY"); key != "" {
		switch cfg.API.GetActiveProvider() {
		case "gemini":
			cfg.API.GeminiKey = key
		case "ollama":
			cfg.API.OllamaKey = key
		default:
			cfg.API.OpenAIKey = key
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.API.OpenAIKey == "" {
		cfg.API.OpenAIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.API.GeminiKey == "" {
		cfg.API.GeminiKey = key
	}

	if baseURL := os.Getenv("GOPAIR_BASE_URL"); baseURL != "" {
		switch cfg.API.GetActiveProvider() {
		case "ollama":
			cfg.API.OllamaBaseURL = baseURL
		default:
			cfg.API.OpenAIBaseURL = baseURL
		}
	}
	if level := os.Getenv("GOPAIR_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
