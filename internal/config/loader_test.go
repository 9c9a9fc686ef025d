package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv pins every variable the loader reads so ambient shell state
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOPAIR_API_KEY", "GOPAIR_PROVIDER", "GOPAIR_MODEL",
		"GOPAIR_BASE_URL", "GOPAIR_LOG_LEVEL",
		"OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadGenericKeyFollowsProviderOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOPAIR_PROVIDER", "gemini")
	t.Setenv("GOPAIR_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.API.GetActiveProvider())
	assert.Equal(t, "secret", cfg.API.GeminiKey)
	assert.Empty(t, cfg.API.OpenAIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoadGenericKeyDefaultsToOpenAI(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOPAIR_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.API.GetActiveProvider())
	assert.Equal(t, "secret", cfg.API.OpenAIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoadBaseURLFollowsProviderOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOPAIR_PROVIDER", "ollama")
	t.Setenv("GOPAIR_BASE_URL", "http://models.local:11434")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://models.local:11434", cfg.API.OllamaBaseURL)
	assert.Empty(t, cfg.API.OpenAIBaseURL)
}

func TestLoadDefaultModelTracksProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOPAIR_PROVIDER", "ollama")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, cfg.Model.Name)
}

func TestLoadDefaultModelWithoutOverrides(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model.Name)
}

func TestLoadExplicitModelWinsOverProviderDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOPAIR_PROVIDER", "gemini")
	t.Setenv("GOPAIR_MODEL", "my-tuned-model")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "my-tuned-model", cfg.Model.Name)
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)
	configDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "gopair")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"api:\n  active_provider: openai\n  openai_key: from-file\nmodel:\n  name: file-model\n",
	), 0o644))
	t.Setenv("GOPAIR_PROVIDER", "gemini")
	t.Setenv("GOPAIR_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.API.GetActiveProvider())
	assert.Equal(t, "from-env", cfg.API.GeminiKey)
	assert.Equal(t, "from-file", cfg.API.OpenAIKey)
	assert.Equal(t, "file-model", cfg.Model.Name)
}
