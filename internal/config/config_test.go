package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "LOG_LEVEL", "LOG_ENCODING", "CORS_ALLOW_ORIGINS",
		"AI_CLIENT_TYPE", "AI_BASE_URL", "AI_MODEL", "AI_TIMEOUT",
		"AI_TEMPERATURE", "AI_MAX_TOKENS", "AI_TOP_P", "AI_API_KEY",
		"IMAGE_SERVER_BASE_URL", "IMAGE_SERVER_TIMEOUT", "IMAGE_RATIO",
		"IMAGE_PROMPT_STYLE_SUFFIX",
	} {
		// t.Setenv регистрирует восстановление, Unsetenv реально очищает
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "openai", cfg.AIClientType)
	assert.Equal(t, 120*time.Second, cfg.AITimeout)
	assert.Equal(t, 1024, cfg.AIMaxTokens)
	assert.Equal(t, "2:3", cfg.ImageRatio)
	assert.Empty(t, cfg.AIAPIKey)
	assert.Empty(t, cfg.ImageServerBaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AI_CLIENT_TYPE", "ollama")
	t.Setenv("AI_BASE_URL", "http://localhost:11434")
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("IMAGE_SERVER_BASE_URL", "http://localhost:7860")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ollama", cfg.AIClientType)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, "http://localhost:7860", cfg.ImageServerBaseURL)
}

func TestAIConfigured(t *testing.T) {
	t.Run("OpenAI requires an API key", func(t *testing.T) {
		cfg := &Config{AIClientType: "openai", AIBaseURL: "https://openrouter.ai/api/v1"}
		assert.False(t, cfg.AIConfigured())
		cfg.AIAPIKey = "sk-test"
		assert.True(t, cfg.AIConfigured())
	})

	t.Run("Ollama requires only a base URL", func(t *testing.T) {
		cfg := &Config{AIClientType: "ollama"}
		assert.False(t, cfg.AIConfigured())
		cfg.AIBaseURL = "http://localhost:11434"
		assert.True(t, cfg.AIConfigured())
	})

	t.Run("Client type is case-insensitive", func(t *testing.T) {
		cfg := &Config{AIClientType: "Ollama", AIBaseURL: "http://localhost:11434"}
		assert.True(t, cfg.AIConfigured())
	})
}
