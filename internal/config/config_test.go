package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "LOG_JSON", "LOG_DEBUG",
		"GEMINI_API_KEY", "GEMINI_MODEL",
		"GROQ_API_KEY", "GROQ_MODEL",
		"OLLAMA_BASE_URL", "OLLAMA_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.JSONLogs)
	assert.Equal(t, DefaultGeminiModel, cfg.Gemini.Model)
	assert.Equal(t, DefaultGroqModel, cfg.Groq.Model)
	assert.Equal(t, DefaultOllamaModel, cfg.Ollama.Model)
	assert.Equal(t, DefaultOllamaBaseURL, cfg.Ollama.BaseURL)
}

// TestLoad_MissingKeysIsValid: an unconfigured backend is a load-time
// non-event; the failure belongs to the call that needs the credential.
func TestLoad_MissingKeysIsValid(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Empty(t, cfg.Groq.APIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/interviews")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/interviews", cfg.DatabaseURL)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Groq.Model)
	assert.Equal(t, "http://ollama.internal:11434", cfg.Ollama.BaseURL)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 8080, Ollama: ProviderSettings{BaseURL: DefaultOllamaBaseURL}}
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Port = 8080
	cfg.Ollama.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg, "no secret disables identity resolution")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err = NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 24, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "48")
	cfg, err = NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}
