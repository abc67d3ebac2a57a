// Package config provides configuration loading and validation for the
// interview engine. All values come from the process environment; .env
// files are loaded by the CLI entry point before this package runs.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default model identifiers per backend. Overridable via environment.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultOllamaModel = "llama3.1"

	// DefaultOllamaBaseURL points at a local Ollama daemon.
	DefaultOllamaBaseURL = "http://localhost:11434"
)

// ProviderSettings holds the per-backend configuration record: credential,
// model identifier and (for self-hosted backends) a base endpoint URL.
// An empty APIKey is a valid state at load time; the adapter reports it as
// a configuration failure at call time, so the process can run with only a
// subset of backends configured.
type ProviderSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config represents the full process configuration.
type Config struct {
	// Server
	Port        int
	DatabaseURL string // empty disables the analysis result sink

	// Logging
	JSONLogs bool
	Debug    bool

	// Generation backends
	Gemini ProviderSettings
	Groq   ProviderSettings
	Ollama ProviderSettings
}

// Load reads configuration from environment variables, applying documented
// defaults for everything optional:
//
//	PORT              (default 8080)
//	DATABASE_URL      (optional; PostgreSQL URL for the result sink)
//	LOG_JSON          ("true" enables JSON log encoding)
//	LOG_DEBUG         ("true" enables debug level)
//	GEMINI_API_KEY    GEMINI_MODEL
//	GROQ_API_KEY      GROQ_MODEL
//	OLLAMA_BASE_URL   OLLAMA_MODEL
func Load() (*Config, error) {
	cfg := &Config{
		Port:        8080,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JSONLogs:    boolEnv("LOG_JSON"),
		Debug:       boolEnv("LOG_DEBUG"),
		Gemini: ProviderSettings{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envOr("GEMINI_MODEL", DefaultGeminiModel),
		},
		Groq: ProviderSettings{
			APIKey: os.Getenv("GROQ_API_KEY"),
			Model:  envOr("GROQ_MODEL", DefaultGroqModel),
		},
		Ollama: ProviderSettings{
			Model:   envOr("OLLAMA_MODEL", DefaultOllamaModel),
			BaseURL: envOr("OLLAMA_BASE_URL", DefaultOllamaBaseURL),
		},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be in 1..65535, got %d", c.Port)
	}
	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("config error: ollama base URL cannot be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
