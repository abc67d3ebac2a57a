package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-agent/internal/config"
)

// ollamaTimeout bounds a single Ollama call. Self-hosted models run on
// whatever hardware the operator has, so the budget is the largest.
const ollamaTimeout = 30 * time.Second

// OllamaGenerator adapts a self-hosted Ollama daemon to the Generator
// contract. Ollama requires no credential; only the base endpoint URL and
// model name come from configuration.
type OllamaGenerator struct {
	settings config.ProviderSettings
	http     *http.Client
}

// NewOllama creates an Ollama adapter.
func NewOllama(settings config.ProviderSettings) *OllamaGenerator {
	return &OllamaGenerator{
		settings: settings,
		http:     &http.Client{},
	}
}

// Provider returns the backend identity.
func (o *OllamaGenerator) Provider() Provider {
	return ProviderOllama
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate posts the prompt to the daemon's /api/generate endpoint with
// streaming disabled and returns the full response text.
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaTimeout)
	defer cancel()

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.settings.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.7,
			NumPredict:  768,
		},
	})
	if err != nil {
		return "", transportError(ProviderOllama, fmt.Errorf("encode request: %w", err))
	}

	url := strings.TrimSuffix(o.settings.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", transportError(ProviderOllama, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", asProviderError(ProviderOllama, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(ProviderOllama, resp.StatusCode, "unexpected status")
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", transportError(ProviderOllama, fmt.Errorf("decode response: %w", err))
	}
	if out.Error != "" {
		return "", transportError(ProviderOllama, fmt.Errorf("ollama: %s", out.Error))
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", emptyResponseError(ProviderOllama)
	}
	return text, nil
}
