package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-agent/internal/config"
)

const (
	// groqTimeout bounds a single Groq call.
	groqTimeout = 20 * time.Second

	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
)

// GroqGenerator adapts the Groq chat-completions API (OpenAI-compatible)
// to the Generator contract.
type GroqGenerator struct {
	settings config.ProviderSettings
	endpoint string
	http     *http.Client
}

// NewGroq creates a Groq adapter.
func NewGroq(settings config.ProviderSettings) *GroqGenerator {
	endpoint := settings.BaseURL
	if endpoint == "" {
		endpoint = groqEndpoint
	}
	return &GroqGenerator{
		settings: settings,
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

// Provider returns the backend identity.
func (g *GroqGenerator) Provider() Provider {
	return ProviderGroq
}

// Configured reports whether the adapter has a credential.
func (g *GroqGenerator) Configured() bool {
	return strings.TrimSpace(g.settings.APIKey) != ""
}

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt as a single user message and returns the first
// choice's content.
func (g *GroqGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", configError(ProviderGroq, "missing API key")
	}

	ctx, cancel := context.WithTimeout(ctx, groqTimeout)
	defer cancel()

	body, err := json.Marshal(groqChatRequest{
		Model:       g.settings.Model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", transportError(ProviderGroq, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", transportError(ProviderGroq, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.settings.APIKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", asProviderError(ProviderGroq, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(ProviderGroq, resp.StatusCode, groqErrorMessage(resp.Body))
	}

	var out groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", transportError(ProviderGroq, fmt.Errorf("decode response: %w", err))
	}

	if len(out.Choices) == 0 {
		return "", emptyResponseError(ProviderGroq)
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", emptyResponseError(ProviderGroq)
	}
	return text, nil
}

// groqErrorMessage pulls the API error message out of a non-2xx body,
// falling back to a generic message when the body is not the expected JSON.
func groqErrorMessage(body io.Reader) string {
	var out groqChatResponse
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&out); err == nil &&
		out.Error != nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return "unexpected status"
}
