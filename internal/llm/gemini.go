package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/interview-agent/internal/config"
)

// geminiTimeout bounds a single Gemini call. The hosted API is the fastest
// backend and gets the tightest budget.
const geminiTimeout = 15 * time.Second

// GeminiGenerator adapts the Google Gemini API to the Generator contract.
type GeminiGenerator struct {
	settings config.ProviderSettings

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGemini creates a Gemini adapter. The underlying SDK client is created
// lazily on first use so that a missing credential surfaces as a per-call
// configuration failure instead of a construction error.
func NewGemini(settings config.ProviderSettings) *GeminiGenerator {
	return &GeminiGenerator{settings: settings}
}

// Provider returns the backend identity.
func (g *GeminiGenerator) Provider() Provider {
	return ProviderGemini
}

// Configured reports whether the adapter has a credential.
func (g *GeminiGenerator) Configured() bool {
	return strings.TrimSpace(g.settings.APIKey) != ""
}

// Generate sends the prompt to Gemini and returns the first textual
// response. The call is bounded by geminiTimeout; hitting it cancels the
// in-flight request.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", configError(ProviderGemini, "missing API key")
	}

	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	client, err := g.init(ctx)
	if err != nil {
		return "", transportError(ProviderGemini, err)
	}

	model := client.GenerativeModel(g.settings.Model)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1024)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", g.classify(err)
	}

	text, err := geminiResponseText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Close releases the SDK client if one was created.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiGenerator) init(ctx context.Context) (*genai.Client, error) {
	g.initOnce.Do(func() {
		client, err := genai.NewClient(context.WithoutCancel(ctx), option.WithAPIKey(g.settings.APIKey))
		if err != nil {
			g.initErr = fmt.Errorf("create gemini client: %w", err)
			return
		}
		g.client = client
	})
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.client, nil
}

// classify maps SDK errors onto the retryable/non-retryable taxonomy using
// the HTTP status carried by googleapi errors when present.
func (g *GeminiGenerator) classify(err error) *ProviderError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return statusError(ProviderGemini, apiErr.Code, apiErr.Message)
	}
	return asProviderError(ProviderGemini, err)
}

// geminiResponseText extracts the concatenated text parts of the first
// candidate. A response with no usable text counts as a retryable empty
// payload.
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", emptyResponseError(ProviderGemini)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", emptyResponseError(ProviderGemini)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", emptyResponseError(ProviderGemini)
	}
	return text, nil
}
