// Package llm provides the text-generation provider adapters and the
// ordered fallback engine that drives the interview orchestrator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Provider identifies one of the supported generation backends. The set is
// closed; free-form provider strings never cross package boundaries.
type Provider string

// Supported backends.
const (
	// ProviderGemini is the Google Gemini API backend.
	ProviderGemini Provider = "gemini"
	// ProviderGroq is the Groq chat-completions backend (OpenAI-compatible).
	ProviderGroq Provider = "groq"
	// ProviderOllama is a self-hosted Ollama daemon.
	ProviderOllama Provider = "ollama"
)

// IsValid reports whether p is a known backend.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderGroq, ProviderOllama:
		return true
	}
	return false
}

// DefaultOrder is the fixed preference sequence: fastest and cheapest
// first, the self-hosted fallback last.
func DefaultOrder() []Provider {
	return []Provider{ProviderGemini, ProviderGroq, ProviderOllama}
}

// Generator is the contract every provider adapter implements. Generate
// turns a non-empty prompt into a non-empty, trimmed text payload; every
// failure it returns is a *ProviderError.
type Generator interface {
	Provider() Provider
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderError describes one failed generation attempt. Retryable marks
// transient conditions the fallback engine may route around; configuration
// failures and unexpected 4xx responses are not retryable.
type ProviderError struct {
	Provider  Provider
	Status    int // HTTP status when available, 0 otherwise
	Message   string
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// configError reports a missing credential or similar setup problem. It is
// raised before any network call is attempted and is never retryable.
func configError(p Provider, message string) *ProviderError {
	return &ProviderError{Provider: p, Message: message, Retryable: false}
}

// transportError classifies a failed network round trip. Timeouts and
// cancellations count as transient.
func transportError(p Provider, err error) *ProviderError {
	return &ProviderError{
		Provider:  p,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// emptyResponseError marks a 2xx response whose payload trimmed to nothing.
// The provider returned nothing useful, so the next one gets a chance.
func emptyResponseError(p Provider) *ProviderError {
	return &ProviderError{Provider: p, Message: "empty response body", Retryable: true}
}

// statusError classifies a non-2xx HTTP response by status code.
func statusError(p Provider, status int, message string) *ProviderError {
	return &ProviderError{
		Provider:  p,
		Status:    status,
		Message:   message,
		Retryable: retryableStatus(status),
	}
}

// retryableStatus reports whether an HTTP status marks a transient
// condition: rate limiting, request timeout, or a server-side failure.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// asProviderError normalizes any adapter error to a *ProviderError.
// Anything that is not already classified, including context deadline and
// cancellation errors, surfaces as a transient transport failure.
func asProviderError(p Provider, err error) *ProviderError {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr
	}
	return transportError(p, err)
}
