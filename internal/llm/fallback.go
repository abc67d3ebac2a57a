package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Attempt records one failed provider call inside a fallback sequence.
type Attempt struct {
	Provider Provider `json:"provider"`
	Message  string   `json:"message"`
	Status   int      `json:"status,omitempty"`
}

// FallbackError is returned when the engine gives up: either every
// provider in the order failed with a retryable error, or one of them
// failed with a non-retryable error and the sequence was cut short.
// Attempts holds one record per provider tried, in attempted order.
type FallbackError struct {
	Attempts []Attempt
}

func (e *FallbackError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Provider, a.Message))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Engine tries an ordered list of providers until one returns usable text.
// It is stateless and safe for concurrent use.
type Engine struct {
	generators map[Provider]Generator
	log        *zap.Logger
}

// NewEngine creates a fallback engine over the given adapters.
func NewEngine(log *zap.Logger, generators ...Generator) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	byProvider := make(map[Provider]Generator, len(generators))
	for _, g := range generators {
		byProvider[g.Provider()] = g
	}
	return &Engine{generators: byProvider, log: log}
}

// Generate walks order strictly left to right and returns the first
// successful text together with the provider that produced it.
//
// A retryable failure moves on to the next provider. A non-retryable
// failure aborts the whole sequence without trying the remaining
// providers; a credential that is missing for one backend will not be
// fixed by calling a different one, and the same halt applies to every
// error not flagged retryable. Both exhaustion and the short circuit
// return a *FallbackError carrying the per-provider records.
func (e *Engine) Generate(ctx context.Context, prompt string, order []Provider) (string, Provider, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", "", fmt.Errorf("prompt must not be empty")
	}
	if len(order) == 0 {
		order = DefaultOrder()
	}

	attempts := make([]Attempt, 0, len(order))
	for _, p := range order {
		res := e.tryProvider(ctx, p, prompt)
		if text, ok := res.success(); ok {
			e.log.Debug("generation succeeded",
				zap.String("provider", string(p)),
				zap.Int("failed_attempts", len(attempts)),
			)
			return text, p, nil
		}
		attempts = append(attempts, Attempt{
			Provider: res.err.Provider,
			Message:  res.err.Message,
			Status:   res.err.Status,
		})
		e.log.Warn("provider attempt failed",
			zap.String("provider", string(p)),
			zap.Int("status", res.err.Status),
			zap.Bool("retryable", res.err.Retryable),
			zap.String("message", res.err.Message),
		)
		if !res.err.Retryable {
			break
		}
	}

	return "", "", &FallbackError{Attempts: attempts}
}

// attemptResult carries either the text of a successful call or its
// classified failure.
type attemptResult struct {
	text string
	err  *ProviderError
}

func (r *attemptResult) success() (string, bool) {
	if r.err == nil {
		return r.text, true
	}
	return "", false
}

func (e *Engine) tryProvider(ctx context.Context, p Provider, prompt string) *attemptResult {
	gen, ok := e.generators[p]
	if !ok {
		return &attemptResult{err: configError(p, "provider not registered")}
	}

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return &attemptResult{err: asProviderError(p, err)}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &attemptResult{err: emptyResponseError(p)}
	}
	return &attemptResult{text: text}
}
