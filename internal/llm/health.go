package llm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthStatus describes one backend's readiness without spending a
// generation call: credential presence for hosted APIs, endpoint
// reachability for self-hosted ones.
type HealthStatus struct {
	Provider   Provider `json:"provider"`
	Configured bool     `json:"configured"`
	Reachable  bool     `json:"reachable"`
	Detail     string   `json:"detail,omitempty"`
}

// configurable is implemented by adapters that require a credential.
type configurable interface {
	Configured() bool
}

// pinger is implemented by adapters whose endpoint can be probed cheaply.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health probes every registered backend concurrently and returns one
// status per provider, ordered by the default preference sequence.
func (e *Engine) Health(ctx context.Context) []HealthStatus {
	providers := make([]Provider, 0, len(e.generators))
	for p := range e.generators {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool {
		return orderRank(providers[i]) < orderRank(providers[j])
	})

	statuses := make([]HealthStatus, len(providers))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			statuses[i] = e.probe(ctx, e.generators[p])
			return nil
		})
	}
	// Probes report their failures in the status records; the group only
	// coordinates completion.
	_ = g.Wait()

	return statuses
}

func (e *Engine) probe(ctx context.Context, gen Generator) HealthStatus {
	status := HealthStatus{Provider: gen.Provider(), Configured: true, Reachable: true}

	if c, ok := gen.(configurable); ok && !c.Configured() {
		status.Configured = false
		status.Reachable = false
		status.Detail = "missing credential"
		return status
	}

	if p, ok := gen.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			status.Reachable = false
			status.Detail = err.Error()
		}
	}

	return status
}

func orderRank(p Provider) int {
	for i, candidate := range DefaultOrder() {
		if candidate == p {
			return i
		}
	}
	return len(DefaultOrder())
}

// Ping checks that the Ollama daemon answers on its version endpoint.
func (o *OllamaGenerator) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := strings.TrimSuffix(o.settings.BaseURL, "/") + "/api/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := o.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama daemon returned status %d", resp.StatusCode)
	}
	return nil
}
