// Package server provides the HTTP REST API for the interview engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-agent/internal/identity"
	"github.com/jonathan/interview-agent/internal/interview"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/server/ratelimit"
)

// healthProber is the slice of the fallback engine the providers health
// endpoint needs.
type healthProber interface {
	Health(ctx context.Context) []llm.HealthStatus
}

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	orchestrator *interview.Orchestrator
	resolver     identity.Resolver
	prober       healthProber
	rateLimiter  *ratelimit.Limiter
	log          *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Port         int
	Orchestrator *interview.Orchestrator
	Resolver     identity.Resolver
	Prober       healthProber
	Logger       *zap.Logger
}

// New creates a server instance wiring the interview endpoints.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = identity.Unresolved{}
	}

	s := &Server{
		orchestrator: cfg.Orchestrator,
		resolver:     resolver,
		prober:       cfg.Prober,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.LoadConfig()),
		log:          log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /interviews", s.handleStartInterview)
	mux.HandleFunc("POST /interviews/{id}/turns", s.handleNextTurn)
	mux.HandleFunc("GET /interviews/{id}/transcript", s.handleGetTranscript)
	mux.HandleFunc("POST /interviews/{id}/end", s.handleEndInterview)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /providers/health", s.handleProvidersHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation turns can walk three providers
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exhausted their token bucket.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(clientID(r)) {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProvidersHealth probes every generation backend.
func (s *Server) handleProvidersHealth(w http.ResponseWriter, r *http.Request) {
	if s.prober == nil {
		s.errorResponse(w, http.StatusNotFound, "Provider probing is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"providers": s.prober.Health(r.Context()),
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the client for rate limiting. The IP from
// RemoteAddr; X-Forwarded-For is deliberately ignored since there is no
// trusted proxy list.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
