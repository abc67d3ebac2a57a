// Package ratelimit guards the generation endpoints with per-client token
// buckets. Every interview turn burns a provider call, so abusive clients
// are cut off here rather than at the provider's quota.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// bucket is a token bucket refilling at a steady rate.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
	b.lastAccess = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	Limit   int           // requests per window (also burst capacity)
	Window  time.Duration // refill window
}

// LoadConfig reads RATE_LIMIT_ENABLED (default true), RATE_LIMIT_REQUESTS
// (default 30) and RATE_LIMIT_WINDOW_SECONDS (default 60).
func LoadConfig() *Config {
	cfg := &Config{Enabled: true, Limit: 30, Window: time.Minute}

	if v, err := strconv.ParseBool(os.Getenv("RATE_LIMIT_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && v > 0 {
		cfg.Limit = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); err == nil && v > 0 {
		cfg.Window = time.Duration(v) * time.Second
	}

	return cfg
}

// Limiter manages one bucket per client id.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may proceed and consumes one token if
// so.
func (l *Limiter) Allow(clientID string) bool {
	if !l.config.Enabled {
		return true
	}
	return l.bucketFor(clientID).allow(time.Now())
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) bucketFor(clientID string) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[clientID]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[clientID]; ok {
		return b
	}
	now := time.Now()
	b = &bucket{
		capacity:   float64(l.config.Limit),
		refillRate: float64(l.config.Limit) / l.config.Window.Seconds(),
		tokens:     float64(l.config.Limit),
		lastRefill: now,
		lastAccess: now,
	}
	l.buckets[clientID] = b
	return b
}

// cleanupLoop drops buckets idle for several windows so the map does not
// grow with every client ever seen.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.Window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-3 * l.config.Window)
			l.mu.Lock()
			for id, b := range l.buckets {
				b.mu.Lock()
				idle := b.lastAccess.Before(cutoff)
				b.mu.Unlock()
				if idle {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
