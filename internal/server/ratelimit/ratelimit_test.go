package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsWithinLimit(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 5, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("client-a"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("client-a"), "burst capacity exhausted")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 1, Window: time.Minute})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false, Limit: 1, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("client-a"))
	}
}

func TestBucket_Refills(t *testing.T) {
	now := time.Now()
	b := &bucket{
		capacity:   2,
		refillRate: 1, // one token per second
		tokens:     0,
		lastRefill: now,
		lastAccess: now,
	}

	assert.False(t, b.allow(now))
	assert.True(t, b.allow(now.Add(1500*time.Millisecond)))
	assert.False(t, b.allow(now.Add(1500*time.Millisecond)))
	// Refill never exceeds capacity.
	assert.True(t, b.allow(now.Add(time.Hour)))
	assert.True(t, b.allow(now.Add(time.Hour)))
	assert.False(t, b.allow(now.Add(time.Hour)))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_REQUESTS", "100")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "10")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 100, cfg.Limit)
	assert.Equal(t, 10*time.Second, cfg.Window)
}
