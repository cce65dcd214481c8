package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowUpToMax(t *testing.T) {
	limiter := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := limiter.Allow("farmer-1")
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, retryAfter := limiter.Allow("farmer-1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestIdentitiesAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute)

	ok, _ := limiter.Allow("farmer-1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("farmer-2")
	assert.True(t, ok)
	ok, _ = limiter.Allow("farmer-1")
	assert.False(t, ok)
}

func TestWindowReset(t *testing.T) {
	limiter := New(1, time.Minute)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("farmer-1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("farmer-1")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("farmer-1")
	assert.True(t, ok, "new window should reset the counter")
}

func TestNoCarryOverBetweenWindows(t *testing.T) {
	limiter := New(2, time.Minute)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.Allow("farmer-1")
	now = now.Add(time.Minute)

	// Fresh window grants the full budget again.
	for i := 0; i < 2; i++ {
		ok, _ := limiter.Allow("farmer-1")
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow("farmer-1")
	assert.False(t, ok)
}

func TestPruneDropsExpiredWindows(t *testing.T) {
	limiter := New(1, time.Minute)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.Allow("farmer-1")
	limiter.Allow("farmer-2")
	assert.Len(t, limiter.buckets, 2)

	now = now.Add(2 * time.Minute)
	limiter.Prune()
	assert.Empty(t, limiter.buckets)
}

func TestDefensiveDefaults(t *testing.T) {
	limiter := New(0, 0)
	ok, _ := limiter.Allow("farmer-1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("farmer-1")
	assert.False(t, ok)
}
