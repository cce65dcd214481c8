// Package ratelimit implements a fixed-window request limiter keyed by
// caller identity.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter allows at most Max requests per identity within each Window.
// Counters reset when a window elapses; there is no carry-over between
// windows.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	buckets map[string]*window
	now     func() time.Time
}

func New(max int, windowSize time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	if windowSize <= 0 {
		windowSize = time.Minute
	}
	return &Limiter{
		max:     max,
		window:  windowSize,
		buckets: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether the identity may proceed and, when denied, how long
// until its window resets.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists || now.Sub(b.start) >= l.window {
		l.buckets[key] = &window{start: now, count: 1}
		return true, 0
	}

	if b.count >= l.max {
		return false, b.start.Add(l.window).Sub(now)
	}
	b.count++
	return true, 0
}

// Prune drops identities whose window has fully elapsed. Called periodically
// so the bucket map does not grow with every identity ever seen.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, key)
		}
	}
}
