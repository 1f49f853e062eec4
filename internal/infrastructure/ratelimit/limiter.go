// Package ratelimit enforces per-client request quotas over a fixed window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter answers whether a client may make another request right now.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window limiter backed by an in-process map.
// Windows are keyed by client identifier and reset lazily on access.
type MemoryLimiter struct {
	windows map[string]*window
	mu      sync.Mutex
	max     int
	period  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter allowing max requests per period.
func NewMemoryLimiter(max int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
}

// Allow counts a request against the client's current window.
func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[clientID]
	if !exists || now.After(w.resetAt) {
		l.windows[clientID] = &window{count: 1, resetAt: now.Add(l.period)}
		return true, nil
	}

	if w.count >= l.max {
		return false, nil
	}
	w.count++
	return true, nil
}

// Prune drops expired windows. The cleanup worker calls this periodically so
// one-off clients do not accumulate forever.
func (l *MemoryLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	pruned := 0
	for clientID, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, clientID)
			pruned++
		}
	}
	return pruned
}
