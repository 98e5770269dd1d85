// Package ratelimit implements fixed-window rate limiters for login throttling.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"contactbook/internal/domain"
)

// ErrCapacity is returned when the in-memory limiter tracks too many keys.
var ErrCapacity = errors.New("rate limiter capacity exceeded")

// Memory is a process-local fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*window
	maxKeys int
}

type window struct {
	count int
	end   time.Time
}

var _ domain.RateLimiter = (*Memory)(nil)

// NewMemory creates a limiter tracking at most maxKeys keys at once
// (10000 when maxKeys <= 0). A nil now uses time.Now.
func NewMemory(maxKeys int, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &Memory{
		now:     now,
		windows: make(map[string]*window),
		maxKeys: maxKeys,
	}
}

// Allow counts one hit for key and reports whether it fits in the window.
func (m *Memory) Allow(_ context.Context, key string, limit int, win time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || now.After(w.end) {
		if !ok && len(m.windows) >= m.maxKeys {
			m.gc(now)
			if len(m.windows) >= m.maxKeys {
				return domain.RateLimitDecision{}, ErrCapacity
			}
		}
		w = &window{end: now.Add(win)}
		m.windows[key] = w
	}

	if w.count >= limit {
		return domain.RateLimitDecision{Limit: limit, ResetAt: w.end}, nil
	}
	w.count++
	return domain.RateLimitDecision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - w.count,
		ResetAt:   w.end,
	}, nil
}

func (m *Memory) gc(now time.Time) {
	for key, w := range m.windows {
		if now.After(w.end) {
			delete(m.windows, key)
		}
	}
}
