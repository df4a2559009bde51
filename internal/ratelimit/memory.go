// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// window is one live counting window for a single (operation, key) pair.
type window struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is a single-process [Limiter] for tests and local runs.
//
// It mirrors the Redis limiter's fixed-window semantics behind one mutex.
// State is per-process, so it must not be used behind a load balancer.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window

	// now is swappable so tests can step through window boundaries without
	// sleeping.
	now func() time.Time
}

// NewMemoryLimiter creates an empty in-process limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements [Limiter].
func (limiter *MemoryLimiter) Allow(_ context.Context, operation, key string, limit Limit) (Decision, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	currentTime := limiter.now()
	counterKey := counterKey(operation, key)

	current, exists := limiter.windows[counterKey]
	if !exists || !currentTime.Before(current.resetAt) {
		// First request of a fresh window.
		limiter.windows[counterKey] = &window{
			count:   1,
			resetAt: currentTime.Add(limit.Window),
		}
		return Decision{Allowed: true, Remaining: limit.Requests - 1}, nil
	}

	current.count++
	if current.count > limit.Requests {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: current.resetAt.Sub(currentTime),
		}, nil
	}

	return Decision{Allowed: true, Remaining: limit.Requests - current.count}, nil
}
