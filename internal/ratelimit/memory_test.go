// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_AllowsUpToBudget(t *testing.T) {
	limiter := NewMemoryLimiter()
	limit := Limit{Requests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(context.Background(), "login", "user:alice", limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should fit the budget", i+1)
		assert.Equal(t, int64(2-i), decision.Remaining)
	}

	decision, err := limiter.Allow(context.Background(), "login", "user:alice", limit)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "request over budget should be denied")
	assert.Equal(t, int64(0), decision.Remaining)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, time.Minute)
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	limiter := NewMemoryLimiter()
	currentTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return currentTime }

	limit := Limit{Requests: 1, Window: time.Minute}

	decision, err := limiter.Allow(context.Background(), "message_create", "user:bob", limit)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = limiter.Allow(context.Background(), "message_create", "user:bob", limit)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// Advance past the window boundary: a full budget is available again.
	currentTime = currentTime.Add(time.Minute + time.Second)

	decision, err = limiter.Allow(context.Background(), "message_create", "user:bob", limit)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "fresh window should admit the request")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter()
	limit := Limit{Requests: 1, Window: time.Minute}

	decision, err := limiter.Allow(context.Background(), "login", "user:alice", limit)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = limiter.Allow(context.Background(), "login", "user:alice", limit)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "alice exhausted her budget")

	// Another caller and another operation still have full budgets.
	decision, err = limiter.Allow(context.Background(), "login", "user:carol", limit)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "carol's budget is separate from alice's")

	decision, err = limiter.Allow(context.Background(), "message_create", "user:alice", limit)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "a different operation has its own budget")
}

func TestMemoryLimiter_ConcurrentChecksAdmitExactlyBudget(t *testing.T) {
	limiter := NewMemoryLimiter()
	limit := Limit{Requests: 5, Window: time.Minute}

	var allowed atomic.Int64
	var group sync.WaitGroup

	for i := 0; i < 50; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			decision, err := limiter.Allow(context.Background(), "login", "user:dave", limit)
			require.NoError(t, err)
			if decision.Allowed {
				allowed.Add(1)
			}
		}()
	}
	group.Wait()

	assert.Equal(t, int64(5), allowed.Load(), "exactly the budget must be admitted under contention")
}
