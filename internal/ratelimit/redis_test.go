// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration coverage against a real Redis; skipped when none is reachable.
func TestRedisLimiter_Integration(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping integration test: redis not available (%v)", err)
	}

	limiter, err := NewRedisLimiter(ctx, client)
	require.NoError(t, err)

	t.Run("budget enforcement", func(t *testing.T) {
		key := fmt.Sprintf("user:it_%d", time.Now().UnixNano())
		limit := Limit{Requests: 2, Window: time.Minute}

		decision, err := limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, int64(1), decision.Remaining)

		decision, err = limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, int64(0), decision.Remaining)

		decision, err = limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Greater(t, decision.RetryAfter, time.Duration(0))
		assert.LessOrEqual(t, decision.RetryAfter, time.Minute)
	})

	t.Run("shared state across instances", func(t *testing.T) {
		key := fmt.Sprintf("user:shared_%d", time.Now().UnixNano())
		limit := Limit{Requests: 1, Window: time.Minute}

		// Two limiter instances over the same store stand in for two API
		// replicas behind a load balancer.
		limiterA, err := NewRedisLimiter(ctx, client)
		require.NoError(t, err)
		limiterB, err := NewRedisLimiter(ctx, client)
		require.NoError(t, err)

		decision, err := limiterA.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		decision, err = limiterB.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.False(t, decision.Allowed, "replica B must see replica A's consumption")
	})

	t.Run("window expiry frees the budget", func(t *testing.T) {
		key := fmt.Sprintf("user:expiry_%d", time.Now().UnixNano())
		limit := Limit{Requests: 1, Window: time.Second}

		decision, err := limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		decision, err = limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)

		time.Sleep(1100 * time.Millisecond)

		decision, err = limiter.Allow(ctx, "login", key, limit)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "expired window should admit again")
	})
}
