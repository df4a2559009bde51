// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kaiwa/internal/platform/constants"
)

//go:embed fixed_window.lua
var fixedWindowScript string

// RedisLimiter is the production [Limiter], backed by a shared Redis store.
//
// # Atomicity
//
// Each check runs one server-side Lua script, so increment, expiry arming,
// and TTL read happen as a single atomic step. Two replicas checking the
// same key concurrently can never both observe the last free slot.
type RedisLimiter struct {
	client    *redis.Client
	scriptSHA string
}

// NewRedisLimiter loads the window script and returns a ready limiter.
//
// The script is uploaded once at construction and invoked by SHA afterwards;
// a flushed script cache falls back to a full EVAL transparently.
func NewRedisLimiter(ctx context.Context, client *redis.Client) (*RedisLimiter, error) {
	sha, err := client.ScriptLoad(ctx, fixedWindowScript).Result()
	if err != nil {
		return nil, fmt.Errorf("ratelimit: failed to load window script: %w", err)
	}

	return &RedisLimiter{
		client:    client,
		scriptSHA: sha,
	}, nil
}

// Allow implements [Limiter].
//
// # Parameters
//   - operation: Logical operation name ("login", "message_create").
//   - key: Caller identity ("user:<id>" or "ip:<addr>").
//   - limit: The fixed-window budget to enforce.
func (limiter *RedisLimiter) Allow(ctx context.Context, operation, key string, limit Limit) (Decision, error) {
	counterKey := counterKey(operation, key)
	windowMillis := limit.Window.Milliseconds()

	result, err := limiter.client.EvalSha(ctx, limiter.scriptSHA, []string{counterKey}, windowMillis).Result()
	if err != nil && redis.HasErrorPrefix(err, "NOSCRIPT") {
		result, err = limiter.client.Eval(ctx, fixedWindowScript, []string{counterKey}, windowMillis).Result()
	}
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: window script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", result)
	}

	count, countOK := values[0].(int64)
	ttlMillis, ttlOK := values[1].(int64)
	if !countOK || !ttlOK {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", result)
	}

	if count > limit.Requests {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: time.Duration(ttlMillis) * time.Millisecond,
		}, nil
	}

	return Decision{
		Allowed:   true,
		Remaining: limit.Requests - count,
	}, nil
}

// counterKey builds the store key ("ratelimit:<operation>:<caller>").
func counterKey(operation, key string) string {
	return constants.RedisPrefixRateLimit + operation + ":" + key
}
