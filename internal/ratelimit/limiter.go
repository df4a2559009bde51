// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit enforces per-operation fixed-window request budgets.

Counters live in a shared store, so every API replica sees the same window
and the budget holds across horizontal scale-out. The window is fixed, not
sliding: it starts at the first request and expires exactly one period
later, which permits up to 2x the nominal rate across a window boundary.

Two implementations are provided:

  - RedisLimiter: the production limiter, one atomic Lua script per check.
  - MemoryLimiter: a single-process limiter for tests and local development.
*/
package ratelimit

import (
	"context"
	"time"
)

// Limit describes a fixed-window budget for one operation.
type Limit struct {

	// Requests is the number of requests admitted per window.
	Requests int64

	// Window is the length of the counting window.
	Window time.Duration
}

// Decision is the outcome of a single limiter check.
type Decision struct {

	// Allowed reports whether the request fits in the current window.
	Allowed bool

	// Remaining is the budget left in the window after this request.
	Remaining int64

	// RetryAfter is how long until the window expires. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter is the contract enforced in front of guarded operations.
//
// # Contract
//
//   - Check-and-consume is atomic: under concurrent checks for the same
//     (operation, key), at most Requests of them are allowed per window.
//   - Keys scope independently: exhausting one caller's budget never
//     affects another caller or another operation.
//   - An error return means the limiter itself failed; callers decide the
//     fail-open/fail-closed policy, not the limiter.
type Limiter interface {
	Allow(ctx context.Context, operation, key string, limit Limit) (Decision, error)
}
