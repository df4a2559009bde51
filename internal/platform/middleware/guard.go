// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/ctxutil"
	"github.com/taibuivan/kaiwa/internal/platform/respond"
	"github.com/taibuivan/kaiwa/internal/ratelimit"
)

// Guard enforces a shared fixed-window budget on one route.
//
// # Key Derivation
//
// Authenticated requests are counted per user ("user:<id>"), so one person
// hammering login does not lock out everyone behind the same NAT. Anonymous
// requests fall back to the client IP ("ip:<addr>").
//
// # Failure Policy
//
// The guard fails open: when the limiter store is unreachable, the request
// proceeds and the incident is logged.
//
// # Flow
//  1. Derive the caller key (user ID if authenticated, client IP otherwise).
//  2. Atomically check-and-consume one slot in the shared window.
//  3. On denial, abort with 429 and a Retry-After header.
func Guard(limiter ratelimit.Limiter, operation string, limit ratelimit.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Caller Key ─────────────────────────────────────────────────
			key := "ip:" + RealIP(request)
			if principal := ctxutil.GetPrincipal(request.Context()); principal != nil {
				key = "user:" + principal.ID
			}

			// ── 2. Budget Check ───────────────────────────────────────────────
			decision, err := limiter.Allow(request.Context(), operation, key, limit)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Error("rate_limit_check_failed",
					slog.String("operation", operation),
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Denial ─────────────────────────────────────────────────────
			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
