// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/kaiwa/internal/identity"
	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/constants"
	"github.com/taibuivan/kaiwa/internal/platform/ctxutil"
	"github.com/taibuivan/kaiwa/internal/platform/respond"
)

// IdentityResolver defines the interface needed to authenticate requests.
//
// The identity package's resolver is the production implementation; tests
// inject fakes.
type IdentityResolver interface {
	Resolve(ctx context.Context, tokenString string) (*identity.Principal, error)
}

// Authenticate extracts and resolves the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve the token to a [*identity.Principal] (signature,
//     expiry, token kind, and account existence are all checked there).
//  4. Inject the principal into the request context for downstream use.
//
// A present-but-invalid token aborts with 401 rather than degrading to
// anonymous, so a client with a stale token learns immediately.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != constants.BearerScheme {
				respond.Error(writer, request, apperr.Unauthorized(constants.CredentialsMessage))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			principal, err := resolver.Resolve(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized(constants.CredentialsMessage))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
