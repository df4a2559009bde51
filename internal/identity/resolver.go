// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/constants"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
)

// TokenVerifier is the contract the resolver needs from the token service.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// Resolver turns a bearer token into an authenticated [Principal].
//
// # Request Flow
//
//	Unauthenticated -> TokenPresent -> TokenValid|TokenInvalid -> IdentityResolved|IdentityNotFound
//
// Steps are strictly sequential within one request: verify first, then the
// cache, then the authoritative repository. The only side effect is a
// best-effort cache population — resolving the same token twice yields the
// same principal (modulo snapshot staleness).
//
// # Security
//
// Every failure mode collapses to a single generic 401. Which check failed
// (bad signature, expiry, deleted user) is visible only in server logs, so
// the endpoint cannot be used as a validation oracle.
type Resolver struct {
	tokens TokenVerifier
	cache  *Cache
	source Source
	logger *slog.Logger
}

// NewResolver wires the token verifier, cache, and authoritative source.
func NewResolver(tokens TokenVerifier, cache *Cache, source Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		cache:  cache,
		source: source,
		logger: logger,
	}
}

// Resolve authenticates a bearer token string.
//
// # Returns
//   - *Principal: The resolved caller identity.
//   - error: apperr.Unauthorized with one generic message for every failure.
func (resolver *Resolver) Resolve(ctx context.Context, tokenString string) (*Principal, error) {

	// ── 1. Token Presence ─────────────────────────────────────────────────
	if tokenString == "" {
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	// ── 2. Token Verification ─────────────────────────────────────────────
	claims, err := resolver.tokens.Verify(tokenString)
	if err != nil {
		resolver.logger.Debug("identity_token_rejected", slog.Any("error", err))
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	// Refresh tokens are only exchangeable at the refresh endpoint; they do
	// not authenticate ordinary requests.
	if claims.Kind() == sec.KindRefresh {
		resolver.logger.Debug("identity_refresh_token_on_access_path",
			slog.String("subject", claims.Subject),
		)
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	subject := claims.Subject

	// ── 3. Cached Snapshot ────────────────────────────────────────────────
	// A hit only skips the cold path; the repository is still consulted so a
	// snapshot can never resurrect a deleted account.
	if cached, outcome := resolver.cache.Lookup(ctx, subject); outcome == OutcomeHit {
		if principal, findErr := resolver.source.FindByID(ctx, cached.ID); findErr == nil {
			return principal, nil
		}
		// Deleted since cached: fall through to the authoritative path.
	}

	// ── 4. Authoritative Resolution ───────────────────────────────────────
	principal, err := resolver.source.FindByID(ctx, subject)
	if err != nil {
		resolver.logger.Info("identity_subject_not_found", slog.String("subject", subject))
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	// ── 5. Cache Population ───────────────────────────────────────────────
	resolver.cache.Save(ctx, principal)

	return principal, nil
}
