// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/constants"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
)

// fakeVerifier maps raw token strings to canned claims.
type fakeVerifier struct {
	claims map[string]*sec.Claims
}

func (verifier *fakeVerifier) Verify(tokenString string) (*sec.Claims, error) {
	claims, ok := verifier.claims[tokenString]
	if !ok {
		return nil, errors.New("sec: invalid token")
	}
	return claims, nil
}

// fakeSource is an in-memory authoritative user lookup with a call counter.
type fakeSource struct {
	users map[string]*Principal
	calls int
}

func (source *fakeSource) FindByID(_ context.Context, id string) (*Principal, error) {
	source.calls++
	principal, ok := source.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return principal, nil
}

func accessClaims(subject string) *sec.Claims {
	return &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

func refreshClaims(subject string) *sec.Claims {
	return &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		TokenType:        string(sec.KindRefresh),
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
	assert.Equal(t, constants.CredentialsMessage, appError.Message)
}

func TestResolver_ColdPathPopulatesCache(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{
		"u-1": {ID: "u-1", Name: "alice", Email: "alice@example.com"},
	}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"good": accessClaims("u-1")}}

	resolver := NewResolver(verifier, cache, source, discardLogger())

	principal, err := resolver.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u-1", principal.ID)
	assert.Equal(t, 1, store.sets, "cold resolution writes a snapshot")

	cached, outcome := cache.Lookup(context.Background(), "u-1")
	require.Equal(t, OutcomeHit, outcome)
	assert.Equal(t, "alice", cached.Name)
}

func TestResolver_HitStillConfirmsAgainstSource(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{
		"u-1": {ID: "u-1", Name: "alice", Email: "alice@example.com"},
	}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"good": accessClaims("u-1")}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	cache.Save(context.Background(), source.users["u-1"])

	principal, err := resolver.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u-1", principal.ID)
	assert.Equal(t, 1, source.calls, "a hit still reconciles against the repository")
}

func TestResolver_DeletedUserCannotBeResurrectedByCache(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"good": accessClaims("u-1")}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	// Snapshot exists but the account is gone from the repository.
	cache.Save(context.Background(), &Principal{ID: "u-1", Name: "alice"})

	principal, err := resolver.Resolve(context.Background(), "good")
	assert.Nil(t, principal)
	assertUnauthorized(t, err)
}

func TestResolver_InvalidTokenIsGeneric(t *testing.T) {
	cache := NewCache(newFakeStore(), time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	for _, tokenString := range []string{"", "garbage"} {
		principal, err := resolver.Resolve(context.Background(), tokenString)
		assert.Nil(t, principal)
		assertUnauthorized(t, err)
	}
	assert.Zero(t, source.calls, "invalid tokens never reach the repository")
}

func TestResolver_RefreshTokenRejectedOnAccessPath(t *testing.T) {
	cache := NewCache(newFakeStore(), time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{
		"u-1": {ID: "u-1", Name: "alice"},
	}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"refresh": refreshClaims("u-1")}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	principal, err := resolver.Resolve(context.Background(), "refresh")
	assert.Nil(t, principal)
	assertUnauthorized(t, err)
	assert.Zero(t, source.calls)
}

func TestResolver_UnknownSubjectIsGeneric(t *testing.T) {
	cache := NewCache(newFakeStore(), time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"good": accessClaims("u-gone")}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	principal, err := resolver.Resolve(context.Background(), "good")
	assert.Nil(t, principal)
	assertUnauthorized(t, err)
}

func TestResolver_StoreOutageDoesNotBlockResolution(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	cache := NewCache(store, time.Minute, discardLogger())
	source := &fakeSource{users: map[string]*Principal{
		"u-1": {ID: "u-1", Name: "alice"},
	}}
	verifier := &fakeVerifier{claims: map[string]*sec.Claims{"good": accessClaims("u-1")}}
	resolver := NewResolver(verifier, cache, source, discardLogger())

	principal, err := resolver.Resolve(context.Background(), "good")
	require.NoError(t, err, "an unreachable cache degrades to the cold path")
	assert.Equal(t, "u-1", principal.ID)
}
