// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kaiwa/internal/platform/constants"
)

// ErrNoEntry is returned by a [Store] when no value exists under a key.
var ErrNoEntry = errors.New("identity: no cache entry")

// Store is the minimal key-value behavior the cache needs.
//
// The Redis adapter is the production implementation; tests inject an
// in-memory fake. Absence is signalled with [ErrNoEntry] so that callers
// can tell a miss from a connectivity failure.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Outcome tags the result of a cache lookup.
//
// "Not cached" and "store down" are distinct outcomes: the resolver treats
// both as a fallthrough to the repository, but they log at different
// severities.
type Outcome int

const (
	// OutcomeHit means a well-formed snapshot was found.
	OutcomeHit Outcome = iota

	// OutcomeMiss means no snapshot exists (or it was malformed and discarded).
	OutcomeMiss

	// OutcomeStoreError means the store could not be reached. Treated like a
	// miss by callers, but logged at a higher severity.
	OutcomeStoreError
)

// # Redis Adapter

// RedisStore adapts a go-redis client to the [Store] interface.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements [Store]. A Redis nil reply maps to [ErrNoEntry].
func (store *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoEntry
		}
		return "", err
	}
	return value, nil
}

// Set implements [Store].
func (store *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return store.client.Set(ctx, key, value, ttl).Err()
}

// # Read-Through Cache

// Cache accelerates identity resolution with short-lived snapshots.
//
// # Invariants
//
//   - Best-effort only: a miss, a corrupt entry, or an unreachable store
//     never blocks resolution — the caller falls back to the authoritative
//     repository.
//   - Never trusted for existence: the resolver re-confirms the user against
//     the repository even on a hit.
//   - Write-on-miss, not write-through: profile mutations do not invalidate
//     entries, so a snapshot may be stale for up to the configured TTL.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache constructs a read-through identity cache.
//
// # Parameters
//   - store: The shared key-value store (injected, never a package global).
//   - ttl: Snapshot lifetime (120s in the default configuration).
//   - logger: Structured logger for swallowed store failures.
func NewCache(store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Lookup fetches the snapshot for a user ID and tags the outcome.
//
// Malformed payloads are discarded and reported as a miss: a corrupt entry
// must behave exactly like an absent one.
func (cache *Cache) Lookup(ctx context.Context, userID string) (*Principal, Outcome) {
	payload, err := cache.store.Get(ctx, cacheKey(userID))
	if err != nil {
		if errors.Is(err, ErrNoEntry) {
			return nil, OutcomeMiss
		}
		cache.logger.Warn("identity_cache_unavailable",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return nil, OutcomeStoreError
	}

	principal := &Principal{}
	if err := json.Unmarshal([]byte(payload), principal); err != nil || principal.ID == "" {
		cache.logger.Warn("identity_cache_corrupt_entry", slog.String("user_id", userID))
		return nil, OutcomeMiss
	}

	return principal, OutcomeHit
}

// Save writes a snapshot back to the store, best-effort.
//
// Write failures are logged and swallowed: cache unavailability is never a
// user-visible error. Concurrent saves for the same user are harmless —
// both write the same idempotent snapshot, last writer wins.
func (cache *Cache) Save(ctx context.Context, principal *Principal) {
	payload, err := json.Marshal(principal)
	if err != nil {
		cache.logger.Warn("identity_cache_marshal_failed", slog.String("user_id", principal.ID))
		return
	}

	if err := cache.store.Set(ctx, cacheKey(principal.ID), string(payload), cache.ttl); err != nil {
		cache.logger.Warn("identity_cache_write_failed",
			slog.String("user_id", principal.ID),
			slog.Any("error", err),
		)
	}
}

// cacheKey builds the store key for a user snapshot ("user:<id>").
func cacheKey(userID string) string {
	return constants.RedisPrefixIdentity + userID
}
