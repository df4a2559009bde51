// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that records TTLs and can be forced to fail.
type fakeStore struct {
	entries map[string]string
	ttls    map[string]time.Duration
	failing bool
	sets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (store *fakeStore) Get(_ context.Context, key string) (string, error) {
	if store.failing {
		return "", errors.New("connection refused")
	}
	value, ok := store.entries[key]
	if !ok {
		return "", ErrNoEntry
	}
	return value, nil
}

func (store *fakeStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if store.failing {
		return errors.New("connection refused")
	}
	store.entries[key] = value
	store.ttls[key] = ttl
	store.sets++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCache_SaveThenLookup(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, 120*time.Second, discardLogger())

	principal := &Principal{ID: "u-1", Name: "alice", Email: "alice@example.com"}
	cache.Save(context.Background(), principal)

	require.Equal(t, 1, store.sets)
	assert.Equal(t, 120*time.Second, store.ttls["user:u-1"], "snapshots carry the configured TTL")

	cached, outcome := cache.Lookup(context.Background(), "u-1")
	require.Equal(t, OutcomeHit, outcome)
	assert.Equal(t, principal, cached)
}

func TestCache_LookupMiss(t *testing.T) {
	cache := NewCache(newFakeStore(), time.Minute, discardLogger())

	cached, outcome := cache.Lookup(context.Background(), "u-absent")
	assert.Equal(t, OutcomeMiss, outcome)
	assert.Nil(t, cached)
}

func TestCache_CorruptEntryBehavesLikeMiss(t *testing.T) {
	store := newFakeStore()
	store.entries["user:u-1"] = "{not json"
	cache := NewCache(store, time.Minute, discardLogger())

	cached, outcome := cache.Lookup(context.Background(), "u-1")
	assert.Equal(t, OutcomeMiss, outcome)
	assert.Nil(t, cached)
}

func TestCache_StoreFailureIsTagged(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	cache := NewCache(store, time.Minute, discardLogger())

	cached, outcome := cache.Lookup(context.Background(), "u-1")
	assert.Equal(t, OutcomeStoreError, outcome)
	assert.Nil(t, cached)

	// Saves against a failing store are swallowed, never surfaced.
	cache.Save(context.Background(), &Principal{ID: "u-1"})
}
