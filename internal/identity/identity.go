// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity implements the authentication core of the Kaiwa API.

It turns an inbound bearer token into a resolved caller identity, using a
short-lived Redis snapshot as an accelerator in front of the authoritative
user repository.

# Architecture

  - [Principal]: the lightweight identity record attached to a request.
  - [Cache]: read-through snapshot store with tagged lookup outcomes.
  - [Resolver]: orchestrates token verification, cache lookup, and the
    authoritative repository fallback.

The package owns no storage of its own: the key-value store and the user
source are injected through constructors, composed once at startup.
*/
package identity

import "context"

// Principal is the resolved identity of an authenticated caller.
//
// It mirrors the cached snapshot exactly: only public profile fields, never
// the credential hash. Handlers that need more than these fields must fetch
// the full account through their own repository using [Principal.ID].
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Source is the authoritative lookup the resolver falls back to.
//
// The user repository (or a test fake) is adapted into this single-method
// contract at wiring time; the resolver never sees a storage package.
type Source interface {
	// FindByID returns the principal for the given user ID, or an error if
	// the account does not exist. The source is always consulted, even on a
	// cache hit — a cached snapshot is never trusted for existence.
	FindByID(ctx context.Context, id string) (*Principal, error)
}

// SourceFunc adapts a plain function to the [Source] interface.
type SourceFunc func(ctx context.Context, id string) (*Principal, error)

// FindByID implements [Source].
func (f SourceFunc) FindByID(ctx context.Context, id string) (*Principal, error) {
	return f(ctx, id)
}
