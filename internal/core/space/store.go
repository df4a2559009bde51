// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package space

import (
	"context"

	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// # Space Data Access

// SpaceRepository defines the data access contract for spaces and memberships.
type SpaceRepository interface {

	/*
		Create persists a new space together with its owner's membership.

		Both rows are written in one transaction so a space can never exist
		without its owner as a member.

		Parameters:
		  - context: context.Context
		  - space: *Space

		Returns:
		  - error: apperr.Conflict on duplicate slug, or persistence failures
	*/
	Create(context context.Context, space *Space) error

	/*
		FindByID returns the space with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Space: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Space, error)

	/*
		List returns a page of spaces ordered by creation time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Space: Page of entities
		  - int64: Total space count
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*Space, int64, error)

	/*
		Delete removes the space, its memberships, and every message in it.

		The cascade runs in a single transaction: either everything is gone
		or nothing is.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		AddMember records a user's membership in a space.

		Parameters:
		  - context: context.Context
		  - membership: *Membership

		Returns:
		  - error: apperr.Conflict if already a member, or persistence failures
	*/
	AddMember(context context.Context, membership *Membership) error

	/*
		RemoveMember deletes a user's membership row.

		Parameters:
		  - context: context.Context
		  - spaceID: string
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RemoveMember(context context.Context, spaceID, userID string) error

	/*
		IsMember reports whether the user has joined the space.

		Parameters:
		  - context: context.Context
		  - spaceID: string
		  - userID: string

		Returns:
		  - bool: Membership status
		  - error: Database retrieval failures
	*/
	IsMember(context context.Context, spaceID, userID string) (bool, error)

	/*
		ListMembers returns a page of memberships for one space.

		Parameters:
		  - context: context.Context
		  - spaceID: string
		  - params: pagination.Params

		Returns:
		  - []*Membership: Page of memberships
		  - int64: Total member count
		  - error: Database retrieval failures
	*/
	ListMembers(context context.Context, spaceID string, params pagination.Params) ([]*Membership, int64, error)
}
