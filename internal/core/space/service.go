// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package space

import (
	"context"
	"fmt"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
	"github.com/taibuivan/kaiwa/pkg/pagination"
	"github.com/taibuivan/kaiwa/pkg/slug"
	"github.com/taibuivan/kaiwa/pkg/uuidv7"
)

// Service implements space lifecycle and membership use cases.
type Service struct {
	spaceRepository SpaceRepository
}

// NewService constructs a new space [Service].
func NewService(spaceRepo SpaceRepository) *Service {
	return &Service{spaceRepository: spaceRepo}
}

// # Space Lifecycle

// CreateInput holds the data required to open a new space.
type CreateInput struct {
	Name        string
	Description string // Optional free-text blurb shown in listings.
	Password    string // Optional. Empty means the space is open to anyone.
}

/*
Create opens a new space owned by the given user.

Description: The owner automatically becomes the first member. An optional
password is bcrypt-hashed before storage; the plain text never persists.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: CreateInput

Returns:
  - *Space: Created entity
  - error: apperr.Conflict (name already taken) or storage errors
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Space, error) {
	passwordHash := ""
	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("space_service_hash_failed: %w", err)
		}
		passwordHash = hash
	}

	space := &Space{
		ID:           uuidv7.Must(),
		Name:         input.Name,
		Description:  input.Description,
		Slug:         slug.From(input.Name),
		OwnerID:      ownerID,
		PasswordHash: passwordHash,
	}

	if err := service.spaceRepository.Create(context, space); err != nil {
		return nil, err
	}

	return space, nil
}

/*
Get returns a single space by ID.

Parameters:
  - context: context.Context
  - spaceID: string

Returns:
  - *Space: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, spaceID string) (*Space, error) {
	return service.spaceRepository.FindByID(context, spaceID)
}

/*
List returns a page of spaces.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Space: Page of entities
  - int64: Total count for pagination metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Space, int64, error) {
	return service.spaceRepository.List(context, params)
}

/*
Delete removes a space and everything in it.

Description: Owner-only. Memberships and messages disappear together with
the space in one transaction.

Parameters:
  - context: context.Context
  - spaceID: string
  - callerID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden (non-owner), or storage errors
*/
func (service *Service) Delete(context context.Context, spaceID, callerID string) error {
	space, err := service.spaceRepository.FindByID(context, spaceID)
	if err != nil {
		return err
	}

	if space.OwnerID != callerID {
		return apperr.Forbidden("Only the owner can delete this space")
	}

	return service.spaceRepository.Delete(context, spaceID)
}

// # Membership Flow

/*
Join adds the caller to a space, checking its password if protected.

Description: A protected space distinguishes two failure modes: a missing
password is a 403 (the caller did not even attempt the challenge), while a
wrong password is a 401 (the challenge was attempted and failed).

Parameters:
  - context: context.Context
  - spaceID: string
  - userID: string
  - password: string (may be empty)

Returns:
  - *Membership: The created membership
  - error: apperr.NotFound, apperr.Forbidden, apperr.Unauthorized,
    apperr.Conflict (already a member), or storage errors
*/
func (service *Service) Join(context context.Context, spaceID, userID, password string) (*Membership, error) {
	space, err := service.spaceRepository.FindByID(context, spaceID)
	if err != nil {
		return nil, err
	}

	alreadyMember, err := service.spaceRepository.IsMember(context, spaceID, userID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, apperr.Conflict("Already a member of this space")
	}

	if space.Protected() {
		if password == "" {
			return nil, apperr.Forbidden("A password is required to join this space")
		}
		if !sec.CheckPasswordHash(password, space.PasswordHash) {
			return nil, apperr.Unauthorized("Incorrect space password")
		}
	}

	membership := &Membership{
		SpaceID: spaceID,
		UserID:  userID,
	}

	if err := service.spaceRepository.AddMember(context, membership); err != nil {
		return nil, err
	}

	return membership, nil
}

/*
Leave removes the caller's membership from a space.

Description: The owner cannot leave their own space; they delete it instead.

Parameters:
  - context: context.Context
  - spaceID: string
  - userID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden (owner or non-member), or storage errors
*/
func (service *Service) Leave(context context.Context, spaceID, userID string) error {
	space, err := service.spaceRepository.FindByID(context, spaceID)
	if err != nil {
		return err
	}

	if space.OwnerID == userID {
		return apperr.Forbidden("The owner cannot leave their own space")
	}

	isMember, err := service.spaceRepository.IsMember(context, spaceID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.Forbidden("Not a member of this space")
	}

	return service.spaceRepository.RemoveMember(context, spaceID, userID)
}

/*
ListMembers returns a page of memberships, visible to members only.

Parameters:
  - context: context.Context
  - spaceID: string
  - callerID: string
  - params: pagination.Params

Returns:
  - []*Membership: Page of memberships
  - int64: Total member count
  - error: apperr.NotFound, apperr.Forbidden (non-member), or storage errors
*/
func (service *Service) ListMembers(context context.Context, spaceID, callerID string, params pagination.Params) ([]*Membership, int64, error) {
	if _, err := service.spaceRepository.FindByID(context, spaceID); err != nil {
		return nil, 0, err
	}

	isMember, err := service.spaceRepository.IsMember(context, spaceID, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, apperr.Forbidden("Not a member of this space")
	}

	return service.spaceRepository.ListMembers(context, spaceID, params)
}

/*
RequireMember verifies that a user belongs to an existing space.

Description: Shared gate used by the message domain before reading or
writing anything inside a space.

Parameters:
  - context: context.Context
  - spaceID: string
  - userID: string

Returns:
  - error: apperr.NotFound (no such space), apperr.Forbidden (non-member),
    or retrieval failures
*/
func (service *Service) RequireMember(context context.Context, spaceID, userID string) error {
	if _, err := service.spaceRepository.FindByID(context, spaceID); err != nil {
		return err
	}

	isMember, err := service.spaceRepository.IsMember(context, spaceID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.Forbidden("Not a member of this space")
	}

	return nil
}
