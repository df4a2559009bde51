// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements profile management for registered users.

It reuses the auth domain's User entity and repository; this package adds the
use cases that operate on an already-authenticated account rather than on
credentials.
*/
package account

import (
	"context"

	"github.com/taibuivan/kaiwa/internal/users/auth"
	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// Service implements account profile use cases.
type Service struct {
	userRepository auth.UserRepository
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

/*
GetProfile returns the profile of the given user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: Hydrated profile
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.userRepository.FindByID(context, userID)
}

// UpdateProfileInput holds partial profile changes. Nil fields are untouched.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

/*
UpdateProfile applies partial updates to the user's mutable fields.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated profile
  - error: apperr.NotFound, apperr.Conflict (email taken), or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
ListUsers returns a page of registered users.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of profiles
  - int64: Total count for pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*auth.User, int64, error) {
	return service.userRepository.List(context, params)
}
