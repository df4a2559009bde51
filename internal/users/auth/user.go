// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer of the Kaiwa platform.

It defines the core User entity and the logic for registration, credential
verification, and token-pair issuance.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/kaiwa/internal/identity"
)

// # Domain Entities

// User represents a registered member of the Kaiwa platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// Principal converts the entity into its identity-layer snapshot.
func (user *User) Principal() *identity.Principal {
	return &identity.Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// IdentitySource adapts a [UserRepository] to the identity resolver's
// lookup contract.
func IdentitySource(repository UserRepository) identity.SourceFunc {
	return func(ctx context.Context, id string) (*identity.Principal, error) {
		user, err := repository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return user.Principal(), nil
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
)
