// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/constants"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
	"github.com/taibuivan/kaiwa/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying security tokens.
type TokenProvider interface {
	// Issue creates a signed token for the given subject.
	//
	// # Parameters
	//   - subject: The user ID.
	//   - timeToLive: The duration before the token expires.
	//   - kind: Access or refresh.
	Issue(subject string, timeToLive time.Duration, kind sec.TokenKind) (string, error)

	// Verify checks the signature and validity of a token string.
	Verify(tokenString string) (*sec.Claims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokens         TokenProvider
	accessTTL      time.Duration
	refreshTTL     time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokens TokenProvider,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokens:         tokens,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: apperr.Conflict (if the email is taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.Must(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user. The unique index on email backstops the pre-check
	// above under concurrent registrations.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair represents a successfully issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

/*
Login validates user credentials and issues a token pair.

Description: Verifies identity, performs constant-time password comparison,
and issues a fresh access/refresh pair.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: Transport-ready tokens
  - error: apperr.Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenPair, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	// Verify the password hash using bcrypt's constant-time comparison to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	return service.issuePair(user.ID)
}

// # Token Refresh Flow

/*
Refresh exchanges a valid refresh token for a brand new token pair.

Description: Only tokens carrying the refresh marker are exchangeable here;
an access token presented to this flow is rejected. The subject must still
exist at exchange time.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: Freshly issued tokens
  - error: apperr.Unauthorized for any invalid or mismatched token
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := service.tokens.Verify(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	if claims.Kind() != sec.KindRefresh {
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	// The account may have been deleted since the token was issued.
	user, err := service.userRepository.FindByID(context, claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized(constants.CredentialsMessage)
	}

	return service.issuePair(user.ID)
}

// issuePair creates a matched access/refresh token pair for one subject.
func (service *Service) issuePair(userID string) (*TokenPair, error) {
	accessToken, err := service.tokens.Issue(userID, service.accessTTL, sec.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.Issue(userID, service.refreshTTL, sec.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.BearerScheme,
	}, nil
}
