// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// identity resolver and the auth service via constructors.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two tokens issued per login.
type TokenKind string

const (
	// KindAccess authenticates ordinary API requests.
	KindAccess TokenKind = "access"

	// KindRefresh may only be exchanged for a new token pair.
	KindRefresh TokenKind = "refresh"
)

// Claims is the payload embedded inside an issued token.
//
// # Wire Format
//
// Access tokens carry {sub, exp, iat, iss}. Refresh tokens additionally carry
// a "type":"refresh" marker claim; access tokens omit the field entirely, so
// an absent marker means access.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is the refresh marker. Empty for access tokens.
	TokenType string `json:"type,omitempty"`
}

// Kind reports which [TokenKind] the claims represent.
func (c *Claims) Kind() TokenKind {
	if c.TokenType == string(KindRefresh) {
		return KindRefresh
	}
	return KindAccess
}

// TokenService issues and verifies symmetrically-signed expiring tokens.
//
// # Trust Model
//
// A single shared secret signs and validates every token. There is no key id
// and no rotation: compromise of the secret invalidates all trust at once.
// Rotation support is a documented hardening extension, not implemented here.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
}

// NewTokenService creates a TokenService for the configured HMAC algorithm.
//
// # Parameters
//   - secret: The shared signing secret (environment-supplied).
//   - algorithm: One of "HS256", "HS384", "HS512".
//   - issuer: The 'iss' claim stamped on every issued token.
func NewTokenService(secret, algorithm, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("sec: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: algorithm %q is not an HMAC method", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
	}, nil
}

// Issue creates a signed token for the given subject.
//
// # Parameters
//   - subject: The user ID, serialized as a string.
//   - timeToLive: Duration until the 'exp' claim; expiry is absolute
//     (issue time + ttl).
//   - kind: Access or refresh; refresh stamps the marker claim.
func (service *TokenService) Issue(subject string, timeToLive time.Duration, kind TokenKind) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}
	if kind == KindRefresh {
		claims.TokenType = string(KindRefresh)
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string.
//
// # Failure Modes
//
// Returns an error when the signature does not match, the token has expired,
// or the subject claim is absent. It does NOT check the token kind — callers
// that care about access-vs-refresh must inspect [Claims.Kind] themselves.
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("sec: token is missing a subject claim")
	}

	return claims, nil
}
