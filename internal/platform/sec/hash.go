// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretBytes is the input limit of the underlying bcrypt primitive.
//
// Secrets longer than this are silently truncated before hashing — a policy
// decision, not an error condition. The limit counts encoded bytes, not
// characters, so multi-byte runes near the boundary may be split; bcrypt
// operates on raw bytes and is unaffected.
const MaxSecretBytes = 72

// HashPassword hashes a plain-text secret using the bcrypt algorithm.
//
// bcrypt salts every call, so hashing the same secret twice yields two
// different hash strings that both verify.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(truncateSecret(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text secret with its hashed version.
//
// The comparison is constant-time (delegated to bcrypt). A mismatch is a
// normal false return, never an error.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), truncateSecret(plainTextPassword))
	return err == nil
}

// truncateSecret caps the secret at [MaxSecretBytes] encoded bytes.
//
// The same truncation must apply on both the hash and verify paths so that
// an over-long password registered yesterday still logs in today.
func truncateSecret(secret string) []byte {
	raw := []byte(secret)
	if len(raw) > MaxSecretBytes {
		raw = raw[:MaxSecretBytes]
	}
	return raw
}
