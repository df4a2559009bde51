// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaiwa/internal/platform/sec"
)

/*
TestHashPassword_Roundtrip verifies that a hashed password verifies and that
the plain text is never stored.
*/
func TestHashPassword_Roundtrip(t *testing.T) {
	hash, err := sec.HashPassword("opensesame")
	require.NoError(t, err)

	assert.NotEqual(t, "opensesame", hash)
	assert.True(t, sec.CheckPasswordHash("opensesame", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

/*
TestHashPassword_Salted verifies that hashing the same secret twice produces
distinct hashes that both verify.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("opensesame")
	require.NoError(t, err)
	second, err := sec.HashPassword("opensesame")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("opensesame", first))
	assert.True(t, sec.CheckPasswordHash("opensesame", second))
}

/*
TestHashPassword_TruncationBoundary verifies the 72-byte input cap is applied
identically on both the hash and verify paths.
*/
func TestHashPassword_TruncationBoundary(t *testing.T) {
	base := strings.Repeat("a", sec.MaxSecretBytes)
	long := base + "ignored-tail"

	hash, err := sec.HashPassword(long)
	require.NoError(t, err)

	// The same over-long secret verifies.
	assert.True(t, sec.CheckPasswordHash(long, hash))

	// Two secrets identical in their first 72 bytes are indistinguishable.
	assert.True(t, sec.CheckPasswordHash(base+"different-tail", hash))
	assert.True(t, sec.CheckPasswordHash(base, hash))

	// A difference inside the first 72 bytes still fails.
	assert.False(t, sec.CheckPasswordHash("b"+base[1:], hash))
}
