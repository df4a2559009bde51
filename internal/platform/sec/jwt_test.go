// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaiwa/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService("test-secret-key", "HS256", "kaiwa.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Roundtrip verifies Issue followed by Verify recovers the
subject and issuer.
*/
func TestTokenService_Roundtrip(t *testing.T) {
	service := newTestTokenService(t)

	tokenString, err := service.Issue("user-123", time.Hour, sec.KindAccess)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.Verify(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "kaiwa.test", claims.Issuer)
	assert.Equal(t, sec.KindAccess, claims.Kind())
}

/*
TestTokenService_RefreshMarker verifies the refresh marker claim round-trips
and that access tokens omit it.
*/
func TestTokenService_RefreshMarker(t *testing.T) {
	service := newTestTokenService(t)

	refreshToken, err := service.Issue("user-123", time.Hour, sec.KindRefresh)
	require.NoError(t, err)

	claims, err := service.Verify(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, sec.KindRefresh, claims.Kind())
	assert.Equal(t, "refresh", claims.TokenType)

	accessToken, err := service.Issue("user-123", time.Hour, sec.KindAccess)
	require.NoError(t, err)

	claims, err = service.Verify(accessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.KindAccess, claims.Kind())
	assert.Empty(t, claims.TokenType)
}

/*
TestTokenService_Expired verifies that an expired token fails verification.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)

	tokenString, err := service.Issue("user-123", -time.Minute, sec.KindAccess)
	require.NoError(t, err)

	_, err = service.Verify(tokenString)
	assert.Error(t, err)
}

/*
TestTokenService_Tampered verifies that altering the token body breaks the
signature check.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t)

	tokenString, err := service.Issue("user-123", time.Hour, sec.KindAccess)
	require.NoError(t, err)

	tampered := []byte(tokenString)
	tampered[len(tampered)/2] ^= 0x01

	_, err = service.Verify(string(tampered))
	assert.Error(t, err)
}

/*
TestTokenService_MissingSubject verifies that a correctly signed token with
no subject claim fails verification.
*/
func TestTokenService_MissingSubject(t *testing.T) {
	service := newTestTokenService(t)

	// Signed under the right secret, but the 'sub' claim is absent.
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "kaiwa.test",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = service.Verify(signed)
	assert.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies tokens signed under a different secret
are rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	service := newTestTokenService(t)

	other, err := sec.NewTokenService("another-secret", "HS256", "kaiwa.test")
	require.NoError(t, err)

	tokenString, err := other.Issue("user-123", time.Hour, sec.KindAccess)
	require.NoError(t, err)

	_, err = service.Verify(tokenString)
	assert.Error(t, err)
}

/*
TestNewTokenService_Validation tests constructor rejection of unusable
configurations.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
	}{
		{"empty_secret", "", "HS256"},
		{"unknown_algorithm", "secret", "HS999"},
		{"non_hmac_algorithm", "secret", "RS256"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.secret, tt.algorithm, "kaiwa.test")
			assert.Error(t, err)
		})
	}
}
