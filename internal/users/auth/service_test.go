// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kaiwa/internal/platform/apperr"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
	"github.com/taibuivan/kaiwa/pkg/pagination"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := repository.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	if _, exists := repository.byEmail[user.Email]; exists {
		return apperr.Conflict("Email already exists")
	}
	repository.byID[user.ID] = user
	repository.byEmail[user.Email] = user
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *User) error {
	repository.byID[user.ID] = user
	repository.byEmail[user.Email] = user
	return nil
}

func (repository *fakeUserRepository) List(_ context.Context, _ pagination.Params) ([]*User, int64, error) {
	users := make([]*User, 0, len(repository.byID))
	for _, user := range repository.byID {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func newTestService(t *testing.T, repository UserRepository) *Service {
	t.Helper()
	tokens, err := sec.NewTokenService("test-secret-key", "HS256", "kaiwa.test")
	require.NoError(t, err)
	return NewService(repository, tokens, time.Hour, time.Hour)
}

func TestService_RegisterHashesPassword(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "opensesame",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "opensesame", user.PasswordHash, "plain text must never be stored")
	assert.True(t, sec.CheckPasswordHash("opensesame", user.PasswordHash))
}

func TestService_RegisterDuplicateEmailConflicts(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "imposter", Email: "alice@example.com", Password: "different",
	})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestService_LoginIssuesPair(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	pair, err := service.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	// The two tokens carry distinct kinds.
	tokens, err := sec.NewTokenService("test-secret-key", "HS256", "kaiwa.test")
	require.NoError(t, err)

	accessClaims, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.KindAccess, accessClaims.Kind())

	refreshClaims, err := tokens.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sec.KindRefresh, refreshClaims.Kind())
	assert.Equal(t, accessClaims.Subject, refreshClaims.Subject)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	cases := []struct {
		name  string
		input LoginInput
	}{
		{"wrong password", LoginInput{Email: "alice@example.com", Password: "wrong"}},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "opensesame"}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			pair, err := service.Login(context.Background(), testCase.input)
			assert.Nil(t, pair)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHORIZED", appError.Code)
		})
	}
}

func TestService_LoginAcceptsOverlongPassword(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	// 100 bytes; everything past the hash input limit is ignored consistently
	// on both registration and login.
	longPassword := ""
	for i := 0; i < 100; i++ {
		longPassword += "a"
	}

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: longPassword,
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: longPassword,
	})
	assert.NoError(t, err, "the same over-long secret must verify")
}

func TestService_RefreshExchangesPair(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	pair, err := service.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	fresh, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestService_RefreshRejectsAccessToken(t *testing.T) {
	repository := newFakeUserRepository()
	service := newTestService(t, repository)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	pair, err := service.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "opensesame",
	})
	require.NoError(t, err)

	fresh, err := service.Refresh(context.Background(), pair.AccessToken)
	assert.Nil(t, fresh)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}
