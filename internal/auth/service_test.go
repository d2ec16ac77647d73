// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository that mirrors the
// conditional-update semantics of the PostgreSQL implementation.
type fakeUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*User // keyed by username
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id int64) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepository) Create(_ context.Context, user *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.users[user.Username]; exists {
		return apperr.Conflict("Username is already taken")
	}
	repo.nextID++
	user.ID = repo.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	repo.users[user.Username] = &clone
	return nil
}

func (repo *fakeUserRepository) SetSession(_ context.Context, username, token string, expiresAt time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[username]
	if !ok {
		return apperr.NotFound("User")
	}
	user.SessionToken = &token
	user.SessionExpiresAt = &expiresAt
	return nil
}

func (repo *fakeUserRepository) TouchSession(_ context.Context, username, token string, expiresAt time.Time) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[username]
	if !ok || user.SessionToken == nil || *user.SessionToken != token {
		return nil, apperr.Forbidden("Invalid or expired session")
	}
	if user.SessionExpiresAt == nil || !user.SessionExpiresAt.After(time.Now()) {
		return nil, apperr.Forbidden("Invalid or expired session")
	}
	user.SessionExpiresAt = &expiresAt
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepository) BurnSession(_ context.Context, username, token, burnedToken string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[username]
	if !ok || user.SessionToken == nil || *user.SessionToken != token {
		return nil // no match, idempotent success
	}
	user.SessionToken = &burnedToken
	return nil
}

// expiry returns the raw stored expiry for a username, for assertions.
func (repo *fakeUserRepository) expiry(username string) *time.Time {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.users[username].SessionExpiresAt
}

// forceExpiry rewrites the stored expiry directly, bypassing the service.
func (repo *fakeUserRepository) forceExpiry(username string, at time.Time) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.users[username].SessionExpiresAt = &at
}

func newTestService(t *testing.T) (*Service, *fakeUserRepository) {
	t.Helper()
	repo := newFakeUserRepository()
	return NewService(repo), repo
}

/*
TestService_Signup_UsernameUniqueness verifies that a second signup with the
same username is rejected with a Conflict and performs no mutation.
*/
func TestService_Signup_UsernameUniqueness(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, token, err := service.Signup(ctx, SignupInput{Username: "leia", Password: "alderaan"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(1), first.ID)

	_, _, err = service.Signup(ctx, SignupInput{Username: "leia", Password: "different"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 409, ae.HTTPStatus)

	// The original account still authenticates with its own password.
	_, _, err = service.Login(ctx, "leia", "alderaan")
	assert.NoError(t, err)
}

/*
TestService_Signup_HashesPassword verifies the stored credential is a bcrypt
hash, never the plain text.
*/
func TestService_Signup_HashesPassword(t *testing.T) {
	service, repo := newTestService(t)

	_, _, err := service.Signup(context.Background(), SignupInput{Username: "han", Password: "falcon"})
	require.NoError(t, err)

	stored, err := repo.FindByUsername(context.Background(), "han")
	require.NoError(t, err)
	assert.NotEqual(t, "falcon", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("falcon", stored.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("x-wing", stored.PasswordHash))
}

/*
TestService_Login covers issuance and the enumeration-safe failure contract:
unknown username and wrong password yield the same Unauthorized error.
*/
func TestService_Login(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := service.Signup(ctx, SignupInput{Username: "luke", Password: "tatooine"})
	require.NoError(t, err)

	t.Run("success_issues_token", func(t *testing.T) {
		user, token, err := service.Login(ctx, "luke", "tatooine")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "luke", user.Username)
		assert.False(t, sec.IsBurnedToken(token))
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, _, err := service.Login(ctx, "luke", "dagobah")
		require.Error(t, err)
		assert.Equal(t, 401, apperr.As(err).HTTPStatus)
	})

	t.Run("unknown_username_same_error", func(t *testing.T) {
		_, _, unknownErr := service.Login(ctx, "nobody", "whatever")
		_, _, wrongErr := service.Login(ctx, "luke", "dagobah")
		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, apperr.As(wrongErr).Message, apperr.As(unknownErr).Message)
		assert.Equal(t, apperr.As(wrongErr).HTTPStatus, apperr.As(unknownErr).HTTPStatus)
	})

	t.Run("new_login_replaces_old_token", func(t *testing.T) {
		_, oldToken, err := service.Login(ctx, "luke", "tatooine")
		require.NoError(t, err)
		_, newToken, err := service.Login(ctx, "luke", "tatooine")
		require.NoError(t, err)
		assert.NotEqual(t, oldToken, newToken)

		_, err = service.ValidateSession(ctx, "luke", oldToken)
		assert.Error(t, err, "token from the previous login must be dead")
		_, err = service.ValidateSession(ctx, "luke", newToken)
		assert.NoError(t, err)
	})
}

/*
TestService_ValidateSession covers match, mismatch, and the sliding-expiry
side effect of a successful validation.
*/
func TestService_ValidateSession(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	_, token, err := service.Signup(ctx, SignupInput{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	t.Run("valid_token_matches", func(t *testing.T) {
		user, err := service.ValidateSession(ctx, "bob", token)
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("wrong_token_rejected", func(t *testing.T) {
		_, err := service.ValidateSession(ctx, "bob", "wrong-token")
		require.Error(t, err)
		assert.Equal(t, 403, apperr.As(err).HTTPStatus)
	})

	t.Run("empty_fields_rejected_without_store_hit", func(t *testing.T) {
		_, err := service.ValidateSession(ctx, "", token)
		assert.Error(t, err)
		_, err = service.ValidateSession(ctx, "bob", "")
		assert.Error(t, err)
	})

	t.Run("sliding_expiry_strictly_increases", func(t *testing.T) {
		before := repo.expiry("bob")
		require.NotNil(t, before)

		// Pin the clock forward so the renewed expiry is unambiguously later.
		service.now = func() time.Time { return time.Now().Add(1 * time.Minute) }
		defer func() { service.now = time.Now }()

		_, err := service.ValidateSession(ctx, "bob", token)
		require.NoError(t, err)

		after := repo.expiry("bob")
		require.NotNil(t, after)
		assert.True(t, after.After(*before), "expiry must slide forward on use")
	})

	t.Run("expired_session_rejected_and_not_renewed", func(t *testing.T) {
		past := time.Now().Add(-1 * time.Second)
		repo.forceExpiry("bob", past)

		_, err := service.ValidateSession(ctx, "bob", token)
		require.Error(t, err)
		assert.Equal(t, 403, apperr.As(err).HTTPStatus)

		stored := repo.expiry("bob")
		require.NotNil(t, stored)
		assert.True(t, stored.Equal(past), "a failed validation must not touch the expiry")
	})
}

/*
TestService_InvalidateSession verifies that invalidation is permanent,
idempotent, and keyed on the exact token value.
*/
func TestService_InvalidateSession(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	_, token, err := service.Signup(ctx, SignupInput{Username: "rey", Password: "jakku"})
	require.NoError(t, err)

	// Still valid before invalidation.
	_, err = service.ValidateSession(ctx, "rey", token)
	require.NoError(t, err)

	require.NoError(t, service.InvalidateSession(ctx, "rey", token))

	// Permanently dead, even though the stored expiry is still in the future.
	_, err = service.ValidateSession(ctx, "rey", token)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	stored, err := repo.FindByUsername(ctx, "rey")
	require.NoError(t, err)
	require.NotNil(t, stored.SessionToken)
	assert.True(t, sec.IsBurnedToken(*stored.SessionToken))
	assert.NotNil(t, stored.SessionExpiresAt, "expiry is left untouched on burn")

	// Idempotent: repeating or invalidating nonsense never errors.
	assert.NoError(t, service.InvalidateSession(ctx, "rey", token))
	assert.NoError(t, service.InvalidateSession(ctx, "nobody", "no-token"))
	assert.NoError(t, service.InvalidateSession(ctx, "", ""))
}

/*
TestService_InvalidateSession_DoesNotClobberNewerLogin pins the logout-vs-login
race: burning is keyed on the exact token, so a logout that lost the race
leaves the freshly issued session alone.
*/
func TestService_InvalidateSession_DoesNotClobberNewerLogin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, staleToken, err := service.Signup(ctx, SignupInput{Username: "finn", Password: "fn2187"})
	require.NoError(t, err)

	// A second login rotates the token before the logout lands.
	_, freshToken, err := service.Login(ctx, "finn", "fn2187")
	require.NoError(t, err)

	require.NoError(t, service.InvalidateSession(ctx, "finn", staleToken))

	_, err = service.ValidateSession(ctx, "finn", freshToken)
	assert.NoError(t, err, "logout with a stale token must not kill the newer session")
}
