// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package sec_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladle-kitchen/ladle/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies hashing then checking with the original
password succeeds, while any other password fails.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("incorrect horse", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestCheckPasswordHash_MalformedHash confirms the check fails closed when the
stored value is not a bcrypt hash at all.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}

/*
TestGenerateSecureToken checks length, uniqueness, and URL-safety of issued
tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(sec.SessionTokenLength)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(sec.SessionTokenLength)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	// 32 bytes of base64url without padding is 43 characters.
	assert.Len(t, first, 43)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "=")
}

/*
TestBurnToken verifies a burned value can never collide with a legitimately
issued token.
*/
func TestBurnToken(t *testing.T) {
	issued, err := sec.GenerateSecureToken(sec.SessionTokenLength)
	require.NoError(t, err)
	burned, err := sec.BurnToken()
	require.NoError(t, err)

	assert.True(t, sec.IsBurnedToken(burned))
	assert.False(t, sec.IsBurnedToken(issued))
	assert.NotEqual(t, issued, burned)

	// Two burns never produce the same marker either.
	other, err := sec.BurnToken()
	require.NoError(t, err)
	assert.NotEqual(t, burned, other)
}

/*
TestSessionCarrier_RoundTrip writes a carrier cookie and reads it back,
covering the happy path plus tamper and wrong-key rejection.
*/
func TestSessionCarrier_RoundTrip(t *testing.T) {
	carrier := sec.NewSessionCarrier("carrier-secret", "session", time.Hour, false)

	recorder := httptest.NewRecorder()
	require.NoError(t, carrier.Write(recorder, "padme", "token-123", 7))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "session", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	t.Run("reads_back_claims", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(cookie)

		claims, err := carrier.Read(request)
		require.NoError(t, err)
		assert.True(t, claims.IsComplete())
		assert.Equal(t, "padme", claims.Username)
		assert.Equal(t, "token-123", claims.SessionToken)
		assert.Equal(t, int64(7), claims.UserID)
	})

	t.Run("rejects_missing_cookie", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := carrier.Read(request)
		assert.Error(t, err)
	})

	t.Run("rejects_tampered_value", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "zz"})
		_, err := carrier.Read(request)
		assert.Error(t, err)
	})

	t.Run("rejects_wrong_key", func(t *testing.T) {
		stranger := sec.NewSessionCarrier("another-secret", "session", time.Hour, false)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(cookie)
		_, err := stranger.Read(request)
		assert.Error(t, err)
	})

	t.Run("clear_expires_cookie", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		carrier.Clear(recorder)
		cleared := recorder.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Empty(t, cleared[0].Value)
		assert.Negative(t, cleared[0].MaxAge)
	})
}
