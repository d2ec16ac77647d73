// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladle-kitchen/ladle/internal/platform/constants"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
)

func newTestServer(t *testing.T) (*httptest.Server, *sec.SessionCarrier, *fakeUserRepository) {
	t.Helper()

	repo := newFakeUserRepository()
	service := NewService(repo)
	carrier := sec.NewSessionCarrier("test-secret", constants.SessionCookieName, time.Hour, false)

	server := httptest.NewServer(NewHandler(service, carrier).Routes())
	t.Cleanup(server.Close)

	return server, carrier, repo
}

// doJSON fires a request with an optional body and session cookie and decodes
// the JSON response into a generic map.
func doJSON(t *testing.T, method, url, body string, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	request, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if cookie != nil {
		request.AddCookie(cookie)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })

	var payload map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&payload))

	return response, payload
}

// sessionCookie extracts the carrier cookie from a response, failing the test
// if it is absent.
func sessionCookie(t *testing.T, response *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range response.Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("expected session cookie in response")
	return nil
}

/*
TestHandler_Signup covers the signup contract: validation failures, the
duplicate-username conflict, and the auto-login cookie on success.
*/
func TestHandler_Signup(t *testing.T) {
	server, _, _ := newTestServer(t)

	t.Run("missing_fields", func(t *testing.T) {
		response, _ := doJSON(t, http.MethodPost, server.URL+"/signup", `{"username":"solo"}`, nil)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})

	t.Run("success_sets_cookie", func(t *testing.T) {
		response, payload := doJSON(t, http.MethodPost, server.URL+"/signup",
			`{"username":"solo","password":"kessel","image_url":"https://img.example/solo.png"}`, nil)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, true, payload["success"])

		cookie := sessionCookie(t, response)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		response, _ := doJSON(t, http.MethodPost, server.URL+"/signup",
			`{"username":"solo","password":"again"}`, nil)
		assert.Equal(t, http.StatusConflict, response.StatusCode)
	})
}

/*
TestHandler_Login covers credential checking at the HTTP boundary.
*/
func TestHandler_Login(t *testing.T) {
	server, _, _ := newTestServer(t)

	_, _ = doJSON(t, http.MethodPost, server.URL+"/signup", `{"username":"lando","password":"clouds"}`, nil)

	t.Run("bad_credentials", func(t *testing.T) {
		response, _ := doJSON(t, http.MethodPost, server.URL+"/login", `{"username":"lando","password":"bespin"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("unknown_user", func(t *testing.T) {
		response, _ := doJSON(t, http.MethodPost, server.URL+"/login", `{"username":"ghost","password":"boo"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		response, payload := doJSON(t, http.MethodPost, server.URL+"/login", `{"username":"lando","password":"clouds"}`, nil)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, true, payload["success"])
		assert.NotEmpty(t, sessionCookie(t, response).Value)
	})
}

/*
TestGuard_MissingVersusInvalid pins the status-code distinction the guard
must preserve: no carrier at all is 401, a carrier that decodes but fails
session validation is 403.
*/
func TestGuard_MissingVersusInvalid(t *testing.T) {
	server, carrier, _ := newTestServer(t)

	response, _ := doJSON(t, http.MethodPost, server.URL+"/signup", `{"username":"chewie","password":"rrrr"}`, nil)
	cookie := sessionCookie(t, response)

	t.Run("no_cookie_is_unauthenticated", func(t *testing.T) {
		response, _ := doJSON(t, http.MethodGet, server.URL+"/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("tampered_cookie_is_unauthenticated", func(t *testing.T) {
		forged := &http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"}
		response, _ := doJSON(t, http.MethodGet, server.URL+"/me", "", forged)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("cookie_signed_with_wrong_key_is_unauthenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		other := sec.NewSessionCarrier("other-secret", constants.SessionCookieName, time.Hour, false)
		require.NoError(t, other.Write(recorder, "chewie", "some-token", 1))

		response, _ := doJSON(t, http.MethodGet, server.URL+"/me", "", recorder.Result().Cookies()[0])
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("well_signed_but_dead_token_is_forbidden", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		require.NoError(t, carrier.Write(recorder, "chewie", "never-issued-token", 1))

		response, _ := doJSON(t, http.MethodGet, server.URL+"/me", "", recorder.Result().Cookies()[0])
		assert.Equal(t, http.StatusForbidden, response.StatusCode)
	})

	t.Run("live_cookie_is_accepted", func(t *testing.T) {
		response, payload := doJSON(t, http.MethodGet, server.URL+"/me", "", cookie)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "chewie", payload["username"])
	})
}

/*
TestHandler_SessionLifecycle walks the full journey: signup, authenticated
/me, logout, and the stale cookie bouncing off the guard afterwards.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	server, _, _ := newTestServer(t)

	// Signup logs the account in immediately.
	response, _ := doJSON(t, http.MethodPost, server.URL+"/signup",
		`{"username":"obiwan","password":"highground"}`, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	cookie := sessionCookie(t, response)

	// The fresh session reaches the profile.
	response, payload := doJSON(t, http.MethodGet, server.URL+"/me", "", cookie)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "obiwan", payload["username"])
	assert.EqualValues(t, 1, payload["id"])

	// Logout burns the token and clears the cookie.
	response, payload = doJSON(t, http.MethodGet, server.URL+"/logout", "", cookie)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, payload["success"])
	cleared := sessionCookie(t, response)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// The old cookie still decodes, but its token is burned: 403, not 401.
	response, _ = doJSON(t, http.MethodGet, server.URL+"/me", "", cookie)
	assert.Equal(t, http.StatusForbidden, response.StatusCode)

	// Logging out again with the dead cookie is still a success.
	response, payload = doJSON(t, http.MethodGet, server.URL+"/logout", "", cookie)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, payload["success"])
}
