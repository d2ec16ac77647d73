// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package sec

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Session Carrier

// CarrierClaims is the client-held bag of session fields transported inside
// the signed session cookie.
//
// # Trust Model
//
// The signature only proves the cookie was minted by this server. The token
// inside still has to survive a database validation on every protected
// request, and the user id is re-derived from the matched row; a forged or
// replayed carrier buys an attacker nothing without a live token.
type CarrierClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	Username     string `json:"unm"`
	SessionToken string `json:"stk"`
	UserID       int64  `json:"uid"`
}

// IsComplete reports whether all three carrier fields are present.
func (claims *CarrierClaims) IsComplete() bool {
	return claims.Username != "" && claims.SessionToken != "" && claims.UserID != 0
}

// SessionCarrier encodes and decodes the session cookie using HS256.
//
// It is an explicit, request-scoped value codec: handlers pass it the
// ResponseWriter/Request, there is no ambient session state anywhere.
type SessionCarrier struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// NewSessionCarrier constructs a carrier codec.
//
// # Parameters
//   - secret: HMAC key material for cookie signing. Owned by this collaborator,
//     never by the auth core.
//   - cookieName: Name of the session cookie.
//   - maxAge: Client-side cookie lifetime. The server-side session expiry
//     remains authoritative regardless of this value.
//   - secure: Whether to set the Secure cookie attribute (true in production).
func NewSessionCarrier(secret, cookieName string, maxAge time.Duration, secure bool) *SessionCarrier {
	return &SessionCarrier{
		secret:     []byte(secret),
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     secure,
	}
}

/*
Write signs the three session fields and sets them as the carrier cookie.

Parameters:
  - writer: http.ResponseWriter
  - username: string
  - sessionToken: string
  - userID: int64

Returns:
  - error: Signing failures
*/
func (carrier *SessionCarrier) Write(writer http.ResponseWriter, username, sessionToken string, userID int64) error {
	now := time.Now()
	claims := CarrierClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username:     username,
		SessionToken: sessionToken,
		UserID:       userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(carrier.secret)
	if err != nil {
		return fmt.Errorf("sec: failed to sign session carrier: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     carrier.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(carrier.maxAge.Seconds()),
		Secure:   carrier.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

/*
Read extracts and verifies the carrier claims from the request cookie.

Description: Returns an error if the cookie is absent, unsigned, signed with
the wrong key, or otherwise undecodable. An incomplete-but-valid cookie is
returned as-is; callers check [CarrierClaims.IsComplete].

Parameters:
  - request: *http.Request

Returns:
  - *CarrierClaims: Decoded session fields
  - error: Absent or tampered cookie
*/
func (carrier *SessionCarrier) Read(request *http.Request) (*CarrierClaims, error) {
	cookie, err := request.Cookie(carrier.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("sec: no session cookie present")
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &CarrierClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return carrier.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(*CarrierClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid session cookie claims")
	}

	return claims, nil
}

// Clear expires the carrier cookie on the client.
func (carrier *SessionCarrier) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     carrier.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   carrier.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
