// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// # Session Tokens

const (
	// SessionTokenLength is the byte length of the random session token.
	// 32 bytes of entropy makes collisions negligible by construction, so no
	// database-level uniqueness is enforced on the token column.
	SessionTokenLength = 32

	// BurnedTokenPrefix marks a token overwritten by logout. Tokens issued by
	// [GenerateSecureToken] are pure base64url and can never start with this
	// prefix, so a burned value can never equal a replayed legitimate token.
	BurnedTokenPrefix = "expired-"
)

// GenerateSecureToken returns a cryptographically random, URL-safe token of
// the given byte length.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// BurnToken returns a fresh non-guessable replacement value for an
// invalidated session token.
//
// The returned value carries [BurnedTokenPrefix], guaranteeing it can never
// match any token a client could legitimately hold, independent of expiry.
func BurnToken() (string, error) {
	token, err := GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return "", err
	}
	return BurnedTokenPrefix + token, nil
}

// IsBurnedToken reports whether value is a burned-token marker.
func IsBurnedToken(value string) bool {
	return strings.HasPrefix(value, BurnedTokenPrefix)
}
