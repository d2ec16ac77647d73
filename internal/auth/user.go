// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package auth implements account credentials and the session lifecycle for
// the Ladle platform.
//
// # Architecture
//
// The session model is deliberately minimal: one nullable (token, expiry)
// pair lives directly on the user row, so a user has at most one live
// session. A new login overwrites the previous token, invalidating it
// implicitly. Expiry is checked lazily at validation time; there is no
// background sweep, an expired row simply sits inert until the next login.
package auth

import (
	"time"
)

// User represents a registered Ladle account.
//
// # Rules
//   - Username is unique (enforced by the database, surfaced as Conflict).
//   - PasswordHash is generated via Bcrypt exclusively by the auth [Service].
//   - SessionToken and SessionExpiresAt are paired: both null or both set,
//     and always written together in a single statement.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"` // Explicitly omitted from JSON for security.
	ImageURL         *string    `json:"image_url,omitempty"`
	SessionToken     *string    `json:"-"` // Bearer credential. Never serialized.
	SessionExpiresAt *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Profile is the public projection of a [User] returned by the /me endpoint.
type Profile struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
}

// Profile returns the client-safe view of the account.
func (user *User) Profile() Profile {
	return Profile{
		ID:       user.ID,
		Username: user.Username,
		ImageURL: user.ImageURL,
	}
}
