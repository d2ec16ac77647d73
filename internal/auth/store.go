// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts and the
// session fields living on them.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Ladle is PostgreSQL (store_postgres.go).
// Every session mutation below is a single conditional statement so the
// check-then-write sequences in the service layer stay race-free without
// explicit transactions.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if the username is available.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new user account with no session.
	//
	// Returns [apperr.Conflict] if the username unique constraint fires;
	// the insert itself is the atomic check-then-insert, there is no
	// separate existence probe that could race.
	Create(ctx context.Context, user *User) error

	// SetSession writes a freshly issued (token, expiry) pair onto the row,
	// overwriting whatever was there. Both fields move together, always.
	SetSession(ctx context.Context, username, token string, expiresAt time.Time) error

	// TouchSession atomically matches (username, token) against a live,
	// unexpired session and slides its expiry to the given instant.
	//
	// Returns the matched account, or [apperr.Forbidden] if no row satisfies
	// the match (unknown user, wrong token, burned token, or expired). The
	// check and the renewal are one statement: concurrent validations
	// resolve as last-writer-wins on the expiry, which is acceptable since
	// renewal is idempotent in intent.
	TouchSession(ctx context.Context, username, token string, expiresAt time.Time) (*User, error)

	// BurnSession overwrites the session token with the given burned value,
	// keyed on the exact (username, token) pair. A no-match is a silent
	// success; logout is idempotent, and keying on the exact token means a
	// logout can never clobber a token issued by a concurrent login.
	//
	// The expiry is left untouched: the burned token can never match again
	// regardless of expiry, and the inert row costs nothing.
	BurnSession(ctx context.Context, username, token, burnedToken string) error
}
