// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import "time"

// # Session Constraints

const (
	// SessionLifetime is how long an issued session token remains valid
	// without use. Every successful validation slides the expiry forward by
	// this full amount, so an active user is never logged out mid-session.
	SessionLifetime = 120 * time.Minute

	// MaxUsernameLength bounds the username column.
	MaxUsernameLength = 150
)
