// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package sec isolates security-sensitive code (password hashing, session
// tokens, the signed session carrier) from the domain logic.
//
// # Architecture
//
// Nothing in this package touches storage. It provides pure primitives that
// the auth service composes into the session lifecycle.
package sec

// Principal is the authenticated identity for a single request.
//
// It is produced exclusively by a successful auth-guard evaluation, lives only
// in the request context, and is never persisted.
type Principal struct {
	UserID   int64
	Username string
}
