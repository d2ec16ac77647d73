// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # err Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE constraint codes) are
// mapped to domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details to API clients.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
)

/*
Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].

Description: Hides internal database details from the client while classifying
the error type. The unique-violation mapping is what turns the signup race
(two concurrent inserts of the same username) into a clean Conflict instead of
a 500: the UNIQUE constraint is the atomic check-then-insert arbiter.

Parameters:
  - err: The raw database error (may be nil).
  - resource: Human-readable resource name for NotFound messages.
  - conflictMessage: Client-safe message for unique-constraint violations.

Returns:
  - error: nil, *apperr.AppError, or a wrapped internal error
*/
func Wrap(err error, resource, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violation mapping via SQLSTATE
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(conflictMessage)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("dberr: %s query failed: %w", resource, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}
