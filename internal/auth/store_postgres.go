// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, password_hash, image_url, session_token, session_expires_at, created_at, updated_at`

// scanUser reads a full user row from the given pgx row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.ImageURL,
		&user.SessionToken,
		&user.SessionExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a new user record into the users table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The user entity to persist. ID, CreatedAt and UpdatedAt are
//     filled in from the returned row.
//
// # Returns
//   - [apperr.Conflict] if the username is already taken (unique violation).
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (username, password_hash, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := repository.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.ImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username is already taken")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByUsername retrieves a user record by their unique username.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// SetSession overwrites the session pair on the user's row.
//
// Both columns move in one statement, preserving the invariant that the
// token and its expiry are never out of step.
func (repository *PostgresUserRepository) SetSession(ctx context.Context, username, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET session_token = $2, session_expires_at = $3, updated_at = NOW()
		WHERE username = $1`

	tag, err := repository.pool.Exec(ctx, query, username, token, expiresAt)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_session_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// TouchSession validates and renews a session in a single conditional UPDATE.
//
// # Atomicity
//
// The WHERE clause carries the whole validation predicate (exact token match,
// expiry set, expiry in the future) and the SET clause performs the sliding
// renewal, so there is no window between check and write. An expired session
// never matches and is therefore never renewed.
func (repository *PostgresUserRepository) TouchSession(ctx context.Context, username, token string, expiresAt time.Time) (*User, error) {
	query := `
		UPDATE users
		SET session_expires_at = $3, updated_at = NOW()
		WHERE username = $1
		  AND session_token = $2
		  AND session_expires_at IS NOT NULL
		  AND session_expires_at > NOW()
		RETURNING ` + userColumns

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username, token, expiresAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Forbidden("Invalid or expired session")
		}
		return nil, fmt.Errorf("postgres_user_repo_touch_session_failed: %w", err)
	}

	return user, nil
}

// BurnSession replaces the session token with its burned value, keyed on the
// exact (username, token) pair. Zero rows affected is a success: the session
// was already gone, or a concurrent login replaced the token; either way the
// supplied token can no longer be used.
func (repository *PostgresUserRepository) BurnSession(ctx context.Context, username, token, burnedToken string) error {
	const query = `
		UPDATE users
		SET session_token = $3, updated_at = NOW()
		WHERE username = $1 AND session_token = $2`

	if _, err := repository.pool.Exec(ctx, query, username, token, burnedToken); err != nil {
		return fmt.Errorf("postgres_user_repo_burn_session_failed: %w", err)
	}

	return nil
}
