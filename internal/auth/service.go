// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
)

// Service implements credential and session lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, issuance,
// validation, or invalidation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository

	// now is swappable for deterministic expiry tests.
	now func() time.Time
}

// NewService constructs a new auth [Service] with its repository dependency.
func NewService(userRepo UserRepository) *Service {
	return &Service{
		userRepository: userRepo,
		now:            time.Now,
	}
}

// SignupInput holds the data required to enroll a new account.
type SignupInput struct {
	Username string
	Password string
	ImageURL *string
}

// Signup hashes the password, persists a brand new account, and immediately
// issues its first session (auto-login).
//
// # Parameters
//   - ctx: Context for the database operations.
//   - input: The user-provided signup details.
//
// # Returns
//   - The created [*User] and its live session token.
//   - Returns [apperr.Conflict] if the username already exists. The insert
//     itself is the uniqueness check, so two racing signups resolve cleanly:
//     one wins, the other gets Conflict from the constraint.
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, string, error) {
	// ── 1. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during signup spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 2. Persistence ────────────────────────────────────────────────────

	user := &User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		ImageURL:     input.ImageURL,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// ── 3. Auto-Login ─────────────────────────────────────────────────────

	token, err := service.IssueSession(ctx, user, input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_signup_session_failed: %w", err)
	}

	return user, token, nil
}

// Login validates credentials and establishes a new session.
//
// # Parameters
//   - ctx: Context for the database operations.
//   - username: The claimed identity.
//   - password: The plain-text password to verify.
//
// # Returns
//   - The authenticated [*User] and a fresh session token.
//   - Returns [apperr.Unauthorized] if the username is unknown or the
//     password does not match; the two cases are indistinguishable to the
//     caller to prevent username enumeration.
func (service *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		// Generic unauthorized error regardless of which sub-case failed.
		return nil, "", apperr.Unauthorized("Invalid username or password")
	}

	token, err := service.IssueSession(ctx, user, password)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// IssueSession verifies the password and, on success, mints and persists a
// fresh session token with a full lifetime.
//
// # Flow
//  1. Verify password hash using Bcrypt (constant-time comparison).
//  2. Generate a cryptographically random URL-safe token.
//  3. Persist (token, expiry) onto the row in one statement, overwriting any
//     previous session: a new login implicitly invalidates the old one.
//
// # Returns
//   - The issued token string.
//   - Returns [apperr.Unauthorized] on a password mismatch, with no mutation.
func (service *Service) IssueSession(ctx context.Context, user *User, password string) (string, error) {
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return "", apperr.Unauthorized("Invalid username or password")
	}

	token, err := sec.GenerateSecureToken(sec.SessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	expiresAt := service.now().Add(SessionLifetime)
	if err := service.userRepository.SetSession(ctx, user.Username, token, expiresAt); err != nil {
		return "", fmt.Errorf("auth_service_set_session_failed: %w", err)
	}

	user.SessionToken = &token
	user.SessionExpiresAt = &expiresAt

	return token, nil
}

// ValidateSession checks a claimed (username, token) pair against the store
// and, on success, slides the expiry forward by a full [SessionLifetime].
//
// # Parameters
//   - ctx: Context for the database operation.
//   - username: The claimed identity from the session carrier.
//   - token: The claimed session token from the session carrier.
//
// # Returns
//   - The account backing the validated session.
//   - Returns [apperr.Forbidden] if the pair matches no live session:
//     unknown user, wrong or burned token, or an expiry already in the
//     past. An expired session is rejected, never renewed.
func (service *Service) ValidateSession(ctx context.Context, username, token string) (*User, error) {
	if username == "" || token == "" {
		return nil, apperr.Forbidden("Invalid or expired session")
	}

	return service.userRepository.TouchSession(ctx, username, token, service.now().Add(SessionLifetime))
}

// InvalidateSession burns the given session token so it can never validate
// again, independent of its expiry.
//
// Idempotent: if the pair matches nothing (already logged out, token rotated
// by a newer login), the call is a silent success. Keying on the exact token
// value means a logout racing a concurrent login can never invalidate the
// newer session.
func (service *Service) InvalidateSession(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		return nil
	}

	burned, err := sec.BurnToken()
	if err != nil {
		return fmt.Errorf("auth_service_burn_token_failed: %w", err)
	}

	if err := service.userRepository.BurnSession(ctx, username, token, burned); err != nil {
		return fmt.Errorf("auth_service_invalidate_failed: %w", err)
	}

	return nil
}

// Me returns the public profile of the account with the given ID.
//
// Returns [apperr.NotFound] if the row vanished since token issuance, a
// data-consistency fault that is surfaced rather than masked.
func (service *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return service.userRepository.FindByID(ctx, userID)
}
