// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"net/http"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/ctxutil"
	"github.com/ladle-kitchen/ladle/internal/platform/respond"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
)

// RequireSession is the authorization gate for protected endpoints.
//
// # Flow
//
//  1. Decode the session carrier cookie. A missing, tampered, or incomplete
//     carrier means the caller never authenticated: HTTP 401.
//  2. Validate (username, token) against the store, sliding the expiry on
//     success. A carrier that decodes fine but fails validation is a stale
//     or burned session: HTTP 403, a distinct status so clients can tell
//     "log in" apart from "log in again".
//  3. Inject the authenticated [sec.Principal] into the request context. The
//     principal's user id comes from the validated store row, never from the
//     client-held carrier; a carrier whose user id disagrees with the row is
//     rejected as tampered.
//
// The guard never clears the carrier cookie itself; reacting to a 403 is
// the client's contract.
func RequireSession(carrier *sec.SessionCarrier, service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			// ── 1. Carrier Extraction ─────────────────────────────────────

			claims, err := carrier.Read(request)
			if err != nil || !claims.IsComplete() {
				respond.Error(writer, request, apperr.Unauthorized("Not authenticated"))
				return
			}

			// ── 2. Session Validation (with sliding renewal) ──────────────

			user, err := service.ValidateSession(request.Context(), claims.Username, claims.SessionToken)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if claims.UserID != user.ID {
				respond.Error(writer, request, apperr.Forbidden("Invalid or expired session"))
				return
			}

			// ── 3. Principal Injection ────────────────────────────────────

			principal := &sec.Principal{
				UserID:   user.ID,
				Username: user.Username,
			}

			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithPrincipal(request.Context(), principal),
			))
		})
	}
}
