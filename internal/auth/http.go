// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ladle-kitchen/ladle/internal/platform/request"
	"github.com/ladle-kitchen/ladle/internal/platform/respond"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
	"github.com/ladle-kitchen/ladle/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler owns the session lifecycle entry points (login, signup,
// logout, current-user lookup). It writes and clears the carrier cookie; the
// guard in guard.go only ever reads it.
type Handler struct {
	authService *Service
	carrier     *sec.SessionCarrier
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, carrier *sec.SessionCarrier) *Handler {
	return &Handler{authService: service, carrier: carrier}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Authenticates and populates the session carrier.
//   - POST /signup : Creates an account and logs it in immediately.
//   - GET  /logout : Burns the current session, clears the carrier.
//   - GET  /me     : Returns the authenticated profile (guarded).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/signup", handler.signup)
	router.Get("/logout", handler.logout)

	router.Group(func(protected chi.Router) {
		protected.Use(RequireSession(handler.carrier, handler.authService))
		protected.Get("/me", handler.me)
	})

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles POST /api/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with {"success": true} and sets the carrier cookie.
//   - Writes HTTP 400 Bad Request if a credential field is missing.
//   - Writes HTTP 401 Unauthorized for bad credentials, without revealing
//     whether the username or the password was wrong.
func (handler *Handler) login(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("username", input.Username)
	validator.Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, token, err := handler.authService.Login(req.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 4. Carrier Population ─────────────────────────────────────────────

	if err := handler.carrier.Write(writer, user.Username, token, user.ID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{"success": true})
}

// signupRequest represents the JSON payload expected for account creation.
type signupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	ImageURL *string `json:"image_url"`
}

// signup handles POST /api/auth/signup requests.
//
// # Returns
//   - Writes HTTP 200 OK with {"success": true}; the new account is logged
//     in immediately and the carrier cookie is set.
//   - Writes HTTP 400 Bad Request if username or password is missing.
//   - Writes HTTP 409 Conflict if the username is taken.
func (handler *Handler) signup(writer http.ResponseWriter, req *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input signupRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("username", input.Username)
	validator.MaxLen("username", input.Username, MaxUsernameLength)
	validator.Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, token, err := handler.authService.Signup(req.Context(), SignupInput{
		Username: input.Username,
		Password: input.Password,
		ImageURL: input.ImageURL,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	// ── 4. Carrier Population (auto-login) ────────────────────────────────

	if err := handler.carrier.Write(writer, user.Username, token, user.ID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{"success": true})
}

// logout handles GET /api/auth/logout requests.
//
// Always answers {"success": true}: burning an already-dead session and
// logging out with no session at all are both fine. The carrier cookie is
// cleared unconditionally.
func (handler *Handler) logout(writer http.ResponseWriter, req *http.Request) {
	if claims, err := handler.carrier.Read(req); err == nil {
		if err := handler.authService.InvalidateSession(req.Context(), claims.Username, claims.SessionToken); err != nil {
			respond.Error(writer, req, err)
			return
		}
	}

	handler.carrier.Clear(writer)
	respond.OK(writer, map[string]any{"success": true})
}

// me handles GET /api/auth/me requests (behind [RequireSession]).
//
// # Returns
//   - Writes HTTP 200 OK with the {id, username, image_url} profile.
//   - Writes HTTP 404 Not Found if the principal's row vanished since the
//     token was issued.
func (handler *Handler) me(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.authService.Me(req.Context(), principal.UserID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user.Profile())
}
