// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ladle-kitchen/ladle/internal/auth"
	"github.com/ladle-kitchen/ladle/internal/pantry"
	"github.com/ladle-kitchen/ladle/internal/photo"
	"github.com/ladle-kitchen/ladle/internal/platform/config"
	"github.com/ladle-kitchen/ladle/internal/platform/constants"
	"github.com/ladle-kitchen/ladle/internal/platform/middleware"
	"github.com/ladle-kitchen/ladle/internal/platform/sec"
	"github.com/ladle-kitchen/ladle/internal/recipe"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle routes (login, signup, logout, me).
	Auth *auth.Handler

	// Recipe handles the recipe CRUD routes.
	Recipe *recipe.Handler

	// Photo handles image upload and listing.
	Photo *photo.Handler

	// Pantry handles AI recipe suggestions.
	Pantry *pantry.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The auth guard wraps every resource group; only the auth lifecycle routes
// and the health probes are reachable without a live session.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, carrier *sec.SessionCarrier, authService *auth.Service, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		// Session lifecycle manages its own guard internally (/me only).
		api.Mount("/auth", h.Auth.Routes())

		// Everything else requires a live session.
		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireSession(carrier, authService))
			protected.Mount("/recipes", h.Recipe.Routes())
			protected.Mount("/photos", h.Photo.Routes())
			protected.Mount("/", h.Pantry.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
