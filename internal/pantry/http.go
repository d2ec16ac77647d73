// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package pantry

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ladle-kitchen/ladle/internal/platform/request"
	"github.com/ladle-kitchen/ladle/internal/platform/respond"
	"github.com/ladle-kitchen/ladle/internal/platform/validate"
)

// Handler implements the suggestion HTTP endpoint.
type Handler struct {
	pantryService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{pantryService: service}
}

// Routes returns a [chi.Router] with the generation route.
//
// # Endpoints
//   - POST /generate : Pantry ingredients in, candidate recipes out.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/generate", handler.generate)

	return router
}

// generateResponse wraps the suggestion list.
type generateResponse struct {
	Recipes []Suggestion `json:"recipes"`
}

// generate handles POST /api/generate requests.
//
// # Returns
//   - Writes HTTP 200 OK with {recipes: [...]}.
//   - Writes HTTP 400 Bad Request for an empty pantry or non-positive cap.
//   - Writes HTTP 502 Bad Gateway when the model upstream misbehaves.
func (handler *Handler) generate(writer http.ResponseWriter, req *http.Request) {
	var input GenerateInput
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	validator := &validate.Validator{}
	validator.NotEmpty("ingredients", len(input.Ingredients))
	validator.Positive("max_time", input.MaxTime)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	suggestions, err := handler.pantryService.Generate(req.Context(), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, generateResponse{Recipes: suggestions})
}
