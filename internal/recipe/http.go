// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package recipe

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ladle-kitchen/ladle/internal/platform/request"
	"github.com/ladle-kitchen/ladle/internal/platform/respond"
	"github.com/ladle-kitchen/ladle/internal/platform/validate"
)

// Handler implements recipe HTTP endpoints. Every route expects an
// authenticated principal in the request context; the session guard is
// applied where these routes are mounted.
type Handler struct {
	recipeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{recipeService: service}
}

// Routes returns a [chi.Router] configured with recipe routes.
//
// # Endpoints
//   - GET    /            : Lists the caller's recipes.
//   - POST   /            : Creates a recipe with nested children.
//   - GET    /{recipeID}  : Returns one owned recipe.
//   - PUT    /{recipeID}  : Partially updates an owned recipe.
//   - DELETE /{recipeID}  : Deletes an owned recipe.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{recipeID}", handler.get)
	router.Put("/{recipeID}", handler.update)
	router.Delete("/{recipeID}", handler.remove)

	return router
}

// list handles GET /api/recipes requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	recipes, err := handler.recipeService.List(req.Context(), principal.UserID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, recipes)
}

// createRequest represents the JSON payload for a new recipe.
type createRequest struct {
	Title        string             `json:"title"`
	TotalTime    int                `json:"total_time"`
	Ingredients  []IngredientInput  `json:"ingredients"`
	Instructions []InstructionInput `json:"instructions"`
}

// validateChildren applies the shared nested-object rules to a validator.
func validateChildren(validator *validate.Validator, ingredients []IngredientInput, instructions []InstructionInput) {
	for _, ingredient := range ingredients {
		validator.Custom("ingredients", ingredient.Name == "", "every ingredient needs a name")
	}
	for _, instruction := range instructions {
		validator.Custom("instructions", instruction.StepText == "", "every step needs text")
		validator.Custom("instructions", instruction.StepNumber <= 0, "step numbers must be positive")
	}
}

// create handles POST /api/recipes requests.
//
// # Returns
//   - Writes HTTP 201 Created with the stored aggregate, generated IDs
//     included.
//   - Writes HTTP 400 Bad Request if validation rules fail.
func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title)
	validator.Positive("total_time", input.TotalTime)
	validateChildren(validator, input.Ingredients, input.Instructions)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.recipeService.Create(req.Context(), principal.UserID, CreateInput{
		Title:        input.Title,
		TotalTime:    input.TotalTime,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, created)
}

// get handles GET /api/recipes/{recipeID} requests.
func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	recipeID, err := requestutil.IntParam(req, "recipeID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	recipe, err := handler.recipeService.Get(req.Context(), recipeID, principal.UserID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, recipe)
}

// updateRequest represents the JSON payload for a partial recipe update.
// Absent fields (and explicit nulls) leave the stored values untouched;
// present child arrays replace the stored collection wholesale.
type updateRequest struct {
	Title        *string            `json:"title"`
	ImageURL     *string            `json:"image_url"`
	TotalTime    *int               `json:"total_time"`
	Ingredients  []IngredientInput  `json:"ingredients"`
	Instructions []InstructionInput `json:"instructions"`
}

// update handles PUT /api/recipes/{recipeID} requests.
func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	recipeID, err := requestutil.IntParam(req, "recipeID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title)
	}
	if input.TotalTime != nil {
		validator.Positive("total_time", *input.TotalTime)
	}
	validateChildren(validator, input.Ingredients, input.Instructions)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	updated, err := handler.recipeService.Update(req.Context(), recipeID, principal.UserID, Patch{
		Title:        input.Title,
		ImageURL:     input.ImageURL,
		TotalTime:    input.TotalTime,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, updated)
}

// remove handles DELETE /api/recipes/{recipeID} requests.
func (handler *Handler) remove(writer http.ResponseWriter, req *http.Request) {
	principal, err := requestutil.RequiredPrincipal(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	recipeID, err := requestutil.IntParam(req, "recipeID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.recipeService.Delete(req.Context(), recipeID, principal.UserID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{"detail": "Recipe deleted successfully"})
}
