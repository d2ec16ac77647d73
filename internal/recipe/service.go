// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package recipe

import (
	"context"
)

// Service implements recipe management use cases.
//
// It is intentionally thin: ownership scoping lives in the repository
// queries themselves, so the service cannot forget to apply it.
type Service struct {
	recipeRepository RecipeRepository
}

// NewService constructs a new recipe [Service] with its repository dependency.
func NewService(recipeRepo RecipeRepository) *Service {
	return &Service{recipeRepository: recipeRepo}
}

// List returns every recipe owned by the user.
func (service *Service) List(ctx context.Context, userID int64) ([]*Recipe, error) {
	return service.recipeRepository.ListByUser(ctx, userID)
}

// Get returns a single owned recipe.
//
// Returns [apperr.NotFound] for missing and not-owned alike; the API never
// reveals that someone else's recipe exists.
func (service *Service) Get(ctx context.Context, recipeID, userID int64) (*Recipe, error) {
	return service.recipeRepository.FindByID(ctx, recipeID, userID)
}

// Create persists a new recipe aggregate for the user.
func (service *Service) Create(ctx context.Context, userID int64, input CreateInput) (*Recipe, error) {
	return service.recipeRepository.Create(ctx, userID, input)
}

// Update applies a partial patch to an owned recipe.
func (service *Service) Update(ctx context.Context, recipeID, userID int64, patch Patch) (*Recipe, error) {
	return service.recipeRepository.Update(ctx, recipeID, userID, patch)
}

// Delete removes an owned recipe with its children.
func (service *Service) Delete(ctx context.Context, recipeID, userID int64) error {
	return service.recipeRepository.Delete(ctx, recipeID, userID)
}
