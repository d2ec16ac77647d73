// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package recipe

import (
	"context"
)

// IngredientInput is the payload shape for a nested ingredient.
type IngredientInput struct {
	Name string `json:"name"`
}

// InstructionInput is the payload shape for a nested instruction step.
type InstructionInput struct {
	StepText   string `json:"step_text"`
	StepNumber int    `json:"step_number"`
}

// CreateInput holds everything needed to persist a new recipe aggregate.
type CreateInput struct {
	Title        string
	TotalTime    int
	Ingredients  []IngredientInput
	Instructions []InstructionInput
}

// Patch describes a partial recipe update.
//
// Scalar fields are applied only when non-nil. A nil child slice leaves that
// collection untouched; a non-nil (possibly empty) slice replaces it
// wholesale; there is no per-child diffing.
type Patch struct {
	Title        *string
	ImageURL     *string
	TotalTime    *int
	Ingredients  []IngredientInput
	Instructions []InstructionInput
}

// RecipeRepository defines the data access contract for recipe aggregates.
//
// Every method is scoped to an owning user: a recipe belonging to someone
// else behaves exactly like a recipe that does not exist.
type RecipeRepository interface {
	// ListByUser returns all recipes owned by the user, children included.
	ListByUser(ctx context.Context, userID int64) ([]*Recipe, error)

	// FindByID returns the recipe with the given ID if the user owns it.
	//
	// Returns [apperr.NotFound] otherwise.
	FindByID(ctx context.Context, recipeID, userID int64) (*Recipe, error)

	// Create persists a new recipe with its children in one transaction.
	Create(ctx context.Context, userID int64, input CreateInput) (*Recipe, error)

	// Update applies a partial patch in one transaction and returns the
	// resulting aggregate.
	//
	// Returns [apperr.NotFound] if the user does not own the recipe.
	Update(ctx context.Context, recipeID, userID int64, patch Patch) (*Recipe, error)

	// Delete removes the recipe and all its children.
	//
	// Returns [apperr.NotFound] if the user does not own the recipe.
	Delete(ctx context.Context, recipeID, userID int64) error
}
