// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
)

// PostgresRecipeRepository implements the RecipeRepository interface using pgx.
type PostgresRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository creates a new PostgreSQL implementation of the RecipeRepository.
func NewRecipeRepository(pool *pgxpool.Pool) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{pool: pool}
}

// ListByUser returns every recipe owned by the user.
//
// Children are fetched in two follow-up queries keyed on the collected
// recipe IDs, avoiding one round trip per recipe.
func (repository *PostgresRecipeRepository) ListByUser(ctx context.Context, userID int64) ([]*Recipe, error) {
	const query = `
		SELECT id, user_id, title, image_url, total_time, created_at, updated_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY id`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_list_failed: %w", err)
	}
	defer rows.Close()

	recipes := []*Recipe{}
	byID := map[int64]*Recipe{}
	ids := []int64{}

	for rows.Next() {
		recipe := &Recipe{}
		if err := rows.Scan(
			&recipe.ID,
			&recipe.UserID,
			&recipe.Title,
			&recipe.ImageURL,
			&recipe.TotalTime,
			&recipe.CreatedAt,
			&recipe.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_recipe_repo_list_scan_failed: %w", err)
		}
		recipe.Ingredients = []Ingredient{}
		recipe.Instructions = []Instruction{}
		recipes = append(recipes, recipe)
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_list_rows_failed: %w", err)
	}

	if len(ids) == 0 {
		return recipes, nil
	}

	if err := repository.loadChildren(ctx, byID, ids); err != nil {
		return nil, err
	}

	return recipes, nil
}

// FindByID returns the recipe if the user owns it.
func (repository *PostgresRecipeRepository) FindByID(ctx context.Context, recipeID, userID int64) (*Recipe, error) {
	const query = `
		SELECT id, user_id, title, image_url, total_time, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND user_id = $2`

	recipe := &Recipe{Ingredients: []Ingredient{}, Instructions: []Instruction{}}
	err := repository.pool.QueryRow(ctx, query, recipeID, userID).Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.ImageURL,
		&recipe.TotalTime,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Recipe")
		}
		return nil, fmt.Errorf("postgres_recipe_repo_find_failed: %w", err)
	}

	byID := map[int64]*Recipe{recipe.ID: recipe}
	if err := repository.loadChildren(ctx, byID, []int64{recipe.ID}); err != nil {
		return nil, err
	}

	return recipe, nil
}

// loadChildren hydrates ingredients and instructions for the given recipes.
// Instructions end up sorted by step number.
func (repository *PostgresRecipeRepository) loadChildren(ctx context.Context, byID map[int64]*Recipe, ids []int64) error {
	const ingredientQuery = `
		SELECT id, recipe_id, name
		FROM ingredients
		WHERE recipe_id = ANY($1)
		ORDER BY id`

	rows, err := repository.pool.Query(ctx, ingredientQuery, ids)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_load_ingredients_failed: %w", err)
	}
	for rows.Next() {
		var (
			ingredient Ingredient
			recipeID   int64
		)
		if err := rows.Scan(&ingredient.ID, &recipeID, &ingredient.Name); err != nil {
			rows.Close()
			return fmt.Errorf("postgres_recipe_repo_scan_ingredient_failed: %w", err)
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, ingredient)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_recipe_repo_ingredients_rows_failed: %w", err)
	}

	const instructionQuery = `
		SELECT id, recipe_id, step_text, step_number
		FROM instructions
		WHERE recipe_id = ANY($1)
		ORDER BY step_number`

	rows, err = repository.pool.Query(ctx, instructionQuery, ids)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_load_instructions_failed: %w", err)
	}
	for rows.Next() {
		var (
			instruction Instruction
			recipeID    int64
		)
		if err := rows.Scan(&instruction.ID, &recipeID, &instruction.StepText, &instruction.StepNumber); err != nil {
			rows.Close()
			return fmt.Errorf("postgres_recipe_repo_scan_instruction_failed: %w", err)
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Instructions = append(recipe.Instructions, instruction)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_recipe_repo_instructions_rows_failed: %w", err)
	}

	// The ORDER BY spans all recipes at once, so re-assert per-recipe order.
	for _, recipe := range byID {
		sort.SliceStable(recipe.Instructions, func(i, j int) bool {
			return recipe.Instructions[i].StepNumber < recipe.Instructions[j].StepNumber
		})
	}

	return nil
}

/*
Create persists a new recipe aggregate in a single transaction.

Description: The root row and every child row are inserted inside one ACID
transaction, so a constraint failure on any child rolls the whole aggregate
back: no orphaned children, no half-saved recipes.

Parameters:
  - ctx: Context for the database operations.
  - userID: The owning user.
  - input: Title, total time, and the nested children.

Returns:
  - *Recipe: The stored aggregate with all generated IDs filled in.
  - error: Wrapped SQL errors.
*/
func (repository *PostgresRecipeRepository) Create(ctx context.Context, userID int64, input CreateInput) (*Recipe, error) {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(ctx)

	const insertRecipe = `
		INSERT INTO recipes (user_id, title, total_time)
		VALUES ($1, $2, $3)
		RETURNING id, image_url, created_at, updated_at`

	recipe := &Recipe{
		UserID:       userID,
		Title:        input.Title,
		TotalTime:    input.TotalTime,
		Ingredients:  []Ingredient{},
		Instructions: []Instruction{},
	}
	err = transaction.QueryRow(ctx, insertRecipe, userID, input.Title, input.TotalTime).
		Scan(&recipe.ID, &recipe.ImageURL, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_create_failed: %w", err)
	}

	if err := insertChildren(ctx, transaction, recipe, input.Ingredients, input.Instructions); err != nil {
		return nil, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_commit_failed: %w", err)
	}

	return recipe, nil
}

// insertChildren writes the nested rows inside the given transaction and
// appends the stored children (with generated IDs) onto the recipe.
func insertChildren(ctx context.Context, transaction pgx.Tx, recipe *Recipe, ingredients []IngredientInput, instructions []InstructionInput) error {
	const insertIngredient = `
		INSERT INTO ingredients (recipe_id, name)
		VALUES ($1, $2)
		RETURNING id`

	for _, input := range ingredients {
		ingredient := Ingredient{Name: input.Name}
		if err := transaction.QueryRow(ctx, insertIngredient, recipe.ID, input.Name).Scan(&ingredient.ID); err != nil {
			return fmt.Errorf("postgres_recipe_repo_insert_ingredient_failed: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}

	const insertInstruction = `
		INSERT INTO instructions (recipe_id, step_text, step_number)
		VALUES ($1, $2, $3)
		RETURNING id`

	for _, input := range instructions {
		instruction := Instruction{StepText: input.StepText, StepNumber: input.StepNumber}
		if err := transaction.QueryRow(ctx, insertInstruction, recipe.ID, input.StepText, input.StepNumber).Scan(&instruction.ID); err != nil {
			return fmt.Errorf("postgres_recipe_repo_insert_instruction_failed: %w", err)
		}
		recipe.Instructions = append(recipe.Instructions, instruction)
	}

	sort.SliceStable(recipe.Instructions, func(i, j int) bool {
		return recipe.Instructions[i].StepNumber < recipe.Instructions[j].StepNumber
	})

	return nil
}

/*
Update applies a partial patch to an owned recipe in a single transaction.

Description: Scalar fields use COALESCE so absent values fall through to the
stored ones. When a child collection is present in the patch, the old rows are
deleted and the new ones inserted; replacement is wholesale, matching the
client contract where the editor always submits complete lists.

Parameters:
  - ctx: Context for the database operations.
  - recipeID: Target recipe.
  - userID: Owner scope; someone else's recipe reads as missing.
  - patch: The fields to change.

Returns:
  - *Recipe: The post-update aggregate, freshly read.
  - error: [apperr.NotFound] if not owned, wrapped SQL errors otherwise.
*/
func (repository *PostgresRecipeRepository) Update(ctx context.Context, recipeID, userID int64, patch Patch) (*Recipe, error) {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(ctx)

	const updateRecipe = `
		UPDATE recipes
		SET title      = COALESCE($3, title),
		    image_url  = COALESCE($4, image_url),
		    total_time = COALESCE($5, total_time),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	tag, err := transaction.Exec(ctx, updateRecipe, recipeID, userID, patch.Title, patch.ImageURL, patch.TotalTime)
	if err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("Recipe")
	}

	if patch.Ingredients != nil {
		if _, err := transaction.Exec(ctx, `DELETE FROM ingredients WHERE recipe_id = $1`, recipeID); err != nil {
			return nil, fmt.Errorf("postgres_recipe_repo_clear_ingredients_failed: %w", err)
		}
	}
	if patch.Instructions != nil {
		if _, err := transaction.Exec(ctx, `DELETE FROM instructions WHERE recipe_id = $1`, recipeID); err != nil {
			return nil, fmt.Errorf("postgres_recipe_repo_clear_instructions_failed: %w", err)
		}
	}

	replacement := &Recipe{ID: recipeID}
	if err := insertChildren(ctx, transaction, replacement, patch.Ingredients, patch.Instructions); err != nil {
		return nil, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_commit_failed: %w", err)
	}

	return repository.FindByID(ctx, recipeID, userID)
}

// Delete removes the recipe and its children if the user owns it.
func (repository *PostgresRecipeRepository) Delete(ctx context.Context, recipeID, userID int64) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(ctx)

	// Children first; the foreign keys have no ON DELETE CASCADE.
	if _, err := transaction.Exec(ctx,
		`DELETE FROM ingredients WHERE recipe_id IN (SELECT id FROM recipes WHERE id = $1 AND user_id = $2)`,
		recipeID, userID); err != nil {
		return fmt.Errorf("postgres_recipe_repo_delete_ingredients_failed: %w", err)
	}
	if _, err := transaction.Exec(ctx,
		`DELETE FROM instructions WHERE recipe_id IN (SELECT id FROM recipes WHERE id = $1 AND user_id = $2)`,
		recipeID, userID); err != nil {
		return fmt.Errorf("postgres_recipe_repo_delete_instructions_failed: %w", err)
	}

	tag, err := transaction.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, recipeID, userID)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Recipe")
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_recipe_repo_commit_failed: %w", err)
	}

	return nil
}
