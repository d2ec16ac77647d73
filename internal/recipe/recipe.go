// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package recipe implements recipe management for the Ladle platform: CRUD
// over recipes with their nested ingredients and ordered instructions.
//
// # Architecture
//
// Recipes are owned aggregates. Ingredients and instructions have no life of
// their own; they are created with the recipe, replaced wholesale on update,
// and removed with it on delete. All access is scoped to the owning user.
package recipe

import (
	"time"
)

// Ingredient is a single named ingredient belonging to a recipe.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Instruction is one ordered preparation step of a recipe.
type Instruction struct {
	ID         int64  `json:"id"`
	StepText   string `json:"step_text"`
	StepNumber int    `json:"step_number"`
}

// Recipe represents a stored recipe with its full nested content.
//
// # Rules
//   - TotalTime is minutes and always positive.
//   - Instructions are returned sorted by StepNumber; the database does not
//     guarantee child ordering on its own.
type Recipe struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Title        string        `json:"title"`
	ImageURL     *string       `json:"image_url"`
	TotalTime    int           `json:"total_time"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
