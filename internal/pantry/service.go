// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package pantry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/ctxutil"
)

// Service implements the pantry suggestion use case.
type Service struct {
	generator Generator
	cache     SuggestionCache
}

// NewService constructs a new pantry [Service] with its dependencies.
// A nil cache disables caching entirely.
func NewService(generator Generator, cache SuggestionCache) *Service {
	return &Service{generator: generator, cache: cache}
}

/*
Generate turns a pantry query into candidate recipes.

Description: Checks the cache first; on a miss, builds the prompt, calls the
model, sanitizes and decodes the reply, and stores the result. Cache failures
are logged and swallowed; a broken Redis must never take suggestions down.

Parameters:
  - ctx: Context bounding the upstream call.
  - input: Ingredient list and the per-recipe time cap.

Returns:
  - []Suggestion: The proposed recipes.
  - error: [apperr.BadGateway] when the model misbehaves.
*/
func (service *Service) Generate(ctx context.Context, input GenerateInput) ([]Suggestion, error) {
	key := input.cacheKey()

	// ── 1. Cache Lookup ───────────────────────────────────────────────────

	if service.cache != nil {
		cached, found, err := service.cache.Get(ctx, key)
		if err != nil {
			ctxutil.GetLogger(ctx).Warn("suggestion cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	// ── 2. Model Round Trip ───────────────────────────────────────────────

	reply, err := service.generator.Generate(ctx, buildPrompt(input))
	if err != nil {
		return nil, err
	}

	suggestions, err := decodeReply(reply)
	if err != nil {
		return nil, err
	}

	// ── 3. Cache Fill (best effort) ───────────────────────────────────────

	if service.cache != nil {
		if err := service.cache.Set(ctx, key, suggestions); err != nil {
			ctxutil.GetLogger(ctx).Warn("suggestion cache write failed", "error", err)
		}
	}

	return suggestions, nil
}

// buildPrompt renders the meal-planning prompt for a pantry query.
func buildPrompt(input GenerateInput) string {
	return fmt.Sprintf(`You are a meal planning assistant.

User ingredients:
%s

Maximum total cooking time per recipe:
%d minutes.

Generate exactly 3 recipes.

IMPORTANT:
- Use ONLY the provided ingredients
- total_time must be <= %d
- Return ONLY valid JSON
- Do NOT include markdown
- Do NOT include explanation text

Return JSON in this EXACT format:

[
    {
        "name": "Recipe name",
        "ingredients": ["ingredient1", "ingredient2"],
        "instructions": ["Step 1", "Step 2"],
        "total_time": 10
    }
]`, strings.Join(input.Ingredients, ", "), input.MaxTime, input.MaxTime)
}

// decodeReply sanitizes and strictly decodes the model output.
func decodeReply(reply string) ([]Suggestion, error) {
	cleaned := stripFences(reply)
	if cleaned == "" {
		return nil, apperr.BadGateway("Recipe generation returned an empty reply", nil)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, apperr.BadGateway("Recipe generation returned malformed output", err)
	}

	return suggestions, nil
}

// stripFences removes a wrapping markdown code fence from the model reply.
// Models add them even when told not to.
func stripFences(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimPrefix(cleaned, "json")

	return strings.TrimSpace(cleaned)
}
