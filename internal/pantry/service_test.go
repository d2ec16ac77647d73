// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package pantry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
)

// fakeGenerator returns a canned reply and counts invocations.
type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (generator *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	generator.calls++
	if generator.err != nil {
		return "", generator.err
	}
	return generator.reply, nil
}

// fakeCache is an in-memory SuggestionCache.
type fakeCache struct {
	entries map[string][]Suggestion
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]Suggestion)}
}

func (cache *fakeCache) Get(_ context.Context, key string) ([]Suggestion, bool, error) {
	suggestions, found := cache.entries[key]
	return suggestions, found, nil
}

func (cache *fakeCache) Set(_ context.Context, key string, suggestions []Suggestion) error {
	cache.entries[key] = suggestions
	return nil
}

const validReply = `[
	{"name": "Omelette", "ingredients": ["eggs", "cheese"], "instructions": ["Whisk eggs", "Cook"], "total_time": 10},
	{"name": "Grilled Cheese", "ingredients": ["bread", "cheese"], "instructions": ["Assemble", "Grill"], "total_time": 8}
]`

/*
TestBuildPrompt checks the pantry query is fully rendered into the prompt.
*/
func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(GenerateInput{
		Ingredients: []string{"eggs", "cheese", "bread"},
		MaxTime:     25,
	})

	assert.Contains(t, prompt, "eggs, cheese, bread")
	assert.Contains(t, prompt, "25 minutes")
	assert.Contains(t, prompt, "total_time must be <= 25")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

/*
TestStripFences covers the sanitizer against the reply shapes models
actually produce.
*/
func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain_json", `[{"name":"x"}]`, `[{"name":"x"}]`},
		{"fenced", "```\n[1]\n```", "[1]"},
		{"fenced_with_language", "```json\n[1]\n```", "[1]"},
		{"surrounding_whitespace", "  \n[1]\n  ", "[1]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.reply))
		})
	}
}

/*
TestService_Generate covers decode success, upstream garbage, and the cache
paths.
*/
func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	input := GenerateInput{Ingredients: []string{"Eggs", "cheese"}, MaxTime: 15}

	t.Run("decodes_model_reply", func(t *testing.T) {
		generator := &fakeGenerator{reply: validReply}
		service := NewService(generator, nil)

		suggestions, err := service.Generate(ctx, input)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "Omelette", suggestions[0].Name)
		assert.Equal(t, 10, suggestions[0].TotalTime)
	})

	t.Run("fenced_reply_still_decodes", func(t *testing.T) {
		generator := &fakeGenerator{reply: "```json\n" + validReply + "\n```"}
		service := NewService(generator, nil)

		suggestions, err := service.Generate(ctx, input)
		require.NoError(t, err)
		assert.Len(t, suggestions, 2)
	})

	t.Run("malformed_reply_is_bad_gateway", func(t *testing.T) {
		generator := &fakeGenerator{reply: "Sorry, I cannot help with that."}
		service := NewService(generator, nil)

		_, err := service.Generate(ctx, input)
		require.Error(t, err)
		assert.Equal(t, 502, apperr.As(err).HTTPStatus)
	})

	t.Run("empty_reply_is_bad_gateway", func(t *testing.T) {
		generator := &fakeGenerator{reply: "   "}
		service := NewService(generator, nil)

		_, err := service.Generate(ctx, input)
		require.Error(t, err)
		assert.Equal(t, 502, apperr.As(err).HTTPStatus)
	})

	t.Run("second_query_hits_cache", func(t *testing.T) {
		generator := &fakeGenerator{reply: validReply}
		service := NewService(generator, newFakeCache())

		_, err := service.Generate(ctx, input)
		require.NoError(t, err)

		// Same pantry, different casing and order: one upstream call total.
		again, err := service.Generate(ctx, GenerateInput{Ingredients: []string{"cheese", "EGGS"}, MaxTime: 15})
		require.NoError(t, err)
		assert.Len(t, again, 2)
		assert.Equal(t, 1, generator.calls)
	})

	t.Run("different_time_cap_misses_cache", func(t *testing.T) {
		generator := &fakeGenerator{reply: validReply}
		service := NewService(generator, newFakeCache())

		_, err := service.Generate(ctx, input)
		require.NoError(t, err)
		_, err = service.Generate(ctx, GenerateInput{Ingredients: input.Ingredients, MaxTime: 30})
		require.NoError(t, err)
		assert.Equal(t, 2, generator.calls)
	})
}
