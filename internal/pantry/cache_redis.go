// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package pantry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ladle-kitchen/ladle/internal/platform/constants"
)

// SuggestionTTL is how long a cached suggestion set stays fresh.
const SuggestionTTL = 1 * time.Hour

// SuggestionCache defines the contract for caching suggestion sets.
type SuggestionCache interface {
	// Get returns the cached suggestions for a key, or found=false on miss.
	Get(ctx context.Context, key string) (suggestions []Suggestion, found bool, err error)

	// Set stores a suggestion set under the key with [SuggestionTTL].
	Set(ctx context.Context, key string, suggestions []Suggestion) error
}

// RedisSuggestionCache implements [SuggestionCache] using Redis.
type RedisSuggestionCache struct {
	client *redis.Client
}

// NewSuggestionCache creates a new Redis-backed SuggestionCache.
func NewSuggestionCache(client *redis.Client) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client}
}

/*
Get retrieves a cached suggestion set.

Parameters:
  - ctx: context.Context
  - key: Canonical pantry-query key

Returns:
  - []Suggestion: The cached set, nil on miss
  - bool: Whether the key was present
  - error: Connectivity or decode errors
*/
func (cache *RedisSuggestionCache) Get(ctx context.Context, key string) ([]Suggestion, bool, error) {
	raw, err := cache.client.Get(ctx, constants.RedisPrefixSuggestion+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_suggestion_get_failed: %w", err)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, false, nil
	}

	return suggestions, true, nil
}

/*
Set stores a suggestion set with the standard TTL.

Parameters:
  - ctx: context.Context
  - key: Canonical pantry-query key
  - suggestions: The set to cache

Returns:
  - error: Marshal or connectivity errors
*/
func (cache *RedisSuggestionCache) Set(ctx context.Context, key string, suggestions []Suggestion) error {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("redis_suggestion_marshal_failed: %w", err)
	}

	if err := cache.client.Set(ctx, constants.RedisPrefixSuggestion+key, raw, SuggestionTTL).Err(); err != nil {
		return fmt.Errorf("redis_suggestion_set_failed: %w", err)
	}

	return nil
}
