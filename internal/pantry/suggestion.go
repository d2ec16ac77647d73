// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

// Package pantry implements the generative-AI recipe suggestion proxy: a
// list of pantry ingredients goes in, candidate recipes come out.
//
// # Architecture
//
// The model is treated as an unreliable upstream. Its reply is sanitized
// (markdown fences stripped) and strictly decoded; anything that does not
// parse as the expected JSON shape is a gateway error, never a crash.
// Successful suggestion sets are cached in Redis so repeated pantry queries
// skip the slow and expensive model round trip.
package pantry

import (
	"sort"
	"strconv"
	"strings"
)

// Suggestion is one model-proposed recipe.
type Suggestion struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	TotalTime    int      `json:"total_time"`
}

// GenerateInput describes a pantry query.
type GenerateInput struct {
	Ingredients []string `json:"ingredients"`
	MaxTime     int      `json:"max_time"`
}

// cacheKey derives a canonical cache key for the query: ingredients are
// lowercased and sorted so "Eggs, Milk" and "milk,eggs" hit the same entry.
func (input GenerateInput) cacheKey() string {
	normalized := make([]string, 0, len(input.Ingredients))
	for _, ingredient := range input.Ingredients {
		trimmed := strings.ToLower(strings.TrimSpace(ingredient))
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	sort.Strings(normalized)

	return strings.Join(normalized, ",") + "|" + strconv.Itoa(input.MaxTime)
}
