// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package pantry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
)

// Generator defines the contract for a text-generation upstream.
type Generator interface {
	// Generate returns the raw model reply for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements [Generator] against the Gemini REST API.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewGeminiClient constructs a Gemini REST client.
//
// # Parameters
//   - apiKey: API key sent via the x-goog-api-key header.
//   - model: Model identifier, e.g. "gemini-3-flash-preview".
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: 45 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
	}
}

// geminiRequest is the generateContent request envelope.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent reply we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

/*
Generate sends the prompt to the generateContent endpoint and returns the
first candidate's text.

Description: Any transport failure, non-200 status, or empty candidate list
is surfaced as [apperr.BadGateway]; the upstream being flaky must never read
as a fault in this service.

Parameters:
  - ctx: Context bounding the upstream call.
  - prompt: The full prompt text.

Returns:
  - string: The raw model reply.
  - error: [apperr.BadGateway] on any upstream problem.
*/
func (client *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("pantry_gemini_marshal_failed: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", client.baseURL, client.model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("pantry_gemini_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", apperr.BadGateway("Recipe generation is unavailable", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return "", apperr.BadGateway("Recipe generation is unavailable", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", apperr.BadGateway("Recipe generation is unavailable",
			fmt.Errorf("pantry_gemini_status_%d", response.StatusCode))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", apperr.BadGateway("Recipe generation is unavailable", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", apperr.BadGateway("Recipe generation is unavailable",
			fmt.Errorf("pantry_gemini_empty_reply"))
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
