/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/retry"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// googleExtractor implements Extractor against Google's Generative AI API.
type googleExtractor struct {
	client          *genai.Client
	smallModel      string
	largeModel      string
	temperature     float32
	maxOutputTokens int32
	genaiMetrics    *metrics.GenAI
	retryConfig     retry.RetryConfig
}

// GoogleOption configures a Gemini-backed extractor.
type GoogleOption func(*googleExtractor) error

// WithGoogleModels overrides the small and large model tiers.
func WithGoogleModels(small, large string) GoogleOption {
	return func(e *googleExtractor) error {
		if small == "" || large == "" {
			return errors.New("model names cannot be empty")
		}
		e.smallModel = small
		e.largeModel = large
		return nil
	}
}

// WithGoogleRetryConfig overrides the retry configuration for transient errors.
func WithGoogleRetryConfig(cfg retry.RetryConfig) GoogleOption {
	return func(e *googleExtractor) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		e.retryConfig = cfg
		return nil
	}
}

// NewGoogle creates an Extractor backed by Google's Generative AI API.
func NewGoogle(client *genai.Client, opts ...GoogleOption) (Extractor, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	e := &googleExtractor{
		client:          client,
		smallModel:      "gemini-2.5-flash",
		largeModel:      "gemini-2.5-pro",
		temperature:     0.1,
		maxOutputTokens: 4096,
		genaiMetrics:    metrics.NewGenAI("coinbaseaf.extract"),
		retryConfig:     retry.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *googleExtractor) model(size Size) string {
	if size == SizeLarge {
		return e.largeModel
	}
	return e.smallModel
}

// Extract implements Extractor.
func (e *googleExtractor) Extract(ctx context.Context, prompt string, s *jsonschema.Schema, size Size) (string, error) {
	log := clog.FromContext(ctx)

	instruction, err := schemaInstruction(s)
	if err != nil {
		return "", err
	}
	model := e.model(size)

	config := &genai.GenerateContentConfig{
		Temperature:      ptr(e.temperature),
		MaxOutputTokens:  e.maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	log.With("model", model).With("prompt_length", len(prompt)).
		Info("Requesting structured extraction")

	response, err := retry.RetryWithBackoff(ctx, e.retryConfig, "gemini_extract", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return e.client.Models.GenerateContent(ctx, model, genai.Text(prompt+instruction), config)
	})
	if err != nil {
		return "", fmt.Errorf("gemini extraction failed: %w", err)
	}

	if response.UsageMetadata != nil {
		e.genaiMetrics.RecordTokens(ctx, model,
			int64(response.UsageMetadata.PromptTokenCount),
			int64(response.UsageMetadata.CandidatesTokenCount))
	}

	text := response.Text()
	if text == "" {
		return "", errors.New("no text content in model response")
	}
	return text, nil
}

// isRetryableGeminiError checks if an error is a retryable Gemini API error.
// Returns true for rate limit, quota exhaustion, and transient server errors.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}

// ptr is a helper function to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
