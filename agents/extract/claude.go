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
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
)

// ClaudeExtractor implements Extractor against the Anthropic API.
type claudeExtractor struct {
	client       anthropic.Client
	smallModel   string
	largeModel   string
	maxTokens    int64
	temperature  float64
	genaiMetrics *metrics.GenAI
	retryConfig  retry.RetryConfig
}

// ClaudeOption configures a Claude-backed extractor.
type ClaudeOption func(*claudeExtractor) error

// WithClaudeModels overrides the small and large model tiers.
func WithClaudeModels(small, large string) ClaudeOption {
	return func(e *claudeExtractor) error {
		if small == "" || large == "" {
			return errors.New("model names cannot be empty")
		}
		e.smallModel = small
		e.largeModel = large
		return nil
	}
}

// WithClaudeRetryConfig overrides the retry configuration for transient errors.
func WithClaudeRetryConfig(cfg retry.RetryConfig) ClaudeOption {
	return func(e *claudeExtractor) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		e.retryConfig = cfg
		return nil
	}
}

// NewClaude creates an Extractor backed by the Anthropic API.
func NewClaude(client anthropic.Client, opts ...ClaudeOption) (Extractor, error) {
	e := &claudeExtractor{
		client:       client,
		smallModel:   "claude-haiku-4-5",
		largeModel:   "claude-sonnet-4-5",
		maxTokens:    4096,
		temperature:  0.1,
		genaiMetrics: metrics.NewGenAI("coinbaseaf.extract"),
		retryConfig:  retry.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *claudeExtractor) model(size Size) string {
	if size == SizeLarge {
		return e.largeModel
	}
	return e.smallModel
}

// Extract implements Extractor.
func (e *claudeExtractor) Extract(ctx context.Context, prompt string, s *jsonschema.Schema, size Size) (string, error) {
	log := clog.FromContext(ctx)

	instruction, err := schemaInstruction(s)
	if err != nil {
		return "", err
	}
	model := e.model(size)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt + instruction),
			},
		}},
	}
	params.Temperature = anthropic.Float(e.temperature)

	log.With("model", model).With("prompt_length", len(prompt)).
		Info("Requesting structured extraction")

	message, err := retry.RetryWithBackoff(ctx, e.retryConfig, "claude_extract", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return e.client.Messages.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("claude extraction failed: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		e.genaiMetrics.RecordTokens(ctx, model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var text strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("no text content in model response")
	}
	return text.String(), nil
}

// isRetryableClaudeError checks if an error is a retryable Anthropic API error.
// Returns true for rate limit, overloaded, and transient server errors.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
