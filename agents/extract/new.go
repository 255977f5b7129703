/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

// Settings carries the credentials and model selection used to construct an
// extractor. The model name determines which provider implementation is used:
//   - Models starting with "gemini-" use Google's Generative AI SDK
//   - Models starting with "claude-" use Anthropic's SDK
type Settings struct {
	SmallModel string
	LargeModel string

	AnthropicAPIKey string
	GoogleAPIKey    string
}

// New constructs the extractor matching the configured model family.
func New(ctx context.Context, s Settings) (Extractor, error) {
	model := strings.ToLower(s.SmallModel)

	switch {
	case model == "" || strings.HasPrefix(model, "claude-"):
		client := anthropic.NewClient(option.WithAPIKey(s.AnthropicAPIKey))
		opts := []ClaudeOption{}
		if s.SmallModel != "" && s.LargeModel != "" {
			opts = append(opts, WithClaudeModels(s.SmallModel, s.LargeModel))
		}
		return NewClaude(client, opts...)
	case strings.HasPrefix(model, "gemini-"):
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: s.GoogleAPIKey})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		opts := []GoogleOption{}
		if s.LargeModel != "" {
			opts = append(opts, WithGoogleModels(s.SmallModel, s.LargeModel))
		}
		return NewGoogle(client, opts...)
	default:
		return nil, fmt.Errorf("unsupported model: %s (expected gemini-* or claude-*)", s.SmallModel)
	}
}
