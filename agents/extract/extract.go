/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/agents/result"
	"chainguard.dev/coinbaseaf/agents/schema"
	"github.com/invopop/jsonschema"
)

// Size selects the model tier used for an extraction. Actions that parse a
// short conversation use SizeSmall; actions whose templates embed histories
// or large documents use SizeLarge.
type Size int

const (
	SizeSmall Size = iota
	SizeLarge
)

// Extractor turns a prompt into raw model text constrained by a JSON schema.
// Implementations are provider-specific; callers decode via Object.
type Extractor interface {
	Extract(ctx context.Context, prompt string, s *jsonschema.Schema, size Size) (string, error)
}

// Object builds the prompt, runs the extractor with T's schema, and decodes
// the response into T. The model's answer may be fenced or wrapped in prose.
func Object[T any](ctx context.Context, ex Extractor, prompt *promptbuilder.Prompt, size Size) (T, error) {
	var zero T

	built, err := prompt.Build()
	if err != nil {
		return zero, fmt.Errorf("building extraction prompt: %w", err)
	}

	raw, err := ex.Extract(ctx, built, schema.ReflectType[T](), size)
	if err != nil {
		return zero, fmt.Errorf("extracting object: %w", err)
	}

	out, err := result.Extract[T](raw)
	if err != nil {
		return zero, fmt.Errorf("decoding extracted object: %w", err)
	}
	return out, nil
}

// schemaInstruction renders the response-format preamble appended to every
// extraction prompt.
func schemaInstruction(s *jsonschema.Schema) (string, error) {
	encoded, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding schema: %w", err)
	}
	var b strings.Builder
	b.WriteString("\n\nRespond with a single JSON object matching this schema. ")
	b.WriteString("Do not include any other text.\n\n")
	b.Write(encoded)
	return b.String(), nil
}
