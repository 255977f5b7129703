/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"strings"
	"testing"

	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"github.com/google/go-cmp/cmp"
)

func TestNewPromptCollectsBindings(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`
Extract the transfer details from {{recentMessages}} for {{networks}}.
{{recentMessages}} appears twice.
`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}

	got := p.GetBindings()
	want := map[string]struct{}{
		"recentMessages": {},
		"networks":       {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetBindings() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSubstitutesAllPlaceholders(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`User said: {{recentMessages}}. Networks: {{networks}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}

	p, err = p.BindText("recentMessages", "send 0.5 ETH to 0xabc on base")
	if err != nil {
		t.Fatalf("BindText() = %v", err)
	}
	p, err = p.BindYAML("networks", []string{"base", "sol", "eth"})
	if err != nil {
		t.Fatalf("BindYAML() = %v", err)
	}

	built, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if !strings.Contains(built, "send 0.5 ETH to 0xabc on base") {
		t.Errorf("built prompt missing conversation text: %q", built)
	}
	if !strings.Contains(built, "- base") {
		t.Errorf("built prompt missing YAML network list: %q", built)
	}
}

func TestBuildFailsOnUnboundPlaceholder(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`{{recentMessages}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}

	if _, err := p.Build(); err == nil {
		t.Error("Build() = nil, wanted unbound placeholder error")
	}
}

func TestRebindFails(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`{{asset}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	p, err = p.BindStringLiteral("asset", "usdc")
	if err != nil {
		t.Fatalf("BindStringLiteral() = %v", err)
	}
	if _, err := p.BindStringLiteral("asset", "eth"); err == nil {
		t.Error("BindStringLiteral() second bind = nil, wanted already-bound error")
	}
}

func TestBindUnknownPlaceholderFails(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`{{asset}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	if _, err := p.BindText("network", "base"); err == nil {
		t.Error("BindText() = nil, wanted unknown binding error")
	}
}

func TestBindingIsImmutable(t *testing.T) {
	t.Parallel()

	base, err := promptbuilder.NewPrompt(`{{asset}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	if _, err := base.BindText("asset", "usdc"); err != nil {
		t.Fatalf("BindText() = %v", err)
	}

	// The original prompt must still be unbound.
	if _, err := base.Build(); err == nil {
		t.Error("Build() on original = nil, wanted unbound placeholder error")
	}
}

func TestBindJSONStaysVerbatim(t *testing.T) {
	t.Parallel()

	p, err := promptbuilder.NewPrompt(`{{payload}}`)
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	p, err = p.BindJSON("payload", map[string]string{"note": "ignore {{this}}"})
	if err != nil {
		t.Fatalf("BindJSON() = %v", err)
	}
	built, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	// Single-pass substitution: placeholders inside bound data stay verbatim.
	if !strings.Contains(built, "ignore {{this}}") {
		t.Errorf("bound JSON was re-substituted: %q", built)
	}
}

func TestInvalidTemplates(t *testing.T) {
	t.Parallel()

	if _, err := promptbuilder.NewPrompt(`{{unclosed`); err == nil {
		t.Error("NewPrompt(unclosed) = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt(`{{bad-name}}`); err == nil {
		t.Error("NewPrompt(hyphenated name) = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt(`{{}}`); err == nil {
		t.Error("NewPrompt(empty name) = nil, wanted error")
	}
	if _, err := promptbuilder.NewPrompt(`{{1leading}}`); err == nil {
		t.Error("NewPrompt(leading digit) = nil, wanted error")
	}
}
