/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder provides injection-resistant construction of the
extraction prompts used by the plugin actions. Templates are developer
literals with {{placeholder}} bindings; dynamic values enter only through
encoders or explicit text bindings, and substitution is single-pass so bound
values can never introduce new placeholders.

Templates are immutable: every Bind* call returns a new Prompt, and Build
fails if any placeholder is still unbound.

	var tmpl = promptbuilder.MustNewPrompt(`
	Extract the transfer details from the conversation below.

	{{recentMessages}}

	Allowed networks:
	{{networks}}
	`)

	p, err := tmpl.BindText("recentMessages", state.RecentMessages)
	...
	p, err = p.BindYAML("networks", networks)
	...
	prompt, err := p.Build()

Request types implement Bindable so callers can hand the binding step to the
extraction layer:

	type Bindable interface {
		Bind(prompt *Prompt) (*Prompt, error)
	}
*/
package promptbuilder
