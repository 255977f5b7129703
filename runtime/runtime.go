/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runtime

import (
	"context"
)

// Runtime is the surface of the hosting agent runtime that plugins consume.
// The runtime itself lives outside this module; plugins only need settings
// access and the recent conversation to drive parameter extraction.
type Runtime interface {
	// AgentID identifies the agent on whose behalf actions run.
	AgentID() string

	// Setting returns the named runtime setting, or "" when unset.
	// Implementations typically fall back to environment variables.
	Setting(name string) string

	// SetSetting persists a setting back to the agent's configuration.
	// Used to store credentials for wallets generated on first use.
	SetSetting(name, value string, secret bool)

	// ComposeState assembles the conversational state for a message,
	// including the recent message window bound into prompt templates.
	ComposeState(ctx context.Context, msg Message) (*State, error)
}

// Message is one inbound message from a user.
type Message struct {
	ID     string
	UserID string
	Text   string
}

// State is the composed conversational context for one handler invocation.
type State struct {
	RecentMessages string
}

// Attachment is a file-like artifact included in a reply, such as a CSV
// transaction log offered back to the user.
type Attachment struct {
	ID          string
	URL         string
	Title       string
	Description string
	Text        string
	ContentType string
}

// Reply is the payload a handler passes to its callback.
type Reply struct {
	Text        string
	Attachments []Attachment
}

// Callback delivers a handler's reply to the conversation.
type Callback func(Reply)

// Validator reports whether an action is applicable to a message.
type Validator func(ctx context.Context, rt Runtime, msg Message) (bool, error)

// Handler executes an action against a message and composed state.
type Handler func(ctx context.Context, rt Runtime, msg Message, state *State, cb Callback) error

// Example is one turn of a canonical conversation demonstrating an action.
type Example struct {
	User   string
	Text   string
	Action string
}

// Action is a named capability the runtime can select for a message.
type Action struct {
	Name        string
	Similes     []string
	Description string
	Validate    Validator
	Handler     Handler
	Examples    [][]Example
}

// Provider contributes background context to the runtime before action
// selection, such as transaction history read back from the audit logs.
type Provider struct {
	Name string
	Get  func(ctx context.Context, rt Runtime, msg Message) (string, error)
}

// Plugin bundles related actions and providers under one name.
type Plugin struct {
	Name        string
	Description string
	Actions     []Action
	Providers   []Provider
}

// Merge combines several plugins into a single plugin carrying every action
// and provider, in argument order.
func Merge(name, description string, plugins ...Plugin) Plugin {
	merged := Plugin{
		Name:        name,
		Description: description,
	}
	for _, p := range plugins {
		merged.Actions = append(merged.Actions, p.Actions...)
		merged.Providers = append(merged.Providers, p.Providers...)
	}
	return merged
}
