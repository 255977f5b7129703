/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package extract turns conversational text into typed action parameters.

Every plugin action pairs a prompt template with a parameter struct. The
handler binds the recent conversation into the template and calls Object,
which appends the struct's JSON schema to the prompt, asks the configured
model for a matching object, and decodes the reply:

	args, err := extract.Object[TransferArgs](ctx, extractor, prompt, extract.SizeLarge)

Two provider implementations exist, selected by model name prefix: claude-*
models via the Anthropic SDK and gemini-* models via Google's Generative AI
SDK. Both retry transient API errors with exponential backoff and record
token usage metrics.
*/
package extract
