/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result parses structured objects out of model responses. Models
// asked for JSON frequently wrap it in markdown fences or stray prose;
// ExtractJSON strips that decoration and Extract unmarshals the remainder
// into the caller's parameter type.
package result
