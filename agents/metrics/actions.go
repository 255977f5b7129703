/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Actions counts plugin action invocations by plugin, action, and outcome.
type Actions struct {
	invocations metric.Int64Counter
}

// NewActions creates an Actions metrics instance with the specified meter name,
// degrading to a no-op counter if initialization fails.
func NewActions(meterName string) *Actions {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	invocations, err := meter.Int64Counter("plugin.action.invocations",
		metric.WithDescription("The number of plugin action invocations"),
		metric.WithUnit("{invocations}"))
	if err != nil {
		slog.Warn("Failed to create action invocation counter, metrics will be disabled", "error", err, "meter", meterName)
		invocations = noop.Int64Counter{}
	}

	return &Actions{invocations: invocations}
}

// RecordInvocation records one action invocation with its outcome.
func (m *Actions) RecordInvocation(ctx context.Context, plugin, action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("plugin", plugin),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}
