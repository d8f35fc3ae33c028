package mcp

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metrics tracks MCP tool invocations.
type Metrics struct {
	toolInvocations metric.Int64Counter
	toolDuration    metric.Float64Histogram
	toolErrors      metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates tool metrics on the global meter provider. Instrument
// creation failures are logged and leave the corresponding instrument nil;
// recording methods tolerate that.
func NewMetrics(logger *zap.Logger) *Metrics {
	meter := otel.Meter("taskbridge/mcp")
	m := &Metrics{}

	var err error
	m.toolInvocations, err = meter.Int64Counter(
		"taskbridge.mcp.tool.invocations_total",
		metric.WithDescription("Total MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		logger.Warn("failed to create invocations counter", zap.Error(err))
	}

	m.toolDuration, err = meter.Float64Histogram(
		"taskbridge.mcp.tool.duration_seconds",
		metric.WithDescription("MCP tool execution duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.toolErrors, err = meter.Int64Counter(
		"taskbridge.mcp.tool.errors_total",
		metric.WithDescription("Total MCP tool errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		logger.Warn("failed to create errors counter", zap.Error(err))
	}

	m.activeRequests, err = meter.Int64UpDownCounter(
		"taskbridge.mcp.tool.active_requests",
		metric.WithDescription("Currently executing MCP tool calls"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn("failed to create active requests counter", zap.Error(err))
	}

	return m
}

// RecordInvocation records one completed tool call.
func (m *Metrics) RecordInvocation(ctx context.Context, tool string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("error", err != nil),
	)
	if m.toolInvocations != nil {
		m.toolInvocations.Add(ctx, 1, attrs)
	}
	if m.toolDuration != nil {
		m.toolDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if err != nil && m.toolErrors != nil {
		m.toolErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
	}
}

// IncrementActive marks a tool call as in flight.
func (m *Metrics) IncrementActive(ctx context.Context, tool string) {
	if m.activeRequests != nil {
		m.activeRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
	}
}

// DecrementActive marks a tool call as finished.
func (m *Metrics) DecrementActive(ctx context.Context, tool string) {
	if m.activeRequests != nil {
		m.activeRequests.Add(ctx, -1, metric.WithAttributes(attribute.String("tool", tool)))
	}
}
