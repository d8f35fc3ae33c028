package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type requestCtxKey struct{}
type toolCtxKey struct{}
type projectCtxKey struct{}

// WithRequestID records a request ID for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, id)
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestCtxKey{}).(string)
	return id
}

// WithTool records the tool name being served.
func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolCtxKey{}, name)
}

// ToolFromContext returns the tool name or "".
func ToolFromContext(ctx context.Context) string {
	name, _ := ctx.Value(toolCtxKey{}).(string)
	return name
}

// WithProject records the resolved project key for the call.
func WithProject(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, projectCtxKey{}, key)
}

// ProjectFromContext returns the project key or "".
func ProjectFromContext(ctx context.Context) string {
	key, _ := ctx.Value(projectCtxKey{}).(string)
	return key
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request.id", id))
	}
	if name := ToolFromContext(ctx); name != "" {
		fields = append(fields, zap.String("tool", name))
	}
	if key := ProjectFromContext(ctx); key != "" {
		fields = append(fields, zap.String("project", key))
	}
	return fields
}
