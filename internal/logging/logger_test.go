package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/taskbridge/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		logger, err := New(&config.LoggingConfig{Level: "info", Format: "json"}, nil)
		require.NoError(t, err)
		require.NotNil(t, logger)
		_ = logger.Sync()
	})

	t.Run("console format", func(t *testing.T) {
		logger, err := New(&config.LoggingConfig{Level: "debug", Format: "console"}, nil)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(&config.LoggingConfig{Level: "loud", Format: "json"}, nil)
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestRedactingEncoder(t *testing.T) {
	inner := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	enc, err := newRedactingEncoder(inner, defaultRedactedKeys)
	require.NoError(t, err)

	entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "call"}

	t.Run("masks sensitive string fields", func(t *testing.T) {
		buf, err := enc.EncodeEntry(entry, []zapcore.Field{
			zap.String("api_key", "sk-secret-value"),
			zap.String("Authorization", "Bearer sk-secret-value"),
			zap.String("project", "payments"),
		})
		require.NoError(t, err)
		out := buf.String()
		assert.NotContains(t, out, "sk-secret-value")
		assert.Contains(t, out, "[REDACTED]")
		assert.Contains(t, out, "payments")
	})

	t.Run("clone keeps the key set", func(t *testing.T) {
		cloned := enc.Clone()
		buf, err := cloned.EncodeEntry(entry, []zapcore.Field{
			zap.String("token", "sk-secret-value"),
		})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "sk-secret-value")
	})

	t.Run("non-string fields pass through", func(t *testing.T) {
		buf, err := enc.EncodeEntry(entry, []zapcore.Field{
			zap.Int("token", 42),
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "42")
	})
}

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTool(ctx, "simpletask_get_tasks")
	ctx = WithProject(ctx, "payments")

	fields := ContextFields(ctx)
	require.Len(t, fields, 3)
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "simpletask_get_tasks", ToolFromContext(ctx))
	assert.Equal(t, "payments", ProjectFromContext(ctx))
}

func TestLoggerContextMethods(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &Logger{zap: zap.New(core)}

	ctx := WithTool(context.Background(), "simpletask_get_task")
	logger.Info(ctx, "handled", zap.String("task_id", "t1"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "simpletask_get_task", fields["tool"])
	assert.Equal(t, "t1", fields["task_id"])
}
