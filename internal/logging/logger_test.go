package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bo.log")
	t.Setenv("LOG_FILE", path)

	logger, err := New("backoffice", "test", "debug")
	require.NoError(t, err)
	logger.Info("hello", zap.Int("n", 1))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"backoffice"`)
	assert.Contains(t, string(data), `"env":"test"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Setenv("LOG_FILE", "")
	_, err := New("backoffice", "test", "loud")
	require.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := ContextWithLogger(context.Background(), logger)
	FromContext(ctx).Info("from ctx")
	require.Equal(t, 1, logs.Len())

	assert.Same(t, zap.L(), FromContext(context.Background()))
	assert.Equal(t, ctx, ContextWithLogger(ctx, nil))
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, zap.L(), FromContextOr(context.Background(), nil))

	scoped := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContextOr(ctx, fallback))
}
