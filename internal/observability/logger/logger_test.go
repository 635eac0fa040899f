package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/homestead/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_OmitsEmptyIDs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-7")
	ctx = obscontext.WithActor(ctx, "user", "u-1")
	WithContext(ctx, base).Info("hello")
	WithContext(context.Background(), base).Info("bare")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "user", fields["actor_type"])
		assert.Equal(t, "u-1", fields["actor_id"])
		assert.NotContains(t, fields, "trace_id")
		assert.NotContains(t, fields, "correlation_id")

		assert.Empty(t, entries[1].ContextMap())
	}
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	assert.Error(t, err)
}
