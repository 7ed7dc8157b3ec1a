package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_FromContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_MissingLoggerReturnsNop(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx, logger := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.NotNil(t, logger)
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestWithShopID(t *testing.T) {
	ctx, logger := WithShopID(context.Background(), zap.NewNop(), "shop-456")

	assert.NotNil(t, logger)
	assert.Equal(t, "shop-456", GetShopID(ctx))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-789")
	ctx = context.WithValue(ctx, ShopIDKey, "shop-001")

	WithLogger(ctx, base).Info("order settled")

	entries := observed.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-789", fields["request_id"])
	assert.Equal(t, "shop-001", fields["shop_id"])
}

func TestContextLogger_NilLoggerIsSafe(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() {
		cl.Info("no logger attached")
	})
}

func TestContextLogger_With(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithLogger(context.Background(), base).
		With(zap.String("order_id", "abc")).
		Info("created")

	entries := observed.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["order_id"])
}
