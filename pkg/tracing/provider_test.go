package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProvider(t *testing.T) {
	t.Run("console exporter produces a working tracer", func(t *testing.T) {
		shutdown, err := InitProvider(context.Background(), ProviderConfig{
			ServiceName: "aster-test",
			Exporter:    "console",
		})
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, shutdown(context.Background()))
			SetTracer(nil)
		}()

		ctx, span := StartSpan(context.Background(), "tracing.Test.Span")
		defer span.End()

		assert.True(t, span.SpanContext().IsValid())
		assert.NotEmpty(t, GetTraceID(ctx))
		assert.NotEmpty(t, GetTraceParent(ctx))
	})

	t.Run("unknown exporter is rejected", func(t *testing.T) {
		_, err := InitProvider(context.Background(), ProviderConfig{
			ServiceName: "aster-test",
			Exporter:    "jaeger",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported trace exporter")
	})
}
