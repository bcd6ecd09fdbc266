package providers

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/logger"
)

func TestNewTracerProvider_Sampling(t *testing.T) {
	tests := []struct {
		name      string
		ratio     float64
		recording bool
	}{
		{"always", 1, true},
		{"never", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := NewTracerProvider(context.Background(), config.TracingConfig{SampleRatio: tt.ratio})
			require.NoError(t, err)
			t.Cleanup(func() { tp.Shutdown(context.Background()) }) //nolint:errcheck // Test cleanup

			_, span := tp.Tracer("test").Start(context.Background(), "op")
			defer span.End()

			assert.Equal(t, tt.recording, span.IsRecording())
			assert.True(t, span.SpanContext().IsValid())
		})
	}
}

func TestNewTracerProvider_WithExporter(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TracingConfig{
		Endpoint:    "http://127.0.0.1:4318",
		SampleRatio: 1,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestProvideTracing_InstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	injector := do.New()
	do.ProvideValue(injector, &config.Config{Tracing: config.TracingConfig{SampleRatio: 1}})
	do.ProvideValue(injector, logger.Nop())
	do.Provide(injector, ProvideTracing)

	h, err := do.Invoke[*TracingHandle](injector)
	require.NoError(t, err)
	t.Cleanup(func() { h.Shutdown() }) //nolint:errcheck // Test cleanup

	assert.Same(t, h.TracerProvider, otel.GetTracerProvider())

	_, span := otel.Tracer("bookly/service").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.IsRecording())
}
