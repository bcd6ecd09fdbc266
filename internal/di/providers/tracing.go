package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/logger"
)

const serviceName = "bookly-server"

// TracingHandle wraps the SDK tracer provider with Shutdownable.
type TracingHandle struct {
	*sdktrace.TracerProvider
}

// Shutdown implements do.Shutdownable. Buffered spans are flushed first.
func (h *TracingHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.TracerProvider.Shutdown(ctx)
}

// ProvideTracing installs the process-wide tracer provider. Services that
// start spans depend on it so their tracers come from the SDK.
func ProvideTracing(i do.Injector) (*TracingHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	tp, err := NewTracerProvider(context.Background(), cfg.Tracing)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	log.Info("Tracing initialized",
		"exporter", cfg.Tracing.Endpoint != "",
		"sample_ratio", cfg.Tracing.SampleRatio,
	)

	return &TracingHandle{TracerProvider: tp}, nil
}

// NewTracerProvider builds an SDK tracer provider. Spans are batched to an
// OTLP/HTTP collector when cfg.Endpoint is set; otherwise they stay in
// process.
func NewTracerProvider(ctx context.Context, cfg config.TracingConfig) (*sdktrace.TracerProvider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", Version),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}

	if cfg.Endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
