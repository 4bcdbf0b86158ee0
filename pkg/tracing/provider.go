package tracing

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/aster/pkg/tracing/exporters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig holds configuration for the trace provider
type ProviderConfig struct {
	// ServiceName identifies this service in exported spans
	ServiceName string

	// Exporter is either "otlp" or "console"
	Exporter string

	// OTLP holds the collector settings when Exporter is "otlp"
	OTLP exporters.OTLPConfig
}

// InitProvider builds a tracer provider from the configured exporter,
// registers it globally and wires the package tracer. The returned shutdown
// function flushes pending spans and must be called on service stop.
func InitProvider(ctx context.Context, config ProviderConfig) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	switch config.Exporter {
	case "otlp":
		otlpExporter, err := exporters.NewOTLPExporter(ctx, config.OTLP)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		exporter = otlpExporter
	case "console":
		exporter = &exporters.ConsoleExporter{}
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s (use 'otlp' or 'console')", config.Exporter)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetTracer(provider.Tracer(config.ServiceName))

	return provider.Shutdown, nil
}
