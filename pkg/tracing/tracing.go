// Package tracing wraps the OpenTelemetry SDK behind a Config, an
// Init that picks an exporter, and a Provider wrapper, narrowed to
// the one tracer triadc needs: one span per compile, with child
// spans per pipeline phase.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the exporter Init builds.
type Config struct {
	ServiceName  string
	ExporterType string // "stdout" or "otlp"
	OTLPEndpoint string
	Enabled      bool
}

// DefaultConfig traces to stdout, which needs no collector running.
func DefaultConfig() Config {
	return Config{ServiceName: "triadc", ExporterType: "stdout", Enabled: true}
}

// Provider wraps a tracer provider and exposes triadc's tracer. It
// holds the trace.TracerProvider interface rather than the concrete
// SDK type so a disabled config can install a true no-op provider
// (spans with no-op, invalid span contexts) instead of an SDK
// provider with zero exporters, which would still mint sampled spans.
type Provider struct {
	tp  trace.TracerProvider
	sdk *sdktrace.TracerProvider // nil when tracing is disabled
}

// Init builds and installs the global tracer provider per config. A
// disabled config returns a Provider backed by the trace API's no-op
// implementation, so callers never need to nil-check before calling
// Tracer(); spans it produces simply don't record or export.
func Init(config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{tp: trace.NewNoopTracerProvider()}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch config.ExporterType {
	case "otlp":
		if config.OTLPEndpoint == "" {
			config.OTLPEndpoint = "localhost:4317"
		}
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(config.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		exporter, err = otlptrace.New(context.Background(), client)
	default:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(config.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{tp: tp, sdk: tp}, nil
}

// Shutdown flushes pending spans. A no-op when tracing is disabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// Tracer returns the compiler's tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer("triadc/compiler")
}

// StartCompile opens the root span for one compile job.
func StartCompile(ctx context.Context, tracer trace.Tracer, jobID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "compile", trace.WithAttributes(attribute.String("job_id", jobID)))
}

// StartPhase opens a child span for one pipeline phase ("parse",
// "analyze", "asmgen").
func StartPhase(ctx context.Context, tracer trace.Tracer, phase string) (context.Context, trace.Span) {
	return tracer.Start(ctx, phase)
}
