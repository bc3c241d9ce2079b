// Package otel wires OpenTelemetry tracing for the simulator's commands.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used by simulation code.
const InstrumentationName = "github.com/DaelonShockley/NPD-Genetic-Simulation"

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when NPD_OTEL_ENDPOINT is empty or NPD_OTEL_ENABLED is
// "false", Setup returns a no-op shutdown function and no global provider is
// registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv("NPD_OTEL_ENABLED"), "false") {
		return noop, nil
	}

	endpoint := os.Getenv("NPD_OTEL_ENDPOINT")
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the simulator tracer from the global provider. It is a no-op
// tracer until Setup registers a provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
