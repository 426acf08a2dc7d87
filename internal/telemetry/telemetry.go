// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires the optional OpenTelemetry pipeline. Tracing is
// off unless the daemon asks for it; every span in the codebase goes through
// GetTracer so a disabled pipeline costs a no-op tracer lookup.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 5 * time.Second

// Config selects the exporter endpoint and the service identity reported
// with every span.
type Config struct {
	Enabled     bool
	ExporterURL string
	ServiceName string
}

// Init sets the global tracer provider and returns its shutdown func. When
// tracing is disabled the returned func is a no-op.
func Init(ctx context.Context, config Config) (func(), error) {
	if !config.Enabled {
		return func() {}, nil
	}

	// OTLP over plain HTTP; collectors on localhost don't speak TLS.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.ExporterURL),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String("dev"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}, nil
}

// GetTracer returns the tracer all packages share.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer("canact")
}
