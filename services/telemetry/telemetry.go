// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry sets up OpenTelemetry tracing for the search tools.
//
// One span covers each search run. With the "stderr" exporter, finished
// spans are written to stderr as JSON when the provider shuts down;
// stdout is never used so that run diagnostics stay clean.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.Config{
//	    ServiceName:   "plat2d",
//	    TraceExporter: "stderr",
//	})
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sentinel errors.
var (
	ErrNilContext      = errors.New("telemetry: nil context")
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// Config selects the trace exporter.
type Config struct {
	// ServiceName identifies the binary in exported spans.
	ServiceName string

	// ServiceVersion is the version string of the binary.
	ServiceVersion string

	// TraceExporter is "none" or "stderr". Empty means "none".
	TraceExporter string

	// Writer overrides the destination of the "stderr" exporter.
	Writer io.Writer
}

// Init installs the global tracer provider described by cfg.
//
// Description:
//
//	With the "none" exporter the global no-op provider is left in place
//	and spans cost nothing. The returned shutdown function flushes and
//	stops the provider; it must be called before the process exits.
//
// Inputs:
//   - ctx: Must not be nil.
//   - cfg: Exporter selection.
//
// Outputs:
//   - shutdown: Flushes pending spans. Never nil on success.
//   - error: ErrNilContext or ErrUnknownExporter.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	noop := func(context.Context) error { return nil }

	switch cfg.TraceExporter {
	case "", "none":
		return noop, nil
	case "stderr":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
