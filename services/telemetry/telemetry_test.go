// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestInit_NilContext(t *testing.T) {
	_, err := Init(nil, Config{})
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{TraceExporter: "jaeger"})
	assert.ErrorIs(t, err, ErrUnknownExporter)
}

func TestInit_None(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{TraceExporter: "none"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StderrExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		ServiceName:   "plat2d",
		TraceExporter: "stderr",
		Writer:        &buf,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "search.astar")
	SetSpanAttributes(span, attribute.Int64("search.expanded", 42))
	AddSpanEvent(span, "solution", attribute.Float64("cost", 128))
	RecordError(span, errors.New("boom"))
	SetSpanOK(span)
	span.End()

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.True(t, strings.Contains(out, "search.astar"), out)
	assert.Contains(t, out, "search.expanded")
}

func TestHelpers_NilSafe(t *testing.T) {
	RecordError(nil, errors.New("x"))
	SetSpanOK(nil)
	AddSpanEvent(nil, "e")
	SetSpanAttributes(nil)

	_, span := StartSpan(context.Background(), "noop")
	RecordError(span, nil)
	span.End()
}
