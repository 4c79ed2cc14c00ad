// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names of the pipeline phases.
const (
	SpanRun             = "run"
	SpanLoad            = "load"
	SpanResolveInternal = "resolve.internal"
	SpanOrder           = "order"
	SpanResolveExternal = "resolve.external"
	SpanSynthesize      = "synthesize"
)

// Phase runs fn inside a span named name and records its error.
func Phase(ctx context.Context, tracer trace.Tracer, name string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
