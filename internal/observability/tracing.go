package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const traceScopePipeline = "tourflow/pipeline"

// Stage names used as both span names and stage-duration metric labels.
const (
	StageFilter    = "filter"
	StageAllocate  = "allocate"
	StageSequence  = "sequence"
	StageTravel    = "travel"
)

// StartStageSpan opens a span for one pipeline stage: one tracer
// scope, span name equal to the stage, attributes attached at start.
func StartStageSpan(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(traceScopePipeline).Start(ctx, stage, trace.WithAttributes(attrs...))
}

// MarkSpanResult records the stage outcome on span.
func MarkSpanResult(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return
	}
	span.SetStatus(codes.Ok, "")
}
