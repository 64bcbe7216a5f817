package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/infrastructure"
)

const (
	TracerName = "spotifyeda.operation"
)

// OperationTracer provides tracing and metrics for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer. A nil tracer uses the global provider
// and nil metrics record nothing.
func NewOperationTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if metrics == nil {
		metrics = infrastructure.NoopPipelineMetrics()
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// TraceOperationExecution creates a span for the entire run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID string) (context.Context, trace.Span) {
	ctx, span := pt.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("operation.id", operationID)),
	)
	pt.metrics.PipelineRuns.Add(ctx, 1)
	return ctx, span
}

// TraceStepExecution creates a span for one Step
func (pt *OperationTracer) TraceStepExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a Step span and records its duration
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))

	pt.metrics.StageDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("stage", stepID),
			attribute.String("status", status),
		),
	)
}

// RecordOperationCompletion closes out the run span
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("operation.duration_seconds", duration.Seconds()))
	if err != nil {
		pt.metrics.PipelineErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("step", FailedStep(err))))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed successfully")
}

// RecordRowsRead counts loaded records
func (pt *OperationTracer) RecordRowsRead(ctx context.Context, rows int) {
	pt.metrics.RowsRead.Add(ctx, int64(rows))
}

// RecordRowsWritten counts emitted records
func (pt *OperationTracer) RecordRowsWritten(ctx context.Context, rows int) {
	pt.metrics.RowsWritten.Add(ctx, int64(rows))
}

// RecordCleanStats reports what the clean Step removed or converted
func (pt *OperationTracer) RecordCleanStats(ctx context.Context, stats dataprocessing.CleanStats) {
	pt.metrics.DuplicatesRemoved.Add(ctx, int64(stats.DuplicatesRemoved+stats.CoercionDuplicatesRemoved))
	pt.metrics.ShortTracksRemoved.Add(ctx, int64(stats.ShortTracksRemoved))
	pt.metrics.ColumnsCoerced.Add(ctx, int64(len(stats.CoercedColumns)))
}
