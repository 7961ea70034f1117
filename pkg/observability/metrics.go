package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal    = "codeshift.files.total"
	metricMatchesTotal  = "codeshift.matches.total"
	metricFileDuration  = "codeshift.file.duration.seconds"
	metricErrorsTotal   = "codeshift.errors.total"
	metricInflightFiles = "codeshift.inflight.files"

	attrTransform = "transform"
	attrStatus    = "status"
	attrStage     = "stage"
)

// File outcome statuses.
const (
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// durationBucketBoundaries covers 1ms to 30s per file.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// TransformMetrics holds the instruments recorded per transformed file.
type TransformMetrics struct {
	filesTotal    metric.Int64Counter
	matchesTotal  metric.Int64Counter
	fileDuration  metric.Float64Histogram
	errorsTotal   metric.Int64Counter
	inflightFiles metric.Int64UpDownCounter
}

// NewTransformMetrics creates the transform instruments from the given meter.
func NewTransformMetrics(mt metric.Meter) (*TransformMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files run through a transform"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	matches, err := mt.Int64Counter(metricMatchesTotal,
		metric.WithDescription("Nodes reported by transforms"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMatchesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Parse, transform and print time per file"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Failed files by pipeline stage"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightFiles,
		metric.WithDescription("Files currently in the pipeline"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightFiles, err)
	}

	return &TransformMetrics{
		filesTotal:    files,
		matchesTotal:  matches,
		fileDuration:  duration,
		errorsTotal:   errs,
		inflightFiles: inflight,
	}, nil
}

// RecordFile records one finished file with its outcome and duration.
func (tm *TransformMetrics) RecordFile(ctx context.Context, transform, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrTransform, transform),
		attribute.String(attrStatus, status),
	)

	tm.filesTotal.Add(ctx, 1, attrs)
	tm.fileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMatches adds the number of nodes a transform reported.
func (tm *TransformMetrics) RecordMatches(ctx context.Context, transform string, count int) {
	if count <= 0 {
		return
	}

	tm.matchesTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrTransform, transform)))
}

// RecordError counts a failure in the named pipeline stage.
func (tm *TransformMetrics) RecordError(ctx context.Context, transform, stage string) {
	tm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTransform, transform),
		attribute.String(attrStage, stage),
	))
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (tm *TransformMetrics) TrackInflight(ctx context.Context, transform string) func() {
	attrs := metric.WithAttributes(attribute.String(attrTransform, transform))
	tm.inflightFiles.Add(ctx, 1, attrs)

	return func() {
		tm.inflightFiles.Add(ctx, -1, attrs)
	}
}
