package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codeshift/pkg/observability"
	"github.com/Sumatoshi-tech/codeshift/pkg/parser"
	"github.com/Sumatoshi-tech/codeshift/pkg/printer"
)

const tracerName = "codeshift"

// Pipeline stages, used in errors, spans and metrics.
const (
	StageParse     = "parse"
	StageTransform = "transform"
	StagePrint     = "print"
	StageVerify    = "verify"
)

// ErrVerify is returned when the printed output no longer parses.
var ErrVerify = errors.New("printed output does not parse")

// File is one source file handed to the pipeline.
type File struct {
	// Path is used for language detection and reports. It may be empty.
	Path string
	// Source is the file content.
	Source string
	// Language overrides detection from Path. Empty means detect, falling
	// back to JavaScript when Path is empty.
	Language string
}

// Options configures one pipeline run.
type Options struct {
	// Transform is applied between parsing and printing. Nil is a no-op.
	Transform *Transform
	Params    map[string]string
	Printer   printer.Options
	// Verify re-parses the printed output.
	Verify bool
}

// Result is the outcome of a successful run.
type Result struct {
	Path     string
	Language string
	Output   string
	Changed  bool
	Reports  []Report
	Duration time.Duration
}

// StageError reports the pipeline stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// RunTransform parses source as JavaScript, applies opts.Transform and prints
// the result. It is the single synchronous entry point of the pipeline.
func RunTransform(source string, opts Options) (string, error) {
	res, err := NewRunner().Run(context.Background(), File{Source: source}, opts)
	if err != nil {
		return "", err
	}

	return res.Output, nil
}

// Runner executes the pipeline with logging, tracing and metrics. A Runner
// holds no per-file state and is safe for concurrent use.
type Runner struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.TransformMetrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards records.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTracer sets the tracer. The default is the global "codeshift" tracer.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithMetrics enables metric recording.
func WithMetrics(metrics *observability.TransformMetrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}

	return r
}

// Run parses file, applies opts.Transform and prints the tree. The context is
// checked between stages; a stage in progress is not interrupted.
func (r *Runner) Run(ctx context.Context, file File, opts Options) (*Result, error) {
	start := time.Now()
	name := transformName(opts.Transform)

	ctx = observability.WithFile(ctx, file.Path)

	ctx, span := r.tracer.Start(ctx, "codeshift.file",
		trace.WithAttributes(
			attribute.String("file.path", file.Path),
			attribute.Int("file.bytes", len(file.Source)),
			attribute.String("transform.name", name),
		))
	defer span.End()

	if r.metrics != nil {
		done := r.metrics.TrackInflight(ctx, name)
		defer done()
	}

	res, err := r.run(ctx, file, opts)
	if err != nil {
		r.fail(ctx, span, name, err, time.Since(start))

		return nil, err
	}

	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.String("file.language", res.Language),
		attribute.Bool("file.changed", res.Changed),
		attribute.Int("transform.reports", len(res.Reports)),
	)

	if r.metrics != nil {
		status := observability.StatusUnchanged
		if res.Changed {
			status = observability.StatusChanged
		}

		r.metrics.RecordMatches(ctx, name, len(res.Reports))
		r.metrics.RecordFile(ctx, name, status, res.Duration)
	}

	r.logger.DebugContext(ctx, "transformed",
		"transform", name,
		"changed", res.Changed,
		"reports", len(res.Reports),
		"duration", res.Duration,
	)

	return res, nil
}

func (r *Runner) run(ctx context.Context, file File, opts Options) (*Result, error) {
	p, err := parserFor(file)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	tree, err := p.Parse(ctx, file.Source)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	r.logger.DebugContext(ctx, "parsed", "language", p.Language())

	tc := NewContext(tree, file.Path, opts.Params)

	if err = stageErr(ctx, StageTransform, opts.Transform.apply(tc)); err != nil {
		return nil, err
	}

	output, err := printer.Print(tc.Tree, opts.Printer)
	if err = stageErr(ctx, StagePrint, err); err != nil {
		return nil, err
	}

	if opts.Verify {
		if err = stageErr(ctx, StageVerify, verify(ctx, p, output)); err != nil {
			return nil, err
		}
	}

	return &Result{
		Path:     file.Path,
		Language: p.Language(),
		Output:   output,
		Changed:  output != file.Source,
		Reports:  tc.Reports(),
	}, nil
}

// stageErr wraps err with its stage, or reports cancellation observed after
// the stage finished.
func stageErr(ctx context.Context, stage string, err error) error {
	if err == nil {
		err = ctx.Err()
	}

	if err == nil {
		return nil
	}

	return &StageError{Stage: stage, Err: err}
}

func verify(ctx context.Context, p *parser.Parser, output string) error {
	if _, err := p.Parse(ctx, output); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	return nil
}

func (r *Runner) fail(ctx context.Context, span trace.Span, name string, err error, dur time.Duration) {
	stage := StageParse

	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}

	observability.RecordSpanError(span, err, errorType(stage, err), stage)

	if r.metrics != nil {
		r.metrics.RecordError(ctx, name, stage)
		r.metrics.RecordFile(ctx, name, observability.StatusError, dur)
	}

	r.logger.DebugContext(ctx, "transform failed", "transform", name, "stage", stage, "error", err)
}

func errorType(stage string, err error) string {
	var syntaxErr *parser.SyntaxError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return observability.ErrTypeCanceled
	case stage == StageVerify:
		return observability.ErrTypeVerify
	case errors.As(err, &syntaxErr):
		return observability.ErrTypeSyntax
	case stage == StagePrint:
		return observability.ErrTypePrint
	default:
		return observability.ErrTypeTransform
	}
}

func parserFor(file File) (*parser.Parser, error) {
	switch {
	case file.Language != "":
		return parser.New(parser.WithLanguage(file.Language))
	case file.Path != "":
		return parser.ForFile(file.Path)
	default:
		return parser.New()
	}
}

func transformName(tr *Transform) string {
	if tr == nil || tr.Name == "" {
		return NameIdentity
	}

	return tr.Name
}
