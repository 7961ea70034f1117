// Package driver runs a transform over many files: discovery, a bounded
// worker pool, write-back or dry-run diffs, and a run summary.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codeshift/pkg/observability"
	"github.com/Sumatoshi-tech/codeshift/pkg/printer"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

var (
	// ErrFileTooLarge is recorded for files above Options.MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds size limit")
	// ErrUnknownLanguage is recorded for files no grammar applies to.
	ErrUnknownLanguage = errors.New("cannot detect language")
	// ErrFilesFailed is returned by Summary.Err when some files failed.
	ErrFilesFailed = errors.New("some files failed")
)

// Options configures a driver run.
type Options struct {
	Transform *transform.Transform
	Params    map[string]string
	Printer   printer.Options

	// Workers bounds concurrent files. Zero or less means one per CPU.
	Workers int
	// MaxFileSize skips larger files. Zero disables the limit.
	MaxFileSize uint64
	// Extensions selects files during directory walks, e.g. ".js".
	Extensions []string
	// Exclude lists directory names or glob patterns skipped during walks.
	Exclude []string

	// DryRun leaves files untouched and records a unified diff instead.
	DryRun bool
	// FailFast aborts the run on the first failing file.
	FailFast bool
	// Verify re-parses every output before it is written.
	Verify bool
}

// Driver applies one transform to many files.
type Driver struct {
	opts     Options
	runner   *transform.Runner
	logger   *slog.Logger
	tracer   trace.Tracer
	progress io.Writer
	mu       sync.Mutex
}

// Option configures a Driver.
type Option func(*Driver)

// WithRunner sets the pipeline runner. The default has no logging, tracing
// or metrics of its own.
func WithRunner(runner *transform.Runner) Option {
	return func(d *Driver) {
		d.runner = runner
	}
}

// WithLogger sets the logger. The default discards records.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithTracer sets the tracer for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Driver) {
		d.tracer = tracer
	}
}

// WithProgress sets where "transforming <path>" lines go. Nil disables them.
func WithProgress(w io.Writer) Option {
	return func(d *Driver) {
		d.progress = w
	}
}

// New creates a driver.
func New(opts Options, options ...Option) *Driver {
	d := &Driver{opts: opts}

	for _, opt := range options {
		opt(d)
	}

	if d.runner == nil {
		d.runner = transform.NewRunner()
	}

	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}

	if d.tracer == nil {
		d.tracer = otel.Tracer("codeshift")
	}

	return d
}

// Run transforms every path concurrently and returns the per-file outcomes
// in path order. Failing files are recorded and skipped; with FailFast the
// first failure cancels the remaining files and is returned.
func (d *Driver) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	workers := d.workers()

	ctx, span := d.tracer.Start(ctx, "codeshift.run",
		trace.WithAttributes(
			attribute.Int("driver.files", len(paths)),
			attribute.Int("driver.workers", workers),
			attribute.Bool("driver.dry_run", d.opts.DryRun),
		))
	defer span.End()

	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i] = FileResult{Path: path, Status: StatusSkipped, Err: context.Canceled}
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}

		group.Go(func() error {
			res := d.ProcessFile(gctx, path)
			results[i] = res

			if res.Status == StatusFailed && d.opts.FailFast {
				return fmt.Errorf("%s: %w", path, res.Err)
			}

			return nil
		})
	}

	runErr := group.Wait()

	summary := newSummary(results, time.Since(start))

	span.SetAttributes(
		attribute.Int("driver.changed", summary.Changed),
		attribute.Int("driver.failed", summary.Failed),
	)

	if runErr != nil {
		observability.RecordSpanError(span, runErr, observability.ErrTypeTransform, "driver")

		return summary, runErr
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	return summary, nil
}

// ProcessFile runs the transform over one file: read, size and language
// checks, pipeline, then write-back or diff.
func (d *Driver) ProcessFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	if err := ctx.Err(); err != nil {
		return res.skip(err)
	}

	d.progressf("transforming %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return d.ioFailed(ctx, res, err)
	}

	res.Bytes = uint64(info.Size()) //nolint:gosec // file sizes are non-negative

	if limit := d.opts.MaxFileSize; limit > 0 && res.Bytes > limit {
		return res.skip(fmt.Errorf("%w: %s > %s", ErrFileTooLarge, humanize.Bytes(res.Bytes), humanize.Bytes(limit)))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return d.ioFailed(ctx, res, err)
	}

	lang, ok := detectLanguage(path, content)
	if !ok {
		return res.skip(fmt.Errorf("%w: %s", ErrUnknownLanguage, path))
	}

	out, err := d.runner.Run(ctx, transform.File{Path: path, Source: string(content), Language: lang},
		transform.Options{
			Transform: d.opts.Transform,
			Params:    d.opts.Params,
			Printer:   d.opts.Printer,
			Verify:    d.opts.Verify,
		})
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return res.skip(err)
		}

		return d.failed(ctx, res, err)
	}

	res.Language = out.Language
	res.Reports = out.Reports
	res.Duration = out.Duration
	res.Status = StatusUnchanged

	if !out.Changed {
		return res
	}

	res.Status = StatusChanged

	if d.opts.DryRun {
		res.Diff = UnifiedDiff(path, string(content), out.Output)

		return res
	}

	if err := os.WriteFile(path, []byte(out.Output), info.Mode().Perm()); err != nil {
		return d.ioFailed(ctx, res, fmt.Errorf("write %s: %w", path, err))
	}

	return res
}

func (d *Driver) failed(ctx context.Context, res FileResult, err error) FileResult {
	d.logger.WarnContext(observability.WithFile(ctx, res.Path), "file failed", "error", err)

	res.Status = StatusFailed
	res.Err = err

	return res
}

// ioFailed records a read or write failure on the run span and fails the file.
func (d *Driver) ioFailed(ctx context.Context, res FileResult, err error) FileResult {
	observability.RecordSpanError(trace.SpanFromContext(ctx), err, observability.ErrTypeIO, "driver")

	return d.failed(ctx, res, err)
}

func (d *Driver) workers() int {
	if d.opts.Workers > 0 {
		return d.opts.Workers
	}

	return runtime.NumCPU()
}

func (d *Driver) progressf(format string, args ...any) {
	if d.progress == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, _ = fmt.Fprintf(d.progress, format+"\n", args...)
}
