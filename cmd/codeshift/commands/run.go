package commands

import (
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshift/internal/driver"
	"github.com/Sumatoshi-tech/codeshift/pkg/config"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

const stdinPath = "-"

// RunCommand holds flags for the run command.
type RunCommand struct {
	transformName string
	recipePath    string
	params        map[string]string
	quote         string
	fidelity      string
	language      string
	maxFileSize   string
	workers       int
	dryRun        bool
	failFast      bool
	verify        bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Apply a transform to files",
		Long: `Apply a built-in transform or a YAML recipe to JavaScript and TypeScript files.

Directories are walked recursively. Pass "-" to read one file from stdin and
write the result to stdout.`,
		Example: `  codeshift run -t rename-require --param from=./calc --param to=./math src/
  codeshift run --recipe modernize.yaml --dry-run .
  echo 'f("x")' | codeshift run -`,
		Args: cobra.MinimumNArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.transformName, "transform", "t", config.DefaultTransform, "Built-in transform name")
	cmd.Flags().StringVar(&rc.recipePath, "recipe", "", "YAML recipe file (exclusive with --transform)")
	cmd.Flags().StringToStringVar(&rc.params, "param", nil, "Transform parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&rc.quote, "quote", config.DefaultQuote, "Quote style for strings: single, double, preserve")
	cmd.Flags().StringVar(&rc.fidelity, "fidelity", config.DefaultFidelity, "Layout fidelity: full, no-comments")
	cmd.Flags().StringVar(&rc.language, "language", "", "Language of stdin input: javascript, typescript, tsx")
	cmd.Flags().StringVar(&rc.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "Skip files larger than this (0 = no limit)")
	cmd.Flags().IntVar(&rc.workers, "workers", config.DefaultWorkers, "Number of parallel workers (0 = use CPU count)")
	cmd.Flags().BoolVar(&rc.dryRun, "dry-run", false, "Print a unified diff instead of writing files")
	cmd.Flags().BoolVar(&rc.failFast, "fail-fast", false, "Stop at the first file that fails")
	cmd.Flags().BoolVar(&rc.verify, "verify", false, "Re-parse every output before writing it")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if err = rc.apply(cmd, sess.cfg); err != nil {
		return err
	}

	tr, err := sess.resolveTransform()
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == stdinPath {
		return rc.runStdin(cmd, sess, tr)
	}

	opts, err := driverOptions(sess.cfg, tr)
	if err != nil {
		return err
	}

	return runDriver(cmd, sess, opts, args)
}

// apply overrides config values with the flags the user set explicitly.
func (rc *RunCommand) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("transform") {
		cfg.Transform.Name = rc.transformName
		if !flags.Changed("recipe") {
			cfg.Transform.Recipe = ""
		}
	}

	if flags.Changed("recipe") {
		cfg.Transform.Recipe = rc.recipePath
		if !flags.Changed("transform") {
			cfg.Transform.Name = config.DefaultTransform
		}
	}

	if len(rc.params) > 0 {
		params := maps.Clone(cfg.Transform.Params)
		if params == nil {
			params = make(map[string]string, len(rc.params))
		}

		maps.Copy(params, rc.params)
		cfg.Transform.Params = params
	}

	if flags.Changed("quote") {
		cfg.Printer.Quote = rc.quote
	}

	if flags.Changed("fidelity") {
		cfg.Printer.Fidelity = rc.fidelity
	}

	if flags.Changed("max-file-size") {
		cfg.Driver.MaxFileSize = rc.maxFileSize
	}

	if flags.Changed("workers") {
		cfg.Driver.Workers = rc.workers
	}

	if flags.Changed("dry-run") {
		cfg.Driver.DryRun = rc.dryRun
	}

	if flags.Changed("fail-fast") {
		cfg.Driver.FailFast = rc.failFast
	}

	if flags.Changed("verify") {
		cfg.Driver.Verify = rc.verify
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

func (rc *RunCommand) runStdin(cmd *cobra.Command, sess *session, tr *transform.Transform) error {
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	printerOpts, err := sess.cfg.PrinterOptions()
	if err != nil {
		return err
	}

	res, err := sess.runner.Run(cmd.Context(), transform.File{Source: string(source), Language: rc.language},
		transform.Options{
			Transform: tr,
			Params:    sess.cfg.Transform.Params,
			Printer:   printerOpts,
			Verify:    sess.cfg.Driver.Verify,
		})
	if err != nil {
		return err
	}

	if sess.cfg.Driver.DryRun {
		_, err = io.WriteString(cmd.OutOrStdout(), driver.UnifiedDiff(stdinPath, string(source), res.Output))
	} else {
		_, err = io.WriteString(cmd.OutOrStdout(), res.Output)
	}

	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, report := range res.Reports {
		fmt.Fprintln(cmd.ErrOrStderr(), report.String())
	}

	return nil
}

func driverOptions(cfg *config.Config, tr *transform.Transform) (driver.Options, error) {
	printerOpts, err := cfg.PrinterOptions()
	if err != nil {
		return driver.Options{}, err
	}

	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return driver.Options{}, err
	}

	return driver.Options{
		Transform:   tr,
		Params:      cfg.Transform.Params,
		Printer:     printerOpts,
		Workers:     cfg.Driver.Workers,
		MaxFileSize: maxSize,
		Extensions:  cfg.Driver.Extensions,
		Exclude:     cfg.Driver.Exclude,
		DryRun:      cfg.Driver.DryRun,
		FailFast:    cfg.Driver.FailFast,
		Verify:      cfg.Driver.Verify,
	}, nil
}

// runDriver discovers files under paths, transforms them and prints diffs,
// reports and the summary.
func runDriver(cmd *cobra.Command, sess *session, opts driver.Options, paths []string) error {
	driverOpts := []driver.Option{
		driver.WithRunner(sess.runner),
		driver.WithLogger(sess.logger),
		driver.WithTracer(sess.providers.Tracer),
	}

	if sess.verbose && !sess.quiet {
		driverOpts = append(driverOpts, driver.WithProgress(cmd.ErrOrStderr()))
	}

	drv := driver.New(opts, driverOpts...)

	files, err := drv.Discover(paths)
	if err != nil {
		return err
	}

	summary, runErr := drv.Run(cmd.Context(), files)

	out := cmd.OutOrStdout()

	if err = summary.WriteDiffs(out); err != nil {
		return err
	}

	if err = summary.WriteReports(out); err != nil {
		return err
	}

	if !sess.quiet {
		summary.WriteStatus(cmd.ErrOrStderr(), sess.verbose)
		fmt.Fprintln(cmd.ErrOrStderr(), summary.Render())
	}

	if runErr != nil {
		return runErr
	}

	return summary.Err()
}
