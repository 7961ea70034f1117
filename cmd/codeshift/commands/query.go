package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeshift/internal/driver"
	"github.com/Sumatoshi-tech/codeshift/pkg/printer"
	"github.com/Sumatoshi-tech/codeshift/pkg/recipe"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

const queryTextWidth = 60

// QueryCommand holds flags for the query command.
type QueryCommand struct {
	callee   string
	args     int
	argument string
	index    int
	source   string
	name     string
	inside   string
	format   string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	qc := &QueryCommand{}

	cmd := &cobra.Command{
		Use:   "query <kind> [paths...]",
		Short: "List nodes of a kind matching filters",
		Long: `Select nodes of one kind, e.g. CallExpression or ImportDeclaration, narrowed
by optional filters, and list where they are. Files are never modified.`,
		Example: `  codeshift query CallExpression --callee require --arg ./calc src/
  codeshift query ImportDeclaration --source lodash --format json .`,
		Args: cobra.MinimumNArgs(1),
		RunE: qc.run,
	}

	cmd.Flags().StringVar(&qc.callee, "callee", "", "Callee name of calls, e.g. require or console.log")
	cmd.Flags().IntVar(&qc.args, "args", -1, "Exact argument count (-1 = any)")
	cmd.Flags().StringVar(&qc.argument, "arg", "", "String literal value of the argument at --index")
	cmd.Flags().IntVar(&qc.index, "index", 0, "Argument index checked by --arg")
	cmd.Flags().StringVar(&qc.source, "source", "", "Module source of imports and exports")
	cmd.Flags().StringVar(&qc.name, "name", "", "Identifier or declaration name")
	cmd.Flags().StringVar(&qc.inside, "inside", "", "Only nodes nested in a node of this kind")
	cmd.Flags().StringVar(&qc.format, "format", formatTable, "Output format: table, json, yaml")

	return cmd
}

// rule converts the flags to a reporting recipe rule.
func (qc *QueryCommand) rule(cmd *cobra.Command, kind string) recipe.Rule {
	rule := recipe.Rule{
		Kind:    kind,
		Callee:  qc.callee,
		Index:   qc.index,
		Name:    qc.name,
		Inside:  qc.inside,
		Action:  recipe.ActionReport,
		Message: kind,
	}

	flags := cmd.Flags()

	if qc.args >= 0 {
		rule.Args = &qc.args
	}

	if flags.Changed("arg") {
		rule.Argument = &qc.argument
	}

	if flags.Changed("source") {
		rule.Source = &qc.source
	}

	return rule
}

func (qc *QueryCommand) run(cmd *cobra.Command, args []string) error {
	switch qc.format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, qc.format)
	}

	rcp := recipe.Recipe{Name: "query", Rules: []recipe.Rule{qc.rule(cmd, args[0])}}

	tr, err := rcp.Compile()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	opts, err := driverOptions(sess.cfg, tr)
	if err != nil {
		return err
	}

	opts.DryRun = true
	opts.Verify = false
	opts.Printer = printer.Options{Quote: printer.QuotePreserve}

	paths := args[1:]
	if len(paths) == 0 {
		paths = []string{"."}
	}

	drv := driver.New(opts,
		driver.WithRunner(sess.runner),
		driver.WithLogger(sess.logger),
		driver.WithTracer(sess.providers.Tracer),
	)

	files, err := drv.Discover(paths)
	if err != nil {
		return err
	}

	summary, err := drv.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	if !sess.quiet && summary.Failed > 0 {
		summary.WriteStatus(cmd.ErrOrStderr(), false)
	}

	var reports []transform.Report
	for _, res := range summary.Files {
		reports = append(reports, res.Reports...)
	}

	if err = writeMatches(cmd.OutOrStdout(), qc.format, reports); err != nil {
		return err
	}

	return summary.Err()
}

func writeMatches(w io.Writer, format string, reports []transform.Report) error {
	if reports == nil {
		reports = []transform.Report{}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode matches: %w", err)
		}

		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode matches: %w", err)
		}

		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Text", WidthMax: queryTextWidth},
	})

	tbl.AppendHeader(table.Row{"File", "Line", "Col", "Kind", "Text"})

	for _, report := range reports {
		tbl.AppendRow(table.Row{report.File, report.Line, report.Column, report.Kind, report.Text})
	}

	tbl.AppendFooter(table.Row{"", "", "", "Matches", len(reports)})
	tbl.Render()

	return nil
}
