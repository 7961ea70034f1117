package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

// Status is the outcome of one file.
type Status string

// File statuses.
const (
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult is the outcome of one file.
type FileResult struct {
	Path     string
	Language string
	Status   Status
	Bytes    uint64
	Reports  []transform.Report
	// Diff is the unified diff of a changed file in dry-run mode.
	Diff     string
	Duration time.Duration
	// Err is why the file was skipped or failed.
	Err error
}

func (res FileResult) skip(err error) FileResult {
	res.Status = StatusSkipped
	res.Err = err

	return res
}

// Summary aggregates the results of a run.
type Summary struct {
	Files     []FileResult
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
	Reports   int
	Bytes     uint64
	Duration  time.Duration
}

func newSummary(results []FileResult, elapsed time.Duration) *Summary {
	sum := &Summary{Files: results, Duration: elapsed}

	for _, res := range results {
		switch res.Status {
		case StatusChanged:
			sum.Changed++
		case StatusUnchanged:
			sum.Unchanged++
		case StatusSkipped:
			sum.Skipped++
		case StatusFailed:
			sum.Failed++
		}

		sum.Reports += len(res.Reports)
		sum.Bytes += res.Bytes
	}

	return sum
}

// Err returns ErrFilesFailed when any file failed.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}

	return fmt.Errorf("%w: %d of %d", ErrFilesFailed, s.Failed, len(s.Files))
}

// WriteDiffs writes the dry-run diffs in path order.
func (s *Summary) WriteDiffs(w io.Writer) error {
	for _, res := range s.Files {
		if res.Diff == "" {
			continue
		}

		if _, err := io.WriteString(w, res.Diff); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}

// WriteReports writes every transform report as file:line:col: message.
func (s *Summary) WriteReports(w io.Writer) error {
	for _, res := range s.Files {
		for _, report := range res.Reports {
			if _, err := fmt.Fprintln(w, report.String()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}

	return nil
}

// WriteStatus writes one colored status line per changed, skipped or failed
// file. Unchanged files are listed only when verbose.
func (s *Summary) WriteStatus(w io.Writer, verbose bool) {
	for _, res := range s.Files {
		switch res.Status {
		case StatusChanged:
			color.New(color.FgGreen).Fprintf(w, "%-9s %s\n", res.Status, res.Path)
		case StatusUnchanged:
			if verbose {
				fmt.Fprintf(w, "%-9s %s\n", res.Status, res.Path)
			}
		case StatusSkipped:
			color.New(color.FgYellow).Fprintf(w, "%-9s %s: %v\n", res.Status, res.Path, res.Err)
		case StatusFailed:
			color.New(color.FgRed).Fprintf(w, "%-9s %s: %v\n", res.Status, res.Path, res.Err)
		}
	}
}

// Render formats the summary as a table.
func (s *Summary) Render() string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Status", "Files"})
	tbl.AppendRow(table.Row{StatusChanged, s.Changed})
	tbl.AppendRow(table.Row{StatusUnchanged, s.Unchanged})
	tbl.AppendRow(table.Row{StatusSkipped, s.Skipped})
	tbl.AppendRow(table.Row{StatusFailed, s.Failed})

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d files, %s", len(s.Files), humanize.Bytes(s.Bytes)),
		fmt.Sprintf("%d reports in %s", s.Reports, s.Duration.Round(time.Millisecond)),
	})

	return tbl.Render()
}
