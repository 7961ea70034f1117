package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

// NewTransformsCommand creates the command listing built-in transforms.
func NewTransformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List built-in transforms and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeTransforms(cmd, transform.Builtin())

			return nil
		},
	}
}

func writeTransforms(cmd *cobra.Command, registry *transform.Registry) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)

	tbl.AppendHeader(table.Row{"Name", "Description", "Params"})

	for _, tr := range registry.All() {
		params := make([]string, 0, len(tr.Params))

		for _, param := range tr.Params {
			if param.Default != "" {
				params = append(params, param.Name+"="+param.Default)
			} else {
				params = append(params, param.Name)
			}
		}

		tbl.AppendRow(table.Row{tr.Name, tr.Description, strings.Join(params, ", ")})
	}

	tbl.Render()
}
