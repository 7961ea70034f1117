package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshift/pkg/recipe"
)

// ErrNoRecipe is returned when validate is called without a file.
var ErrNoRecipe = errors.New("recipe file required")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <recipe.yaml>",
		Short: "Check a recipe file",
		Long:  "Validate a recipe against the recipe schema and compile its rules without touching any file.",
		Example: `  codeshift validate modernize.yaml
  codeshift validate --schema > recipe.schema.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor, _ := cmd.Flags().GetBool(FlagNoColor); noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			if printSchema {
				_, err := cmd.OutOrStdout().Write(recipe.Schema())

				return err
			}

			if len(args) == 0 {
				return ErrNoRecipe
			}

			return runValidate(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&printSchema, "schema", false, "Print the recipe JSON schema and exit")

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	rcp, err := recipe.Load(path)
	if err == nil {
		_, err = rcp.Compile()
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(out, "recipe is invalid (%s)\n", path)

		return err
	}

	color.New(color.FgGreen).Fprintf(out, "recipe %s is valid (%s)\n", rcp.Name, path)

	for idx, rule := range rcp.Rules {
		fmt.Fprintf(out, "  %d. %s %s", idx+1, rule.Action, rule.Kind)

		if rule.Value != "" {
			fmt.Fprintf(out, " -> %s", rule.Value)
		}

		fmt.Fprintln(out)
	}

	return nil
}
