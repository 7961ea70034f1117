// Package main provides the entry point for the codeshift CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshift/cmd/codeshift/commands"
	"github.com/Sumatoshi-tech/codeshift/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codeshift",
		Short: "Codeshift - JavaScript and TypeScript codemods",
		Long: `Codeshift rewrites JavaScript and TypeScript sources while keeping every
untouched byte as it was.

Commands:
  run         Apply a transform or recipe to files
  query       List nodes matching filters
  parse       Print the syntax tree of a file
  transforms  List built-in transforms
  validate    Check a recipe file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "Config file (default: .codeshift.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolP(commands.FlagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(commands.FlagQuiet, "q", false, "suppress output")
	rootCmd.PersistentFlags().Bool(commands.FlagNoColor, false, "disable colored output")

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewTransformsCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("codeshift"))
		},
	}
}
