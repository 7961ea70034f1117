package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/parser"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var lang, format string

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the syntax tree of a file",
		Long: `Parse one JavaScript or TypeScript file and print its tree. With no argument
or "-", source is read from stdin.`,
		Example: `  codeshift parse src/index.ts
  echo 'require("./calc")' | codeshift parse --format tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}

			return runParse(cmd, path, lang, format)
		},
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "Force the grammar: javascript, typescript, tsx")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json, yaml, tree")

	return cmd
}

func runParse(cmd *cobra.Command, path, lang, format string) error {
	switch format {
	case formatJSON, formatYAML, formatTree:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	source, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	psr, err := parserFor(path, lang)
	if err != nil {
		return err
	}

	tree, err := psr.Parse(cmd.Context(), source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch format {
	case formatTree:
		return writeTree(out, tree.Root)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()

		if err = enc.Encode(treeDocument(tree)); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}

		return nil
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err = enc.Encode(treeDocument(tree)); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}

		return nil
	}
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), nil
}

func parserFor(path, lang string) (*parser.Parser, error) {
	if lang != "" || path == stdinPath {
		if lang == "" {
			lang = parser.LangJavaScript
		}

		return parser.New(parser.WithLanguage(lang))
	}

	return parser.ForFile(path)
}

func treeDocument(tree *ast.Tree) map[string]any {
	return map[string]any{
		"language": tree.Language,
		"root":     tree.Root.ToMap(),
	}
}

// writeTree prints one line per node, indented by depth.
func writeTree(w io.Writer, root *ast.Node) error {
	var sb strings.Builder

	ast.Walk(root, func(node *ast.Node, path ast.Path) bool {
		sb.WriteString(strings.Repeat("  ", len(path)))

		if field := node.Field(); field != "" {
			sb.WriteString(field)
			sb.WriteString(": ")
		}

		sb.WriteString(string(node.Kind()))

		switch {
		case node.Kind() == ast.KindLiteral:
			sb.WriteString(" " + node.Raw())
		case node.Name() != "":
			sb.WriteString(" " + node.Name())
		}

		span := node.Span()
		fmt.Fprintf(&sb, " [%d:%d-%d:%d]\n", span.StartLine, span.StartCol, span.EndLine, span.EndCol)

		return true
	})

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}
