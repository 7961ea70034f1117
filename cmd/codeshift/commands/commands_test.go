package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeshift/internal/driver"
	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/config"
	"github.com/Sumatoshi-tech/codeshift/pkg/recipe"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

const dropLogsRecipe = `name: drop-logs
rules:
  - kind: CallExpression
    callee: console.log
    action: remove
`

type execResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs sub under a root carrying the persistent flags, with a config
// file of its own so the host environment does not leak in.
func execute(t *testing.T, sub *cobra.Command, stdin string, args ...string) execResult {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "codeshift.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o600))

	root := &cobra.Command{Use: "codeshift", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String(FlagConfig, "", "")
	root.PersistentFlags().BoolP(FlagVerbose, "v", false, "")
	root.PersistentFlags().BoolP(FlagQuiet, "q", false, "")
	root.PersistentFlags().Bool(FlagNoColor, false, "")
	root.AddCommand(sub)

	var stdout, stderr bytes.Buffer

	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{sub.Name(), "--" + FlagConfig, cfgPath}, args...))

	err := root.Execute()

	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readTemp(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestRunDryRunPrintsDiffAndReports(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a.js", "const x = require(\"./calc\");\n")

	res := execute(t, NewRunCommand(), "",
		"-t", transform.NameRenameRequire, "--param", "from=./calc", "--param", "to=./math", "--dry-run", path)
	require.NoError(t, res.err)

	require.Contains(t, res.stdout, "--- a/"+path+"\n+++ b/"+path+"\n")
	require.Contains(t, res.stdout, "+const x = require('./math');\n")
	require.Contains(t, res.stdout, path+":1:11: require ./calc -> ./math\n")
	require.Contains(t, strings.ToLower(res.stderr), "total: 1 files")

	require.Equal(t, "const x = require(\"./calc\");\n", readTemp(t, path))
}

func TestRunWritesFiles(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a.ts", "import { f } from \"./f\";\n")

	res := execute(t, NewRunCommand(), "", "--quiet", "--quote", "double", filepath.Dir(path))
	require.NoError(t, res.err)
	require.Empty(t, res.stderr)

	require.Equal(t, "import { f } from \"./f\";\n", readTemp(t, path))

	res = execute(t, NewRunCommand(), "", "--quiet", filepath.Dir(path))
	require.NoError(t, res.err)

	require.Equal(t, "import { f } from './f';\n", readTemp(t, path))
}

func TestRunRecipe(t *testing.T) {
	t.Parallel()

	recipePath := writeTemp(t, "drop-logs.yaml", dropLogsRecipe)
	path := writeTemp(t, "a.js", "console.log(\"a\");\nrun();\n")

	res := execute(t, NewRunCommand(), "", "--quiet", "--recipe", recipePath, path)
	require.NoError(t, res.err)

	require.Equal(t, "run();\n", readTemp(t, path))
	require.Equal(t, path+":1:1: remove\n", res.stdout)
}

func TestRunStdin(t *testing.T) {
	t.Parallel()

	res := execute(t, NewRunCommand(), "f(\"x\");\n", "-")
	require.NoError(t, res.err)
	require.Equal(t, "f('x');\n", res.stdout)

	res = execute(t, NewRunCommand(), "const x = require(\"./calc\");\n",
		"-t", transform.NameFindRequire, "--quote", "preserve", "-")
	require.NoError(t, res.err)
	require.Equal(t, "const x = require(\"./calc\");\n", res.stdout)
	require.Equal(t, ":1:11: require of ./calc\n", res.stderr)

	res = execute(t, NewRunCommand(), "let n: number = 1;\n", "--language", "typescript", "--dry-run", "-")
	require.NoError(t, res.err)
	require.Empty(t, res.stdout)
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	recipePath := writeTemp(t, "drop-logs.yaml", dropLogsRecipe)
	broken := writeTemp(t, "broken.js", "const = ;\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "transform and recipe",
			args: []string{"-t", transform.NameFindRequire, "--recipe", recipePath, broken},
			want: config.ErrTransformAndRecipe,
		},
		{
			name: "unknown transform",
			args: []string{"-t", "no-such-transform", broken},
			want: transform.ErrUnknownTransform,
		},
		{
			name: "bad quote",
			args: []string{"--quote", "backtick", broken},
			want: config.ErrInvalidQuote,
		},
		{
			name: "failing file",
			args: []string{"--quiet", broken},
			want: driver.ErrFilesFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, NewRunCommand(), "", tt.args...)
			require.ErrorIs(t, res.err, tt.want)
		})
	}
}

func TestQueryJSON(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a.js", "const x = require(\"./calc\");\nconst y = require(\"./other\");\n")

	res := execute(t, NewQueryCommand(), "",
		"CallExpression", "--callee", "require", "--arg", "./calc", "--format", "json", path)
	require.NoError(t, res.err)

	var reports []transform.Report
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 1)

	require.Equal(t, path, reports[0].File)
	require.Equal(t, ast.KindCallExpression, reports[0].Kind)
	require.Equal(t, 1, reports[0].Line)
	require.Equal(t, 11, reports[0].Column)
	require.Equal(t, "require(\"./calc\")", reports[0].Text)

	require.Equal(t, "const x = require(\"./calc\");\nconst y = require(\"./other\");\n", readTemp(t, path))
}

func TestQueryTableAndYAML(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a.js", "import a from \"lodash\";\nimport b from \"react\";\n")

	res := execute(t, NewQueryCommand(), "", "ImportDeclaration", "--source", "lodash", path)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Matches")
	require.Contains(t, res.stdout, "ImportDeclaration")
	require.NotContains(t, res.stdout, "react")

	res = execute(t, NewQueryCommand(), "", "ImportDeclaration", "--format", "yaml", path)
	require.NoError(t, res.err)

	var reports []transform.Report
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 2)

	res = execute(t, NewQueryCommand(), "", "ImportDeclaration", "--format", "xml", path)
	require.ErrorIs(t, res.err, ErrUnsupportedFormat)
}

func TestParse(t *testing.T) {
	t.Parallel()

	res := execute(t, NewParseCommand(), "require(\"./calc\");\n")
	require.NoError(t, res.err)

	var doc struct {
		Language string         `json:"language"`
		Root     map[string]any `json:"root"`
	}

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Equal(t, "javascript", doc.Language)
	require.Equal(t, "Program", doc.Root["kind"])

	res = execute(t, NewParseCommand(), "require(\"./calc\");\n", "--format", "tree")
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(res.stdout, "Program [1:1-"))
	require.Contains(t, res.stdout, "callee: Identifier require [1:1-1:8]\n")
	require.Contains(t, res.stdout, "Literal \"./calc\"")

	path := writeTemp(t, "a.ts", "let n: number = 1;\n")

	res = execute(t, NewParseCommand(), "", "--format", "yaml", path)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "language: typescript\n")

	res = execute(t, NewParseCommand(), "const = ;\n")
	require.Error(t, res.err)
}

func TestTransformsList(t *testing.T) {
	t.Parallel()

	res := execute(t, NewTransformsCommand(), "")
	require.NoError(t, res.err)

	for _, name := range transform.Builtin().Names() {
		require.Contains(t, res.stdout, name)
	}

	require.Contains(t, res.stdout, "target=./calc")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := writeTemp(t, "drop-logs.yaml", dropLogsRecipe)

	res := execute(t, NewValidateCommand(), "", valid)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "recipe drop-logs is valid")
	require.Contains(t, res.stdout, "1. remove CallExpression\n")

	invalid := writeTemp(t, "bad.yaml", "name: Bad Name\nrules: []\n")

	res = execute(t, NewValidateCommand(), "", invalid)
	require.ErrorIs(t, res.err, recipe.ErrInvalidRecipe)
	require.Contains(t, res.stdout, "recipe is invalid")

	res = execute(t, NewValidateCommand(), "", "--schema")
	require.NoError(t, res.err)
	require.JSONEq(t, string(recipe.Schema()), res.stdout)

	res = execute(t, NewValidateCommand(), "")
	require.ErrorIs(t, res.err, ErrNoRecipe)
}
