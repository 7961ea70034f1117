package recipe_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshift/pkg/recipe"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

func TestSchemaIsValidJSON(t *testing.T) {
	t.Parallel()

	var schema map[string]any

	require.NoError(t, json.Unmarshal(recipe.Schema(), &schema))
	assert.Equal(t, "codeshift recipe", schema["title"])
}

func TestLoad(t *testing.T) {
	t.Parallel()

	rcp, err := recipe.Load(filepath.Join("testdata", "modernize.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "modernize", rcp.Name)
	require.Len(t, rcp.Rules, 4)

	first := rcp.Rules[0]
	assert.Equal(t, "CallExpression", first.Kind)
	assert.Equal(t, "require", first.Callee)
	require.NotNil(t, first.Args)
	assert.Equal(t, 1, *first.Args)
	require.NotNil(t, first.Argument)
	assert.Equal(t, "./calc", *first.Argument)
	assert.Equal(t, recipe.ActionReplaceArgument, first.Action)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := recipe.Load(filepath.Join("testdata", "absent.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, recipe.ErrInvalidRecipe)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := recipe.Load(filepath.Join("testdata", "invalid.yaml"))
	require.ErrorIs(t, err, recipe.ErrInvalidRecipe)
	assert.Contains(t, err.Error(), "invalid.yaml")
	assert.Contains(t, err.Error(), "value")
}

func TestParseSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "", want: "empty document"},
		{name: "not yaml", doc: "name: [", want: "invalid recipe"},
		{name: "missing rules", doc: "name: a\n", want: "rules"},
		{name: "no rules", doc: "name: a\nrules: []\n", want: "rules"},
		{name: "bad name", doc: "name: A B\nrules:\n  - kind: Identifier\n    action: report\n", want: "name"},
		{name: "unknown action", doc: "name: a\nrules:\n  - kind: Identifier\n    action: explode\n", want: "action"},
		{name: "unknown field", doc: "name: a\nrules:\n  - kind: Identifier\n    action: report\n    color: red\n", want: "color"},
		{name: "replace without value", doc: "name: a\nrules:\n  - kind: ImportDeclaration\n    action: replace-source\n", want: "value"},
		{name: "negative args", doc: "name: a\nrules:\n  - kind: CallExpression\n    args: -1\n    action: report\n", want: "args"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := recipe.Parse([]byte(tt.doc))
			require.ErrorIs(t, err, recipe.ErrInvalidRecipe)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompileRejectsMismatchedAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule recipe.Rule
	}{
		{name: "rename call", rule: recipe.Rule{Kind: "CallExpression", Action: recipe.ActionRename, Value: "x"}},
		{name: "rename to nothing", rule: recipe.Rule{Kind: "Identifier", Action: recipe.ActionRename}},
		{name: "replace source of call", rule: recipe.Rule{Kind: "CallExpression", Action: recipe.ActionReplaceSource, Value: "x"}},
		{name: "replace argument of import", rule: recipe.Rule{Kind: "ImportDeclaration", Action: recipe.ActionReplaceArgument, Value: "x"}},
		{name: "unknown action", rule: recipe.Rule{Kind: "Identifier", Action: "explode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rcp := &recipe.Recipe{Name: "bad", Rules: []recipe.Rule{tt.rule}}

			_, err := rcp.Compile()
			require.ErrorIs(t, err, recipe.ErrInvalidRecipe)
			assert.Contains(t, err.Error(), "rule 1")
		})
	}
}

func TestLoadTransformApplies(t *testing.T) {
	t.Parallel()

	tr, err := recipe.LoadTransform(filepath.Join("testdata", "modernize.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "modernize", tr.Name)

	src := "import _ from \"lodash\";\n" +
		"const calc = require(\"./calc\");\n" +
		"console.log(calc);\n" +
		"function oldName() {\n" +
		"  console.log('inner');\n" +
		"  return obj.oldName;\n" +
		"}\n" +
		"oldName();\n"

	want := "import _ from 'lodash-es';\n" +
		"const calc = require('./math');\n" +
		"function newName() {\n" +
		"  return obj.oldName;\n" +
		"}\n" +
		"newName();\n"

	res, err := transform.NewRunner().Run(t.Context(), transform.File{Path: "app.js", Source: src}, transform.Options{Transform: tr, Verify: true})
	require.NoError(t, err)
	assert.Equal(t, want, res.Output)

	messages := make([]string, 0, len(res.Reports))
	for _, report := range res.Reports {
		messages = append(messages, report.Message)
	}

	assert.Equal(t, []string{
		"calc moved to math",
		recipe.ActionReplaceSource,
		recipe.ActionRemove,
		recipe.ActionRemove,
		recipe.ActionRename,
		recipe.ActionRename,
	}, messages)
}

func TestRuleFilters(t *testing.T) {
	t.Parallel()

	src := "require('./a');\nrequire('./a', 1);\nload('./a');\nfunction f() { require('./a'); }\n"

	tests := []struct {
		name  string
		rule  string
		lines []int
	}{
		{name: "callee", rule: "    callee: load\n", lines: []int{3}},
		{name: "args", rule: "    callee: require\n    args: 2\n", lines: []int{2}},
		{name: "argument", rule: "    argument: ./a\n", lines: []int{1, 2, 3, 4}},
		{name: "argument index", rule: "    argument: ./a\n    index: 1\n", lines: nil},
		{name: "inside", rule: "    callee: require\n    inside: FunctionDeclaration\n", lines: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := "name: filters\nrules:\n  - kind: CallExpression\n    action: report\n" + tt.rule

			rcp, err := recipe.Parse([]byte(doc))
			require.NoError(t, err)

			tr, err := rcp.Compile()
			require.NoError(t, err)

			res, err := transform.NewRunner().Run(t.Context(), transform.File{Source: src}, transform.Options{Transform: tr})
			require.NoError(t, err)
			assert.False(t, res.Changed)

			var lines []int
			for _, report := range res.Reports {
				lines = append(lines, report.Line)
			}

			assert.Equal(t, tt.lines, lines)
		})
	}
}

func TestRemoveInsideExpression(t *testing.T) {
	t.Parallel()

	rcp := &recipe.Recipe{Name: "strip", Rules: []recipe.Rule{
		{Kind: "CallExpression", Callee: "debug", Action: recipe.ActionRemove},
	}}

	tr, err := rcp.Compile()
	require.NoError(t, err)

	out, err := transform.RunTransform("a();\nconst x = debug(debug(1));\nb();\n", transform.Options{Transform: tr})
	require.NoError(t, err)
	assert.Equal(t, "a();\nb();\n", out)
}
