package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

func buildProgram() *ast.Tree {
	first := ast.NewExpressionStatement(ast.NewCall(ast.NewIdentifier("a")))
	second := ast.NewExpressionStatement(ast.NewCall(ast.NewIdentifier("b"), ast.NewString("x")))
	third := ast.NewExpressionStatement(ast.NewIdentifier("c"))

	root := ast.NewBuilder(ast.KindProgram).
		WithChild(first, "", "").
		WithChild(second, "", "\n").
		WithChild(third, "", "\n").
		Build()

	return ast.NewTree(root, "javascript")
}

func TestWalkIsPreOrder(t *testing.T) {
	t.Parallel()

	tree := buildProgram()

	var kinds []ast.Kind

	ast.Walk(tree.Root, func(node *ast.Node, _ ast.Path) bool {
		kinds = append(kinds, node.Kind())

		return true
	})

	assert.Equal(t, []ast.Kind{
		ast.KindProgram,
		ast.KindExpressionStatement, ast.KindCallExpression, ast.KindIdentifier, ast.KindArguments,
		ast.KindExpressionStatement, ast.KindCallExpression, ast.KindIdentifier, ast.KindArguments, ast.KindLiteral,
		ast.KindExpressionStatement, ast.KindIdentifier,
	}, kinds)
}

func TestWalkSkipsSubtree(t *testing.T) {
	t.Parallel()

	tree := buildProgram()
	count := 0

	ast.Walk(tree.Root, func(node *ast.Node, _ ast.Path) bool {
		count++

		return node.Kind() != ast.KindExpressionStatement
	})

	assert.Equal(t, 4, count)
}

func TestPathResolveRoundTrip(t *testing.T) {
	t.Parallel()

	tree := buildProgram()

	ast.Walk(tree.Root, func(node *ast.Node, path ast.Path) bool {
		assert.Equal(t, path, node.Path())

		got, err := tree.Resolve(path)
		require.NoError(t, err)
		assert.Same(t, node, got)

		return true
	})
}

func TestResolveOutOfRange(t *testing.T) {
	t.Parallel()

	tree := buildProgram()

	_, err := tree.Resolve(ast.Path{7})
	require.ErrorIs(t, err, ast.ErrPathOutOfRange)
}

func TestRevalidateAfterShift(t *testing.T) {
	t.Parallel()

	tree := buildProgram()
	target := tree.Root.Child(2)
	match := ast.Match{Node: target, Path: ast.Path{2}}

	tree.Root.RemoveChildAt(0)

	got, err := tree.Revalidate(match)
	require.NoError(t, err)
	assert.Equal(t, ast.Path{1}, got.Path)
	assert.Same(t, target, got.Node)

	removed := tree.Root.RemoveChildAt(1)

	_, err = tree.Revalidate(ast.Match{Node: removed, Path: ast.Path{1}})
	require.ErrorIs(t, err, ast.ErrNotInTree)
}

func TestRemoveFirstChildKeepsLeadingText(t *testing.T) {
	t.Parallel()

	root := ast.NewBuilder(ast.KindArguments).
		WithChild(ast.NewIdentifier("a"), "", "").
		WithChild(ast.NewIdentifier("b"), "", ", ").
		Build()

	removed := root.RemoveChildAt(0)

	require.NotNil(t, removed)
	assert.Nil(t, removed.Parent())
	assert.Empty(t, root.Child(0).Lead())
	assert.Equal(t, "b", root.Child(0).Name())
}

func TestReplaceChildTakesSlot(t *testing.T) {
	t.Parallel()

	call := ast.NewCall(ast.NewIdentifier("require"), ast.NewString("./a"))
	old := call.Callee()
	repl := ast.NewIdentifier("load")

	require.True(t, call.ReplaceChild(old, repl))

	assert.Same(t, repl, call.Callee())
	assert.Equal(t, ast.FieldCallee, repl.Field())
	assert.Nil(t, old.Parent())
	assert.False(t, call.ReplaceChild(old, ast.NewIdentifier("x")))
}

func TestInsertRejectsAttachedChild(t *testing.T) {
	t.Parallel()

	tree := buildProgram()
	attached := tree.Root.Child(0)

	assert.False(t, tree.Root.AddChild(attached, "", ""))
	assert.Equal(t, 3, tree.Root.ChildCount())
}

func TestCloneIsDetachedDeepCopy(t *testing.T) {
	t.Parallel()

	tree := buildProgram()
	orig := tree.Root.Child(1)
	cp := orig.Clone()

	assert.Nil(t, cp.Parent())
	assert.Empty(t, cp.Lead())
	assert.Equal(t, orig.ChildCount(), cp.ChildCount())
	assert.NotSame(t, orig.Child(0), cp.Child(0))
	assert.Same(t, cp, cp.Child(0).Parent())

	cp.Child(0).Callee().SetName("changed")
	assert.Equal(t, "b", orig.Child(0).Callee().Name())
}

func TestFindCollectsInOrder(t *testing.T) {
	t.Parallel()

	tree := buildProgram()
	ids := tree.Root.Find(func(n *ast.Node) bool { return n.Kind() == ast.KindIdentifier })

	require.Len(t, ids, 3)
	assert.Equal(t, "a", ids[0].Name())
	assert.Equal(t, "b", ids[1].Name())
	assert.Equal(t, "c", ids[2].Name())
}

func TestSpecifiersOfSyntheticImport(t *testing.T) {
	t.Parallel()

	imp := ast.NewImport("react",
		ast.Binding{Kind: ast.BindingDefault, Local: "React"},
		ast.Binding{Kind: ast.BindingNamed, Imported: "useState", Local: "useState"},
		ast.Binding{Kind: ast.BindingNamed, Imported: "useEffect", Local: "effect"},
	)

	src, ok := imp.SourceValue()
	require.True(t, ok)
	assert.Equal(t, "react", src)

	assert.Equal(t, []ast.Binding{
		{Kind: ast.BindingDefault, Imported: "default", Local: "React"},
		{Kind: ast.BindingNamed, Imported: "useState", Local: "useState"},
		{Kind: ast.BindingNamed, Imported: "useEffect", Local: "effect"},
	}, imp.Specifiers())
}

func TestCallAttributes(t *testing.T) {
	t.Parallel()

	call := ast.NewCall(ast.NewMember(ast.NewIdentifier("console"), "log"), ast.NewString("hi"), ast.NewNumber(1))

	name, ok := call.Callee().DottedName()
	require.True(t, ok)
	assert.Equal(t, "console.log", name)
	assert.Len(t, call.Arguments(), 2)
	assert.Equal(t, ast.KindArguments, call.ArgumentList().Kind())
	assert.Nil(t, ast.NewIdentifier("x").Callee())
}

func TestSetValueNull(t *testing.T) {
	t.Parallel()

	lit := ast.NewString("x")
	assert.False(t, lit.IsNull())

	lit.SetValue(nil)
	assert.True(t, lit.IsNull())
	assert.True(t, ast.NewNull().IsNull())
}

func TestToMapSynthetic(t *testing.T) {
	t.Parallel()

	call := ast.NewCall(ast.NewIdentifier("require"), ast.NewString("./calc"))

	got := call.ToMap()

	assert.Equal(t, "CallExpression", got["kind"])
	assert.NotContains(t, got, "span")

	children, ok := got["children"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, children, 2)

	assert.Equal(t, map[string]any{"kind": "Identifier", "field": ast.FieldCallee, "name": "require"}, children[0])

	args, ok := children[1]["children"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"kind": "Literal", "value": "./calc"}, args[0])
}

func TestToMapNil(t *testing.T) {
	t.Parallel()

	var node *ast.Node

	assert.Nil(t, node.ToMap())
}
