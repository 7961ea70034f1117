package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/parser"
)

func parse(t *testing.T, source string) *ast.Tree {
	t.Helper()

	p, err := parser.New()
	require.NoError(t, err)

	tree, err := p.Parse(context.Background(), source)
	require.NoError(t, err)

	return tree
}

func TestParseRequireCall(t *testing.T) {
	t.Parallel()

	tree := parse(t, `const c = require('./calc');`)

	require.Equal(t, ast.KindProgram, tree.Root.Kind())
	require.Equal(t, 1, tree.Root.ChildCount())

	decl := tree.Root.Child(0)
	assert.Equal(t, ast.KindVariableDeclaration, decl.Kind())
	assert.Equal(t, "const", decl.Keyword())

	declarator := decl.NamedChildren()[0]
	assert.Equal(t, ast.KindVariableDeclarator, declarator.Kind())
	assert.Equal(t, "c", declarator.FieldNode(ast.FieldName).Name())

	call := declarator.FieldNode(ast.FieldValue)
	require.NotNil(t, call)
	require.Equal(t, ast.KindCallExpression, call.Kind())
	assert.Equal(t, "require", call.Callee().Name())

	args := call.Arguments()
	require.Len(t, args, 1)

	value, ok := args[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "./calc", value)
	assert.Equal(t, `'./calc'`, args[0].Raw())
}

func TestParseSpans(t *testing.T) {
	t.Parallel()

	tree := parse(t, "a;\nfoo(1);\n")
	call := tree.Root.Child(1).FieldNode(ast.FieldExpression)

	require.NotNil(t, call)
	assert.Equal(t, ast.Span{
		StartLine: 2, StartCol: 1, StartOffset: 3,
		EndLine: 2, EndCol: 7, EndOffset: 9,
	}, call.Span())
}

func TestParseImports(t *testing.T) {
	t.Parallel()

	tree := parse(t, `import React, { useState as state, useEffect } from "react";
import * as path from 'path';
import './side-effect';`)

	stmts := tree.Root.NamedChildren()
	require.Len(t, stmts, 3)

	for _, stmt := range stmts {
		assert.Equal(t, ast.KindImportDeclaration, stmt.Kind())
	}

	src, ok := stmts[0].SourceValue()
	require.True(t, ok)
	assert.Equal(t, "react", src)
	assert.Equal(t, []ast.Binding{
		{Kind: ast.BindingDefault, Imported: "default", Local: "React"},
		{Kind: ast.BindingNamed, Imported: "useState", Local: "state"},
		{Kind: ast.BindingNamed, Imported: "useEffect", Local: "useEffect"},
	}, stmts[0].Specifiers())

	assert.Equal(t, []ast.Binding{
		{Kind: ast.BindingNamespace, Imported: "*", Local: "path"},
	}, stmts[1].Specifiers())

	assert.Empty(t, stmts[2].Specifiers())
}

func TestParseLiterals(t *testing.T) {
	t.Parallel()

	tree := parse(t, `f(1, 0x10, 1_000, 10n, true, null, "a\nb", /x+/g);`)
	call := tree.Root.Child(0).FieldNode(ast.FieldExpression)
	args := call.Arguments()

	require.Len(t, args, 8)
	assert.InDelta(t, 1.0, args[0].Value(), 0)
	assert.InDelta(t, 16.0, args[1].Value(), 0)
	assert.InDelta(t, 1000.0, args[2].Value(), 0)
	assert.Equal(t, ast.BigInt("10n"), args[3].Value())
	assert.Equal(t, true, args[4].Value())
	assert.True(t, args[5].IsNull())
	assert.Equal(t, "a\nb", args[6].Value())
	assert.Equal(t, ast.RegExp("/x+/g"), args[7].Value())

	assert.True(t, args[6].IsStringLiteral())
	assert.False(t, args[3].IsStringLiteral())
	assert.False(t, args[7].IsStringLiteral())
}

func TestParseMemberCallee(t *testing.T) {
	t.Parallel()

	tree := parse(t, `console.log("hi")`)
	call := tree.Root.Child(0).FieldNode(ast.FieldExpression)

	name, ok := call.Callee().DottedName()
	require.True(t, ok)
	assert.Equal(t, "console.log", name)
	assert.Equal(t, "console", call.Callee().Object().Name())
	assert.Equal(t, "log", call.Callee().Property().Name())
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	tree := parse(t, "// header\nfoo(/* inline */ 1);\n")

	assert.Equal(t, ast.KindComment, tree.Root.Child(0).Kind())

	call := tree.Root.Child(1).FieldNode(ast.FieldExpression)
	list := call.ArgumentList()

	require.Equal(t, 2, list.ChildCount())
	assert.Equal(t, ast.KindComment, list.Child(0).Kind())
	assert.Len(t, call.Arguments(), 1)
}

func TestParseJSXAttributeString(t *testing.T) {
	t.Parallel()

	tree := parse(t, `const el = <a href="x\y">t</a>;`)
	strs := tree.Root.Find(func(n *ast.Node) bool { return n.IsStringLiteral() })

	require.Len(t, strs, 1)
	assert.True(t, strs[0].IsJSX())
	assert.Equal(t, `x\y`, strs[0].Value())
}

func TestParseUnmappedGrammarKind(t *testing.T) {
	t.Parallel()

	tree := parse(t, `for (const k in o) {}`)

	assert.Equal(t, ast.Kind("ForInStatement"), tree.Root.Child(0).Kind())
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	p, err := parser.New()
	require.NoError(t, err)

	tree, err := p.Parse(context.Background(), "const a = 1;\nconst = ;\n")
	require.Error(t, err)
	assert.Nil(t, tree)

	var synErr *parser.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 2, synErr.Line)
	assert.Positive(t, synErr.Column)
	assert.GreaterOrEqual(t, synErr.Offset, len("const a = 1;\n"))
	assert.NotEmpty(t, synErr.Message)
}

func TestParseCancelledContext(t *testing.T) {
	t.Parallel()

	p, err := parser.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Parse(ctx, "a;")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLanguageSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"a.js", parser.LangJavaScript},
		{"a.mjs", parser.LangJavaScript},
		{"a.jsx", parser.LangJavaScript},
		{"a.ts", parser.LangTypeScript},
		{"a.cts", parser.LangTypeScript},
		{"a.tsx", parser.LangTSX},
		{"A.TSX", parser.LangTSX},
	}

	for _, tt := range tests {
		p, err := parser.ForFile(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, p.Language(), tt.path)
	}

	_, err := parser.ForFile("main.go")
	require.ErrorIs(t, err, parser.ErrUnsupportedLanguage)

	_, err = parser.New(parser.WithLanguage("cobol"))
	require.ErrorIs(t, err, parser.ErrUnsupportedLanguage)
}

func TestParseTypeScript(t *testing.T) {
	t.Parallel()

	p, err := parser.New(parser.WithLanguage(parser.LangTypeScript))
	require.NoError(t, err)

	tree, err := p.Parse(context.Background(), `import type { A } from './types';
const x: number = require("./calc");`)
	require.NoError(t, err)
	assert.Equal(t, parser.LangTypeScript, tree.Language)

	calls := tree.Root.Find(func(n *ast.Node) bool { return n.Kind() == ast.KindCallExpression })
	require.Len(t, calls, 1)
	assert.Equal(t, "require", calls[0].Callee().Name())
}

func TestParseExpressionSnippet(t *testing.T) {
	t.Parallel()

	p, err := parser.New()
	require.NoError(t, err)

	expr, err := p.ParseExpression(context.Background(), `load( "./x" )`)
	require.NoError(t, err)
	assert.Nil(t, expr.Parent())
	assert.Equal(t, ast.KindCallExpression, expr.Kind())

	_, err = p.ParseExpression(context.Background(), `a; b`)
	require.ErrorIs(t, err, parser.ErrNotExpression)

	_, err = p.ParseExpression(context.Background(), `const a = 1`)
	require.ErrorIs(t, err, parser.ErrNotExpression)
}

func TestParseStatementsSnippet(t *testing.T) {
	t.Parallel()

	p, err := parser.New()
	require.NoError(t, err)

	stmts, err := p.ParseStatements(context.Background(), "a();\nb();")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	for _, stmt := range stmts {
		assert.Nil(t, stmt.Parent())
		assert.Empty(t, stmt.Lead())
	}
}
