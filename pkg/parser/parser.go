// Package parser turns JavaScript, JSX, TypeScript and TSX source text into
// ast trees using tree-sitter grammars.
package parser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// Parser parses source text of one language. A Parser is safe for concurrent
// use; tree-sitter parsers are pooled per language.
type Parser struct {
	language string
	pool     *sync.Pool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLanguage selects the grammar by name. The default is javascript.
func WithLanguage(name string) Option {
	return func(parser *Parser) {
		parser.language = name
	}
}

var pools sync.Map

func poolFor(name string) (*sync.Pool, error) {
	if cached, ok := pools.Load(name); ok {
		if pool, castOK := cached.(*sync.Pool); castOK {
			return pool, nil
		}
	}

	lang := getLanguage(name)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	actual, _ := pools.LoadOrStore(name, pool)

	stored, ok := actual.(*sync.Pool)
	if !ok {
		return nil, errPoolType
	}

	return stored, nil
}

// New creates a parser.
func New(opts ...Option) (*Parser, error) {
	parser := &Parser{language: LangJavaScript}

	for _, opt := range opts {
		opt(parser)
	}

	pool, err := poolFor(parser.language)
	if err != nil {
		return nil, err
	}

	parser.pool = pool

	return parser, nil
}

// ForFile creates a parser for the language implied by the file extension.
func ForFile(path string) (*Parser, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: no grammar for %q", ErrUnsupportedLanguage, path)
	}

	return New(WithLanguage(lang))
}

// Language returns the grammar name.
func (parser *Parser) Language() string {
	return parser.language
}

// Parse parses source into a tree. Malformed input fails with *SyntaxError
// and no tree.
func (parser *Parser) Parse(ctx context.Context, source string) (*ast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tsParser, ok := parser.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.pool.Put(tsParser)

	content := []byte(source)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", parser.language, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		if bad, found := findSyntaxError(root); found {
			return nil, newSyntaxError(bad, content, parser.language)
		}
	}

	conv := &converter{source: content}
	tree := ast.NewTree(conv.convert(root, ""), parser.language)
	tree.Prefix = conv.text(0, uint(root.StartByte()))
	tree.Suffix = conv.text(uint(root.EndByte()), uint(len(content)))

	return tree, nil
}

// ParseStatements parses code and returns its top-level statements as
// detached nodes. The nodes keep their own formatting.
func (parser *Parser) ParseStatements(ctx context.Context, code string) ([]*ast.Node, error) {
	tree, err := parser.Parse(ctx, code)
	if err != nil {
		return nil, err
	}

	var out []*ast.Node

	for tree.Root.ChildCount() > 0 {
		out = append(out, tree.Root.RemoveChildAt(0))
	}

	return out, nil
}

// ParseExpression parses a single expression and returns it detached.
// Object literals must be parenthesized, as in statement position.
func (parser *Parser) ParseExpression(ctx context.Context, code string) (*ast.Node, error) {
	tree, err := parser.Parse(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	stmts := tree.Root.NamedChildren()
	if len(stmts) != 1 || stmts[0].Kind() != ast.KindExpressionStatement {
		return nil, fmt.Errorf("%w: %q", ErrNotExpression, code)
	}

	stmt := stmts[0]
	if strings.Trim(stmt.Trail(), "; \t\r\n") != "" || stmt.ChildCount() != 1 {
		return nil, fmt.Errorf("%w: %q", ErrNotExpression, code)
	}

	expr := stmt.FieldNode(ast.FieldExpression)
	if expr == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotExpression, code)
	}

	expr.Detach()

	return expr, nil
}
