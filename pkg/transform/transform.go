// Package transform runs a transform over one source file: parse, let the
// transform select and mutate, print.
package transform

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/mutate"
	"github.com/Sumatoshi-tech/codeshift/pkg/printer"
	"github.com/Sumatoshi-tech/codeshift/pkg/query"
)

// ErrMissingParam is returned by Context.Require for an absent parameter.
var ErrMissingParam = errors.New("missing transform parameter")

// Param documents a parameter a transform reads.
type Param struct {
	Name        string `json:"name"              yaml:"name"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description"       yaml:"description"`
}

// Transform is a named rewrite applied to one parsed file. Fn selects nodes
// through the Context, mutates the tree and reports what it saw. A nil Fn
// leaves the tree untouched.
type Transform struct {
	Name        string
	Description string
	Params      []Param
	Fn          func(*Context) error
}

// Report is one observation emitted by a transform.
type Report struct {
	File    string   `json:"file,omitempty" yaml:"file,omitempty"`
	Path    ast.Path `json:"path"           yaml:"path"`
	Kind    ast.Kind `json:"kind"           yaml:"kind"`
	Line    int      `json:"line"           yaml:"line"`
	Column  int      `json:"column"         yaml:"column"`
	Message string   `json:"message"        yaml:"message"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
}

// String formats the report as file:line:col: message.
func (r Report) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", r.File, r.Line, r.Column, r.Message)
}

// Context is what a transform sees of the file being transformed.
type Context struct {
	Tree   *ast.Tree
	Path   string
	Params map[string]string

	reports []Report
}

// NewContext creates a context over tree. Params are copied.
func NewContext(tree *ast.Tree, path string, params map[string]string) *Context {
	return &Context{Tree: tree, Path: path, Params: maps.Clone(params)}
}

// Param returns the named parameter, or def when it is unset or empty.
func (c *Context) Param(name, def string) string {
	if value := c.Params[name]; value != "" {
		return value
	}

	return def
}

// Require returns the named parameter or ErrMissingParam.
func (c *Context) Require(name string) (string, error) {
	value := c.Params[name]
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}

	return value, nil
}

// Select is query.Select over the context's tree.
func (c *Context) Select(kind ast.Kind, preds ...query.Predicate) query.Matches {
	return query.Select(c.Tree, kind, preds...)
}

// MatchOf locates node in the context's tree.
func (c *Context) MatchOf(node *ast.Node) (ast.Match, error) {
	path, err := c.Tree.Locate(node)
	if err != nil {
		return ast.Match{}, err
	}

	return ast.Match{Node: node, Path: path}, nil
}

// Batch starts a batch of edits on the context's tree.
func (c *Context) Batch() *mutate.Batch {
	return mutate.NewBatch(c.Tree)
}

// Report records an observation about match. The node's source text is
// captured as it currently prints.
func (c *Context) Report(match ast.Match, msg string) {
	report := Report{
		File:    c.Path,
		Path:    match.Path.Clone(),
		Message: msg,
	}

	if match.Node != nil {
		span := match.Node.Span()
		report.Kind = match.Node.Kind()
		report.Line = span.StartLine
		report.Column = span.StartCol

		if text, err := printer.PrintNode(match.Node, printer.Options{Quote: printer.QuotePreserve}); err == nil {
			report.Text = text
		}
	}

	c.reports = append(c.reports, report)
}

// Reports returns the reports recorded so far, in order.
func (c *Context) Reports() []Report {
	return c.reports
}

func (t *Transform) apply(c *Context) error {
	if t == nil || t.Fn == nil {
		return nil
	}

	return t.Fn(c)
}
