package parser

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/evanw/esbuild/pkg/api"
)

// Sentinel errors for parser operations.
var (
	// ErrUnsupportedLanguage is returned for languages without a grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrNotExpression is returned by ParseExpression for input that is not
	// a single expression.
	ErrNotExpression = errors.New("input is not a single expression")

	errPoolType   = errors.New("parser pool returned unexpected type")
	errNoRootNode = errors.New("parser produced no root node")
)

const maxTokenPreview = 16

// SyntaxError reports malformed input. Line and Column are 1-based, Offset is
// a 0-based byte offset.
type SyntaxError struct {
	Line    int
	Column  int
	Offset  int
	Message string
}

// Error implements error.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// findSyntaxError returns the first ERROR or missing node in pre-order.
func findSyntaxError(root sitter.Node) (sitter.Node, bool) {
	stack := []sitter.Node{root}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.IsMissing() || cur.Type() == "ERROR" {
			return cur, true
		}

		if !cur.HasError() {
			continue
		}

		count := cur.ChildCount()
		for idx := count; idx > 0; idx-- {
			stack = append(stack, cur.Child(idx-1))
		}
	}

	return sitter.Node{}, false
}

// newSyntaxError positions the error at the offending node and takes the
// message from esbuild, which produces far more useful diagnostics than a
// bare tree-sitter ERROR node.
func newSyntaxError(bad sitter.Node, source []byte, language string) *SyntaxError {
	start := bad.StartPoint()

	synErr := &SyntaxError{
		Line:    int(start.Row) + 1,    //nolint:gosec // tree-sitter coordinates fit in int
		Column:  int(start.Column) + 1, //nolint:gosec // tree-sitter coordinates fit in int
		Offset:  int(bad.StartByte()),  //nolint:gosec // tree-sitter byte offsets fit in int
		Message: fallbackMessage(bad, source),
	}

	if msg := esbuildDiagnostic(source, language); msg != "" {
		synErr.Message = msg
	}

	return synErr
}

func fallbackMessage(bad sitter.Node, source []byte) string {
	if bad.IsMissing() {
		return fmt.Sprintf("missing %q", bad.Type())
	}

	token := strings.TrimSpace(bad.Content(source))
	if token == "" {
		return "unexpected end of input"
	}

	if idx := strings.IndexAny(token, " \t\r\n"); idx > 0 {
		token = token[:idx]
	}

	if len(token) > maxTokenPreview {
		token = token[:maxTokenPreview]
	}

	return fmt.Sprintf("unexpected token %q", token)
}

// esbuildDiagnostic returns esbuild's first error message for the source, or ""
// when esbuild accepts it.
func esbuildDiagnostic(source []byte, language string) string {
	loader, ok := esbuildLoaders[language]
	if !ok {
		return ""
	}

	result := api.Transform(string(source), api.TransformOptions{
		Loader:   loader,
		LogLevel: api.LogLevelSilent,
	})

	if len(result.Errors) == 0 {
		return ""
	}

	first := result.Errors[0]
	if first.Location == nil {
		return first.Text
	}

	return fmt.Sprintf("%s (esbuild %d:%d)", first.Text, first.Location.Line, first.Location.Column+1)
}
