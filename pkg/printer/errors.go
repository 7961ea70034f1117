package printer

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// PrintError reports a node that cannot be printed. Path is relative to the
// printed root.
type PrintError struct {
	Path   ast.Path
	Kind   ast.Kind
	Reason string
}

// Error implements error.
func (e *PrintError) Error() string {
	return fmt.Sprintf("cannot print %s at %s: %s", e.Kind, e.Path, e.Reason)
}

// Reasons reported by PrintError.
const (
	reasonNoCallee     = "call without callee"
	reasonNoSource     = "import without string source"
	reasonNoName       = "identifier without name"
	reasonBadValue     = "literal with unsupported value"
	reasonNoGenerator  = "synthetic node has no generator and no raw text"
	reasonNoDeclarator = "declaration without declarators"
	reasonBadJSXString = "JSX attribute string with both quote characters"
)
