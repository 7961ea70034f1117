package query

import (
	"slices"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// And holds when every predicate holds. An empty And always holds.
func And(preds ...Predicate) Predicate {
	return func(node *ast.Node) bool {
		return all(node, preds)
	}
}

// Or holds when at least one predicate holds. An empty Or never holds.
func Or(preds ...Predicate) Predicate {
	return func(node *ast.Node) bool {
		for _, pred := range preds {
			if pred(node) {
				return true
			}
		}

		return false
	}
}

// Not negates a predicate.
func Not(pred Predicate) Predicate {
	return func(node *ast.Node) bool {
		return !pred(node)
	}
}

// KindIs holds for nodes of any of the given kinds.
func KindIs(kinds ...ast.Kind) Predicate {
	return func(node *ast.Node) bool {
		return node != nil && slices.Contains(kinds, node.Kind())
	}
}

// IdentifierNamed holds for identifiers with the given name.
func IdentifierNamed(name string) Predicate {
	return func(node *ast.Node) bool {
		return node != nil && node.Kind() == ast.KindIdentifier && node.Name() == name
	}
}

// Callee holds for calls and new expressions whose callee satisfies pred.
func Callee(pred Predicate) Predicate {
	return func(node *ast.Node) bool {
		callee := node.Callee()

		return callee != nil && pred(callee)
	}
}

// CalleeNamed holds for calls whose callee is the identifier or member chain
// name, e.g. "require" or "console.log".
func CalleeNamed(name string) Predicate {
	return Callee(func(callee *ast.Node) bool {
		got, ok := callee.DottedName()

		return ok && got == name
	})
}

// ArgCount holds for calls with exactly n arguments, comments excluded.
func ArgCount(n int) Predicate {
	return func(node *ast.Node) bool {
		return node.ArgumentList() != nil && len(node.Arguments()) == n
	}
}

// Arg holds for calls whose argument at idx exists and satisfies pred.
func Arg(idx int, pred Predicate) Predicate {
	return func(node *ast.Node) bool {
		args := node.Arguments()
		if idx < 0 || idx >= len(args) {
			return false
		}

		return pred(args[idx])
	}
}

// StringLiteral holds for string literals whose decoded value equals value.
// Quote style and escapes do not matter.
func StringLiteral(value string) Predicate {
	return func(node *ast.Node) bool {
		if node == nil {
			return false
		}

		got, ok := node.StringValue()

		return ok && got == value
	}
}

// LiteralEquals holds for literals whose value equals value. Integers compare
// equal to the float64 the parser produces.
func LiteralEquals(value any) Predicate {
	want := normalize(value)

	return func(node *ast.Node) bool {
		if node == nil || node.Kind() != ast.KindLiteral {
			return false
		}

		if want == nil {
			return node.IsNull()
		}

		return node.Value() == want
	}
}

func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

// SourceEquals holds for imports and re-exports from the module source.
func SourceEquals(source string) Predicate {
	return func(node *ast.Node) bool {
		got, ok := node.SourceValue()

		return ok && got == source
	}
}

// HasAncestor holds when some ancestor satisfies pred.
func HasAncestor(pred Predicate) Predicate {
	return func(node *ast.Node) bool {
		for cur := node.Parent(); cur != nil; cur = cur.Parent() {
			if pred(cur) {
				return true
			}
		}

		return false
	}
}

// InField holds for nodes that fill the given role in their parent.
func InField(field string) Predicate {
	return func(node *ast.Node) bool {
		return node.Parent() != nil && node.Field() == field
	}
}

// RequireOf matches require(path): a call whose callee is the identifier
// require with exactly one argument, a string literal equal to path.
func RequireOf(path string) Predicate {
	return And(
		KindIs(ast.KindCallExpression),
		Callee(IdentifierNamed("require")),
		ArgCount(1),
		Arg(0, StringLiteral(path)),
	)
}

// ImportOf matches import declarations from the module source.
func ImportOf(source string) Predicate {
	return And(KindIs(ast.KindImportDeclaration), SourceEquals(source))
}
