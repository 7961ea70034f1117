package transform

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/query"
)

// Built-in transform names.
const (
	NameIdentity        = "identity"
	NameFindRequire     = "find-require"
	NameRenameRequire   = "rename-require"
	NameRequireToImport = "require-to-import"
	NameRemoveImport    = "remove-import"
)

// DefaultRequireTarget is the module path find-require looks for by default.
const DefaultRequireTarget = "./calc"

func builtins() []*Transform {
	return []*Transform{
		Identity(),
		FindRequire(),
		RenameRequire(),
		RequireToImport(),
		RemoveImport(),
	}
}

// Identity leaves the tree alone, so printing only normalizes quotes.
func Identity() *Transform {
	return &Transform{
		Name:        NameIdentity,
		Description: "Re-print the file without structural changes",
	}
}

// FindRequire reports every require('<target>') call.
func FindRequire() *Transform {
	return &Transform{
		Name:        NameFindRequire,
		Description: "Report require calls of one module",
		Params: []Param{
			{Name: "target", Default: DefaultRequireTarget, Description: "module path passed to require"},
		},
		Fn: func(c *Context) error {
			target := c.Param("target", DefaultRequireTarget)

			for _, match := range c.Select(ast.KindCallExpression, query.RequireOf(target)) {
				c.Report(match, "require of "+target)
			}

			return nil
		},
	}
}

// RenameRequire points require('<from>') calls at '<to>'.
func RenameRequire() *Transform {
	return &Transform{
		Name:        NameRenameRequire,
		Description: "Replace the module path of require calls",
		Params: []Param{
			{Name: "from", Description: "module path to replace"},
			{Name: "to", Description: "new module path"},
		},
		Fn: func(c *Context) error {
			from, err := c.Require("from")
			if err != nil {
				return err
			}

			to, err := c.Require("to")
			if err != nil {
				return err
			}

			batch := c.Batch()

			for _, match := range c.Select(ast.KindCallExpression, query.RequireOf(from)) {
				arg, locateErr := c.MatchOf(match.Node.Arguments()[0])
				if locateErr != nil {
					return locateErr
				}

				batch.Replace(arg, ast.NewString(to))
				c.Report(match, fmt.Sprintf("require %s -> %s", from, to))
			}

			_, err = batch.Apply()

			return err
		},
	}
}

// RequireToImport rewrites top-level `const x = require('m')` declarations
// into `import x from 'm'`. Object destructuring becomes named imports.
func RequireToImport() *Transform {
	return &Transform{
		Name:        NameRequireToImport,
		Description: "Turn top-level require declarations into import declarations",
		Fn: func(c *Context) error {
			batch := c.Batch()

			for _, match := range c.Select(ast.KindVariableDeclaration, topLevel) {
				imp, ok := importFor(match.Node)
				if !ok {
					continue
				}

				batch.Replace(match, imp)
				c.Report(match, "require converted to import")
			}

			_, err := batch.Apply()

			return err
		},
	}
}

// RemoveImport drops import declarations of one module.
func RemoveImport() *Transform {
	return &Transform{
		Name:        NameRemoveImport,
		Description: "Remove import declarations of one module",
		Params: []Param{
			{Name: "source", Description: "module path of the imports to remove"},
		},
		Fn: func(c *Context) error {
			source, err := c.Require("source")
			if err != nil {
				return err
			}

			batch := c.Batch()

			for _, match := range c.Select(ast.KindImportDeclaration, query.ImportOf(source)) {
				c.Report(match, "import removed")
				batch.Remove(match)
			}

			_, err = batch.Apply()

			return err
		},
	}
}

func topLevel(n *ast.Node) bool {
	parent := n.Parent()

	return parent != nil && parent.Kind() == ast.KindProgram
}

var isAnyRequire = query.And(
	query.KindIs(ast.KindCallExpression),
	query.Callee(query.IdentifierNamed("require")),
	query.ArgCount(1),
	query.Arg(0, func(n *ast.Node) bool { return n.IsStringLiteral() }),
)

// importFor builds the import equivalent of a single-declarator const require
// declaration. let and var bindings can be reassigned, imports cannot.
func importFor(decl *ast.Node) (*ast.Node, bool) {
	if decl.Keyword() != ast.DeclConst {
		return nil, false
	}

	declarators := decl.NamedChildren()
	if len(declarators) != 1 || declarators[0].Kind() != ast.KindVariableDeclarator {
		return nil, false
	}

	value := declarators[0].FieldNode(ast.FieldValue)
	if value == nil || !isAnyRequire(value) {
		return nil, false
	}

	source, _ := value.Arguments()[0].StringValue()
	binding := declarators[0].FieldNode(ast.FieldName)

	switch {
	case binding == nil:
		return nil, false
	case binding.Kind() == ast.KindIdentifier:
		return ast.NewImport(source, ast.Binding{Kind: ast.BindingDefault, Imported: "default", Local: binding.Name()}), true
	case binding.Kind() == kindObjectPattern:
		named, ok := namedBindings(binding)
		if !ok {
			return nil, false
		}

		return ast.NewImport(source, named...), true
	default:
		return nil, false
	}
}

const (
	kindObjectPattern = ast.Kind("ObjectPattern")
	kindPairPattern   = ast.Kind("PairPattern")
)

// namedBindings maps `{ a, b: c }` to named import bindings. Nested patterns,
// defaults and rest elements have no import equivalent.
func namedBindings(pattern *ast.Node) ([]ast.Binding, bool) {
	var out []ast.Binding

	for _, prop := range pattern.NamedChildren() {
		switch prop.Kind() {
		case ast.KindIdentifier:
			out = append(out, ast.Binding{Kind: ast.BindingNamed, Imported: prop.Name(), Local: prop.Name()})
		case kindPairPattern:
			parts := prop.NamedChildren()
			if len(parts) != 2 || parts[0].Kind() != ast.KindIdentifier || parts[1].Kind() != ast.KindIdentifier {
				return nil, false
			}

			out = append(out, ast.Binding{Kind: ast.BindingNamed, Imported: parts[0].Name(), Local: parts[1].Name()})
		default:
			return nil, false
		}
	}

	return out, len(out) > 0
}
