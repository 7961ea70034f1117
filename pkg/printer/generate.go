package printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// generator prints a synthetic node of one kind.
type generator func(p *printer, node *ast.Node, path ast.Path) error

var generators map[ast.Kind]generator

func init() {
	generators = map[ast.Kind]generator{
		ast.KindIdentifier:               genIdentifier,
		ast.KindLiteral:                  genLiteral,
		ast.KindProgram:                  genJoined("", "\n", ""),
		ast.KindBlockStatement:           genJoined("{\n", "\n", "\n}"),
		ast.KindArguments:                genJoined("(", ", ", ")"),
		ast.KindArrayExpression:          genJoined("[", ", ", "]"),
		ast.KindObjectExpression:         genObject,
		ast.KindProperty:                 genProperty,
		ast.KindImportClause:             genJoined("", ", ", ""),
		ast.KindNamedImports:             genNamedImports,
		ast.KindImportSpecifier:          genImportSpecifier,
		ast.KindImportNamespaceSpecifier: genNamespace,
		ast.KindImportDeclaration:        genImport,
		ast.KindCallExpression:           genCall,
		ast.KindNewExpression:            genNew,
		ast.KindMemberExpression:         genMember,
		ast.KindSubscriptExpression:      genSubscript,
		ast.KindExpressionStatement:      genExpressionStatement,
		ast.KindVariableDeclaration:      genVariableDeclaration,
		ast.KindVariableDeclarator:       genVariableDeclarator,
		ast.KindAwaitExpression:          genPrefixed("await "),
		ast.KindReturnStatement:          genReturn,
		ast.KindThisExpression:           genKeyword("this"),
	}
}

func (p *printer) generate(node *ast.Node, path ast.Path) error {
	if gen, ok := generators[node.Kind()]; ok {
		return gen(p, node, path)
	}

	if node.Raw() != "" {
		p.sb.WriteString(node.Raw())

		return nil
	}

	return &PrintError{Path: path.Clone(), Kind: node.Kind(), Reason: reasonNoGenerator}
}

// child prints a child of a synthetic node, which may itself be parsed.
func (p *printer) child(child *ast.Node, path ast.Path) error {
	return p.node(child, append(path, child.Index()))
}

func (p *printer) field(node *ast.Node, field string, path ast.Path) error {
	if child := node.FieldNode(field); child != nil {
		return p.child(child, path)
	}

	return nil
}

func (p *printer) join(children []*ast.Node, sep string, path ast.Path) error {
	for i, child := range children {
		if i > 0 {
			p.sb.WriteString(sep)
		}

		if err := p.child(child, path); err != nil {
			return err
		}
	}

	return nil
}

func genJoined(open, sep, closing string) generator {
	return func(p *printer, node *ast.Node, path ast.Path) error {
		p.sb.WriteString(open)

		if err := p.join(p.visibleChildren(node), sep, path); err != nil {
			return err
		}

		p.sb.WriteString(closing)

		return nil
	}
}

func genPrefixed(prefix string) generator {
	return func(p *printer, node *ast.Node, path ast.Path) error {
		p.sb.WriteString(prefix)

		return p.join(node.NamedChildren(), " ", path)
	}
}

func genKeyword(keyword string) generator {
	return func(p *printer, _ *ast.Node, _ ast.Path) error {
		p.sb.WriteString(keyword)

		return nil
	}
}

// visibleChildren drops comments when the fidelity level asks for it.
func (p *printer) visibleChildren(node *ast.Node) []*ast.Node {
	if p.opts.Fidelity == FidelityNoComments {
		return node.NamedChildren()
	}

	return node.Children()
}

func genIdentifier(p *printer, node *ast.Node, _ ast.Path) error {
	p.sb.WriteString(node.Name())

	return nil
}

func genLiteral(p *printer, node *ast.Node, path ast.Path) error {
	switch value := node.Value().(type) {
	case string:
		if node.IsJSX() {
			quoted, ok := jsxQuote(value)
			if !ok {
				return &PrintError{Path: path.Clone(), Kind: node.Kind(), Reason: reasonBadJSXString}
			}

			p.sb.WriteString(quoted)
		} else {
			p.sb.WriteString(ast.QuoteString(value, p.opts.quoteChar()))
		}
	case float64:
		p.sb.WriteString(formatNumber(value))
	case float32:
		p.sb.WriteString(formatNumber(float64(value)))
	case int:
		p.sb.WriteString(strconv.Itoa(value))
	case int64:
		p.sb.WriteString(strconv.FormatInt(value, 10))
	case bool:
		p.sb.WriteString(strconv.FormatBool(value))
	case ast.RegExp:
		p.sb.WriteString(string(value))
	case ast.BigInt:
		p.sb.WriteString(string(value))
	case nil:
		p.sb.WriteString("null")
	default:
		return &PrintError{Path: path.Clone(), Kind: node.Kind(), Reason: reasonBadValue}
	}

	return nil
}

// jsxQuote delimits a JSX attribute string, which cannot contain escapes.
// A value holding both quote characters has no delimiter.
func jsxQuote(value string) (string, bool) {
	if !strings.ContainsRune(value, '"') {
		return `"` + value + `"`, true
	}

	if strings.ContainsRune(value, '\'') {
		return "", false
	}

	return "'" + value + "'", true
}

const maxPlainNumber = 1e21

func formatNumber(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == math.Trunc(value) && math.Abs(value) < maxPlainNumber:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
}

func genCall(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.field(node, ast.FieldCallee, path); err != nil {
		return err
	}

	if node.ArgumentList() == nil {
		p.sb.WriteString("()")

		return nil
	}

	return p.field(node, ast.FieldArguments, path)
}

func genNew(p *printer, node *ast.Node, path ast.Path) error {
	p.sb.WriteString("new ")

	return genCall(p, node, path)
}

func genMember(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.field(node, ast.FieldObject, path); err != nil {
		return err
	}

	p.sb.WriteString(".")

	return p.field(node, ast.FieldProperty, path)
}

func genSubscript(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.field(node, ast.FieldObject, path); err != nil {
		return err
	}

	p.sb.WriteString("[")

	if err := p.field(node, ast.FieldProperty, path); err != nil {
		return err
	}

	p.sb.WriteString("]")

	return nil
}

func genObject(p *printer, node *ast.Node, path ast.Path) error {
	props := p.visibleChildren(node)
	if len(props) == 0 {
		p.sb.WriteString("{}")

		return nil
	}

	p.sb.WriteString("{ ")

	if err := p.join(props, ", ", path); err != nil {
		return err
	}

	p.sb.WriteString(" }")

	return nil
}

func genProperty(p *printer, node *ast.Node, path ast.Path) error {
	kids := node.NamedChildren()
	if len(kids) == 0 {
		return &PrintError{Path: path.Clone(), Kind: node.Kind(), Reason: reasonNoGenerator}
	}

	return p.join(kids, ": ", path)
}

func genNamedImports(p *printer, node *ast.Node, path ast.Path) error {
	specs := node.NamedChildren()
	if len(specs) == 0 {
		p.sb.WriteString("{}")

		return nil
	}

	p.sb.WriteString("{ ")

	if err := p.join(specs, ", ", path); err != nil {
		return err
	}

	p.sb.WriteString(" }")

	return nil
}

func genImportSpecifier(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.field(node, ast.FieldName, path); err != nil {
		return err
	}

	if alias := node.FieldNode(ast.FieldAlias); alias != nil {
		p.sb.WriteString(" as ")

		return p.child(alias, path)
	}

	return nil
}

func genNamespace(p *printer, node *ast.Node, path ast.Path) error {
	p.sb.WriteString("* as ")

	return p.join(node.NamedChildren(), "", path)
}

func genImport(p *printer, node *ast.Node, path ast.Path) error {
	p.sb.WriteString("import ")

	for _, child := range node.NamedChildren() {
		if child.Kind() != ast.KindImportClause {
			continue
		}

		if err := p.child(child, path); err != nil {
			return err
		}

		p.sb.WriteString(" from ")
	}

	if err := p.field(node, ast.FieldSource, path); err != nil {
		return err
	}

	p.sb.WriteString(";")

	return nil
}

func genExpressionStatement(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.join(node.NamedChildren(), " ", path); err != nil {
		return err
	}

	p.sb.WriteString(";")

	return nil
}

func genVariableDeclaration(p *printer, node *ast.Node, path ast.Path) error {
	keyword := node.Keyword()
	if keyword == "" {
		keyword = ast.DeclConst
	}

	p.sb.WriteString(keyword)
	p.sb.WriteString(" ")

	if err := p.join(node.NamedChildren(), ", ", path); err != nil {
		return err
	}

	p.sb.WriteString(";")

	return nil
}

func genVariableDeclarator(p *printer, node *ast.Node, path ast.Path) error {
	if err := p.field(node, ast.FieldName, path); err != nil {
		return err
	}

	if value := node.FieldNode(ast.FieldValue); value != nil {
		p.sb.WriteString(" = ")

		return p.child(value, path)
	}

	return nil
}

func genReturn(p *printer, node *ast.Node, path ast.Path) error {
	p.sb.WriteString("return")

	if args := node.NamedChildren(); len(args) > 0 {
		p.sb.WriteString(" ")

		if err := p.join(args, " ", path); err != nil {
			return err
		}
	}

	p.sb.WriteString(";")

	return nil
}
