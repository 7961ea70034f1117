package ast

// Declaration keywords accepted by NewVariableDeclaration.
const (
	DeclConst = "const"
	DeclLet   = "let"
	DeclVar   = "var"
)

// NewNode creates a synthetic node of any kind with the given children.
// Children that already have a parent are skipped.
func NewNode(kind Kind, children ...*Node) *Node {
	node := &Node{kind: kind}

	for _, child := range children {
		node.AddChild(child, "", "")
	}

	return node
}

// NewRaw creates a leaf that prints text verbatim.
func NewRaw(kind Kind, text string) *Node {
	return &Node{kind: kind, raw: text, parsed: true}
}

// NewIdentifier creates an identifier.
func NewIdentifier(name string) *Node {
	return &Node{kind: KindIdentifier, name: name}
}

// NewString creates a string literal. The printer chooses the quotes.
func NewString(value string) *Node {
	return &Node{kind: KindLiteral, value: value}
}

// NewNumber creates a numeric literal.
func NewNumber(value float64) *Node {
	return &Node{kind: KindLiteral, value: value}
}

// NewBool creates a boolean literal.
func NewBool(value bool) *Node {
	return &Node{kind: KindLiteral, value: value}
}

// NewNull creates the null literal.
func NewNull() *Node {
	return &Node{kind: KindLiteral, value: nil, keyword: "null"}
}

// NewCall creates a call expression.
func NewCall(callee *Node, args ...*Node) *Node {
	list := &Node{kind: KindArguments}
	for _, arg := range args {
		list.AddChild(arg, "", "")
	}

	call := &Node{kind: KindCallExpression}
	call.AddChild(callee, FieldCallee, "")
	call.AddChild(list, FieldArguments, "")

	return call
}

// NewMember creates a non-computed member access object.property.
func NewMember(object *Node, property string) *Node {
	member := &Node{kind: KindMemberExpression}
	member.AddChild(object, FieldObject, "")
	member.AddChild(NewIdentifier(property), FieldProperty, "")

	return member
}

// NewExpressionStatement wraps an expression into a statement.
func NewExpressionStatement(expr *Node) *Node {
	stmt := &Node{kind: KindExpressionStatement}
	stmt.AddChild(expr, FieldExpression, "")

	return stmt
}

// NewVariableDeclarator creates name = init. A nil init declares without a value.
func NewVariableDeclarator(name string, init *Node) *Node {
	decl := &Node{kind: KindVariableDeclarator}
	decl.AddChild(NewIdentifier(name), FieldName, "")

	if init != nil {
		decl.AddChild(init, FieldValue, "")
	}

	return decl
}

// NewVariableDeclaration creates a const, let or var declaration.
func NewVariableDeclaration(keyword string, declarators ...*Node) *Node {
	decl := &Node{kind: KindVariableDeclaration, keyword: keyword}
	for _, d := range declarators {
		decl.AddChild(d, "", "")
	}

	return decl
}

// NewImport creates an import declaration. Without bindings it is a
// side-effect import.
func NewImport(source string, bindings ...Binding) *Node {
	imp := &Node{kind: KindImportDeclaration}

	if len(bindings) > 0 {
		imp.AddChild(newImportClause(bindings), "", "")
	}

	imp.AddChild(NewString(source), FieldSource, "")

	return imp
}

func newImportClause(bindings []Binding) *Node {
	clause := &Node{kind: KindImportClause}

	var named *Node

	for _, binding := range bindings {
		switch binding.Kind {
		case BindingDefault:
			clause.AddChild(NewIdentifier(binding.Local), "", "")
		case BindingNamespace:
			clause.AddChild(NewNode(KindImportNamespaceSpecifier, NewIdentifier(binding.Local)), "", "")
		case BindingNamed:
			if named == nil {
				named = &Node{kind: KindNamedImports}
				clause.AddChild(named, "", "")
			}

			spec := &Node{kind: KindImportSpecifier}
			spec.AddChild(NewIdentifier(binding.Imported), FieldName, "")

			if binding.Local != "" && binding.Local != binding.Imported {
				spec.AddChild(NewIdentifier(binding.Local), FieldAlias, "")
			}

			named.AddChild(spec, "", "")
		}
	}

	return clause
}
