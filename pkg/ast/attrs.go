package ast

// BindingKind classifies an import binding.
type BindingKind string

// Import binding kinds.
const (
	BindingDefault   BindingKind = "default"
	BindingNamespace BindingKind = "namespace"
	BindingNamed     BindingKind = "named"
)

// Binding is one name introduced by an import declaration.
type Binding struct {
	Kind BindingKind `json:"kind"     yaml:"kind"`
	// Imported is the exported name: "default" for default imports and
	// "*" for namespace imports.
	Imported string `json:"imported" yaml:"imported"`
	Local    string `json:"local"    yaml:"local"`
}

// Callee returns the called expression of a call or new expression.
func (n *Node) Callee() *Node {
	if n.kind != KindCallExpression && n.kind != KindNewExpression {
		return nil
	}

	return n.FieldNode(FieldCallee)
}

// ArgumentList returns the Arguments node of a call or new expression.
func (n *Node) ArgumentList() *Node {
	if n.kind != KindCallExpression && n.kind != KindNewExpression {
		return nil
	}

	return n.FieldNode(FieldArguments)
}

// Arguments returns the call arguments in order, comments excluded.
// Template-tag calls and argument-less new expressions have no arguments.
func (n *Node) Arguments() []*Node {
	list := n.ArgumentList()
	if list == nil || list.kind != KindArguments {
		return nil
	}

	return list.NamedChildren()
}

// Source returns the module specifier literal of an import or re-export.
func (n *Node) Source() *Node {
	if n.kind != KindImportDeclaration && n.kind != KindExportDeclaration {
		return nil
	}

	return n.FieldNode(FieldSource)
}

// SourceValue returns the module specifier string of an import or re-export.
func (n *Node) SourceValue() (string, bool) {
	src := n.Source()
	if src == nil {
		return "", false
	}

	return src.StringValue()
}

// Specifiers returns the bindings of an import declaration in source order.
// Side-effect imports have none.
func (n *Node) Specifiers() []Binding {
	if n.kind != KindImportDeclaration {
		return nil
	}

	var out []Binding

	for _, clause := range n.children {
		if clause.kind != KindImportClause {
			continue
		}

		for _, part := range clause.children {
			out = appendBindings(out, part)
		}
	}

	return out
}

func appendBindings(out []Binding, part *Node) []Binding {
	switch part.kind {
	case KindIdentifier:
		return append(out, Binding{Kind: BindingDefault, Imported: "default", Local: part.name})
	case KindImportNamespaceSpecifier:
		for _, child := range part.children {
			if child.kind == KindIdentifier {
				return append(out, Binding{Kind: BindingNamespace, Imported: "*", Local: child.name})
			}
		}
	case KindNamedImports:
		for _, spec := range part.children {
			if spec.kind != KindImportSpecifier {
				continue
			}

			imported := bindingName(spec.FieldNode(FieldName))
			local := imported

			if alias := spec.FieldNode(FieldAlias); alias != nil {
				local = bindingName(alias)
			}

			out = append(out, Binding{Kind: BindingNamed, Imported: imported, Local: local})
		}
	default:
	}

	return out
}

func bindingName(n *Node) string {
	if n == nil {
		return ""
	}

	if s, ok := n.StringValue(); ok {
		return s
	}

	return n.name
}

// Object returns the object of a member expression.
func (n *Node) Object() *Node {
	if n.kind != KindMemberExpression && n.kind != KindSubscriptExpression {
		return nil
	}

	return n.FieldNode(FieldObject)
}

// Property returns the property of a member expression.
func (n *Node) Property() *Node {
	if n.kind != KindMemberExpression && n.kind != KindSubscriptExpression {
		return nil
	}

	return n.FieldNode(FieldProperty)
}

// DottedName renders identifiers and member chains such as "console.log".
// It reports false for any other expression.
func (n *Node) DottedName() (string, bool) {
	switch n.kind {
	case KindIdentifier:
		return n.name, n.name != ""
	case KindThisExpression:
		return "this", true
	case KindMemberExpression:
		obj, prop := n.Object(), n.Property()
		if obj == nil || prop == nil || prop.kind != KindIdentifier {
			return "", false
		}

		base, ok := obj.DottedName()
		if !ok {
			return "", false
		}

		return base + "." + prop.name, true
	default:
		return "", false
	}
}
