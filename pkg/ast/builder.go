package ast

// Builder provides a fluent interface for assembling nodes. The parser uses it
// to create nodes that carry source layout.
type Builder struct {
	node *Node
}

const initialChildCap = 4

// NewBuilder starts a node of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{node: &Node{kind: kind}}
}

// WithGrammar records the grammar node type.
func (builder *Builder) WithGrammar(grammar string) *Builder {
	builder.node.grammar = grammar

	return builder
}

// WithSpan sets the source position.
func (builder *Builder) WithSpan(span Span) *Builder {
	builder.node.span = span

	return builder
}

// WithField sets the field label.
func (builder *Builder) WithField(field string) *Builder {
	builder.node.field = field

	return builder
}

// WithName sets the identifier name.
func (builder *Builder) WithName(name string) *Builder {
	builder.node.name = name

	return builder
}

// WithValue sets the literal value.
func (builder *Builder) WithValue(value any) *Builder {
	builder.node.value = value

	return builder
}

// WithKeyword sets the keyword or operator printed for a synthetic node.
func (builder *Builder) WithKeyword(keyword string) *Builder {
	builder.node.keyword = keyword

	return builder
}

// WithRaw records the exact source text of a leaf and marks it as parsed.
func (builder *Builder) WithRaw(raw string) *Builder {
	builder.node.raw = raw
	builder.node.parsed = true

	return builder
}

// WithLayout records the text before the first child and after the last one
// and marks the node as parsed.
func (builder *Builder) WithLayout(head, trail string) *Builder {
	builder.node.head = head
	builder.node.trail = trail
	builder.node.parsed = true

	return builder
}

// WithJSX flags a string literal that sits in a JSX attribute.
func (builder *Builder) WithJSX(jsx bool) *Builder {
	builder.node.jsx = jsx

	return builder
}

// WithChild appends a child with its field label and leading separator.
// Children that already have a parent are ignored.
func (builder *Builder) WithChild(child *Node, field, lead string) *Builder {
	if builder.node.children == nil {
		builder.node.children = make([]*Node, 0, initialChildCap)
	}

	builder.node.AddChild(child, field, lead)

	return builder
}

// Build returns the assembled node.
func (builder *Builder) Build() *Node {
	return builder.node
}
