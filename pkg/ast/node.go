// Package ast defines the syntax tree shared by the parser, the query engine,
// the mutation layer and the printer.
//
// Nodes produced by the parser remember the source text that surrounds their
// children so that unchanged subtrees re-print byte for byte. Nodes built with
// the constructors in this package are synthetic and are printed from their
// attributes.
package ast

import (
	"slices"
)

// grammarString is the grammar type of parsed string literals.
const grammarString = "string"

// Span locates a node in the source text. Lines and columns are 1-based,
// offsets are 0-based byte offsets with an exclusive end.
type Span struct {
	StartLine   int `json:"start_line"   yaml:"start_line"`
	StartCol    int `json:"start_col"    yaml:"start_col"`
	StartOffset int `json:"start_offset" yaml:"start_offset"`
	EndLine     int `json:"end_line"     yaml:"end_line"`
	EndCol      int `json:"end_col"      yaml:"end_col"`
	EndOffset   int `json:"end_offset"   yaml:"end_offset"`
}

// IsZero reports whether the span carries no position, as for synthetic nodes.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Node is a syntax tree node.
//
// A node has exactly one parent. Structural edits go through the methods on
// this type so that parent links and captured layout stay consistent.
type Node struct {
	kind     Kind
	grammar  string
	field    string
	span     Span
	children []*Node
	parent   *Node

	// Leaf attributes.
	name  string
	value any
	raw   string

	// Keyword or operator used when printing a synthetic node,
	// e.g. "const" for a variable declaration.
	keyword string

	// Layout captured from source. head precedes the first child, trail
	// follows the last one, lead sits between the previous sibling and this node.
	parsed bool
	head   string
	trail  string
	lead   string

	jsx bool
}

// Kind returns the syntax kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// Grammar returns the tree-sitter node type the node was parsed from.
// Synthetic nodes return an empty string.
func (n *Node) Grammar() string {
	return n.grammar
}

// Field returns the role of the node inside its parent, or "" when unlabeled.
func (n *Node) Field() string {
	return n.field
}

// Span returns the source position. Synthetic nodes have a zero span.
func (n *Node) Span() Span {
	return n.span
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child at idx, or nil when idx is out of range.
func (n *Node) Child(idx int) *Node {
	if idx < 0 || idx >= len(n.children) {
		return nil
	}

	return n.children[idx]
}

// Index returns the position of the node among its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}

	return slices.Index(n.parent.children, n)
}

// IsParsed reports whether the node carries layout captured from source text.
func (n *Node) IsParsed() bool {
	return n.parsed
}

// Head returns the source text between the node start and its first child.
func (n *Node) Head() string {
	return n.head
}

// Trail returns the source text between the last child and the node end.
func (n *Node) Trail() string {
	return n.trail
}

// Lead returns the source text between the previous sibling and the node.
func (n *Node) Lead() string {
	return n.lead
}

// SetLead sets the separator text printed before the node inside its parent.
func (n *Node) SetLead(lead string) {
	n.lead = lead
}

// Keyword returns the keyword or operator used to print a synthetic node.
func (n *Node) Keyword() string {
	return n.keyword
}

// IsJSX reports whether the node is a string inside a JSX attribute.
func (n *Node) IsJSX() bool {
	return n.jsx
}

// Name returns the identifier name. It is empty for non-identifiers.
func (n *Node) Name() string {
	return n.name
}

// SetName renames an identifier. The node prints the new name from now on.
func (n *Node) SetName(name string) {
	n.name = name
	n.raw = ""
}

// Literal values that have no Go counterpart keep their source text under
// a distinct type, so they never compare equal to a string.
type (
	// RegExp is a regular expression literal such as /x+/g.
	RegExp string
	// BigInt is a bigint literal such as 10n.
	BigInt string
	// Undecoded is a literal whose text could not be decoded.
	Undecoded string
)

// Value returns the decoded literal value: string, float64, bool or nil.
// Regular expressions, bigints and undecodable literals return RegExp,
// BigInt and Undecoded.
func (n *Node) Value() any {
	return n.value
}

// SetValue changes a literal value. The original spelling is discarded.
// A nil value makes the literal null.
func (n *Node) SetValue(value any) {
	n.value = value
	n.raw = ""

	if value == nil {
		n.keyword = "null"
	}
}

// IsNull reports whether the node is the null literal.
func (n *Node) IsNull() bool {
	return n.kind == KindLiteral && n.value == nil && n.keyword == "null"
}

// Raw returns the original text of a parsed leaf, quotes included.
func (n *Node) Raw() string {
	return n.raw
}

// StringValue returns the literal value when the node is a quoted string.
func (n *Node) StringValue() (string, bool) {
	if n.kind != KindLiteral || (n.grammar != "" && n.grammar != grammarString) {
		return "", false
	}

	s, ok := n.value.(string)

	return s, ok
}

// IsStringLiteral reports whether the node is a string literal.
func (n *Node) IsStringLiteral() bool {
	_, ok := n.StringValue()

	return ok
}

// FieldNode returns the first child labeled with field, or nil.
func (n *Node) FieldNode(field string) *Node {
	for _, child := range n.children {
		if child.field == field {
			return child
		}
	}

	return nil
}

// NamedChildren returns the children that are not comments.
func (n *Node) NamedChildren() []*Node {
	out := make([]*Node, 0, len(n.children))

	for _, child := range n.children {
		if child.kind != KindComment {
			out = append(out, child)
		}
	}

	return out
}

// Ancestors returns the parents of the node from the nearest to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node

	for cur := n.parent; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}

	return out
}

// Root returns the topmost ancestor, or the node itself.
func (n *Node) Root() *Node {
	cur := n

	for cur.parent != nil {
		cur = cur.parent
	}

	return cur
}

// Path returns the child indices leading from the root to the node.
func (n *Node) Path() Path {
	var path Path

	for cur := n; cur.parent != nil; cur = cur.parent {
		path = append(path, cur.Index())
	}

	slices.Reverse(path)

	return path
}

// Detach removes the node from its parent. It is a no-op for detached nodes.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}

	idx := n.Index()
	if idx >= 0 {
		n.parent.RemoveChildAt(idx)
	}
}

// AddChild appends child with an optional field label and leading separator.
// It reports false when child already has a parent.
func (n *Node) AddChild(child *Node, field, lead string) bool {
	return n.InsertChildAt(len(n.children), child, field, lead)
}

// InsertChildAt inserts child at idx with the given field label. It reports
// false when child already has a parent or idx is out of range.
func (n *Node) InsertChildAt(idx int, child *Node, field, lead string) bool {
	if child == nil || child.parent != nil || idx < 0 || idx > len(n.children) {
		return false
	}

	child.parent = n
	child.lead = lead
	child.field = field

	n.children = slices.Insert(n.children, idx, child)

	return true
}

// RemoveChildAt detaches and returns the child at idx.
//
// The removed child's leading separator goes with it. When the first child is
// removed, the next child takes over its leading text so that the parent's
// opening text stays attached to the new first element.
func (n *Node) RemoveChildAt(idx int) *Node {
	if idx < 0 || idx >= len(n.children) {
		return nil
	}

	removed := n.children[idx]
	n.children = slices.Delete(n.children, idx, idx+1)

	if idx == 0 && len(n.children) > 0 {
		n.children[0].lead = removed.lead
	}

	removed.parent = nil
	removed.lead = ""

	return removed
}

// ReplaceChildAt puts repl in the slot at idx and returns the old child.
// The replacement takes over the slot's field label and separator.
func (n *Node) ReplaceChildAt(idx int, repl *Node) *Node {
	if idx < 0 || idx >= len(n.children) || repl == nil || repl.parent != nil {
		return nil
	}

	old := n.children[idx]
	n.children[idx] = repl

	repl.parent = n
	repl.lead = old.lead
	repl.field = old.field

	old.parent = nil
	old.lead = ""

	return old
}

// ReplaceChild swaps old for repl. It reports false when old is not a child.
func (n *Node) ReplaceChild(old, repl *Node) bool {
	idx := slices.Index(n.children, old)
	if idx < 0 {
		return false
	}

	return n.ReplaceChildAt(idx, repl) != nil
}

// Clone returns a deep copy of the subtree. The copy is detached and keeps the
// captured layout of its descendants, so it prints like the original.
func (n *Node) Clone() *Node {
	cp := *n
	cp.parent = nil
	cp.lead = ""
	cp.children = nil

	if len(n.children) > 0 {
		cp.children = make([]*Node, len(n.children))

		for i, child := range n.children {
			c := child.Clone()
			c.parent = &cp
			c.lead = child.lead
			cp.children[i] = c
		}
	}

	return &cp
}
