package ast

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Sentinel errors for path resolution.
var (
	// ErrPathOutOfRange is returned when a path step has no matching child.
	ErrPathOutOfRange = errors.New("path out of range")
	// ErrNotInTree is returned when a node is not reachable from the tree root.
	ErrNotInTree = errors.New("node is not in tree")
)

// Path is the sequence of child indices leading from the root to a node.
type Path []int

// String renders the path as "/0/2/1". The root path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}

	var sb strings.Builder

	for _, idx := range p {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(idx))
	}

	return sb.String()
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// Match is a node found by a selection together with its path at the time
// of selection.
type Match struct {
	Node *Node
	Path Path
}

// Tree is a parsed program.
type Tree struct {
	// Root is the Program node.
	Root *Node
	// Language is the grammar the tree was parsed with.
	Language string
	// Prefix and Suffix hold source text outside the root node's span,
	// such as a trailing newline.
	Prefix string
	Suffix string
}

// NewTree wraps root into a tree.
func NewTree(root *Node, language string) *Tree {
	return &Tree{Root: root, Language: language}
}

// Resolve returns the node at path.
func (t *Tree) Resolve(path Path) (*Node, error) {
	cur := t.Root

	for depth, idx := range path {
		next := cur.Child(idx)
		if next == nil {
			return nil, fmt.Errorf("%w: step %d of %s", ErrPathOutOfRange, depth, path)
		}

		cur = next
	}

	return cur, nil
}

// Contains reports whether n is reachable from the root.
func (t *Tree) Contains(n *Node) bool {
	return n != nil && t.Root != nil && n.Root() == t.Root
}

// Locate returns the current path of n.
func (t *Tree) Locate(n *Node) (Path, error) {
	if !t.Contains(n) {
		return nil, ErrNotInTree
	}

	return n.Path(), nil
}

// Revalidate refreshes a match after structural edits. When the stored path
// still leads to the node the match is returned unchanged; otherwise the node
// is re-located through its parent links.
func (t *Tree) Revalidate(m Match) (Match, error) {
	if m.Node == nil {
		return m, ErrNotInTree
	}

	if got, err := t.Resolve(m.Path); err == nil && got == m.Node {
		return m, nil
	}

	path, err := t.Locate(m.Node)
	if err != nil {
		return m, err
	}

	return Match{Node: m.Node, Path: path}, nil
}

// Walk visits root and its descendants in pre-order, children left to right.
// fn receives each node with its path relative to root; returning false skips
// the node's subtree.
func Walk(root *Node, fn func(node *Node, path Path) bool) {
	if root == nil {
		return
	}

	type frame struct {
		node *Node
		path Path
	}

	stack := []frame{{node: root, path: Path{}}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.path) {
			continue
		}

		for i := len(top.node.children) - 1; i >= 0; i-- {
			childPath := make(Path, len(top.path)+1)
			copy(childPath, top.path)
			childPath[len(top.path)] = i

			stack = append(stack, frame{node: top.node.children[i], path: childPath})
		}
	}
}

// Find returns every node in the subtree, the receiver included, for which
// predicate holds, in pre-order.
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var out []*Node

	Walk(n, func(node *Node, _ Path) bool {
		if predicate(node) {
			out = append(out, node)
		}

		return true
	})

	return out
}
