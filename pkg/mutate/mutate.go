// Package mutate edits a tree in place at positions produced by query.Select.
//
// Every operation touches only the target's slot in its parent. Separator text
// between siblings is kept consistent so that the untouched siblings print as
// before.
package mutate

import (
	"errors"
	"strings"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// Sentinel errors for mutation operations.
var (
	// ErrRootMutation is returned when removing the root or inserting next to it.
	ErrRootMutation = errors.New("cannot remove or insert siblings of the root")
	// ErrNilNode is returned for a nil tree, match target or replacement.
	ErrNilNode = errors.New("nil node")
	// ErrAttached is returned when the new node already has a parent.
	ErrAttached = errors.New("node is already attached to a tree")
	// ErrDetached is returned when the match target is no longer in the tree.
	ErrDetached = errors.New("match target is detached")
	// ErrForeignTree is returned when the match target belongs to another tree.
	ErrForeignTree = errors.New("match target belongs to another tree")
	// ErrReusedNode is returned when a batch records the same new node twice.
	ErrReusedNode = errors.New("node is used by more than one batch edit")
)

// Replace puts node in the slot of the match target. The replacement keeps the
// target's leading separator and field label. Replacing the root requires a
// Program node.
func Replace(tree *ast.Tree, match ast.Match, node *ast.Node) (*ast.Tree, error) {
	target, err := resolve(tree, match)
	if err != nil {
		return tree, err
	}

	if err := checkNew(node); err != nil {
		if node == target {
			return tree, nil
		}

		return tree, err
	}

	parent := target.Parent()
	if parent == nil {
		if node.Kind() != ast.KindProgram {
			return tree, ErrRootMutation
		}

		tree.Root = node

		return tree, nil
	}

	parent.ReplaceChildAt(target.Index(), node)

	return tree, nil
}

// Remove detaches the match target. When the target is the first child the
// following sibling inherits its leading text, otherwise the separator before
// the target goes away with it.
func Remove(tree *ast.Tree, match ast.Match) (*ast.Tree, error) {
	target, err := resolve(tree, match)
	if err != nil {
		return tree, err
	}

	parent := target.Parent()
	if parent == nil {
		return tree, ErrRootMutation
	}

	parent.RemoveChildAt(target.Index())

	return tree, nil
}

// InsertBefore inserts node as the previous sibling of the match target.
func InsertBefore(tree *ast.Tree, match ast.Match, node *ast.Node) (*ast.Tree, error) {
	target, parent, err := anchor(tree, match, node)
	if err != nil {
		return tree, err
	}

	idx := target.Index()
	sep := separator(parent, idx)

	parent.InsertChildAt(idx, node, "", target.Lead())
	target.SetLead(sep)

	return tree, nil
}

// InsertAfter inserts node as the next sibling of the match target.
func InsertAfter(tree *ast.Tree, match ast.Match, node *ast.Node) (*ast.Tree, error) {
	target, parent, err := anchor(tree, match, node)
	if err != nil {
		return tree, err
	}

	idx := target.Index()
	parent.InsertChildAt(idx+1, node, "", separator(parent, idx))

	return tree, nil
}

// EnclosingStatement returns the match of the nearest ancestor-or-self of the
// match target whose parent is a statement list.
func EnclosingStatement(tree *ast.Tree, match ast.Match) (ast.Match, error) {
	target, err := resolve(tree, match)
	if err != nil {
		return ast.Match{}, err
	}

	for cur := target; cur.Parent() != nil; cur = cur.Parent() {
		if ast.IsStatementList(cur.Parent().Kind()) {
			return ast.Match{Node: cur, Path: cur.Path()}, nil
		}
	}

	return ast.Match{}, ErrRootMutation
}

func anchor(tree *ast.Tree, match ast.Match, node *ast.Node) (*ast.Node, *ast.Node, error) {
	target, err := resolve(tree, match)
	if err != nil {
		return nil, nil, err
	}

	if err := checkNew(node); err != nil {
		return nil, nil, err
	}

	parent := target.Parent()
	if parent == nil {
		return nil, nil, ErrRootMutation
	}

	return target, parent, nil
}

func checkNew(node *ast.Node) error {
	if node == nil {
		return ErrNilNode
	}

	if node.Parent() != nil {
		return ErrAttached
	}

	return nil
}

// resolve returns the current node of the match, re-locating it through
// parent links when earlier edits shifted its path.
func resolve(tree *ast.Tree, match ast.Match) (*ast.Node, error) {
	if tree == nil || tree.Root == nil {
		return nil, ErrNilNode
	}

	if match.Node == nil {
		node, err := tree.Resolve(match.Path)
		if err != nil {
			return nil, errors.Join(ErrDetached, err)
		}

		return node, nil
	}

	if !tree.Contains(match.Node) {
		if root := match.Node.Root(); root != match.Node && root.Kind() == ast.KindProgram {
			return nil, ErrForeignTree
		}

		return nil, ErrDetached
	}

	current, err := tree.Revalidate(match)
	if err != nil {
		return nil, errors.Join(ErrDetached, err)
	}

	return current.Node, nil
}

// separator picks the text placed between siblings when inserting next to the
// child at idx. Existing separators win; otherwise statement lists use a
// newline with the anchor's indentation, comma lists use ", ".
func separator(parent *ast.Node, idx int) string {
	for i, child := range parent.Children() {
		if i == 0 || child.Kind() == ast.KindComment {
			continue
		}

		if lead := child.Lead(); lead != "" {
			return lead
		}
	}

	switch {
	case ast.IsStatementList(parent.Kind()):
		return "\n" + indentation(parent, idx)
	case ast.IsCommaList(parent.Kind()):
		return ", "
	default:
		return " "
	}
}

func indentation(parent *ast.Node, idx int) string {
	text := parent.Head()
	if idx > 0 {
		text = parent.Child(idx).Lead()
	}

	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		return ""
	}

	indent := text[nl+1:]
	if strings.TrimLeft(indent, " \t") != "" {
		return ""
	}

	return indent
}
