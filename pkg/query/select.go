// Package query selects tree nodes by kind and structural predicates.
//
// Selection is a pure read: it walks the tree in pre-order, children left to
// right, and returns every node whose kind matches and for which all
// predicates hold. Predicates must not modify the tree.
package query

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// ErrPredicate wraps errors returned by fallible predicates.
var ErrPredicate = errors.New("predicate failed")

// Predicate tests a node.
type Predicate func(*ast.Node) bool

// CheckedPredicate tests a node and may fail.
type CheckedPredicate func(*ast.Node) (bool, error)

// Matches is an ordered selection result.
type Matches []ast.Match

// Select returns the nodes of the given kind satisfying all predicates, in
// document order. ast.KindAny matches every kind. The result is never nil.
func Select(tree *ast.Tree, kind ast.Kind, preds ...Predicate) Matches {
	out := Matches{}
	if tree == nil || tree.Root == nil {
		return out
	}

	ast.Walk(tree.Root, func(node *ast.Node, path ast.Path) bool {
		if matchesKind(node, kind) && all(node, preds) {
			out = append(out, ast.Match{Node: node, Path: path})
		}

		return true
	})

	return out
}

// SelectChecked is Select with a fallible predicate. The first predicate error
// aborts the selection and is returned with the failing node's path.
func SelectChecked(tree *ast.Tree, kind ast.Kind, pred CheckedPredicate) (Matches, error) {
	out := Matches{}
	if tree == nil || tree.Root == nil {
		return out, nil
	}

	var firstErr error

	ast.Walk(tree.Root, func(node *ast.Node, path ast.Path) bool {
		if firstErr != nil {
			return false
		}

		if !matchesKind(node, kind) {
			return true
		}

		ok, err := pred(node)
		if err != nil {
			firstErr = fmt.Errorf("%w at %s (%s): %w", ErrPredicate, path, node.Kind(), err)

			return false
		}

		if ok {
			out = append(out, ast.Match{Node: node, Path: path})
		}

		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}

	return out, nil
}

func matchesKind(node *ast.Node, kind ast.Kind) bool {
	return kind == ast.KindAny || node.Kind() == kind
}

func all(node *ast.Node, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(node) {
			return false
		}
	}

	return true
}

// Filter returns the matches whose node satisfies pred.
func (m Matches) Filter(pred Predicate) Matches {
	out := Matches{}

	for _, match := range m {
		if pred(match.Node) {
			out = append(out, match)
		}
	}

	return out
}

// Nodes returns the matched nodes.
func (m Matches) Nodes() []*ast.Node {
	out := make([]*ast.Node, len(m))
	for i, match := range m {
		out[i] = match.Node
	}

	return out
}

// First returns the first match.
func (m Matches) First() (ast.Match, bool) {
	if len(m) == 0 {
		return ast.Match{}, false
	}

	return m[0], true
}
