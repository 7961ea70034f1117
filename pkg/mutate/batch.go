package mutate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// Op names a mutation kind.
type Op string

// Mutation kinds recorded by a Batch.
const (
	OpReplace      Op = "replace"
	OpRemove       Op = "remove"
	OpInsertBefore Op = "insert-before"
	OpInsertAfter  Op = "insert-after"
)

var errUnknownOp = errors.New("unknown batch edit")

type operation struct {
	op    Op
	match ast.Match
	node  *ast.Node
}

// Batch collects edits against matches from one selection and applies them in
// reverse document order, so that the paths of pending edits stay valid.
// Edits recorded for the same path run in recording order.
type Batch struct {
	tree *ast.Tree
	ops  []operation
}

// NewBatch starts a batch for tree.
func NewBatch(tree *ast.Tree) *Batch {
	return &Batch{tree: tree}
}

// Replace records a replacement.
func (batch *Batch) Replace(match ast.Match, node *ast.Node) *Batch {
	return batch.add(OpReplace, match, node)
}

// Remove records a removal.
func (batch *Batch) Remove(match ast.Match) *Batch {
	return batch.add(OpRemove, match, nil)
}

// InsertBefore records an insertion before the match.
func (batch *Batch) InsertBefore(match ast.Match, node *ast.Node) *Batch {
	return batch.add(OpInsertBefore, match, node)
}

// InsertAfter records an insertion after the match.
func (batch *Batch) InsertAfter(match ast.Match, node *ast.Node) *Batch {
	return batch.add(OpInsertAfter, match, node)
}

// Len returns the number of recorded edits.
func (batch *Batch) Len() int {
	return len(batch.ops)
}

func (batch *Batch) add(op Op, match ast.Match, node *ast.Node) *Batch {
	batch.ops = append(batch.ops, operation{op: op, match: ast.Match{Node: match.Node, Path: match.Path.Clone()}, node: node})

	return batch
}

// Apply validates every recorded edit and then applies them. Validation
// failures leave the tree untouched.
func (batch *Batch) Apply() (*ast.Tree, error) {
	seen := make(map[*ast.Node]struct{}, len(batch.ops))

	for i, op := range batch.ops {
		err := batch.validate(op)
		if err == nil && op.node != nil {
			if _, dup := seen[op.node]; dup {
				err = ErrReusedNode
			}

			seen[op.node] = struct{}{}
		}

		if err != nil {
			return batch.tree, fmt.Errorf("batch edit %d (%s at %s): %w", i, op.op, op.match.Path, err)
		}
	}

	ordered := slices.Clone(batch.ops)
	slices.SortStableFunc(ordered, func(a, b operation) int {
		return slices.Compare(b.match.Path, a.match.Path)
	})

	for _, op := range ordered {
		if _, err := apply(batch.tree, op); err != nil {
			return batch.tree, fmt.Errorf("batch %s at %s: %w", op.op, op.match.Path, err)
		}
	}

	batch.ops = nil

	return batch.tree, nil
}

func (batch *Batch) validate(op operation) error {
	if _, err := resolve(batch.tree, op.match); err != nil {
		return err
	}

	if op.op == OpRemove {
		return nil
	}

	return checkNew(op.node)
}

func apply(tree *ast.Tree, op operation) (*ast.Tree, error) {
	switch op.op {
	case OpReplace:
		return Replace(tree, op.match, op.node)
	case OpRemove:
		return Remove(tree, op.match)
	case OpInsertBefore:
		return InsertBefore(tree, op.match, op.node)
	case OpInsertAfter:
		return InsertAfter(tree, op.match, op.node)
	default:
		return tree, fmt.Errorf("%w: %q", errUnknownOp, op.op)
	}
}
