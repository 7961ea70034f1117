// Package printer renders ast trees back to source text.
//
// Parsed nodes are re-emitted from the text captured around their children, so
// unchanged subtrees come out byte-identical apart from string quote
// normalization. Synthetic nodes are generated from their attributes.
package printer

import (
	"strings"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

type printer struct {
	opts Options
	sb   strings.Builder
}

// Print renders the whole tree, including text outside the root node.
func Print(tree *ast.Tree, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	p := &printer{opts: opts.withDefaults()}

	p.sb.WriteString(tree.Prefix)

	if tree.Root != nil {
		if err := p.node(tree.Root, ast.Path{}); err != nil {
			return "", err
		}
	}

	p.sb.WriteString(tree.Suffix)

	return p.sb.String(), nil
}

// PrintNode renders a single subtree without its leading separator.
func PrintNode(node *ast.Node, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	p := &printer{opts: opts.withDefaults()}

	if err := p.node(node, ast.Path{}); err != nil {
		return "", err
	}

	return p.sb.String(), nil
}

func (p *printer) node(node *ast.Node, path ast.Path) error {
	if reason := missingAttribute(node); reason != "" {
		return &PrintError{Path: path.Clone(), Kind: node.Kind(), Reason: reason}
	}

	if !node.IsParsed() {
		return p.generate(node, path)
	}

	switch node.Kind() {
	case ast.KindIdentifier:
		p.sb.WriteString(node.Name())

		return nil
	case ast.KindLiteral:
		if node.Raw() == "" {
			return p.generate(node, path)
		}

		p.sb.WriteString(p.literalText(node))

		return nil
	default:
	}

	if node.Raw() != "" && node.ChildCount() == 0 {
		p.sb.WriteString(node.Raw())

		return nil
	}

	p.sb.WriteString(node.Head())

	if err := p.layoutChildren(node, path); err != nil {
		return err
	}

	p.sb.WriteString(node.Trail())

	return nil
}

// layoutChildren prints children with the separators captured from source.
// Without comments, a dropped comment takes its leading text along; a
// dropped leading comment also takes the next child's leading text so the
// first printed child stays flush with the parent's head.
func (p *printer) layoutChildren(node *ast.Node, path ast.Path) error {
	dropLead := false
	printed := 0

	for idx, child := range node.Children() {
		if child.Kind() == ast.KindComment && p.opts.Fidelity == FidelityNoComments {
			if printed == 0 {
				dropLead = true
			}

			continue
		}

		lead := child.Lead()
		if dropLead {
			lead = ""
			dropLead = false
		}

		p.sb.WriteString(lead)

		if err := p.node(child, append(path, idx)); err != nil {
			return err
		}

		printed++
	}

	return nil
}

// literalText returns the text of a parsed literal, re-quoting strings.
// Strings in JSX attributes have no escapes and keep their quotes.
func (p *printer) literalText(node *ast.Node) string {
	raw := node.Raw()

	if !node.IsStringLiteral() || node.IsJSX() || p.opts.Quote == QuotePreserve {
		return raw
	}

	return ast.Requote(raw, p.opts.quoteChar())
}

// missingAttribute returns why node cannot be printed, or "".
func missingAttribute(node *ast.Node) string {
	switch node.Kind() {
	case ast.KindCallExpression, ast.KindNewExpression:
		if node.Callee() == nil {
			return reasonNoCallee
		}
	case ast.KindImportDeclaration:
		if src := node.Source(); src == nil || !src.IsStringLiteral() {
			return reasonNoSource
		}
	case ast.KindIdentifier:
		if node.Name() == "" {
			return reasonNoName
		}
	case ast.KindLiteral:
		if node.Raw() == "" && !supportedValue(node) {
			return reasonBadValue
		}
	case ast.KindVariableDeclaration:
		if !node.IsParsed() && len(node.NamedChildren()) == 0 {
			return reasonNoDeclarator
		}
	default:
	}

	return ""
}

func supportedValue(node *ast.Node) bool {
	switch node.Value().(type) {
	case string, float64, float32, int, int64, bool, ast.RegExp, ast.BigInt:
		return true
	case nil:
		return node.IsNull()
	default:
		return false
	}
}
