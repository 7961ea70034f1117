package recipe

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
	"github.com/Sumatoshi-tech/codeshift/pkg/mutate"
	"github.com/Sumatoshi-tech/codeshift/pkg/query"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

// compiledRule is a rule with its filters folded into one predicate.
type compiledRule struct {
	kind    ast.Kind
	pred    query.Predicate
	action  string
	value   string
	index   int
	message string
}

// Compile turns the recipe into a transform named after it.
func (r *Recipe) Compile() (*transform.Transform, error) {
	rules := make([]compiledRule, 0, len(r.Rules))

	for idx, rule := range r.Rules {
		compiled, err := rule.compile()
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRecipe, idx+1, err)
		}

		rules = append(rules, compiled)
	}

	return &transform.Transform{
		Name:        r.Name,
		Description: r.Description,
		Fn: func(c *transform.Context) error {
			for idx, rule := range rules {
				if err := rule.apply(c); err != nil {
					return fmt.Errorf("rule %d: %w", idx+1, err)
				}
			}

			return nil
		},
	}, nil
}

// LoadTransform loads the recipe at path and compiles it.
func LoadTransform(path string) (*transform.Transform, error) {
	rcp, err := Load(path)
	if err != nil {
		return nil, err
	}

	return rcp.Compile()
}

func (rule Rule) compile() (compiledRule, error) {
	kind := ast.Kind(rule.Kind)

	if err := rule.checkAction(kind); err != nil {
		return compiledRule{}, err
	}

	var preds []query.Predicate

	if rule.Callee != "" {
		preds = append(preds, query.CalleeNamed(rule.Callee))
	}

	if rule.Args != nil {
		preds = append(preds, query.ArgCount(*rule.Args))
	}

	if rule.Argument != nil {
		preds = append(preds, query.Arg(rule.Index, query.StringLiteral(*rule.Argument)))
	}

	if rule.Source != nil {
		preds = append(preds, query.SourceEquals(*rule.Source))
	}

	if rule.Name != "" {
		preds = append(preds, named(rule.Name))
	}

	if rule.Inside != "" {
		preds = append(preds, query.HasAncestor(query.KindIs(ast.Kind(rule.Inside))))
	}

	message := rule.Message
	if message == "" {
		message = rule.Action
	}

	return compiledRule{
		kind:    kind,
		pred:    query.And(preds...),
		action:  rule.Action,
		value:   rule.Value,
		index:   rule.Index,
		message: message,
	}, nil
}

// checkAction rejects actions that cannot apply to the selected kind.
func (rule Rule) checkAction(kind ast.Kind) error {
	switch rule.Action {
	case ActionReport, ActionRemove:
		return nil
	case ActionReplaceArgument:
		if kind != ast.KindCallExpression && kind != ast.KindNewExpression {
			return fmt.Errorf("%s needs kind %s or %s, got %s", rule.Action, ast.KindCallExpression, ast.KindNewExpression, kind)
		}
	case ActionReplaceSource:
		if kind != ast.KindImportDeclaration && kind != ast.KindExportDeclaration {
			return fmt.Errorf("%s needs kind %s or %s, got %s", rule.Action, ast.KindImportDeclaration, ast.KindExportDeclaration, kind)
		}
	case ActionRename:
		if kind != ast.KindIdentifier {
			return fmt.Errorf("%s needs kind %s, got %s", rule.Action, ast.KindIdentifier, kind)
		}

		if rule.Value == "" {
			return fmt.Errorf("%s needs a non-empty value", rule.Action)
		}
	default:
		return fmt.Errorf("unknown action %q", rule.Action)
	}

	return nil
}

// named holds for identifiers with the name and for nodes whose name field
// is such an identifier, e.g. function and class declarations.
func named(name string) query.Predicate {
	ident := query.IdentifierNamed(name)

	return query.Or(ident, func(node *ast.Node) bool {
		return ident(node.FieldNode(ast.FieldName))
	})
}

func (rule compiledRule) apply(c *transform.Context) error {
	matches := c.Select(rule.kind, rule.pred)
	if len(matches) == 0 {
		return nil
	}

	batch := c.Batch()
	removed := make(map[*ast.Node]bool)

	for _, match := range matches {
		switch rule.action {
		case ActionReport:
		case ActionRemove:
			target, err := removalTarget(c.Tree, match)
			if err != nil {
				return err
			}

			if removed[target.Node] {
				continue
			}

			removed[target.Node] = true

			batch.Remove(target)
		case ActionReplaceArgument:
			args := match.Node.Arguments()
			if rule.index >= len(args) {
				continue
			}

			arg, err := c.MatchOf(args[rule.index])
			if err != nil {
				return err
			}

			batch.Replace(arg, ast.NewString(rule.value))
		case ActionReplaceSource:
			src := match.Node.Source()
			if src == nil {
				continue
			}

			srcMatch, err := c.MatchOf(src)
			if err != nil {
				return err
			}

			batch.Replace(srcMatch, ast.NewString(rule.value))
		case ActionRename:
			if !isReference(match.Node) {
				continue
			}

			batch.Replace(match, ast.NewIdentifier(rule.value))
		}

		c.Report(match, rule.message)
	}

	_, err := batch.Apply()

	return err
}

// isReference excludes property names, which share the identifier kind but
// do not refer to bindings.
func isReference(node *ast.Node) bool {
	switch node.Field() {
	case ast.FieldProperty, fieldKey:
		return node.Parent().Kind() == ast.KindSubscriptExpression
	default:
		return true
	}
}

const fieldKey = "key"

// removalTarget is the match itself when it sits in a statement list,
// otherwise its enclosing statement.
func removalTarget(tree *ast.Tree, match ast.Match) (ast.Match, error) {
	if parent := match.Node.Parent(); parent != nil && ast.IsStatementList(parent.Kind()) {
		return match, nil
	}

	return mutate.EnclosingStatement(tree, match)
}
