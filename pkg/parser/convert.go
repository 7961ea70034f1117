package parser

import (
	"strconv"
	"strings"
	"unicode"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codeshift/pkg/ast"
)

// kindTable maps grammar node types to syntax kinds. Types missing here get a
// CamelCase kind derived from the grammar name.
var kindTable = map[string]ast.Kind{
	"program":                         ast.KindProgram,
	"expression_statement":            ast.KindExpressionStatement,
	"lexical_declaration":             ast.KindVariableDeclaration,
	"variable_declaration":            ast.KindVariableDeclaration,
	"variable_declarator":             ast.KindVariableDeclarator,
	"function_declaration":            ast.KindFunctionDeclaration,
	"generator_function_declaration":  ast.KindFunctionDeclaration,
	"function_expression":             ast.KindFunctionExpression,
	"function":                        ast.KindFunctionExpression,
	"generator_function":              ast.KindFunctionExpression,
	"arrow_function":                  ast.KindArrowFunctionExpression,
	"class_declaration":               ast.KindClassDeclaration,
	"class":                           ast.KindClassDeclaration,
	"class_body":                      ast.KindClassBody,
	"method_definition":               ast.KindMethodDefinition,
	"statement_block":                 ast.KindBlockStatement,
	"return_statement":                ast.KindReturnStatement,
	"if_statement":                    ast.KindIfStatement,
	"switch_case":                     ast.KindSwitchCase,
	"switch_default":                  ast.KindSwitchCase,
	"call_expression":                 ast.KindCallExpression,
	"new_expression":                  ast.KindNewExpression,
	"member_expression":               ast.KindMemberExpression,
	"subscript_expression":            ast.KindSubscriptExpression,
	"arguments":                       ast.KindArguments,
	"formal_parameters":               ast.KindFormalParameters,
	"assignment_expression":           ast.KindAssignmentExpression,
	"augmented_assignment_expression": ast.KindAssignmentExpression,
	"binary_expression":               ast.KindBinaryExpression,
	"unary_expression":                ast.KindUnaryExpression,
	"await_expression":                ast.KindAwaitExpression,
	"parenthesized_expression":        ast.KindParenthesizedExpression,
	"object":                          ast.KindObjectExpression,
	"array":                           ast.KindArrayExpression,
	"pair":                            ast.KindProperty,
	"import_statement":                ast.KindImportDeclaration,
	"import_clause":                   ast.KindImportClause,
	"named_imports":                   ast.KindNamedImports,
	"import_specifier":                ast.KindImportSpecifier,
	"namespace_import":                ast.KindImportNamespaceSpecifier,
	"export_statement":                ast.KindExportDeclaration,
	"template_string":                 ast.KindTemplateLiteral,
	"this":                            ast.KindThisExpression,
	"comment":                         ast.KindComment,
	"html_comment":                    ast.KindComment,
}

// identifierTypes are leaf grammar types that become identifiers.
var identifierTypes = map[string]bool{
	"identifier":                            true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"private_property_identifier":           true,
	"statement_identifier":                  true,
	"type_identifier":                       true,
	"undefined":                             true,
}

// literalTypes are leaf grammar types that become literals.
var literalTypes = map[string]bool{
	"string": true,
	"number": true,
	"true":   true,
	"false":  true,
	"null":   true,
	"regex":  true,
}

// fieldTable lists the grammar fields probed per node type, with the label
// each one gets in the tree.
var fieldTable = map[string][][2]string{
	"call_expression":                 {{"function", ast.FieldCallee}, {"arguments", ast.FieldArguments}},
	"new_expression":                  {{"constructor", ast.FieldCallee}, {"arguments", ast.FieldArguments}},
	"member_expression":               {{"object", ast.FieldObject}, {"property", ast.FieldProperty}},
	"subscript_expression":            {{"object", ast.FieldObject}, {"index", ast.FieldProperty}},
	"import_statement":                {{"source", ast.FieldSource}},
	"export_statement":                {{"declaration", ast.FieldDeclaration}, {"source", ast.FieldSource}, {"value", ast.FieldValue}},
	"import_specifier":                {{"name", ast.FieldName}, {"alias", ast.FieldAlias}},
	"export_specifier":                {{"name", ast.FieldName}, {"alias", ast.FieldAlias}},
	"variable_declarator":             {{"name", ast.FieldName}, {"value", ast.FieldValue}},
	"assignment_expression":           {{"left", ast.FieldLeft}, {"right", ast.FieldRight}},
	"augmented_assignment_expression": {{"left", ast.FieldLeft}, {"right", ast.FieldRight}},
	"binary_expression":               {{"left", ast.FieldLeft}, {"right", ast.FieldRight}},
	"unary_expression":                {{"argument", ast.FieldArgument}},
	"pair":                            {{"key", "key"}, {"value", ast.FieldValue}},
	"function_declaration":            {{"name", ast.FieldName}, {"parameters", "parameters"}, {"body", ast.FieldBody}},
	"function_expression":             {{"name", ast.FieldName}, {"parameters", "parameters"}, {"body", ast.FieldBody}},
	"arrow_function":                  {{"parameter", "parameters"}, {"parameters", "parameters"}, {"body", ast.FieldBody}},
	"method_definition":               {{"name", ast.FieldName}, {"parameters", "parameters"}, {"body", ast.FieldBody}},
	"class_declaration":               {{"name", ast.FieldName}, {"body", ast.FieldBody}},
	"if_statement":                    {{"condition", "condition"}, {"consequence", "consequence"}, {"alternative", "alternative"}},
}

// firstChildFields labels the first non-comment child of node types whose
// grammar has no field for it.
var firstChildFields = map[string]string{
	"expression_statement":     ast.FieldExpression,
	"parenthesized_expression": ast.FieldExpression,
	"await_expression":         ast.FieldArgument,
	"return_statement":         ast.FieldArgument,
	"spread_element":           ast.FieldArgument,
}

// declarationTypes carry their keyword (const, let, var) in the head text.
var declarationTypes = map[string]bool{
	"lexical_declaration":  true,
	"variable_declaration": true,
}

type fieldKey struct {
	start, end uint
	typ        string
}

// converter turns a tree-sitter CST into an ast tree, keeping the source text
// between named children so the printer can reproduce it.
type converter struct {
	source []byte
}

func (conv *converter) text(start, end uint) string {
	if start >= end || end > uint(len(conv.source)) {
		return ""
	}

	return string(conv.source[start:end])
}

func (conv *converter) span(tsNode sitter.Node) ast.Span {
	start, end := tsNode.StartPoint(), tsNode.EndPoint()

	return ast.Span{
		StartLine:   int(start.Row) + 1,      //nolint:gosec // tree-sitter coordinates fit in int
		StartCol:    int(start.Column) + 1,   //nolint:gosec // tree-sitter coordinates fit in int
		StartOffset: int(tsNode.StartByte()), //nolint:gosec // tree-sitter byte offsets fit in int
		EndLine:     int(end.Row) + 1,        //nolint:gosec // tree-sitter coordinates fit in int
		EndCol:      int(end.Column) + 1,     //nolint:gosec // tree-sitter coordinates fit in int
		EndOffset:   int(tsNode.EndByte()),   //nolint:gosec // tree-sitter byte offsets fit in int
	}
}

func (conv *converter) convert(tsNode sitter.Node, parentType string) *ast.Node {
	grammar := tsNode.Type()
	builder := ast.NewBuilder(kindOf(grammar)).
		WithGrammar(grammar).
		WithSpan(conv.span(tsNode))

	raw := conv.text(uint(tsNode.StartByte()), uint(tsNode.EndByte()))

	switch {
	case identifierTypes[grammar]:
		return builder.WithRaw(raw).WithName(raw).Build()
	case literalTypes[grammar]:
		jsx := grammar == "string" && parentType == "jsx_attribute"
		if grammar == "null" {
			builder.WithKeyword("null")
		}

		return builder.WithRaw(raw).WithValue(literalValue(grammar, raw, jsx)).WithJSX(jsx).Build()
	case tsNode.NamedChildCount() == 0:
		return builder.WithRaw(raw).Build()
	}

	fields := conv.fieldLabels(tsNode, grammar)
	prevEnd := uint(tsNode.StartByte())
	head := ""
	count := 0
	labeled := false

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.IsNull() {
			continue
		}

		childStart, childEnd := uint(child.StartByte()), uint(child.EndByte())

		gap := conv.text(prevEnd, childStart)
		if count == 0 {
			head, gap = gap, ""
		}

		label := fields[fieldKey{start: childStart, end: childEnd, typ: child.Type()}]
		if child.Type() != "comment" {
			if label == "" && !labeled {
				label = firstChildFields[grammar]
			}

			labeled = true
		}

		builder.WithChild(conv.convert(child, grammar), label, gap)
		count++

		if childEnd > prevEnd {
			prevEnd = childEnd
		}
	}

	if declarationTypes[grammar] {
		if words := strings.Fields(head); len(words) > 0 {
			builder.WithKeyword(words[0])
		}
	}

	trail := conv.text(prevEnd, uint(tsNode.EndByte()))

	return builder.WithLayout(head, trail).Build()
}

// fieldLabels resolves the grammar fields of tsNode to the children they point at.
func (conv *converter) fieldLabels(tsNode sitter.Node, grammar string) map[fieldKey]string {
	probes := fieldTable[grammar]
	if len(probes) == 0 {
		return nil
	}

	labels := make(map[fieldKey]string, len(probes))

	for _, probe := range probes {
		fieldNode := tsNode.ChildByFieldName(probe[0])
		if fieldNode.IsNull() {
			continue
		}

		key := fieldKey{start: uint(fieldNode.StartByte()), end: uint(fieldNode.EndByte()), typ: fieldNode.Type()}
		if _, exists := labels[key]; !exists {
			labels[key] = probe[1]
		}
	}

	return labels
}

func kindOf(grammar string) ast.Kind {
	if kind, ok := kindTable[grammar]; ok {
		return kind
	}

	if identifierTypes[grammar] {
		return ast.KindIdentifier
	}

	if literalTypes[grammar] {
		return ast.KindLiteral
	}

	return ast.Kind(camelCase(grammar))
}

// camelCase turns for_in_statement into ForInStatement.
func camelCase(grammar string) string {
	var sb strings.Builder

	for part := range strings.SplitSeq(grammar, "_") {
		if part == "" {
			continue
		}

		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	if sb.Len() == 0 {
		return grammar
	}

	return sb.String()
}

// literalValue decodes a literal leaf. Values without a Go counterpart keep
// their raw text under a distinct ast type.
func literalValue(grammar, raw string, jsx bool) any {
	switch grammar {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	case "number":
		return numberValue(raw)
	case "regex":
		return ast.RegExp(raw)
	case "string":
		if jsx && len(raw) >= 2 {
			return raw[1 : len(raw)-1]
		}

		if value, err := ast.UnquoteString(raw); err == nil {
			return value
		}

		return ast.Undecoded(raw)
	default:
		return ast.Undecoded(raw)
	}
}

// numberValue parses a numeric literal into float64.
func numberValue(raw string) any {
	clean := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(clean, "n") {
		return ast.BigInt(raw)
	}

	lower := strings.ToLower(clean)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		if v, err := strconv.ParseInt(lower, 0, 64); err == nil {
			return float64(v)
		}

		return ast.Undecoded(raw)
	}

	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return v
	}

	return ast.Undecoded(raw)
}
