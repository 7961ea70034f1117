package ast

// Kind is the syntax kind of a node. Kinds follow ESTree naming so that
// predicates read the same way as in JavaScript codemod tooling.
type Kind string

// KindAny matches every kind when used as a selection filter.
const KindAny Kind = ""

// Syntax kinds produced by the parser and accepted by the printer.
const (
	KindProgram                  Kind = "Program"
	KindExpressionStatement      Kind = "ExpressionStatement"
	KindVariableDeclaration      Kind = "VariableDeclaration"
	KindVariableDeclarator       Kind = "VariableDeclarator"
	KindFunctionDeclaration      Kind = "FunctionDeclaration"
	KindFunctionExpression       Kind = "FunctionExpression"
	KindArrowFunctionExpression  Kind = "ArrowFunctionExpression"
	KindClassDeclaration         Kind = "ClassDeclaration"
	KindClassBody                Kind = "ClassBody"
	KindMethodDefinition         Kind = "MethodDefinition"
	KindBlockStatement           Kind = "BlockStatement"
	KindReturnStatement          Kind = "ReturnStatement"
	KindIfStatement              Kind = "IfStatement"
	KindSwitchCase               Kind = "SwitchCase"
	KindCallExpression           Kind = "CallExpression"
	KindNewExpression            Kind = "NewExpression"
	KindMemberExpression         Kind = "MemberExpression"
	KindSubscriptExpression      Kind = "SubscriptExpression"
	KindArguments                Kind = "Arguments"
	KindFormalParameters         Kind = "FormalParameters"
	KindAssignmentExpression     Kind = "AssignmentExpression"
	KindBinaryExpression         Kind = "BinaryExpression"
	KindUnaryExpression          Kind = "UnaryExpression"
	KindAwaitExpression          Kind = "AwaitExpression"
	KindParenthesizedExpression  Kind = "ParenthesizedExpression"
	KindObjectExpression         Kind = "ObjectExpression"
	KindArrayExpression          Kind = "ArrayExpression"
	KindProperty                 Kind = "Property"
	KindImportDeclaration        Kind = "ImportDeclaration"
	KindImportClause             Kind = "ImportClause"
	KindNamedImports             Kind = "NamedImports"
	KindImportSpecifier          Kind = "ImportSpecifier"
	KindImportNamespaceSpecifier Kind = "ImportNamespaceSpecifier"
	KindExportDeclaration        Kind = "ExportDeclaration"
	KindTemplateLiteral          Kind = "TemplateLiteral"
	KindLiteral                  Kind = "Literal"
	KindIdentifier               Kind = "Identifier"
	KindThisExpression           Kind = "ThisExpression"
	KindComment                  Kind = "Comment"
)

// Field labels give a child its role inside the parent.
const (
	FieldCallee      = "callee"
	FieldArguments   = "arguments"
	FieldSource      = "source"
	FieldObject      = "object"
	FieldProperty    = "property"
	FieldName        = "name"
	FieldAlias       = "alias"
	FieldValue       = "value"
	FieldExpression  = "expression"
	FieldDeclaration = "declaration"
	FieldLeft        = "left"
	FieldRight       = "right"
	FieldBody        = "body"
	FieldArgument    = "argument"
)

// statementLists are kinds whose children are statements separated by newlines.
var statementLists = map[Kind]bool{
	KindProgram:        true,
	KindBlockStatement: true,
	KindClassBody:      true,
	KindSwitchCase:     true,
}

// commaLists are kinds whose children are separated by commas.
var commaLists = map[Kind]bool{
	KindArguments:           true,
	KindFormalParameters:    true,
	KindArrayExpression:     true,
	KindObjectExpression:    true,
	KindNamedImports:        true,
	KindImportClause:        true,
	KindVariableDeclaration: true,
}

// IsStatementList reports whether children of kind are newline-separated statements.
func IsStatementList(kind Kind) bool {
	return statementLists[kind]
}

// IsCommaList reports whether children of kind are comma-separated.
func IsCommaList(kind Kind) bool {
	return commaLists[kind]
}
