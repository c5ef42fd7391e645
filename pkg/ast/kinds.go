package ast

import "github.com/thesephist/jiki/pkg/jiki"

// Operator identifies the operation of Binary, Logical, Unary, Update and
// assignment nodes. The source lexeme is kept alongside for messages.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow

	OpEq
	OpNotEq
	OpStrictEq
	OpStrictNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq

	OpAnd
	OpOr
	OpNot
	OpNeg
	OpPlus

	OpIncrement
	OpDecrement

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
)

// Arithmetic maps a compound assignment to its binary operator.
func (op Operator) Arithmetic() (Operator, bool) {
	switch op {
	case OpAddAssign:
		return OpAdd, true
	case OpSubAssign:
		return OpSub, true
	case OpMulAssign:
		return OpMul, true
	case OpDivAssign:
		return OpDiv, true
	case OpModAssign:
		return OpMod, true
	}
	return op, false
}

// Node kind names. A parser tags each node with the name its grammar uses.
const (
	ExpressionStatement          = "ExpressionStatement"
	VariableDeclaration          = "VariableDeclaration"
	SetVariableStatement         = "SetVariableStatement"
	AssignmentStatement          = "AssignmentStatement"
	ChangeVariableStatement      = "ChangeVariableStatement"
	ChangeElementStatement       = "ChangeElementStatement"
	ChangePropertyStatement      = "ChangePropertyStatement"
	IfStatement                  = "IfStatement"
	WhileStatement               = "WhileStatement"
	ForStatement                 = "ForStatement"
	ForOfStatement               = "ForOfStatement"
	ForInStatement               = "ForInStatement"
	ForeachStatement             = "ForeachStatement"
	RepeatStatement              = "RepeatStatement"
	RepeatForeverStatement       = "RepeatForeverStatement"
	RepeatUntilGameOverStatement = "RepeatUntilGameOverStatement"
	BlockStatement               = "BlockStatement"
	FunctionDeclaration          = "FunctionDeclaration"
	ReturnStatement              = "ReturnStatement"
	BreakStatement               = "BreakStatement"
	ContinueStatement            = "ContinueStatement"
	LogStatement                 = "LogStatement"
	PassStatement                = "PassStatement"

	LiteralExpression         = "LiteralExpression"
	IdentifierExpression      = "IdentifierExpression"
	BinaryExpression          = "BinaryExpression"
	LogicalExpression         = "LogicalExpression"
	UnaryExpression           = "UnaryExpression"
	UpdateExpression          = "UpdateExpression"
	GroupingExpression        = "GroupingExpression"
	CallExpression            = "CallExpression"
	MethodCallExpression      = "MethodCallExpression"
	MemberExpression          = "MemberExpression"
	AttributeExpression       = "AttributeExpression"
	SubscriptExpression       = "SubscriptExpression"
	GetElementExpression      = "GetElementExpression"
	ArrayExpression           = "ArrayExpression"
	ListExpression            = "ListExpression"
	DictionaryExpression      = "DictionaryExpression"
	TemplateLiteralExpression = "TemplateLiteralExpression"
	FStringExpression         = "FStringExpression"
	AssignmentExpression      = "AssignmentExpression"
	InstantiationExpression   = "InstantiationExpression"
)

// NodeKinds lists every node kind name.
var NodeKinds = []string{
	ExpressionStatement, VariableDeclaration, SetVariableStatement,
	AssignmentStatement, ChangeVariableStatement, ChangeElementStatement,
	ChangePropertyStatement, IfStatement,
	WhileStatement, ForStatement, ForOfStatement, ForInStatement,
	ForeachStatement, RepeatStatement, RepeatForeverStatement,
	RepeatUntilGameOverStatement, BlockStatement, FunctionDeclaration,
	ReturnStatement, BreakStatement, ContinueStatement, LogStatement,
	PassStatement,

	LiteralExpression, IdentifierExpression, BinaryExpression,
	LogicalExpression, UnaryExpression, UpdateExpression,
	GroupingExpression, CallExpression, MethodCallExpression,
	MemberExpression, AttributeExpression, SubscriptExpression,
	GetElementExpression, ArrayExpression, ListExpression,
	DictionaryExpression, TemplateLiteralExpression, FStringExpression,
	AssignmentExpression, InstantiationExpression,
}

func init() {
	for _, k := range NodeKinds {
		jiki.RegisterNodeKind(k)
	}
}
