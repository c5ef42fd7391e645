package parse

import (
	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/token"
)

// OpTable describes one precedence ladder of binary operators.
type OpTable struct {
	// Priority returns the binding power of an operator token, higher
	// binds tighter, or -1 when the token is not a binary operator.
	Priority func(token.Token) int
	// RightAssoc marks operators that group to the right, like **.
	RightAssoc func(token.Token) bool
	// Build turns an operator and its operands into a node.
	Build func(op token.Token, left, right ast.Expr) (ast.Expr, error)
	// SkipNewlines lets an expression continue on the next line after an
	// operator.
	SkipNewlines bool
}

// ParseBinaryExpression parses operand (op operand)* by precedence climbing,
// stopping at operators that bind looser than minPriority.
func (c *Cursor) ParseBinaryExpression(operand func() (ast.Expr, error), table OpTable, minPriority int) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op := c.Peek()
		priority := table.Priority(op)
		if priority < 0 || priority < minPriority {
			return left, nil
		}
		c.Advance()
		if table.SkipNewlines {
			c.SkipNewlines()
		}
		if err := c.GuardUnexpectedInputEnd(); err != nil {
			return nil, err
		}

		next := priority + 1
		if table.RightAssoc != nil && table.RightAssoc(op) {
			next = priority
		}
		right, err := c.ParseBinaryExpression(operand, table, next)
		if err != nil {
			return nil, err
		}

		left, err = table.Build(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}
