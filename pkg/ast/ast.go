// Package ast defines the syntax tree shared by every guest language.
//
// Each guest parser builds the same node structs and tags them with the
// node kind name of its own grammar (a JavaScript index is a
// MemberExpression, a Python one a SubscriptExpression). The Feature Gate
// and the error taxonomy work on those names.
package ast

import (
	"fmt"
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

// Node represents an abstract syntax tree (AST) node in a guest program.
type Node interface {
	String() string
	Location() jiki.Location
	Kind() string
}

// Stmt is a node that can stand as a statement. The set is closed.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value. The set is closed.
type Expr interface {
	Node
	exprNode()
}

// Base carries the location and node kind name of every node.
type Base struct {
	Loc  jiki.Location
	Type string
}

func (b *Base) Location() jiki.Location { return b.Loc }
func (b *Base) Kind() string            { return b.Type }

// Program is a parsed, immutable guest program.
type Program struct {
	Source     string
	Statements []Stmt
}

func (p *Program) String() string {
	stmts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		stmts[i] = s.String()
	}
	return strings.Join(stmts, "\n")
}

type ExpressionStmt struct {
	Base
	Expr Expr
}

func (n *ExpressionStmt) String() string { return fmt.Sprintf("Statement (%s)", n.Expr) }

// DeclStmt introduces a new variable: let/const or set.
type DeclStmt struct {
	Base
	Name    string
	NameLoc jiki.Location
	Value   Expr
	Const   bool
}

func (n *DeclStmt) String() string {
	return fmt.Sprintf("Declare '%s' = (%s)", n.Name, n.Value)
}

// AssignStmt updates a variable, element or property: Python assignment or
// change. Python assignments may also declare.
type AssignStmt struct {
	Base
	Op     Operator
	Lexeme string
	Target Expr
	Value  Expr
}

func (n *AssignStmt) String() string {
	return fmt.Sprintf("Assign (%s) %s (%s)", n.Target, n.Lexeme, n.Value)
}

type IfStmt struct {
	Base
	Cond Expr
	Then *BlockStmt
	// Else is nil, a *BlockStmt or an *IfStmt.
	Else Stmt
}

func (n *IfStmt) String() string {
	return fmt.Sprintf("If (%s) then %s else %v", n.Cond, n.Then, n.Else)
}

type WhileStmt struct {
	Base
	Cond Expr
	Body *BlockStmt
}

func (n *WhileStmt) String() string { return fmt.Sprintf("While (%s) %s", n.Cond, n.Body) }

// ForStmt is the C-style three clause loop.
type ForStmt struct {
	Base
	Init   Stmt
	Cond   Expr
	Update Expr
	Body   *BlockStmt
}

func (n *ForStmt) String() string {
	return fmt.Sprintf("For (%v; %v; %v) %s", n.Init, n.Cond, n.Update, n.Body)
}

// ForEachStmt iterates a list, string or dictionary.
type ForEachStmt struct {
	Base
	Name       string
	SecondName string
	Index      string
	Iterable   Expr
	Body       *BlockStmt
}

func (n *ForEachStmt) String() string {
	return fmt.Sprintf("ForEach '%s' in (%s) %s", n.Name, n.Iterable, n.Body)
}

// RepeatStmt runs its body Count times, forever when Count is nil, or until
// the host finishes the exercise.
type RepeatStmt struct {
	Base
	Count         Expr
	UntilGameOver bool
	Index         string
	Body          *BlockStmt
}

func (n *RepeatStmt) String() string {
	switch {
	case n.UntilGameOver:
		return fmt.Sprintf("Repeat until game over %s", n.Body)
	case n.Count == nil:
		return fmt.Sprintf("Repeat forever %s", n.Body)
	}
	return fmt.Sprintf("Repeat (%s) %s", n.Count, n.Body)
}

type BlockStmt struct {
	Base
	Statements []Stmt
}

func (n *BlockStmt) String() string {
	stmts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		stmts[i] = s.String()
	}
	return "{" + strings.Join(stmts, "; ") + "}"
}

type Param struct {
	Name string
	Loc  jiki.Location
}

type FunctionStmt struct {
	Base
	Name   string
	Params []Param
	Body   *BlockStmt
}

func (n *FunctionStmt) ParamNames() []string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return names
}

func (n *FunctionStmt) String() string {
	return fmt.Sprintf("Function '%s' (%s) => %s", n.Name, strings.Join(n.ParamNames(), ", "), n.Body)
}

type ReturnStmt struct {
	Base
	Lexeme string
	Value  Expr
}

func (n *ReturnStmt) String() string { return fmt.Sprintf("Return (%v)", n.Value) }

type BreakStmt struct {
	Base
	Lexeme string
}

func (n *BreakStmt) String() string { return "Break" }

type ContinueStmt struct {
	Base
	Lexeme string
}

func (n *ContinueStmt) String() string { return "Continue" }

type LogStmt struct {
	Base
	Value Expr
}

func (n *LogStmt) String() string { return fmt.Sprintf("Log (%s)", n.Value) }

type PassStmt struct {
	Base
}

func (n *PassStmt) String() string { return "Pass" }

func (*ExpressionStmt) stmtNode() {}
func (*DeclStmt) stmtNode()       {}
func (*AssignStmt) stmtNode()     {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*ForStmt) stmtNode()        {}
func (*ForEachStmt) stmtNode()    {}
func (*RepeatStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*LogStmt) stmtNode()        {}
func (*PassStmt) stmtNode()       {}
