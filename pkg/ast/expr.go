package ast

import (
	"fmt"
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

type Literal struct {
	Base
	Value jiki.Value
}

func (n *Literal) String() string { return fmt.Sprintf("Literal %s", n.Value) }

type Ident struct {
	Base
	Name string
}

func (n *Ident) String() string { return fmt.Sprintf("Identifier '%s'", n.Name) }

type Binary struct {
	Base
	Op     Operator
	Lexeme string
	Left   Expr
	Right  Expr
}

func (n *Binary) String() string {
	return fmt.Sprintf("Binary (%s) %s (%s)", n.Left, n.Lexeme, n.Right)
}

// Logical is a short-circuiting and/or.
type Logical struct {
	Base
	Op     Operator
	Lexeme string
	Left   Expr
	Right  Expr
}

func (n *Logical) String() string {
	return fmt.Sprintf("Logical (%s) %s (%s)", n.Left, n.Lexeme, n.Right)
}

type Unary struct {
	Base
	Op      Operator
	Lexeme  string
	Operand Expr
}

func (n *Unary) String() string { return fmt.Sprintf("Unary %s (%s)", n.Lexeme, n.Operand) }

// Update is ++ or -- in prefix or postfix position.
type Update struct {
	Base
	Op     Operator
	Lexeme string
	Prefix bool
	Target Expr
}

func (n *Update) String() string {
	if n.Prefix {
		return fmt.Sprintf("Update %s(%s)", n.Lexeme, n.Target)
	}
	return fmt.Sprintf("Update (%s)%s", n.Target, n.Lexeme)
}

type Group struct {
	Base
	Inner Expr
}

func (n *Group) String() string { return fmt.Sprintf("Group (%s)", n.Inner) }

type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("Call (%s) on (%s)", n.Callee, strings.Join(args, ", "))
}

// CalleeName is the plain name being called, or "" for computed callees.
func (n *Call) CalleeName() string {
	switch c := n.Callee.(type) {
	case *Ident:
		return c.Name
	case *Member:
		return c.Name
	}
	return ""
}

// Member is property access by name: obj.name.
type Member struct {
	Base
	Object  Expr
	Name    string
	NameLoc jiki.Location
}

func (n *Member) String() string { return fmt.Sprintf("Member (%s).%s", n.Object, n.Name) }

// Index is element access: obj[index].
type Index struct {
	Base
	Object Expr
	Index  Expr
}

func (n *Index) String() string { return fmt.Sprintf("Index (%s)[%s]", n.Object, n.Index) }

type List struct {
	Base
	Elems []Expr
}

func (n *List) String() string {
	elems := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		elems[i] = e.String()
	}
	return "List [" + strings.Join(elems, ", ") + "]"
}

type DictEntry struct {
	Key   Expr
	Value Expr
}

type Dict struct {
	Base
	Entries []DictEntry
}

func (n *Dict) String() string {
	entries := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		entries[i] = fmt.Sprintf("%s: %s", e.Key, e.Value)
	}
	return "Dictionary {" + strings.Join(entries, ", ") + "}"
}

// TemplatePart is literal text when Expr is nil.
type TemplatePart struct {
	Text string
	Expr Expr
}

type Template struct {
	Base
	Parts []TemplatePart
}

func (n *Template) String() string {
	parts := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		if p.Expr != nil {
			parts[i] = "${" + p.Expr.String() + "}"
		} else {
			parts[i] = p.Text
		}
	}
	return "Template `" + strings.Join(parts, "") + "`"
}

// Assign is an assignment used as an expression.
type Assign struct {
	Base
	Op     Operator
	Lexeme string
	Target Expr
	Value  Expr
}

func (n *Assign) String() string {
	return fmt.Sprintf("Assign (%s) %s (%s)", n.Target, n.Lexeme, n.Value)
}

// New instantiates a host class.
type New struct {
	Base
	Class string
	Args  []Expr
}

func (n *New) String() string { return fmt.Sprintf("New %s (%d args)", n.Class, len(n.Args)) }

func (*Literal) exprNode()  {}
func (*Ident) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Unary) exprNode()    {}
func (*Update) exprNode()   {}
func (*Group) exprNode()    {}
func (*Call) exprNode()     {}
func (*Member) exprNode()   {}
func (*Index) exprNode()    {}
func (*List) exprNode()     {}
func (*Dict) exprNode()     {}
func (*Template) exprNode() {}
func (*Assign) exprNode()   {}
func (*New) exprNode()      {}
