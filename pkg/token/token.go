package token

import (
	"fmt"

	"github.com/thesephist/jiki/pkg/jiki"
)

// Token is the smallest meaningful unit of guest source.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal jiki.Value
	Loc     jiki.Location

	// Parts holds the pieces of a TEMPLATE token in source order.
	Parts []Part
}

// Part is either literal text or an embedded expression of a template.
type Part struct {
	Text   string
	Tokens []Token
	IsExpr bool
	Loc    jiki.Location
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, String, Number:
		return fmt.Sprintf("%s '%s' [%s]", t.Kind, t.Lexeme, t.Loc)
	default:
		return fmt.Sprintf("%s [%s]", t.Kind, t.Loc)
	}
}

// IsKeyword reports whether the kind is a reserved word in some guest.
func (k Kind) IsKeyword() bool {
	return k >= Let && k <= Except
}
