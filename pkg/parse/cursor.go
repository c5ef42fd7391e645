// Package parse holds the recursive-descent machinery shared by the guest
// parsers: a token cursor with gate checks, error helpers and a precedence
// climbing binary expression parser.
package parse

import (
	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

// Cursor walks a token slice. The slice always ends with an EOF token.
type Cursor struct {
	tokens []token.Token
	idx    int
	gate   *jiki.Gate
}

func NewCursor(tokens []token.Token, gate *jiki.Gate) *Cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	return &Cursor{tokens: tokens, gate: gate}
}

// Sub returns a cursor over an embedded token stream sharing this gate.
func (c *Cursor) Sub(tokens []token.Token) *Cursor {
	return NewCursor(tokens, c.gate)
}

func (c *Cursor) Peek() token.Token {
	return c.tokens[c.idx]
}

// PeekAt looks n tokens ahead, clamping at EOF.
func (c *Cursor) PeekAt(n int) token.Token {
	if c.idx+n >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[c.idx+n]
}

func (c *Cursor) Previous() token.Token {
	if c.idx == 0 {
		return c.tokens[0]
	}
	return c.tokens[c.idx-1]
}

func (c *Cursor) Advance() token.Token {
	tok := c.tokens[c.idx]
	if tok.Kind != token.EOF {
		c.idx++
	}
	return tok
}

func (c *Cursor) AtEnd() bool {
	return c.Peek().Kind == token.EOF
}

func (c *Cursor) Check(kinds ...token.Kind) bool {
	k := c.Peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (c *Cursor) Match(kinds ...token.Kind) bool {
	if c.Check(kinds...) {
		c.Advance()
		return true
	}
	return false
}

// Expect consumes a token of the given kind or fails with errKind at the
// offending token.
func (c *Cursor) Expect(kind token.Kind, errKind jiki.Kind, context map[string]any) (token.Token, error) {
	if c.Check(kind) {
		return c.Advance(), nil
	}
	if c.AtEnd() && errKind == "" {
		return token.Token{}, c.GuardUnexpectedInputEnd()
	}
	if errKind == "" {
		errKind = jiki.KindUnexpectedToken
		context = map[string]any{"lexeme": c.Peek().Lexeme}
	}
	return token.Token{}, c.Fail(errKind, c.Peek(), context)
}

// Save and Restore allow bounded backtracking.
func (c *Cursor) Save() int       { return c.idx }
func (c *Cursor) Restore(pos int) { c.idx = pos }

// SkipNewlines consumes any EOL and NEWLINE tokens.
func (c *Cursor) SkipNewlines() {
	for c.Check(token.EOL, token.Newline) {
		c.Advance()
	}
}

func (c *Cursor) GuardUnexpectedInputEnd() error {
	if !c.AtEnd() {
		return nil
	}
	return jiki.SyntaxError(jiki.KindUnexpectedEndOfInput, c.Previous().Loc, nil)
}

func (c *Cursor) Fail(kind jiki.Kind, tok token.Token, context map[string]any) error {
	return jiki.SyntaxError(kind, tok.Loc, context)
}

func (c *Cursor) FailAt(kind jiki.Kind, loc jiki.Location, context map[string]any) error {
	return jiki.SyntaxError(kind, loc, context)
}

// Allow consults the Feature Gate for a node kind about to be built.
func (c *Cursor) Allow(nodeKind string, loc jiki.Location) error {
	if c.gate.IsNodeAllowed(nodeKind) {
		return nil
	}
	log.Debug().Str("node", nodeKind).Str("at", loc.String()).Msg("node rejected by gate")
	return jiki.SyntaxError(jiki.NotAllowed(nodeKind), loc, map[string]any{"nodeType": nodeKind})
}

// Node returns the Base of a node after checking the gate.
func (c *Cursor) Node(nodeKind string, loc jiki.Location) (ast.Base, error) {
	if err := c.Allow(nodeKind, loc); err != nil {
		return ast.Base{}, err
	}
	return ast.Base{Loc: loc, Type: nodeKind}, nil
}

// Span is the location from start through the previous token.
func (c *Cursor) Span(start jiki.Location) jiki.Location {
	return start.Through(c.Previous().Loc)
}

// UnexpectedToken builds the generic error for the current token, picking
// the closing-bracket and keyword variants when they apply.
func (c *Cursor) UnexpectedToken() error {
	tok := c.Peek()
	ctx := map[string]any{"lexeme": tok.Lexeme}
	switch {
	case tok.Kind == token.EOF:
		return c.GuardUnexpectedInputEnd()
	case tok.Kind == token.RightParen || tok.Kind == token.RightBracket || tok.Kind == token.RightBrace:
		return c.Fail(jiki.KindUnexpectedClosingBracket, tok, ctx)
	case tok.Kind.IsKeyword():
		return c.Fail(jiki.KindUnexpectedKeyword, tok, ctx)
	}
	return c.Fail(jiki.KindUnexpectedToken, tok, ctx)
}
