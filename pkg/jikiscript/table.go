package jikiscript

import (
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

var table = &scan.Table{
	Keywords: map[string]token.Kind{
		"set":                    token.Set,
		"change":                 token.Change,
		"to":                     token.To,
		"log":                    token.Log,
		"if":                     token.If,
		"else":                   token.Else,
		"do":                     token.Do,
		"end":                    token.End,
		"repeat":                 token.Repeat,
		"repeat_forever":         token.RepeatForever,
		"repeat_until_game_over": token.RepeatUntilGameOver,
		"times":                  token.Times,
		"indexed":                token.Indexed,
		"by":                     token.By,
		"while":                  token.While,
		"for":                    token.For,
		"each":                   token.Each,
		"in":                     token.In,
		"function":               token.Function,
		"with":                   token.With,
		"return":                 token.Return,
		"break":                  token.Break,
		"continue":               token.Continue,
		"next":                   token.Next,
		"true":                   token.True,
		"false":                  token.False,
		"null":                   token.Null,
		"and":                    token.And,
		"or":                     token.Or,
		"not":                    token.Not,
		"is":                     token.Is,
		"equals":                 token.Equals,
		"new":                    token.New,
		"class":                  token.Class,
		"this":                   token.This,
	},
	Operators: map[string]token.Kind{
		"(": token.LeftParen, ")": token.RightParen,
		"{": token.LeftBrace, "}": token.RightBrace,
		"[": token.LeftBracket, "]": token.RightBracket,
		",": token.Comma, ".": token.Dot, ":": token.Colon,

		"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash, "%": token.Percent,

		"=": token.Equal, "==": token.EqualEqual, "!=": token.BangEqual, "!": token.Bang,
		">": token.Greater, ">=": token.GreaterEqual,
		"<": token.Less, "<=": token.LessEqual,
		"&&": token.AndAnd, "||": token.OrOr,
	},
	LineComment:      "//",
	BlockComments:    true,
	Quotes:           `"`,
	Templates:        true,
	Namespaces:       true,
	UnopenedStrings:  true,
	SuppressNewlines: "([{",

	Unimplemented: map[token.Kind]bool{
		token.Class: true,
		token.This:  true,
	},
}
