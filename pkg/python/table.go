package python

import (
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

var table = &scan.Table{
	Keywords: map[string]token.Kind{
		"if":       token.If,
		"elif":     token.Elif,
		"else":     token.Else,
		"while":    token.While,
		"for":      token.For,
		"in":       token.In,
		"def":      token.Def,
		"return":   token.Return,
		"break":    token.Break,
		"continue": token.Continue,
		"pass":     token.Pass,
		"True":     token.True,
		"False":    token.False,
		"None":     token.None,
		"and":      token.And,
		"or":       token.Or,
		"not":      token.Not,
		"is":       token.Is,
		"class":    token.Class,
		"try":      token.Try,
		"except":   token.Except,
		"finally":  token.Finally,
		"raise":    token.Raise,
		"import":   token.Import,
		"from":     token.From,
		"as":       token.As,
		"lambda":   token.Lambda,
		"with":     token.With,
		"global":   token.Global,
		"nonlocal": token.Nonlocal,
		"del":      token.Del,
		"yield":    token.Yield,
		"assert":   token.Assert,
		"async":    token.Async,
		"await":    token.Await,
	},
	Operators: map[string]token.Kind{
		"(": token.LeftParen, ")": token.RightParen,
		"{": token.LeftBrace, "}": token.RightBrace,
		"[": token.LeftBracket, "]": token.RightBracket,
		",": token.Comma, ".": token.Dot, ":": token.Colon, ";": token.Semicolon,
		"->": token.Arrow, "@": token.At,

		"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash,
		"//": token.SlashSlash, "%": token.Percent, "**": token.StarStar,

		"=": token.Equal, "+=": token.PlusEqual, "-=": token.MinusEqual,
		"*=": token.StarEqual, "/=": token.SlashEqual, "%=": token.PercentEqual,

		"==": token.EqualEqual, "!=": token.BangEqual,
		">": token.Greater, ">=": token.GreaterEqual,
		"<": token.Less, "<=": token.LessEqual,
		"&": token.Ampersand, "|": token.Pipe, "^": token.Caret, "~": token.Tilde,
	},
	LineComment:      "#",
	Quotes:           `"'`,
	FStrings:         true,
	Indentation:      true,
	SuppressNewlines: "([{",

	Unimplemented: map[token.Kind]bool{
		token.Is: true, token.Class: true, token.Try: true, token.Except: true,
		token.Finally: true, token.Raise: true, token.Import: true, token.From: true,
		token.As: true, token.Lambda: true, token.With: true, token.Del: true,
		token.Yield: true, token.Assert: true, token.Async: true, token.Await: true,
		token.Semicolon: true, token.Arrow: true, token.At: true,
		token.Ampersand: true, token.Pipe: true, token.Caret: true, token.Tilde: true,
	},
	Excluded: map[token.Kind]bool{
		token.Global:   true,
		token.Nonlocal: true,
	},
}
