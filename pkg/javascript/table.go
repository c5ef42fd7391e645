package javascript

import (
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

var table = &scan.Table{
	Keywords: map[string]token.Kind{
		"let":        token.Let,
		"const":      token.Const,
		"var":        token.Var,
		"if":         token.If,
		"else":       token.Else,
		"while":      token.While,
		"for":        token.For,
		"of":         token.Of,
		"in":         token.In,
		"do":         token.Do,
		"repeat":     token.Repeat,
		"function":   token.Function,
		"return":     token.Return,
		"break":      token.Break,
		"continue":   token.Continue,
		"true":       token.True,
		"false":      token.False,
		"null":       token.Null,
		"undefined":  token.Undefined,
		"new":        token.New,
		"class":      token.Class,
		"this":       token.This,
		"switch":     token.Switch,
		"case":       token.Case,
		"default":    token.Default,
		"try":        token.Try,
		"catch":      token.Catch,
		"finally":    token.Finally,
		"throw":      token.Throw,
		"typeof":     token.Typeof,
		"instanceof": token.Instanceof,
		"delete":     token.Delete,
		"void":       token.Void,
		"yield":      token.Yield,
		"async":      token.Async,
		"await":      token.Await,
		"import":     token.Import,
		"export":     token.Export,
	},
	Operators: map[string]token.Kind{
		"(": token.LeftParen, ")": token.RightParen,
		"{": token.LeftBrace, "}": token.RightBrace,
		"[": token.LeftBracket, "]": token.RightBracket,
		",": token.Comma, ".": token.Dot, ":": token.Colon, ";": token.Semicolon,
		"?": token.Question, "=>": token.Arrow,

		"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash,
		"%": token.Percent, "**": token.StarStar,
		"++": token.PlusPlus, "--": token.MinusMinus,

		"=": token.Equal, "+=": token.PlusEqual, "-=": token.MinusEqual,
		"*=": token.StarEqual, "/=": token.SlashEqual, "%=": token.PercentEqual,

		"!": token.Bang, "!=": token.BangEqual, "==": token.EqualEqual,
		"===": token.StrictEqual, "!==": token.NotStrictEqual,
		">": token.Greater, ">=": token.GreaterEqual,
		"<": token.Less, "<=": token.LessEqual,
		"&&": token.AndAnd, "||": token.OrOr,
		"&": token.Ampersand, "|": token.Pipe, "^": token.Caret, "~": token.Tilde,
	},
	LineComment:      "//",
	BlockComments:    true,
	Quotes:           `"'`,
	Templates:        true,
	SuppressNewlines: "([",

	Unimplemented: map[token.Kind]bool{
		token.Class: true, token.This: true, token.New: true,
		token.Switch: true, token.Case: true, token.Default: true,
		token.Try: true, token.Catch: true, token.Finally: true, token.Throw: true,
		token.Typeof: true, token.Instanceof: true, token.Delete: true,
		token.Question: true, token.Arrow: true, token.Do: true, token.In: true,
		token.Yield: true, token.Async: true, token.Await: true,
		token.Import: true, token.Export: true,
		token.Ampersand: true, token.Pipe: true, token.Caret: true, token.Tilde: true,
	},
	Excluded: map[token.Kind]bool{
		token.Var:  true,
		token.Void: true,
	},
}
