package scan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

var testTable = &Table{
	Keywords: map[string]token.Kind{
		"if":   token.If,
		"true": token.True,
		"var":  token.Var,
		"def":  token.Def,
	},
	Operators: map[string]token.Kind{
		"(": token.LeftParen, ")": token.RightParen,
		"[": token.LeftBracket, "]": token.RightBracket,
		"{": token.LeftBrace, "}": token.RightBrace,
		"+": token.Plus, "=": token.Equal, "==": token.EqualEqual, "===": token.StrictEqual,
		",": token.Comma, ":": token.Colon, ".": token.Dot,
	},
	LineComment:      "//",
	BlockComments:    true,
	Quotes:           `"'`,
	Templates:        true,
	SuppressNewlines: "([",
	UnopenedStrings:  true,
	Excluded:         map[token.Kind]bool{token.Var: true},
	Unimplemented:    map[token.Kind]bool{token.Def: true},
}

var pyTable = &Table{
	Keywords:    map[string]token.Kind{"if": token.If},
	Operators:   map[string]token.Kind{":": token.Colon, "=": token.Equal, "{": token.LeftBrace, "}": token.RightBrace},
	LineComment: "#",
	Quotes:      `"'`,
	FStrings:    true,
	Indentation: true,
}

func kinds(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind.String()
	}
	return out
}

func mustTokenize(t *testing.T, src string, table *Table) []token.Token {
	t.Helper()
	tokens, err := Tokenize(src, table, nil)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	return tokens
}

func TestTokenKinds(t *testing.T) {
	tokens := mustTokenize(t, "if (a === 1) // note\n  b = 'x' /* c */ + true", testTable)
	want := []string{
		"IF", "LEFT_PAREN", "IDENTIFIER", "STRICT_EQUAL", "NUMBER", "RIGHT_PAREN", "EOL",
		"IDENTIFIER", "EQUAL", "STRING", "PLUS", "TRUE", "EOL", "EOF",
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := tokens[9].Literal; !got.Equals(jiki.String("x")) {
		t.Errorf("string literal = %v", got)
	}
	if loc := tokens[7].Loc; loc.Line != 2 || loc.Col != 3 {
		t.Errorf("location of b = %s", loc)
	}
}

func TestNewlinesInsideBrackets(t *testing.T) {
	tokens := mustTokenize(t, "f(1,\n2)\n\n\nx", testTable)
	want := []string{"IDENTIFIER", "LEFT_PAREN", "NUMBER", "COMMA", "NUMBER", "RIGHT_PAREN", "EOL", "IDENTIFIER", "EOL", "EOF"}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"3.25", 3.25},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"0", 0},
		{"0.5", 0.5},
	}
	for _, c := range cases {
		tokens := mustTokenize(t, c.src, testTable)
		if got := tokens[0].Literal; !got.Equals(jiki.Number(c.want)) {
			t.Errorf("%s scanned as %v, want %v", c.src, got, c.want)
		}
	}
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1.3.4", "NumberWithMultipleDecimalPoints: suggestion: 1.34"},
		{"123.", "NumberEndsWithDecimalPoint: suggestion: 123"},
		{"123abc", "NumberContainsAlpha: suggestion: 123"},
		{"00123", "NumberStartsWithZero: suggestion: 123"},
		{"0x", "InvalidNumberLiteral: lexeme: 0x"},
		{`"abc`, "MissingDoubleQuoteToTerminateString: string: abc"},
		{"'abc\n'", "MissingSingleQuoteToTerminateString: string: abc"},
		{`abc"`, "MissingDoubleQuoteToStartString: string: abc"},
		{"a ; b", "UnknownCharacter: character: ;"},
		{"a ☃", "UnknownCharacter: character: ☃"},
		{"/* open", "UnterminatedBlockComment"},
		{"`abc", "MissingBacktickToTerminateTemplateLiteral"},
		{"var x", "PermanentlyExcludedToken: lexeme: var, tokenType: VAR"},
		{"def x", "UnimplementedToken: lexeme: def, tokenType: DEF"},
	}
	for _, c := range cases {
		_, err := Tokenize(c.src, testTable, nil)
		var e *jiki.Err
		if !errors.As(err, &e) {
			t.Errorf("%q: expected a jiki error, got %v", c.src, err)
			continue
		}
		if e.Category != jiki.ErrSyntax || e.Error() != c.want {
			t.Errorf("%q: got %q, want %q", c.src, e.Error(), c.want)
		}
	}
}

func TestGateRejectsTokens(t *testing.T) {
	f := jiki.DefaultFeatures()
	f.ExcludeList = []string{"PLUS"}
	_, err := Tokenize("1 + 2", testTable, jiki.NewGate(f))
	var e *jiki.Err
	if !errors.As(err, &e) || e.Kind != jiki.KindDisabledFeatureViolation {
		t.Fatalf("expected DisabledFeatureViolation, got %v", err)
	}
	if e.Context["list"] != "exclude" || e.Loc.Col != 3 {
		t.Errorf("unexpected context %v at %s", e.Context, e.Loc)
	}
}

func TestTemplateParts(t *testing.T) {
	tokens := mustTokenize(t, "`a ${b + {c: 1}.c} d`", testTable)
	if len(tokens) != 3 || tokens[0].Kind != token.Template {
		t.Fatalf("unexpected tokens %v", kinds(tokens))
	}
	parts := tokens[0].Parts
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].Text != "a " || parts[2].Text != " d" || !parts[1].IsExpr {
		t.Errorf("unexpected parts %+v", parts)
	}
	want := []string{"IDENTIFIER", "PLUS", "LEFT_BRACE", "IDENTIFIER", "COLON", "NUMBER", "RIGHT_BRACE", "DOT", "IDENTIFIER", "EOF"}
	if diff := cmp.Diff(want, kinds(parts[1].Tokens)); diff != "" {
		t.Errorf("embedded kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestIndentation(t *testing.T) {
	src := "if a:\n    b = 1\n\n    # comment\n    if c:\n        d = f\"{x}!\"\ne = 2\n"
	tokens := mustTokenize(t, src, pyTable)
	want := []string{
		"IF", "IDENTIFIER", "COLON", "NEWLINE",
		"INDENT", "IDENTIFIER", "EQUAL", "NUMBER", "NEWLINE",
		"IF", "IDENTIFIER", "COLON", "NEWLINE",
		"INDENT", "IDENTIFIER", "EQUAL", "TEMPLATE", "NEWLINE",
		"DEDENT", "DEDENT", "IDENTIFIER", "EQUAL", "NUMBER", "NEWLINE", "EOF",
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestIndentationErrors(t *testing.T) {
	for _, src := range []string{"if a:\n\tb = 1", "if a:\n   b = 1", "if a:\n        b = 1\n    c = 2"} {
		_, err := Tokenize(src, pyTable, nil)
		var e *jiki.Err
		if !errors.As(err, &e) || e.Kind != jiki.KindIndentationError {
			t.Errorf("%q: expected IndentationError, got %v", src, err)
		}
	}
}
