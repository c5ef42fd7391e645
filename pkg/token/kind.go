package token

// Kind is the discriminant of a Token. The set is shared by all guest
// languages; each scanner only produces the kinds its table maps.
type Kind int

const (
	Illegal Kind = iota

	// single-character and operator tokens
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Colon
	Semicolon
	Question
	Arrow
	Plus
	Minus
	Star
	Slash
	SlashSlash
	Percent
	StarStar
	PlusPlus
	MinusMinus
	Equal
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	Bang
	BangEqual
	EqualEqual
	StrictEqual
	NotStrictEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	AndAnd
	OrOr
	Ampersand
	Pipe
	Caret
	Tilde
	At

	// literals
	Identifier
	String
	Number
	Template

	// keywords
	Let
	Const
	Var
	If
	Else
	Elif
	While
	For
	Of
	In
	Do
	End
	Repeat
	RepeatForever
	RepeatUntilGameOver
	Times
	Indexed
	By
	Each
	Function
	Def
	With
	Return
	Break
	Continue
	Next
	Pass
	Log
	Set
	Change
	To
	New
	True
	False
	Null
	Undefined
	None
	And
	Or
	Not
	Is
	Equals
	Class
	This
	Switch
	Case
	Default
	Try
	Catch
	Finally
	Throw
	Typeof
	Instanceof
	Delete
	Void
	Yield
	Async
	Await
	Import
	Export
	From
	As
	Lambda
	Global
	Nonlocal
	Assert
	Del
	Raise
	Except

	// layout
	EOL
	Newline
	Indent
	Dedent
	EOF
)

var kindNames = [...]string{
	Illegal:             "ILLEGAL",
	LeftParen:           "LEFT_PAREN",
	RightParen:          "RIGHT_PAREN",
	LeftBrace:           "LEFT_BRACE",
	RightBrace:          "RIGHT_BRACE",
	LeftBracket:         "LEFT_BRACKET",
	RightBracket:        "RIGHT_BRACKET",
	Comma:               "COMMA",
	Dot:                 "DOT",
	Colon:               "COLON",
	Semicolon:           "SEMICOLON",
	Question:            "QUESTION",
	Arrow:               "ARROW",
	Plus:                "PLUS",
	Minus:               "MINUS",
	Star:                "STAR",
	Slash:               "SLASH",
	SlashSlash:          "SLASH_SLASH",
	Percent:             "PERCENT",
	StarStar:            "STAR_STAR",
	PlusPlus:            "PLUS_PLUS",
	MinusMinus:          "MINUS_MINUS",
	Equal:               "EQUAL",
	PlusEqual:           "PLUS_EQUAL",
	MinusEqual:          "MINUS_EQUAL",
	StarEqual:           "STAR_EQUAL",
	SlashEqual:          "SLASH_EQUAL",
	PercentEqual:        "PERCENT_EQUAL",
	Bang:                "BANG",
	BangEqual:           "BANG_EQUAL",
	EqualEqual:          "EQUAL_EQUAL",
	StrictEqual:         "STRICT_EQUAL",
	NotStrictEqual:      "NOT_STRICT_EQUAL",
	Greater:             "GREATER",
	GreaterEqual:        "GREATER_EQUAL",
	Less:                "LESS",
	LessEqual:           "LESS_EQUAL",
	AndAnd:              "AND_AND",
	OrOr:                "OR_OR",
	Ampersand:           "AMPERSAND",
	Pipe:                "PIPE",
	Caret:               "CARET",
	Tilde:               "TILDE",
	At:                  "AT",
	Identifier:          "IDENTIFIER",
	String:              "STRING",
	Number:              "NUMBER",
	Template:            "TEMPLATE",
	Let:                 "LET",
	Const:               "CONST",
	Var:                 "VAR",
	If:                  "IF",
	Else:                "ELSE",
	Elif:                "ELIF",
	While:               "WHILE",
	For:                 "FOR",
	Of:                  "OF",
	In:                  "IN",
	Do:                  "DO",
	End:                 "END",
	Repeat:              "REPEAT",
	RepeatForever:       "REPEAT_FOREVER",
	RepeatUntilGameOver: "REPEAT_UNTIL_GAME_OVER",
	Times:               "TIMES",
	Indexed:             "INDEXED",
	By:                  "BY",
	Each:                "EACH",
	Function:            "FUNCTION",
	Def:                 "DEF",
	With:                "WITH",
	Return:              "RETURN",
	Break:               "BREAK",
	Continue:            "CONTINUE",
	Next:                "NEXT",
	Pass:                "PASS",
	Log:                 "LOG",
	Set:                 "SET",
	Change:              "CHANGE",
	To:                  "TO",
	New:                 "NEW",
	True:                "TRUE",
	False:               "FALSE",
	Null:                "NULL",
	Undefined:           "UNDEFINED",
	None:                "NONE",
	And:                 "AND",
	Or:                  "OR",
	Not:                 "NOT",
	Is:                  "IS",
	Equals:              "EQUALS",
	Class:               "CLASS",
	This:                "THIS",
	Switch:              "SWITCH",
	Case:                "CASE",
	Default:             "DEFAULT",
	Try:                 "TRY",
	Catch:               "CATCH",
	Finally:             "FINALLY",
	Throw:               "THROW",
	Typeof:              "TYPEOF",
	Instanceof:          "INSTANCEOF",
	Delete:              "DELETE",
	Void:                "VOID",
	Yield:               "YIELD",
	Async:               "ASYNC",
	Await:               "AWAIT",
	Import:              "IMPORT",
	Export:              "EXPORT",
	From:                "FROM",
	As:                  "AS",
	Lambda:              "LAMBDA",
	Global:              "GLOBAL",
	Nonlocal:            "NONLOCAL",
	Assert:              "ASSERT",
	Del:                 "DEL",
	Raise:               "RAISE",
	Except:              "EXCEPT",
	EOL:                 "EOL",
	Newline:             "NEWLINE",
	Indent:              "INDENT",
	Dedent:              "DEDENT",
	EOF:                 "EOF",
}
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ILLEGAL"
}

var kindsByName map[string]Kind

func init() {
	kindsByName = make(map[string]Kind, len(kindNames))
	for i, name := range kindNames {
		kindsByName[name] = Kind(i)
	}
}

// Lookup finds a kind by its String name.
func Lookup(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}
