package scan

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

type scanner struct {
	src   string
	table *Table
	gate  *jiki.Gate
	maxOp int

	tokens []token.Token

	start, current      int
	line, col           int
	startLine, startCol int

	brackets  []byte
	indents   []int
	lineStart bool

	// a nested scan of an interpolated expression ends at an unmatched stopAt
	stopAt  byte
	stopped bool
}

// Tokenize scans a whole guest program. Token kinds rejected by the gate
// or the table fail the scan with a syntax error.
func Tokenize(source string, table *Table, gate *jiki.Gate) ([]token.Token, error) {
	s := &scanner{
		src:       source,
		table:     table,
		gate:      gate,
		maxOp:     table.maxOperatorLen(),
		line:      1,
		col:       1,
		indents:   []int{0},
		lineStart: true,
	}
	if err := s.run(); err != nil {
		return nil, err
	}
	s.finish()
	return s.tokens, nil
}

func (s *scanner) run() error {
	for !s.atEnd() && !s.stopped {
		if s.lineStart && s.table.Indentation && len(s.brackets) == 0 {
			if err := s.indentation(); err != nil {
				return err
			}
			if s.atEnd() {
				break
			}
		}
		s.lineStart = false

		s.begin()
		if err := s.scanToken(); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) finish() {
	s.begin()
	nl := s.table.newlineKind()
	if n := len(s.tokens); n > 0 && s.tokens[n-1].Kind != nl && s.tokens[n-1].Kind != token.Dedent {
		s.emit(nl)
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(token.Dedent)
	}
	s.emit(token.EOF)
}

func (s *scanner) scanToken() error {
	c := s.advance()
	switch {
	case c == '\n':
		return s.newline()
	case c == ' ' || c == '\t' || c == '\r':
		return nil
	case s.stopAt != 0 && c == s.stopAt && len(s.brackets) == 0:
		s.stopped = true
		return nil
	case s.table.LineComment != "" && strings.HasPrefix(s.src[s.start:], s.table.LineComment):
		for !s.atEnd() && s.peek() != '\n' {
			s.advance()
		}
		return nil
	case c == '/' && s.table.BlockComments && s.peek() == '*':
		return s.blockComment()
	case isDigit(c):
		return s.number()
	case strings.IndexByte(s.table.Quotes, c) >= 0:
		return s.str(c)
	case c == '`' && s.table.Templates:
		return s.interpolated('`', true)
	case isAlpha(c):
		return s.identifier()
	}
	return s.operator(c)
}

func (s *scanner) atEnd() bool {
	return s.current >= len(s.src)
}

func (s *scanner) begin() {
	s.start = s.current
	s.startLine = s.line
	s.startCol = s.col
}

func (s *scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) peek() byte {
	return s.peekAt(0)
}

func (s *scanner) peekAt(n int) byte {
	if s.current+n >= len(s.src) {
		return 0
	}
	return s.src[s.current+n]
}

func (s *scanner) lexeme() string {
	return s.src[s.start:s.current]
}

func (s *scanner) loc() jiki.Location {
	return jiki.Location{
		Line:  s.startLine,
		Col:   s.startCol,
		Begin: s.start,
		End:   s.current,
	}
}

func (s *scanner) fail(kind jiki.Kind, context map[string]any) error {
	return jiki.SyntaxError(kind, s.loc(), context)
}

func (s *scanner) add(kind token.Kind, literal jiki.Value) error {
	return s.push(token.Token{
		Kind:    kind,
		Lexeme:  s.lexeme(),
		Literal: literal,
		Loc:     s.loc(),
	})
}

func (s *scanner) push(tok token.Token) error {
	context := map[string]any{
		"tokenType": tok.Kind.String(),
		"lexeme":    tok.Lexeme,
	}
	if s.table.Excluded[tok.Kind] {
		return jiki.SyntaxError(jiki.KindPermanentlyExcludedToken, tok.Loc, context)
	}
	if s.table.Unimplemented[tok.Kind] {
		return jiki.SyntaxError(jiki.KindUnimplementedToken, tok.Loc, context)
	}
	if ok, list := s.gate.IsTokenAllowed(tok.Kind.String()); !ok {
		context["list"] = list
		return jiki.SyntaxError(jiki.KindDisabledFeatureViolation, tok.Loc, context)
	}
	s.tokens = append(s.tokens, tok)
	return nil
}

// emit appends a layout token, which is never gated.
func (s *scanner) emit(kind token.Kind) {
	s.tokens = append(s.tokens, token.Token{
		Kind:   kind,
		Lexeme: s.lexeme(),
		Loc:    s.loc(),
	})
}

func (s *scanner) newline() error {
	if n := len(s.brackets); n > 0 && strings.IndexByte(s.table.SuppressNewlines, s.brackets[n-1]) >= 0 {
		return nil
	}
	s.lineStart = true

	nl := s.table.newlineKind()
	n := len(s.tokens)
	if n == 0 || s.tokens[n-1].Kind == nl {
		return nil
	}
	s.emit(nl)
	return nil
}

func (s *scanner) indentation() error {
	s.lineStart = false

	i, width, tabbed := s.current, 0, false
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		if s.src[i] == '\t' {
			tabbed = true
		}
		width++
		i++
	}
	rest := s.src[i:]
	if rest == "" || rest[0] == '\n' || rest[0] == '\r' ||
		(s.table.LineComment != "" && strings.HasPrefix(rest, s.table.LineComment)) {
		// blank and comment-only lines do not affect indentation
		return nil
	}

	s.begin()
	for s.current < i {
		s.advance()
	}
	if tabbed {
		return s.fail(jiki.KindIndentationError, map[string]any{"reason": "tab"})
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		if width%4 != 0 {
			return s.fail(jiki.KindIndentationError, map[string]any{"width": width})
		}
		s.indents = append(s.indents, width)
		s.emit(token.Indent)
	case width < top:
		for width < top {
			s.indents = s.indents[:len(s.indents)-1]
			top = s.indents[len(s.indents)-1]
			s.emit(token.Dedent)
		}
		if width != top {
			return s.fail(jiki.KindIndentationError, map[string]any{"width": width})
		}
	}
	return nil
}

func (s *scanner) blockComment() error {
	for !(s.peek() == '*' && s.peekAt(1) == '/') {
		if s.atEnd() {
			return s.fail(jiki.KindUnterminatedBlockComment, nil)
		}
		s.advance()
	}
	s.advance()
	s.advance()
	return nil
}

func (s *scanner) digits() {
	for isDigit(s.peek()) {
		s.advance()
	}
}

func (s *scanner) number() error {
	if s.src[s.start] == '0' {
		if base := basePrefix(s.peek()); base != 0 {
			return s.prefixedNumber(base)
		}
	}

	s.digits()
	switch {
	case s.peek() == '.' && isDigit(s.peekAt(1)):
		s.advance()
		s.digits()
		if s.peek() == '.' && isDigit(s.peekAt(1)) {
			for s.peek() == '.' || isDigit(s.peek()) {
				s.advance()
			}
			lex := s.lexeme()
			dot := strings.IndexByte(lex, '.')
			suggestion := lex[:dot+1] + strings.ReplaceAll(lex[dot+1:], ".", "")
			return s.fail(jiki.KindNumberWithMultipleDecimalPoints, map[string]any{"suggestion": suggestion})
		}
	case s.peek() == '.' && !isAlpha(s.peekAt(1)) && s.peekAt(1) != '.':
		suggestion := s.lexeme()
		s.advance()
		return s.fail(jiki.KindNumberEndsWithDecimalPoint, map[string]any{"suggestion": suggestion})
	}

	if e := s.peek(); e == 'e' || e == 'E' {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			s.advance()
			if !isDigit(next) {
				s.advance()
			}
			s.digits()
		}
	}

	if isAlpha(s.peek()) {
		suggestion := s.lexeme()
		for isAlnum(s.peek()) {
			s.advance()
		}
		return s.fail(jiki.KindNumberContainsAlpha, map[string]any{"suggestion": suggestion})
	}

	lex := s.lexeme()
	if len(lex) > 1 && lex[0] == '0' && isDigit(lex[1]) {
		trimmed := strings.TrimLeft(lex, "0")
		if trimmed == "" || trimmed[0] == '.' {
			trimmed = "0" + trimmed
		}
		return s.fail(jiki.KindNumberStartsWithZero, map[string]any{"suggestion": trimmed})
	}

	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return s.fail(jiki.KindInvalidNumberLiteral, map[string]any{"lexeme": lex})
	}
	return s.add(token.Number, jiki.Number(f))
}

func basePrefix(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func (s *scanner) prefixedNumber(base int) error {
	s.advance()
	digitsStart := s.current
	for isAlnum(s.peek()) {
		s.advance()
	}
	n, err := strconv.ParseInt(s.src[digitsStart:s.current], base, 64)
	if s.current == digitsStart || err != nil {
		return s.fail(jiki.KindInvalidNumberLiteral, map[string]any{"lexeme": s.lexeme()})
	}
	return s.add(token.Number, jiki.Number(n))
}

func unterminatedKind(quote byte) jiki.Kind {
	if quote == '\'' {
		return jiki.KindMissingSingleQuoteToTerminateString
	}
	return jiki.KindMissingDoubleQuoteToTerminateString
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

func (s *scanner) str(quote byte) error {
	var b strings.Builder
	for {
		if s.atEnd() || s.peek() == '\n' {
			return s.fail(unterminatedKind(quote), map[string]any{"string": b.String()})
		}
		c := s.advance()
		if c == quote {
			break
		}
		if c == '\\' && !s.atEnd() {
			b.WriteByte(unescape(s.advance()))
			continue
		}
		b.WriteByte(c)
	}
	return s.add(token.String, jiki.String(b.String()))
}

// interpolated scans a template literal (dollar braces) or an f-string
// (bare braces) up to the closing delimiter.
func (s *scanner) interpolated(closing byte, dollar bool) error {
	var parts []token.Part
	var text strings.Builder
	textStart := s.current

	flush := func(end int) {
		if text.Len() > 0 {
			parts = append(parts, token.Part{
				Text: text.String(),
				Loc:  jiki.Location{Line: s.startLine, Col: s.startCol, Begin: textStart, End: end},
			})
			text.Reset()
		}
	}

	for {
		if s.atEnd() || (closing != '`' && s.peek() == '\n') {
			if closing == '`' {
				return s.fail(jiki.KindMissingBacktickToTerminateTemplateLiteral, nil)
			}
			return s.fail(unterminatedKind(closing), map[string]any{"string": text.String()})
		}

		c := s.advance()
		switch {
		case c == closing:
			flush(s.current - 1)
			return s.push(token.Token{
				Kind:   token.Template,
				Lexeme: s.lexeme(),
				Loc:    s.loc(),
				Parts:  parts,
			})
		case c == '\\' && !s.atEnd():
			text.WriteByte(unescape(s.advance()))
		case dollar && c == '$' && s.peek() == '{':
			flush(s.current - 1)
			s.advance()
			part, err := s.embedded(closing)
			if err != nil {
				return err
			}
			parts = append(parts, part)
			textStart = s.current
		case !dollar && (c == '{' || c == '}') && s.peek() == c:
			s.advance()
			text.WriteByte(c)
		case !dollar && c == '{':
			flush(s.current - 1)
			part, err := s.embedded(closing)
			if err != nil {
				return err
			}
			parts = append(parts, part)
			textStart = s.current
		default:
			text.WriteByte(c)
		}
	}
}

// embedded scans an interpolated expression with a nested scanner that
// stops at the matching closing brace.
func (s *scanner) embedded(closing byte) (token.Part, error) {
	sub := &scanner{
		src:     s.src,
		table:   s.table,
		gate:    s.gate,
		maxOp:   s.maxOp,
		current: s.current,
		line:    s.line,
		col:     s.col,
		indents: []int{0},
		stopAt:  '}',
	}
	exprStart, line, col := s.current, s.line, s.col
	if err := sub.run(); err != nil {
		return token.Part{}, err
	}
	if !sub.stopped {
		if closing == '`' {
			return token.Part{}, s.fail(jiki.KindMissingBacktickToTerminateTemplateLiteral, nil)
		}
		return token.Part{}, s.fail(unterminatedKind(closing), map[string]any{"string": s.src[exprStart:]})
	}

	// the closing brace becomes the EOF of the embedded token stream
	sub.start, sub.startLine, sub.startCol = sub.current-1, sub.line, sub.col-1
	sub.emit(token.EOF)
	s.current, s.line, s.col = sub.current, sub.line, sub.col

	return token.Part{
		IsExpr: true,
		Tokens: sub.tokens,
		Loc:    jiki.Location{Line: line, Col: col, Begin: exprStart, End: s.current - 1},
	}, nil
}

func (s *scanner) identifier() error {
	if s.table.FStrings && s.current-s.start == 1 && (s.src[s.start] == 'f' || s.src[s.start] == 'F') &&
		strings.IndexByte(s.table.Quotes, s.peek()) >= 0 {
		return s.interpolated(s.advance(), false)
	}

	for isAlnum(s.peek()) || (s.table.Namespaces && s.peek() == '#' && isAlnum(s.peekAt(1))) {
		s.advance()
	}
	lex := s.lexeme()

	if s.table.UnopenedStrings && s.peek() == '"' {
		rest := s.src[s.current+1:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if !strings.Contains(rest, `"`) {
			s.advance()
			return s.fail(jiki.KindMissingDoubleQuoteToStartString, map[string]any{"string": lex})
		}
	}

	if kind, ok := s.table.Keywords[lex]; ok {
		return s.add(kind, keywordLiteral(kind))
	}
	return s.add(token.Identifier, nil)
}

func keywordLiteral(kind token.Kind) jiki.Value {
	switch kind {
	case token.True:
		return jiki.Boolean(true)
	case token.False:
		return jiki.Boolean(false)
	case token.Null, token.None:
		return jiki.None{}
	case token.Undefined:
		return jiki.None{Undefined: true}
	}
	return nil
}

func (s *scanner) operator(c byte) error {
	for n := s.maxOp; n >= 1; n-- {
		end := s.start + n
		if end > len(s.src) {
			continue
		}
		if kind, ok := s.table.Operators[s.src[s.start:end]]; ok {
			for s.current < end {
				s.advance()
			}
			s.trackBracket(c)
			return s.add(kind, nil)
		}
	}

	// report whole characters, not bytes
	r, size := utf8.DecodeRuneInString(s.src[s.start:])
	for s.current < s.start+size {
		s.advance()
	}
	return s.fail(jiki.KindUnknownCharacter, map[string]any{"character": string(r)})
}

func (s *scanner) trackBracket(c byte) {
	switch c {
	case '(', '[', '{':
		s.brackets = append(s.brackets, c)
	case ')', ']', '}':
		n := len(s.brackets)
		if n > 0 && s.brackets[n-1] == opener(c) {
			s.brackets = s.brackets[:n-1]
		}
	}
}

func opener(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
