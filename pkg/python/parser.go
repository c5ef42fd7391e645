package python

import (
	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/parse"
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

// Tokenize scans Python source under the given features.
func Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return scan.Tokenize(source, table, jiki.NewGate(f))
}

// Parse scans and parses a Python program.
func Parse(source string, f jiki.Features) (*ast.Program, error) {
	gate := jiki.NewGate(f)
	tokens, err := scan.Tokenize(source, table, gate)
	if err != nil {
		return nil, err
	}
	p := &parser{Cursor: parse.NewCursor(tokens, gate)}
	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	if !p.AtEnd() {
		return nil, p.UnexpectedToken()
	}
	return &ast.Program{Source: source, Statements: stmts}, nil
}

type parser struct {
	*parse.Cursor
}

var augmented = map[token.Kind]ast.Operator{
	token.Equal:        ast.OpAssign,
	token.PlusEqual:    ast.OpAddAssign,
	token.MinusEqual:   ast.OpSubAssign,
	token.StarEqual:    ast.OpMulAssign,
	token.SlashEqual:   ast.OpDivAssign,
	token.PercentEqual: ast.OpModAssign,
}

var arithmetic = map[token.Kind]struct {
	priority int
	op       ast.Operator
}{
	token.EqualEqual:   {1, ast.OpEq},
	token.BangEqual:    {1, ast.OpNotEq},
	token.Less:         {1, ast.OpLess},
	token.LessEqual:    {1, ast.OpLessEq},
	token.Greater:      {1, ast.OpGreater},
	token.GreaterEqual: {1, ast.OpGreaterEq},
	token.Plus:         {2, ast.OpAdd},
	token.Minus:        {2, ast.OpSub},
	token.Star:         {3, ast.OpMul},
	token.Slash:        {3, ast.OpDiv},
	token.SlashSlash:   {3, ast.OpFloorDiv},
	token.Percent:      {3, ast.OpMod},
}

// statements parses until the end of the current indented block.
func (p *parser) statements() ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for {
		p.SkipNewlines()
		if p.AtEnd() || p.Check(token.Dedent) {
			return stmts, nil
		}
		if tok := p.Peek(); tok.Kind == token.Indent {
			return nil, p.Fail(jiki.KindUnexpectedIndentation, tok, nil)
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) statement() (ast.Stmt, error) {
	tok := p.Peek()
	switch tok.Kind {
	case token.If:
		return p.ifStmt()
	case token.Elif, token.Else:
		return nil, p.Fail(jiki.KindUnexpectedElseWithoutMatchingIf, tok, nil)
	case token.While:
		return p.whileStmt()
	case token.For:
		return p.forStmt()
	case token.Def:
		return p.functionDecl()
	case token.Return:
		return p.returnStmt()
	case token.Break, token.Continue, token.Pass:
		return p.simpleStmt()
	}
	return p.expressionStmt()
}

func (p *parser) endOfLine() error {
	if p.Match(token.Newline) || p.Check(token.EOF, token.Dedent) {
		return nil
	}
	return p.Fail(jiki.KindMissingEndOfLine, p.Peek(), map[string]any{"previous": p.Previous().Lexeme})
}

func (p *parser) base(kind string, start jiki.Location) ast.Base {
	return ast.Base{Loc: p.Span(start), Type: kind}
}

// block parses ":" NEWLINE INDENT statements DEDENT.
func (p *parser) block() (*ast.BlockStmt, error) {
	colon, err := p.Expect(token.Colon, jiki.KindMissingColon, nil)
	if err != nil {
		return nil, err
	}
	if err := p.Allow(ast.BlockStatement, colon.Loc); err != nil {
		return nil, err
	}
	if !p.Match(token.Newline) || !p.Match(token.Indent) {
		return nil, p.FailAt(jiki.KindMissingIndentedBlock, colon.Loc, nil)
	}
	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	p.Match(token.Dedent)
	return &ast.BlockStmt{Base: ast.Base{Loc: colon.Loc, Type: ast.BlockStatement}, Statements: stmts}, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.IfStatement, kw.Loc); err != nil {
		return nil, err
	}
	if p.Check(token.Colon) {
		return nil, p.Fail(jiki.KindMissingIfCondition, p.Peek(), nil)
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Base: ast.Base{Loc: header, Type: ast.IfStatement}, Cond: cond, Then: then}

	switch {
	case p.Check(token.Elif):
		stmt.Else, err = p.ifStmt()
	case p.Match(token.Else):
		stmt.Else, err = p.block()
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.WhileStatement, kw.Loc); err != nil {
		return nil, err
	}
	if p.Check(token.Colon) {
		return nil, p.Fail(jiki.KindMissingCondition, p.Peek(), nil)
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: ast.Base{Loc: header, Type: ast.WhileStatement}, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.ForInStatement, kw.Loc); err != nil {
		return nil, err
	}
	name, err := p.Expect(token.Identifier, jiki.KindMissingVariableName, nil)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ForEachStmt{Name: name.Lexeme}
	if p.Match(token.Comma) {
		second, err := p.Expect(token.Identifier, jiki.KindMissingSecondElementName, nil)
		if err != nil {
			return nil, err
		}
		stmt.SecondName = second.Lexeme
	}
	if _, err := p.Expect(token.In, jiki.KindMissingInAfterForEachVariable, nil); err != nil {
		return nil, err
	}
	stmt.Iterable, err = p.expression()
	if err != nil {
		return nil, err
	}
	stmt.Base = ast.Base{Loc: p.Span(kw.Loc), Type: ast.ForInStatement}

	stmt.Body, err = p.block()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) functionDecl() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.FunctionDeclaration, kw.Loc); err != nil {
		return nil, err
	}
	name, err := p.Expect(token.Identifier, jiki.KindMissingFunctionName, nil)
	if err != nil {
		return nil, err
	}
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": kw.Lexeme})
	}

	var params []ast.Param
	seen := map[string]bool{}
	for !p.Match(token.RightParen) {
		tok, err := p.Expect(token.Identifier, jiki.KindMissingParameterName, nil)
		if err != nil {
			return nil, err
		}
		if seen[tok.Lexeme] {
			return nil, p.Fail(jiki.KindDuplicateParameterName, tok, map[string]any{"name": tok.Lexeme})
		}
		seen[tok.Lexeme] = true
		params = append(params, ast.Param{Name: tok.Lexeme, Loc: tok.Loc})
		if !p.Match(token.Comma) && !p.Check(token.RightParen) {
			return nil, p.Fail(jiki.KindMissingCommaBetweenParameters, p.Peek(), nil)
		}
	}
	header := p.Span(kw.Loc)

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{
		Base:   ast.Base{Loc: header, Type: ast.FunctionDeclaration},
		Name:   name.Lexeme,
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.ReturnStatement, kw.Loc); err != nil {
		return nil, err
	}
	stmt := &ast.ReturnStmt{Lexeme: kw.Lexeme}
	if !p.Check(token.Newline, token.EOF, token.Dedent) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	stmt.Base = p.base(ast.ReturnStatement, kw.Loc)
	return stmt, p.endOfLine()
}

func (p *parser) simpleStmt() (ast.Stmt, error) {
	kw := p.Advance()
	var stmt ast.Stmt
	switch kw.Kind {
	case token.Break:
		if err := p.Allow(ast.BreakStatement, kw.Loc); err != nil {
			return nil, err
		}
		stmt = &ast.BreakStmt{Base: p.base(ast.BreakStatement, kw.Loc), Lexeme: kw.Lexeme}
	case token.Continue:
		if err := p.Allow(ast.ContinueStatement, kw.Loc); err != nil {
			return nil, err
		}
		stmt = &ast.ContinueStmt{Base: p.base(ast.ContinueStatement, kw.Loc), Lexeme: kw.Lexeme}
	default:
		if err := p.Allow(ast.PassStatement, kw.Loc); err != nil {
			return nil, err
		}
		stmt = &ast.PassStmt{Base: p.base(ast.PassStatement, kw.Loc)}
	}
	return stmt, p.endOfLine()
}

// expressionStmt parses an expression, or an assignment when one follows.
func (p *parser) expressionStmt() (ast.Stmt, error) {
	start := p.Peek()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if op, ok := augmented[p.Peek().Kind]; ok {
		opTok := p.Advance()
		if err := p.Allow(ast.AssignmentStatement, start.Loc); err != nil {
			return nil, err
		}
		switch expr.(type) {
		case *ast.Ident, *ast.Index, *ast.Member:
		default:
			return nil, p.FailAt(jiki.KindInvalidAssignmentTarget, expr.Location(), nil)
		}
		if err := p.GuardUnexpectedInputEnd(); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt := &ast.AssignStmt{
			Base:   p.base(ast.AssignmentStatement, start.Loc),
			Op:     op,
			Lexeme: opTok.Lexeme,
			Target: expr,
			Value:  value,
		}
		return stmt, p.endOfLine()
	}

	if err := p.Allow(ast.ExpressionStatement, start.Loc); err != nil {
		return nil, err
	}
	stmt := &ast.ExpressionStmt{Base: p.base(ast.ExpressionStatement, start.Loc), Expr: expr}
	return stmt, p.endOfLine()
}

// expression parses "or" and "and" chains over not-expressions.
func (p *parser) expression() (ast.Expr, error) {
	return p.ParseBinaryExpression(p.notExpr, parse.OpTable{
		Priority: func(tok token.Token) int {
			switch tok.Kind {
			case token.Or:
				return 1
			case token.And:
				return 2
			}
			return -1
		},
		RightAssoc: func(token.Token) bool { return false },
		Build: func(tok token.Token, left, right ast.Expr) (ast.Expr, error) {
			loc := left.Location().Through(right.Location())
			if err := p.Allow(ast.LogicalExpression, loc); err != nil {
				return nil, err
			}
			op := ast.OpOr
			if tok.Kind == token.And {
				op = ast.OpAnd
			}
			return &ast.Logical{Base: ast.Base{Loc: loc, Type: ast.LogicalExpression}, Op: op, Lexeme: tok.Lexeme, Left: left, Right: right}, nil
		},
	}, 0)
}

func (p *parser) notExpr() (ast.Expr, error) {
	if tok := p.Peek(); tok.Kind == token.Not {
		p.Advance()
		if err := p.Allow(ast.UnaryExpression, tok.Loc); err != nil {
			return nil, err
		}
		if err := p.GuardUnexpectedInputEnd(); err != nil {
			return nil, err
		}
		operand, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Base: p.base(ast.UnaryExpression, tok.Loc), Op: ast.OpNot, Lexeme: tok.Lexeme, Operand: operand}, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.ParseBinaryExpression(p.unary, parse.OpTable{
		Priority: func(tok token.Token) int {
			if op, ok := arithmetic[tok.Kind]; ok {
				return op.priority
			}
			return -1
		},
		RightAssoc: func(token.Token) bool { return false },
		Build: func(tok token.Token, left, right ast.Expr) (ast.Expr, error) {
			loc := left.Location().Through(right.Location())
			if err := p.Allow(ast.BinaryExpression, loc); err != nil {
				return nil, err
			}
			return &ast.Binary{Base: ast.Base{Loc: loc, Type: ast.BinaryExpression}, Op: arithmetic[tok.Kind].op, Lexeme: tok.Lexeme, Left: left, Right: right}, nil
		},
	}, 0)
}

func (p *parser) unary() (ast.Expr, error) {
	tok := p.Peek()
	if tok.Kind != token.Minus && tok.Kind != token.Plus {
		return p.power()
	}
	p.Advance()
	if err := p.Allow(ast.UnaryExpression, tok.Loc); err != nil {
		return nil, err
	}
	if err := p.GuardUnexpectedInputEnd(); err != nil {
		return nil, err
	}
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	op := ast.OpNeg
	if tok.Kind == token.Plus {
		op = ast.OpPlus
	}
	return &ast.Unary{Base: p.base(ast.UnaryExpression, tok.Loc), Op: op, Lexeme: tok.Lexeme, Operand: operand}, nil
}

// power binds tighter than a unary minus on its left: -2 ** 2 is -4.
func (p *parser) power() (ast.Expr, error) {
	left, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.Check(token.StarStar) {
		return left, nil
	}
	tok := p.Advance()
	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	loc := left.Location().Through(right.Location())
	if err := p.Allow(ast.BinaryExpression, loc); err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.Base{Loc: loc, Type: ast.BinaryExpression}, Op: ast.OpPow, Lexeme: tok.Lexeme, Left: left, Right: right}, nil
}

func (p *parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	start := expr.Location()

	for {
		switch p.Peek().Kind {
		case token.LeftParen:
			p.Advance()
			if err := p.Allow(ast.CallExpression, start); err != nil {
				return nil, err
			}
			args, err := p.arguments(expr)
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Base: p.base(ast.CallExpression, start), Callee: expr, Args: args}
		case token.LeftBracket:
			p.Advance()
			if err := p.Allow(ast.SubscriptExpression, start); err != nil {
				return nil, err
			}
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if !p.Match(token.RightBracket) {
				return nil, p.Fail(jiki.KindMissingRightBracketAfterIndex, p.Peek(), nil)
			}
			expr = &ast.Index{Base: p.base(ast.SubscriptExpression, start), Object: expr, Index: index}
		case token.Dot:
			p.Advance()
			if err := p.Allow(ast.AttributeExpression, start); err != nil {
				return nil, err
			}
			name, err := p.Expect(token.Identifier, jiki.KindMissingMemberName, nil)
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{Base: p.base(ast.AttributeExpression, start), Object: expr, Name: name.Lexeme, NameLoc: name.Loc}
		default:
			return expr, nil
		}
	}
}

func (p *parser) arguments(callee ast.Expr) ([]ast.Expr, error) {
	name := ""
	switch c := callee.(type) {
	case *ast.Ident:
		name = c.Name
	case *ast.Member:
		name = c.Name
	}
	args := []ast.Expr{}
	for !p.Match(token.RightParen) {
		if p.AtEnd() {
			return nil, p.FailAt(jiki.KindMissingRightParenthesisAfterFunctionCall, p.Previous().Loc, map[string]any{"function": name})
		}
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.Match(token.Comma) && !p.Check(token.RightParen) {
			return nil, p.FailAt(jiki.KindMissingRightParenthesisAfterFunctionCall, p.Previous().Loc, map[string]any{"function": name})
		}
	}
	return args, nil
}

func (p *parser) primary() (ast.Expr, error) {
	tok := p.Peek()
	switch tok.Kind {
	case token.Number, token.String, token.True, token.False, token.None:
		p.Advance()
		if err := p.Allow(ast.LiteralExpression, tok.Loc); err != nil {
			return nil, err
		}
		return &ast.Literal{Base: ast.Base{Loc: tok.Loc, Type: ast.LiteralExpression}, Value: tok.Literal}, nil
	case token.Template:
		p.Advance()
		return p.fstring(tok)
	case token.Identifier:
		p.Advance()
		if err := p.Allow(ast.IdentifierExpression, tok.Loc); err != nil {
			return nil, err
		}
		return &ast.Ident{Base: ast.Base{Loc: tok.Loc, Type: ast.IdentifierExpression}, Name: tok.Lexeme}, nil
	case token.LeftParen:
		p.Advance()
		if err := p.Allow(ast.GroupingExpression, tok.Loc); err != nil {
			return nil, err
		}
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.Expect(token.RightParen, jiki.KindMissingRightParenthesisAfterExpression, nil); err != nil {
			return nil, err
		}
		return &ast.Group{Base: p.base(ast.GroupingExpression, tok.Loc), Inner: inner}, nil
	case token.LeftBracket:
		return p.list()
	case token.LeftBrace:
		return p.dict()
	case token.Newline:
		return nil, p.Fail(jiki.KindMissingExpression, tok, nil)
	}
	return nil, p.UnexpectedToken()
}

func (p *parser) list() (ast.Expr, error) {
	open := p.Advance()
	if err := p.Allow(ast.ListExpression, open.Loc); err != nil {
		return nil, err
	}
	elems := []ast.Expr{}
	for !p.Match(token.RightBracket) {
		if p.AtEnd() {
			return nil, p.FailAt(jiki.KindMissingRightBracketAfterListElements, p.Previous().Loc, nil)
		}
		el, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		switch {
		case p.Match(token.Comma), p.Check(token.RightBracket):
		case p.AtEnd():
			return nil, p.FailAt(jiki.KindMissingRightBracketAfterListElements, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindMissingCommaBetweenListElements, p.Peek(), nil)
		}
	}
	return &ast.List{Base: p.base(ast.ListExpression, open.Loc), Elems: elems}, nil
}

func (p *parser) dict() (ast.Expr, error) {
	open := p.Advance()
	if err := p.Allow(ast.DictionaryExpression, open.Loc); err != nil {
		return nil, err
	}
	var entries []ast.DictEntry
	seen := map[string]bool{}
	for !p.Match(token.RightBrace) {
		if p.AtEnd() {
			return nil, p.FailAt(jiki.KindMissingRightBraceAfterDictionary, p.Previous().Loc, nil)
		}
		keyTok := p.Peek()
		key, err := p.expression()
		if err != nil {
			return nil, err
		}
		if lit, ok := key.(*ast.Literal); ok {
			if seen[lit.Value.String()] {
				return nil, p.Fail(jiki.KindDuplicateDictionaryKey, keyTok, map[string]any{"key": lit.Value.String()})
			}
			seen[lit.Value.String()] = true
		}
		if _, err := p.Expect(token.Colon, jiki.KindMissingColonInDictionary, nil); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: key, Value: value})
		switch {
		case p.Match(token.Comma), p.Check(token.RightBrace):
		case p.AtEnd():
			return nil, p.FailAt(jiki.KindMissingRightBraceAfterDictionary, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindMissingCommaInDictionary, p.Peek(), nil)
		}
	}
	return &ast.Dict{Base: p.base(ast.DictionaryExpression, open.Loc), Entries: entries}, nil
}

func (p *parser) fstring(tok token.Token) (ast.Expr, error) {
	if err := p.Allow(ast.FStringExpression, tok.Loc); err != nil {
		return nil, err
	}
	parts := make([]ast.TemplatePart, 0, len(tok.Parts))
	for _, part := range tok.Parts {
		if !part.IsExpr {
			parts = append(parts, ast.TemplatePart{Text: part.Text})
			continue
		}
		sub := &parser{Cursor: p.Sub(part.Tokens)}
		if sub.AtEnd() {
			return nil, p.FailAt(jiki.KindMissingExpression, part.Loc, nil)
		}
		expr, err := sub.expression()
		if err != nil {
			return nil, err
		}
		if !sub.AtEnd() {
			return nil, sub.UnexpectedToken()
		}
		parts = append(parts, ast.TemplatePart{Expr: expr})
	}
	return &ast.Template{Base: ast.Base{Loc: tok.Loc, Type: ast.FStringExpression}, Parts: parts}, nil
}
