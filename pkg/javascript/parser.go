package javascript

import (
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/parse"
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

// Tokenize scans JavaScript source under the given features.
func Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return scan.Tokenize(source, table, jiki.NewGate(f))
}

// Parse scans and parses a JavaScript program.
func Parse(source string, f jiki.Features) (*ast.Program, error) {
	gate := jiki.NewGate(f)
	tokens, err := scan.Tokenize(source, table, gate)
	if err != nil {
		return nil, err
	}
	p := &parser{Cursor: parse.NewCursor(tokens, gate), features: f}
	stmts, err := p.statements(token.EOF)
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
	features jiki.Features
	// nesting counts enclosing blocks; functions are top level only
	nesting int
}

var statementKeywords = map[string]bool{
	"let": true, "const": true, "if": true, "else": true, "while": true,
	"for": true, "function": true, "return": true, "break": true,
	"continue": true, "repeat": true,
}

var assignOps = map[token.Kind]ast.Operator{
	token.Equal:        ast.OpAssign,
	token.PlusEqual:    ast.OpAddAssign,
	token.MinusEqual:   ast.OpSubAssign,
	token.StarEqual:    ast.OpMulAssign,
	token.SlashEqual:   ast.OpDivAssign,
	token.PercentEqual: ast.OpModAssign,
}

var binaryOps = map[token.Kind]struct {
	priority int
	op       ast.Operator
}{
	token.OrOr:           {1, ast.OpOr},
	token.AndAnd:         {2, ast.OpAnd},
	token.EqualEqual:     {3, ast.OpEq},
	token.BangEqual:      {3, ast.OpNotEq},
	token.StrictEqual:    {3, ast.OpStrictEq},
	token.NotStrictEqual: {3, ast.OpStrictNotEq},
	token.Less:           {4, ast.OpLess},
	token.LessEqual:      {4, ast.OpLessEq},
	token.Greater:        {4, ast.OpGreater},
	token.GreaterEqual:   {4, ast.OpGreaterEq},
	token.Plus:           {5, ast.OpAdd},
	token.Minus:          {5, ast.OpSub},
	token.Star:           {6, ast.OpMul},
	token.Slash:          {6, ast.OpDiv},
	token.Percent:        {6, ast.OpMod},
	token.StarStar:       {7, ast.OpPow},
}

func (p *parser) statements(end token.Kind) ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for {
		for p.Match(token.EOL, token.Semicolon) {
		}
		if p.Check(end) || p.AtEnd() {
			return stmts, nil
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
	if tok.Kind == token.Identifier {
		lower := strings.ToLower(tok.Lexeme)
		if lower != tok.Lexeme && statementKeywords[lower] {
			return nil, p.Fail(jiki.KindMiscapitalizedKeyword, tok, map[string]any{"actual": tok.Lexeme, "expected": lower})
		}
	}

	switch tok.Kind {
	case token.Let, token.Const:
		return p.varDecl(true)
	case token.If:
		return p.ifStmt()
	case token.Else:
		return nil, p.Fail(jiki.KindUnexpectedElseWithoutMatchingIf, tok, nil)
	case token.While:
		return p.whileStmt()
	case token.For:
		return p.forStmt()
	case token.Repeat:
		return p.repeatStmt()
	case token.Function:
		return p.functionDecl()
	case token.Return:
		return p.returnStmt()
	case token.Break, token.Continue:
		return p.jumpStmt()
	case token.LeftBrace:
		return p.block()
	}
	return p.expressionStmt()
}

// terminate consumes the end of a simple statement.
func (p *parser) terminate() error {
	if p.Match(token.Semicolon) {
		if p.features.OneStatementPerLine && !p.Check(token.EOL, token.EOF, token.RightBrace) {
			return p.Fail(jiki.KindMultipleStatementsPerLine, p.Peek(), nil)
		}
		return nil
	}
	if p.features.RequireSemicolons {
		return p.FailAt(jiki.KindMissingSemicolon, p.Previous().Loc, nil)
	}
	if p.Check(token.EOL, token.EOF, token.RightBrace) {
		return nil
	}
	return p.Fail(jiki.KindMissingEndOfLine, p.Peek(), map[string]any{"previous": p.Previous().Lexeme})
}

func (p *parser) base(kind string, start jiki.Location) ast.Base {
	return ast.Base{Loc: p.Span(start), Type: kind}
}

func (p *parser) variableName() (token.Token, error) {
	tok := p.Peek()
	switch {
	case tok.Kind == token.Identifier:
		p.Advance()
		if next := p.Peek(); next.Kind == token.Identifier {
			return tok, p.FailAt(jiki.KindUnexpectedSpaceInIdentifier, tok.Loc.Through(next.Loc),
				map[string]any{"first_half": tok.Lexeme, "second_half": next.Lexeme})
		}
		return tok, nil
	case tok.Kind == token.Number && p.PeekAt(1).Kind == token.Identifier:
		return tok, p.FailAt(jiki.KindInvalidNumericVariableName, tok.Loc.Through(p.PeekAt(1).Loc),
			map[string]any{"name": tok.Lexeme + p.PeekAt(1).Lexeme})
	case tok.Kind.IsKeyword():
		return tok, p.Fail(jiki.KindUnexpectedKeyword, tok, map[string]any{"lexeme": tok.Lexeme})
	}
	return tok, p.Fail(jiki.KindMissingVariableName, tok, nil)
}

func (p *parser) varDecl(terminated bool) (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.VariableDeclaration, kw.Loc); err != nil {
		return nil, err
	}
	isConst := kw.Kind == token.Const

	name, err := p.variableName()
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if p.Match(token.Equal) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	} else if isConst {
		return nil, p.FailAt(jiki.KindMissingInitializerInConstDeclaration, p.Span(kw.Loc), map[string]any{"name": name.Lexeme})
	}

	stmt := &ast.DeclStmt{
		Base:    p.base(ast.VariableDeclaration, kw.Loc),
		Name:    name.Lexeme,
		NameLoc: name.Loc,
		Value:   value,
		Const:   isConst,
	}
	if terminated {
		if err := p.terminate(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parenthesized parses "( condition )" after a keyword.
func (p *parser) parenthesized(keyword token.Token) (ast.Expr, error) {
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": keyword.Lexeme})
	}
	if p.Check(token.RightParen) {
		return nil, p.Fail(jiki.KindMissingCondition, p.Peek(), nil)
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	return cond, p.closeParen()
}

func (p *parser) closeParen() error {
	if p.Match(token.RightParen) {
		return nil
	}
	if tok := p.Peek(); tok.Kind == token.Equal {
		return p.Fail(jiki.KindMissingRightParenthesisAfterExpressionWithPotentialTypo, tok,
			map[string]any{"actual": "=", "potential": "==="})
	}
	return p.Fail(jiki.KindMissingRightParenthesisAfterExpression, p.Peek(), nil)
}

func (p *parser) block() (*ast.BlockStmt, error) {
	start := p.Peek()
	if !p.Match(token.LeftBrace) {
		return nil, p.Fail(jiki.KindMissingLeftBraceToStartBlock, start, nil)
	}
	if err := p.Allow(ast.BlockStatement, start.Loc); err != nil {
		return nil, err
	}

	p.nesting++
	stmts, err := p.statements(token.RightBrace)
	p.nesting--
	if err != nil {
		return nil, err
	}
	if !p.Match(token.RightBrace) {
		return nil, p.FailAt(jiki.KindMissingRightBraceAfterBlock, p.Previous().Loc, nil)
	}
	return &ast.BlockStmt{Base: p.base(ast.BlockStatement, start.Loc), Statements: stmts}, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.IfStatement, kw.Loc); err != nil {
		return nil, err
	}
	cond, err := p.parenthesized(kw)
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)

	then, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Base: ast.Base{Loc: header, Type: ast.IfStatement}, Cond: cond, Then: then}

	pos := p.Save()
	p.SkipNewlines()
	if !p.Match(token.Else) {
		p.Restore(pos)
		return stmt, nil
	}
	if p.Check(token.If) {
		stmt.Else, err = p.ifStmt()
	} else {
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
	cond, err := p.parenthesized(kw)
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
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": kw.Lexeme})
	}
	if p.Check(token.Let, token.Const) && p.PeekAt(1).Kind == token.Identifier && p.PeekAt(2).Kind == token.Of {
		return p.forOf(kw)
	}
	if err := p.Allow(ast.ForStatement, kw.Loc); err != nil {
		return nil, err
	}

	stmt := &ast.ForStmt{}
	switch {
	case p.Check(token.Const):
		return nil, p.Fail(jiki.KindConstInForLoopInit, p.Peek(), nil)
	case p.Check(token.Let):
		init, err := p.varDecl(false)
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	case !p.Check(token.Semicolon):
		start := p.Peek()
		if err := p.Allow(ast.ExpressionStatement, start.Loc); err != nil {
			return nil, err
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Init = &ast.ExpressionStmt{Base: p.base(ast.ExpressionStatement, start.Loc), Expr: expr}
	}
	if _, err := p.Expect(token.Semicolon, jiki.KindMissingSemicolonInForLoop, nil); err != nil {
		return nil, err
	}
	if !p.Check(token.Semicolon) {
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.Expect(token.Semicolon, jiki.KindMissingSemicolonInForLoop, nil); err != nil {
		return nil, err
	}
	if !p.Check(token.RightParen) {
		update, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Update = update
	}
	if err := p.closeParen(); err != nil {
		return nil, err
	}
	stmt.Base = ast.Base{Loc: p.Span(kw.Loc), Type: ast.ForStatement}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *parser) forOf(kw token.Token) (ast.Stmt, error) {
	if err := p.Allow(ast.ForOfStatement, kw.Loc); err != nil {
		return nil, err
	}
	p.Advance()
	name := p.Advance()
	p.Advance()

	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.closeParen(); err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ForEachStmt{
		Base:     ast.Base{Loc: header, Type: ast.ForOfStatement},
		Name:     name.Lexeme,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *parser) repeatStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.RepeatStatement, kw.Loc); err != nil {
		return nil, err
	}
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": kw.Lexeme})
	}
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.closeParen(); err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStmt{Base: ast.Base{Loc: header, Type: ast.RepeatStatement}, Count: count, Body: body}, nil
}

func (p *parser) functionDecl() (ast.Stmt, error) {
	kw := p.Advance()
	if p.nesting > 0 {
		return nil, p.Fail(jiki.KindNestedFunctionDeclaration, kw, nil)
	}
	if err := p.Allow(ast.FunctionDeclaration, kw.Loc); err != nil {
		return nil, err
	}
	name, err := p.Expect(token.Identifier, jiki.KindMissingFunctionName, nil)
	if err != nil {
		return nil, err
	}
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": name.Lexeme})
	}
	params, err := p.params()
	if err != nil {
		return nil, err
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

// params parses a parameter list after its opening parenthesis.
func (p *parser) params() ([]ast.Param, error) {
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

		switch {
		case p.Match(token.Comma), p.Check(token.RightParen):
		case p.Check(token.Identifier):
			return nil, p.Fail(jiki.KindMissingCommaBetweenParameters, p.Peek(), nil)
		default:
			return nil, p.Fail(jiki.KindMissingRightParenthesisAfterExpression, p.Peek(), nil)
		}
	}
	return params, nil
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.ReturnStatement, kw.Loc); err != nil {
		return nil, err
	}
	var value ast.Expr
	if !p.Check(token.EOL, token.Semicolon, token.EOF, token.RightBrace) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	stmt := &ast.ReturnStmt{Base: p.base(ast.ReturnStatement, kw.Loc), Lexeme: kw.Lexeme, Value: value}
	return stmt, p.terminate()
}

func (p *parser) jumpStmt() (ast.Stmt, error) {
	kw := p.Advance()
	var stmt ast.Stmt
	if kw.Kind == token.Break {
		if err := p.Allow(ast.BreakStatement, kw.Loc); err != nil {
			return nil, err
		}
		stmt = &ast.BreakStmt{Base: p.base(ast.BreakStatement, kw.Loc), Lexeme: kw.Lexeme}
	} else {
		if err := p.Allow(ast.ContinueStatement, kw.Loc); err != nil {
			return nil, err
		}
		stmt = &ast.ContinueStmt{Base: p.base(ast.ContinueStatement, kw.Loc), Lexeme: kw.Lexeme}
	}
	return stmt, p.terminate()
}

func (p *parser) expressionStmt() (ast.Stmt, error) {
	start := p.Peek()
	if err := p.Allow(ast.ExpressionStatement, start.Loc); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.ExpressionStmt{Base: p.base(ast.ExpressionStatement, start.Loc), Expr: expr}
	return stmt, p.terminate()
}

func (p *parser) expression() (ast.Expr, error) {
	start := p.Peek()
	target, err := p.condition()
	if err != nil {
		return nil, err
	}
	op, ok := assignOps[p.Peek().Kind]
	if !ok {
		return target, nil
	}
	opTok := p.Advance()
	if err := p.Allow(ast.AssignmentExpression, start.Loc); err != nil {
		return nil, err
	}
	if !assignable(target) {
		return nil, p.FailAt(jiki.KindInvalidAssignmentTarget, target.Location(), nil)
	}
	if err := p.GuardUnexpectedInputEnd(); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{
		Base:   p.base(ast.AssignmentExpression, start.Loc),
		Op:     op,
		Lexeme: opTok.Lexeme,
		Target: target,
		Value:  value,
	}, nil
}

func assignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.Member, *ast.Index:
		return true
	}
	return false
}

// condition parses an expression without assignment.
func (p *parser) condition() (ast.Expr, error) {
	return p.ParseBinaryExpression(p.unary, parse.OpTable{
		Priority: func(tok token.Token) int {
			if op, ok := binaryOps[tok.Kind]; ok {
				return op.priority
			}
			return -1
		},
		RightAssoc: func(tok token.Token) bool { return tok.Kind == token.StarStar },
		Build:      p.buildBinary,
	}, 0)
}

func (p *parser) buildBinary(tok token.Token, left, right ast.Expr) (ast.Expr, error) {
	op := binaryOps[tok.Kind].op
	loc := left.Location().Through(right.Location())
	if op == ast.OpAnd || op == ast.OpOr {
		if err := p.Allow(ast.LogicalExpression, loc); err != nil {
			return nil, err
		}
		return &ast.Logical{Base: ast.Base{Loc: loc, Type: ast.LogicalExpression}, Op: op, Lexeme: tok.Lexeme, Left: left, Right: right}, nil
	}
	if err := p.Allow(ast.BinaryExpression, loc); err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.Base{Loc: loc, Type: ast.BinaryExpression}, Op: op, Lexeme: tok.Lexeme, Left: left, Right: right}, nil
}

func (p *parser) unary() (ast.Expr, error) {
	tok := p.Peek()
	switch tok.Kind {
	case token.Bang, token.Minus, token.Plus:
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
		op := ast.OpNot
		switch tok.Kind {
		case token.Minus:
			op = ast.OpNeg
		case token.Plus:
			op = ast.OpPlus
		}
		return &ast.Unary{Base: p.base(ast.UnaryExpression, tok.Loc), Op: op, Lexeme: tok.Lexeme, Operand: operand}, nil
	case token.PlusPlus, token.MinusMinus:
		p.Advance()
		if err := p.Allow(ast.UpdateExpression, tok.Loc); err != nil {
			return nil, err
		}
		target, err := p.unary()
		if err != nil {
			return nil, err
		}
		if !assignable(target) {
			return nil, p.FailAt(jiki.KindInvalidAssignmentTarget, target.Location(), nil)
		}
		return &ast.Update{Base: p.base(ast.UpdateExpression, tok.Loc), Op: updateOp(tok), Lexeme: tok.Lexeme, Prefix: true, Target: target}, nil
	}
	return p.postfix()
}

func updateOp(tok token.Token) ast.Operator {
	if tok.Kind == token.MinusMinus {
		return ast.OpDecrement
	}
	return ast.OpIncrement
}

func (p *parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	start := expr.Location()

	for {
		switch tok := p.Peek(); tok.Kind {
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
			if err := p.Allow(ast.MemberExpression, start); err != nil {
				return nil, err
			}
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if !p.Match(token.RightBracket) {
				return nil, p.Fail(jiki.KindMissingRightBracketAfterIndex, p.Peek(), nil)
			}
			expr = &ast.Index{Base: p.base(ast.MemberExpression, start), Object: expr, Index: index}
		case token.Dot:
			p.Advance()
			if err := p.Allow(ast.MemberExpression, start); err != nil {
				return nil, err
			}
			name := p.Peek()
			if name.Kind != token.Identifier && !name.Kind.IsKeyword() {
				return nil, p.Fail(jiki.KindMissingMemberName, name, nil)
			}
			p.Advance()
			expr = &ast.Member{Base: p.base(ast.MemberExpression, start), Object: expr, Name: name.Lexeme, NameLoc: name.Loc}
		case token.PlusPlus, token.MinusMinus:
			p.Advance()
			if err := p.Allow(ast.UpdateExpression, start); err != nil {
				return nil, err
			}
			if !assignable(expr) {
				return nil, p.FailAt(jiki.KindInvalidAssignmentTarget, start, nil)
			}
			expr = &ast.Update{Base: p.base(ast.UpdateExpression, start), Op: updateOp(tok), Lexeme: tok.Lexeme, Target: expr}
		default:
			return expr, nil
		}
	}
}

func (p *parser) arguments(callee ast.Expr) ([]ast.Expr, error) {
	name := "the function"
	if id, ok := callee.(*ast.Ident); ok {
		name = id.Name
	} else if m, ok := callee.(*ast.Member); ok {
		name = m.Name
	}

	args := []ast.Expr{}
	for !p.Match(token.RightParen) {
		if p.Check(token.EOL, token.EOF, token.Semicolon, token.RightBrace) {
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
	case token.Number, token.String, token.True, token.False, token.Null, token.Undefined:
		p.Advance()
		if err := p.Allow(ast.LiteralExpression, tok.Loc); err != nil {
			return nil, err
		}
		return &ast.Literal{Base: ast.Base{Loc: tok.Loc, Type: ast.LiteralExpression}, Value: tok.Literal}, nil
	case token.Template:
		p.Advance()
		return p.template(tok)
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
		if err := p.closeParen(); err != nil {
			return nil, err
		}
		return &ast.Group{Base: p.base(ast.GroupingExpression, tok.Loc), Inner: inner}, nil
	case token.LeftBracket:
		return p.array()
	case token.LeftBrace:
		return p.object()
	case token.EOL, token.Semicolon:
		return nil, p.Fail(jiki.KindMissingExpression, tok, nil)
	}
	return nil, p.UnexpectedToken()
}

func (p *parser) array() (ast.Expr, error) {
	open := p.Advance()
	if err := p.Allow(ast.ArrayExpression, open.Loc); err != nil {
		return nil, err
	}
	elems := []ast.Expr{}
	for !p.Match(token.RightBracket) {
		if p.AtEnd() || p.Check(token.EOL, token.Semicolon) {
			return nil, p.FailAt(jiki.KindMissingRightBracketAfterListElements, p.Previous().Loc, nil)
		}
		el, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		switch {
		case p.Match(token.Comma):
			if p.Check(token.RightBracket) {
				return nil, p.Fail(jiki.KindTrailingCommaInList, p.Previous(), nil)
			}
		case p.Check(token.RightBracket):
		case p.AtEnd() || p.Check(token.EOL, token.Semicolon, token.RightParen, token.RightBrace):
			return nil, p.FailAt(jiki.KindMissingRightBracketAfterListElements, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindMissingCommaBetweenListElements, p.Peek(), nil)
		}
	}
	return &ast.List{Base: p.base(ast.ArrayExpression, open.Loc), Elems: elems}, nil
}

func (p *parser) object() (ast.Expr, error) {
	open := p.Advance()
	if err := p.Allow(ast.DictionaryExpression, open.Loc); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var entries []ast.DictEntry

	p.SkipNewlines()
	for !p.Match(token.RightBrace) {
		keyTok := p.Peek()
		var key string
		switch keyTok.Kind {
		case token.Identifier:
			key = keyTok.Lexeme
		case token.String, token.Number:
			key = keyTok.Literal.String()
		case token.EOF:
			return nil, p.FailAt(jiki.KindMissingRightBraceAfterDictionary, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindInvalidDictionaryKey, keyTok, nil)
		}
		p.Advance()
		if seen[key] {
			return nil, p.Fail(jiki.KindDuplicateDictionaryKey, keyTok, map[string]any{"key": key})
		}
		seen[key] = true

		if _, err := p.Expect(token.Colon, jiki.KindMissingColonInDictionary, nil); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{
			Key:   &ast.Literal{Base: ast.Base{Loc: keyTok.Loc, Type: ast.LiteralExpression}, Value: jiki.String(key)},
			Value: value,
		})

		p.SkipNewlines()
		switch {
		case p.Match(token.Comma):
			p.SkipNewlines()
			if p.Check(token.RightBrace) {
				return nil, p.Fail(jiki.KindTrailingCommaInDictionary, p.Previous(), nil)
			}
		case p.Check(token.RightBrace):
		case p.AtEnd():
			return nil, p.FailAt(jiki.KindMissingRightBraceAfterDictionary, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindMissingCommaInDictionary, p.Peek(), nil)
		}
	}
	return &ast.Dict{Base: p.base(ast.DictionaryExpression, open.Loc), Entries: entries}, nil
}

func (p *parser) template(tok token.Token) (ast.Expr, error) {
	if err := p.Allow(ast.TemplateLiteralExpression, tok.Loc); err != nil {
		return nil, err
	}
	parts := make([]ast.TemplatePart, 0, len(tok.Parts))
	for _, part := range tok.Parts {
		if !part.IsExpr {
			parts = append(parts, ast.TemplatePart{Text: part.Text})
			continue
		}
		sub := &parser{Cursor: p.Sub(part.Tokens), features: p.features}
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
	return &ast.Template{Base: ast.Base{Loc: tok.Loc, Type: ast.TemplateLiteralExpression}, Parts: parts}, nil
}
