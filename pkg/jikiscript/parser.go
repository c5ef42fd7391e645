package jikiscript

import (
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/parse"
	"github.com/thesephist/jiki/pkg/scan"
	"github.com/thesephist/jiki/pkg/token"
)

// Tokenize scans JikiScript source under the given features.
func Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return scan.Tokenize(source, table, jiki.NewGate(f))
}

// Parse scans and parses a JikiScript program.
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
	nesting int
}

var statementKeywords = map[string]bool{
	"set": true, "change": true, "log": true, "if": true, "else": true,
	"repeat": true, "while": true, "for": true, "function": true,
	"return": true, "break": true, "continue": true, "next": true,
	"do": true, "end": true,
}

var comparisonOps = map[token.Kind]struct {
	priority int
	op       ast.Operator
}{
	token.Less:         {1, ast.OpLess},
	token.LessEqual:    {1, ast.OpLessEq},
	token.Greater:      {1, ast.OpGreater},
	token.GreaterEqual: {1, ast.OpGreaterEq},
	token.Plus:         {2, ast.OpAdd},
	token.Minus:        {2, ast.OpSub},
	token.Star:         {3, ast.OpMul},
	token.Slash:        {3, ast.OpDiv},
	token.Percent:      {3, ast.OpMod},
}

// statements parses until EOF or one of the given block terminators.
func (p *parser) statements(until ...token.Kind) ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for {
		for p.Match(token.EOL) {
		}
		if p.AtEnd() || (len(until) > 0 && p.Check(until...)) {
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
	case token.Set:
		return p.setStmt()
	case token.Change:
		return p.changeStmt()
	case token.Log:
		return p.logStmt()
	case token.If:
		return p.ifStmt()
	case token.Else:
		return nil, p.Fail(jiki.KindUnexpectedElseWithoutMatchingIf, tok, nil)
	case token.Repeat:
		return p.repeatStmt()
	case token.RepeatForever, token.RepeatUntilGameOver:
		return p.repeatUnbounded()
	case token.While:
		return p.whileStmt()
	case token.For:
		return p.forEachStmt()
	case token.Function:
		return p.functionDecl()
	case token.Return:
		return p.returnStmt()
	case token.Break, token.Continue, token.Next:
		return p.jumpStmt()
	case token.Do:
		return p.doBlock()
	case token.End:
		return nil, p.UnexpectedToken()
	}
	return p.expressionStmt()
}

func (p *parser) endOfLine() error {
	if p.Match(token.EOL) || p.AtEnd() {
		return nil
	}
	return p.Fail(jiki.KindMissingEndOfLine, p.Peek(), map[string]any{"previous": p.Previous().Lexeme})
}

func (p *parser) base(kind string, start jiki.Location) ast.Base {
	return ast.Base{Loc: p.Span(start), Type: kind}
}

// body parses "do" EOL statements up to a terminator, leaving the
// terminator in place. kind names the construct in error messages.
func (p *parser) body(kind string, until ...token.Kind) (*ast.BlockStmt, error) {
	do := p.Peek()
	if !p.Match(token.Do) {
		return nil, p.Fail(jiki.KindMissingDoToStartBlock, do, map[string]any{"type": kind})
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	if len(until) == 0 {
		until = []token.Kind{token.End}
	}

	p.nesting++
	stmts, err := p.statements(until...)
	p.nesting--
	if err != nil {
		return nil, err
	}
	if p.AtEnd() {
		return nil, p.FailAt(jiki.KindMissingEndAfterBlock, p.Previous().Loc, map[string]any{"type": kind})
	}
	return &ast.BlockStmt{Base: p.base(ast.BlockStatement, do.Loc), Statements: stmts}, nil
}

func (p *parser) closeBlock(kind string) error {
	if !p.Match(token.End) {
		return p.FailAt(jiki.KindMissingEndAfterBlock, p.Previous().Loc, map[string]any{"type": kind})
	}
	return p.endOfLine()
}

func (p *parser) variableName() (token.Token, error) {
	tok := p.Peek()
	switch {
	case tok.Kind == token.Identifier:
		if strings.Contains(tok.Lexeme, "#") {
			return tok, p.Fail(jiki.KindVariableCannotBeNamespaced, tok, map[string]any{"name": tok.Lexeme})
		}
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

func (p *parser) expectTo(name string) error {
	if p.Match(token.To) {
		return nil
	}
	return p.Fail(jiki.KindMissingToAfterVariableName, p.Peek(), map[string]any{"name": name})
}

func (p *parser) setStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.SetVariableStatement, kw.Loc); err != nil {
		return nil, err
	}
	name, err := p.variableName()
	if err != nil {
		return nil, err
	}
	if err := p.expectTo(name.Lexeme); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeclStmt{
		Base:    p.base(ast.SetVariableStatement, kw.Loc),
		Name:    name.Lexeme,
		NameLoc: name.Loc,
		Value:   value,
	}
	return stmt, p.endOfLine()
}

func (p *parser) changeStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if !p.Check(token.Identifier) {
		if _, err := p.variableName(); err != nil {
			return nil, err
		}
	}
	target, err := p.postfix()
	if err != nil {
		return nil, err
	}

	var kind, name string
	switch t := target.(type) {
	case *ast.Ident:
		kind, name = ast.ChangeVariableStatement, t.Name
		if strings.Contains(t.Name, "#") {
			return nil, p.FailAt(jiki.KindVariableCannotBeNamespaced, t.Loc, map[string]any{"name": t.Name})
		}
	case *ast.Index:
		kind, name = ast.ChangeElementStatement, "element"
	case *ast.Member:
		kind, name = ast.ChangePropertyStatement, t.Name
	default:
		return nil, p.FailAt(jiki.KindInvalidAssignmentTarget, target.Location(), nil)
	}
	if err := p.Allow(kind, kw.Loc); err != nil {
		return nil, err
	}
	if err := p.expectTo(name); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.AssignStmt{
		Base:   p.base(kind, kw.Loc),
		Op:     ast.OpAssign,
		Lexeme: kw.Lexeme,
		Target: target,
		Value:  value,
	}
	return stmt, p.endOfLine()
}

func (p *parser) logStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.LogStatement, kw.Loc); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.LogStmt{Base: p.base(ast.LogStatement, kw.Loc), Value: value}
	return stmt, p.endOfLine()
}

// condition parses the condition of an if or while header.
func (p *parser) condition(missing jiki.Kind) (ast.Expr, error) {
	if p.Check(token.Do, token.EOL) || p.AtEnd() {
		return nil, p.Fail(missing, p.Peek(), nil)
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if tok := p.Peek(); tok.Kind == token.Equal {
		return nil, p.Fail(jiki.KindUnexpectedEqualsForEqualityUseIsInstead, tok, nil)
	}
	return cond, nil
}

// ifStmt parses an if chain. One end closes the whole chain, so a
// nested else-if consumes it.
func (p *parser) ifStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.IfStatement, kw.Loc); err != nil {
		return nil, err
	}
	cond, err := p.condition(jiki.KindMissingIfCondition)
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	then, err := p.body("if", token.End, token.Else)
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Base: ast.Base{Loc: header, Type: ast.IfStatement}, Cond: cond, Then: then}

	if !p.Match(token.Else) {
		return stmt, p.closeBlock("if")
	}
	if p.Check(token.If) {
		stmt.Else, err = p.ifStmt()
		return stmt, err
	}
	otherwise, err := p.body("else")
	if err != nil {
		return nil, err
	}
	stmt.Else = otherwise
	return stmt, p.closeBlock("else")
}

// indexedBy parses an optional "indexed by name" suffix.
func (p *parser) indexedBy() (string, error) {
	if !p.Match(token.Indexed) {
		return "", nil
	}
	if !p.Match(token.By) {
		return "", p.Fail(jiki.KindMissingByAfterIndexed, p.Peek(), nil)
	}
	name, err := p.Expect(token.Identifier, jiki.KindMissingIndexNameAfterIndexedBy, nil)
	if err != nil {
		return "", err
	}
	return name.Lexeme, nil
}

func (p *parser) repeatStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.RepeatStatement, kw.Loc); err != nil {
		return nil, err
	}
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.Match(token.Times) {
		return nil, p.Fail(jiki.KindMissingTimesInRepeat, p.Peek(), nil)
	}
	index, err := p.indexedBy()
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.body("repeat")
	if err != nil {
		return nil, err
	}
	stmt := &ast.RepeatStmt{Base: ast.Base{Loc: header, Type: ast.RepeatStatement}, Count: count, Index: index, Body: body}
	return stmt, p.closeBlock("repeat")
}

func (p *parser) repeatUnbounded() (ast.Stmt, error) {
	kw := p.Advance()
	kind := ast.RepeatForeverStatement
	if kw.Kind == token.RepeatUntilGameOver {
		kind = ast.RepeatUntilGameOverStatement
	}
	if err := p.Allow(kind, kw.Loc); err != nil {
		return nil, err
	}
	index, err := p.indexedBy()
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.body(kw.Lexeme)
	if err != nil {
		return nil, err
	}
	stmt := &ast.RepeatStmt{
		Base:          ast.Base{Loc: header, Type: kind},
		UntilGameOver: kw.Kind == token.RepeatUntilGameOver,
		Index:         index,
		Body:          body,
	}
	return stmt, p.closeBlock(kw.Lexeme)
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.WhileStatement, kw.Loc); err != nil {
		return nil, err
	}
	cond, err := p.condition(jiki.KindMissingCondition)
	if err != nil {
		return nil, err
	}
	header := p.Span(kw.Loc)
	body, err := p.body("while")
	if err != nil {
		return nil, err
	}
	stmt := &ast.WhileStmt{Base: ast.Base{Loc: header, Type: ast.WhileStatement}, Cond: cond, Body: body}
	return stmt, p.closeBlock("while")
}

func (p *parser) forEachStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.ForeachStatement, kw.Loc); err != nil {
		return nil, err
	}
	if !p.Match(token.Each) {
		return nil, p.Fail(jiki.KindMissingEachAfterFor, p.Peek(), nil)
	}
	name, err := p.variableName()
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
	if !p.Match(token.In) {
		return nil, p.Fail(jiki.KindMissingInAfterForEachVariable, p.Peek(), nil)
	}
	if stmt.Iterable, err = p.expression(); err != nil {
		return nil, err
	}
	if stmt.Index, err = p.indexedBy(); err != nil {
		return nil, err
	}
	stmt.Base = ast.Base{Loc: p.Span(kw.Loc), Type: ast.ForeachStatement}

	if stmt.Body, err = p.body("for"); err != nil {
		return nil, err
	}
	return stmt, p.closeBlock("for")
}

func (p *parser) functionDecl() (ast.Stmt, error) {
	kw := p.Advance()
	if p.nesting > 0 {
		return nil, p.Fail(jiki.KindNestedFunctionDeclaration, kw, nil)
	}
	if err := p.Allow(ast.FunctionDeclaration, kw.Loc); err != nil {
		return nil, err
	}
	name := p.Peek()
	if name.Kind != token.Identifier {
		return nil, p.Fail(jiki.KindMissingFunctionName, name, nil)
	}
	if strings.Contains(name.Lexeme, "#") {
		return nil, p.Fail(jiki.KindFunctionCannotBeNamespaced, name, map[string]any{"name": name.Lexeme})
	}
	p.Advance()

	var params []ast.Param
	switch {
	case p.Match(token.With):
		var err error
		if params, err = p.params(); err != nil {
			return nil, err
		}
	case p.Check(token.Identifier):
		return nil, p.Fail(jiki.KindMissingWithBeforeParameters, p.Peek(), map[string]any{"function": name.Lexeme})
	}
	header := p.Span(kw.Loc)

	body, err := p.body("function")
	if err != nil {
		return nil, err
	}
	stmt := &ast.FunctionStmt{
		Base:   ast.Base{Loc: header, Type: ast.FunctionDeclaration},
		Name:   name.Lexeme,
		Params: params,
		Body:   body,
	}
	return stmt, p.closeBlock("function")
}

// params parses the comma separated names after "with".
func (p *parser) params() ([]ast.Param, error) {
	var params []ast.Param
	seen := map[string]bool{}
	for {
		tok, err := p.Expect(token.Identifier, jiki.KindMissingParameterName, nil)
		if err != nil {
			return nil, err
		}
		if seen[tok.Lexeme] {
			return nil, p.Fail(jiki.KindDuplicateParameterName, tok, map[string]any{"name": tok.Lexeme})
		}
		seen[tok.Lexeme] = true
		params = append(params, ast.Param{Name: tok.Lexeme, Loc: tok.Loc})

		if p.Match(token.Comma) {
			continue
		}
		if p.Check(token.Identifier) {
			return nil, p.Fail(jiki.KindMissingCommaBetweenParameters, p.Peek(), nil)
		}
		return params, nil
	}
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	kw := p.Advance()
	if err := p.Allow(ast.ReturnStatement, kw.Loc); err != nil {
		return nil, err
	}
	var value ast.Expr
	if !p.Check(token.EOL) && !p.AtEnd() {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	stmt := &ast.ReturnStmt{Base: p.base(ast.ReturnStatement, kw.Loc), Lexeme: kw.Lexeme, Value: value}
	return stmt, p.endOfLine()
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
	return stmt, p.endOfLine()
}

func (p *parser) doBlock() (ast.Stmt, error) {
	if err := p.Allow(ast.BlockStatement, p.Peek().Loc); err != nil {
		return nil, err
	}
	block, err := p.body("do")
	if err != nil {
		return nil, err
	}
	return block, p.closeBlock("do")
}

// expressionStmt accepts only calls; anything else would be discarded.
func (p *parser) expressionStmt() (ast.Stmt, error) {
	start := p.Peek()
	if start.Kind == token.Identifier && p.PeekAt(1).Kind == token.Equal {
		return nil, p.Fail(jiki.KindUnexpectedEqualsForAssignmentUseSetInstead, p.PeekAt(1), map[string]any{"name": start.Lexeme})
	}
	if err := p.Allow(ast.ExpressionStatement, start.Loc); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch e := expr.(type) {
	case *ast.Call:
	case *ast.Ident:
		return nil, p.FailAt(jiki.KindPotentialMissingParenthesesForFunctionCall, e.Loc, map[string]any{"name": e.Name})
	default:
		return nil, p.FailAt(jiki.KindPointlessStatementWithNoEffect, expr.Location(), nil)
	}
	stmt := &ast.ExpressionStmt{Base: p.base(ast.ExpressionStatement, start.Loc), Expr: expr}
	return stmt, p.endOfLine()
}

func (p *parser) expression() (ast.Expr, error) {
	return p.or()
}

func (p *parser) logical(next func() (ast.Expr, error), op ast.Operator, kinds ...token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.Check(kinds...) {
		tok := p.Advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		loc := left.Location().Through(right.Location())
		if err := p.Allow(ast.LogicalExpression, loc); err != nil {
			return nil, err
		}
		left = &ast.Logical{Base: ast.Base{Loc: loc, Type: ast.LogicalExpression}, Op: op, Lexeme: tok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) or() (ast.Expr, error) {
	return p.logical(p.and, ast.OpOr, token.Or, token.OrOr)
}

func (p *parser) and() (ast.Expr, error) {
	return p.logical(p.equality, ast.OpAnd, token.And, token.AndAnd)
}

// equality allows a single comparison; "a is b is c" is an error.
func (p *parser) equality() (ast.Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if !p.Check(token.Is, token.Equals, token.EqualEqual, token.BangEqual) {
		return left, nil
	}
	tok := p.Advance()
	op := ast.OpEq
	lexeme := tok.Lexeme
	switch {
	case tok.Kind == token.BangEqual:
		op = ast.OpNotEq
	case tok.Kind == token.Is && p.Match(token.Not):
		op, lexeme = ast.OpNotEq, "is not"
	}
	right, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if next := p.Peek(); p.Check(token.Is, token.Equals, token.EqualEqual, token.BangEqual) {
		return nil, p.Fail(jiki.KindUnexpectedChainedEquality, next, nil)
	}
	loc := left.Location().Through(right.Location())
	if err := p.Allow(ast.BinaryExpression, loc); err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.Base{Loc: loc, Type: ast.BinaryExpression}, Op: op, Lexeme: lexeme, Left: left, Right: right}, nil
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.ParseBinaryExpression(p.unary, parse.OpTable{
		Priority: func(tok token.Token) int {
			if op, ok := comparisonOps[tok.Kind]; ok {
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
			return &ast.Binary{
				Base:   ast.Base{Loc: loc, Type: ast.BinaryExpression},
				Op:     comparisonOps[tok.Kind].op,
				Lexeme: tok.Lexeme,
				Left:   left,
				Right:  right,
			}, nil
		},
	}, 0)
}

func (p *parser) unary() (ast.Expr, error) {
	tok := p.Peek()
	if tok.Kind != token.Not && tok.Kind != token.Bang && tok.Kind != token.Minus {
		return p.postfix()
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
	op := ast.OpNot
	if tok.Kind == token.Minus {
		op = ast.OpNeg
	}
	return &ast.Unary{Base: p.base(ast.UnaryExpression, tok.Loc), Op: op, Lexeme: tok.Lexeme, Operand: operand}, nil
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
			kind := ast.CallExpression
			switch expr.(type) {
			case *ast.Member:
				kind = ast.MethodCallExpression
			case *ast.Ident:
			default:
				return expr, nil
			}
			p.Advance()
			if err := p.Allow(kind, start); err != nil {
				return nil, err
			}
			args, err := p.arguments(calleeName(expr))
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Base: p.base(kind, start), Callee: expr, Args: args}
		case token.LeftBracket:
			p.Advance()
			if err := p.Allow(ast.GetElementExpression, start); err != nil {
				return nil, err
			}
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if !p.Match(token.RightBracket) {
				return nil, p.Fail(jiki.KindMissingRightBracketAfterIndex, p.Peek(), nil)
			}
			expr = &ast.Index{Base: p.base(ast.GetElementExpression, start), Object: expr, Index: index}
		case token.Dot:
			p.Advance()
			if err := p.Allow(ast.MemberExpression, start); err != nil {
				return nil, err
			}
			name, err := p.Expect(token.Identifier, jiki.KindMissingMemberName, nil)
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{Base: p.base(ast.MemberExpression, start), Object: expr, Name: name.Lexeme, NameLoc: name.Loc}
		default:
			return expr, nil
		}
	}
}

func calleeName(callee ast.Expr) string {
	switch c := callee.(type) {
	case *ast.Ident:
		return c.Name
	case *ast.Member:
		return c.Name
	}
	return "the function"
}

func (p *parser) arguments(name string) ([]ast.Expr, error) {
	args := []ast.Expr{}
	for !p.Match(token.RightParen) {
		if p.AtEnd() || p.Check(token.EOL) {
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
	case token.Number, token.String, token.True, token.False, token.Null:
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
		if !p.Match(token.RightParen) {
			return nil, p.Fail(jiki.KindMissingRightParenthesisAfterExpression, p.Peek(), nil)
		}
		return &ast.Group{Base: p.base(ast.GroupingExpression, tok.Loc), Inner: inner}, nil
	case token.LeftBracket:
		return p.list()
	case token.LeftBrace:
		return p.dict()
	case token.New:
		return p.instantiation()
	case token.EOL, token.EOF:
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
		case p.Match(token.Comma):
			if p.Check(token.RightBracket) {
				return nil, p.Fail(jiki.KindTrailingCommaInList, p.Previous(), nil)
			}
		case p.Check(token.RightBracket):
		case p.AtEnd() || p.Check(token.EOL, token.RightParen, token.RightBrace):
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
	seen := map[string]bool{}
	var entries []ast.DictEntry
	for !p.Match(token.RightBrace) {
		keyTok := p.Peek()
		switch keyTok.Kind {
		case token.String:
		case token.EOF:
			return nil, p.FailAt(jiki.KindMissingRightBraceAfterDictionary, p.Previous().Loc, nil)
		default:
			return nil, p.Fail(jiki.KindInvalidDictionaryKey, keyTok, map[string]any{"lexeme": keyTok.Lexeme})
		}
		p.Advance()
		key := keyTok.Literal.String()
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
			Key:   &ast.Literal{Base: ast.Base{Loc: keyTok.Loc, Type: ast.LiteralExpression}, Value: keyTok.Literal},
			Value: value,
		})

		switch {
		case p.Match(token.Comma):
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

func (p *parser) instantiation() (ast.Expr, error) {
	kw := p.Advance()
	if err := p.Allow(ast.InstantiationExpression, kw.Loc); err != nil {
		return nil, err
	}
	name, err := p.Expect(token.Identifier, jiki.KindMissingClassName, nil)
	if err != nil {
		return nil, err
	}
	if !p.Match(token.LeftParen) {
		return nil, p.Fail(jiki.KindMissingLeftParenthesisAfterKeyword, p.Peek(), map[string]any{"keyword": name.Lexeme})
	}
	args, err := p.arguments(name.Lexeme)
	if err != nil {
		return nil, err
	}
	return &ast.New{Base: p.base(ast.InstantiationExpression, kw.Loc), Class: name.Lexeme, Args: args}, nil
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
	return &ast.Template{Base: ast.Base{Loc: tok.Loc, Type: ast.TemplateLiteralExpression}, Parts: parts}, nil
}
