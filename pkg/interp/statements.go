package interp

import (
	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

func (e *Executor) execStmt(stmt ast.Stmt) error {
	err := e.runStmt(stmt)
	if err != nil {
		e.frameError(err, stmt)
	}
	return err
}

func (e *Executor) runStmt(stmt ast.Stmt) error {
	e.current = stmt
	if err := e.checkNode(stmt); err != nil {
		return err
	}
	if err := e.guardTime(stmt); err != nil {
		return err
	}

	switch n := stmt.(type) {
	case *ast.ExpressionStmt:
		return e.execExpression(n)
	case *ast.DeclStmt:
		return e.execDecl(n)
	case *ast.AssignStmt:
		val, err := e.assign(n, n.Target, n.Op, n.Lexeme, n.Value)
		if err != nil {
			return err
		}
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: val, Name: targetName(n.Target)})
		return nil
	case *ast.IfStmt:
		return e.execIf(n)
	case *ast.WhileStmt:
		return e.execWhile(n)
	case *ast.ForStmt:
		return e.execFor(n)
	case *ast.ForEachStmt:
		return e.execForEach(n)
	case *ast.RepeatStmt:
		return e.execRepeat(n)
	case *ast.BlockStmt:
		if e.rules.BlockScopes {
			return e.execBlockIn(n, NewEnv(e.env))
		}
		return e.execBlockIn(n, e.env)
	case *ast.FunctionStmt:
		if existing, ok := e.env.Get(n.Name); ok {
			if fn, ok := existing.(*jiki.Function); ok && fn.Decl == n {
				// hoisted
				return nil
			}
		}
		e.defineFunction(n)
		return nil
	case *ast.ReturnStmt:
		return e.execReturn(n)
	case *ast.BreakStmt:
		if e.loopDepth == 0 {
			return e.fail(jiki.KindBreakOutsideLoop, n, map[string]any{"lexeme": n.Lexeme})
		}
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type})
		return errBreak
	case *ast.ContinueStmt:
		if e.loopDepth == 0 {
			return e.fail(jiki.KindContinueOutsideLoop, n, map[string]any{"lexeme": n.Lexeme})
		}
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type})
		return errContinue
	case *ast.LogStmt:
		val, err := e.evalStorable(n.Value)
		if err != nil {
			return err
		}
		e.Log(e.lang.Format(val))
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: val})
		return nil
	case *ast.PassStmt:
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type})
		return nil
	}
	return jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, stmt.Location(),
		map[string]any{"message": "unknown statement " + stmt.Kind()})
}

func (e *Executor) execBlockIn(block *ast.BlockStmt, env *Env) error {
	prev := e.env
	e.env = env
	defer func() { e.env = prev }()

	for _, stmt := range block.Statements {
		if err := e.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) execExpression(n *ast.ExpressionStmt) error {
	e.lastCall = nil
	val, err := e.evalExpr(n.Expr)
	if err != nil {
		return err
	}
	result := &EvaluationResult{Type: n.Type, Value: val}
	if _, ok := n.Expr.(*ast.Call); ok && e.lastCall != nil {
		result.Callee = e.lastCall.name
		for _, a := range e.lastCall.args {
			result.Args = append(result.Args, a.Clone())
		}
	}
	e.addSuccessFrame(n, n.Loc, result)
	return nil
}

// userBinding finds a binding declared by the program, never a builtin.
func (e *Executor) userBinding(name string) *binding {
	for env := e.env; env != nil && env != e.builtins; env = env.parent {
		if b, ok := env.vt[name]; ok {
			return b
		}
	}
	return nil
}

func (e *Executor) execDecl(n *ast.DeclStmt) error {
	if e.rules.RedeclareChecksChain {
		if e.userBinding(n.Name) != nil {
			return jiki.RuntimeError(jiki.KindVariableAlreadyDeclared, n.NameLoc, map[string]any{"name": n.Name})
		}
	} else if e.env.Has(n.Name) {
		return jiki.RuntimeError(jiki.KindVariableAlreadyDeclared, n.NameLoc, map[string]any{"name": n.Name})
	} else if e.rules.CheckShadowing && !e.features.AllowShadowing && e.userBinding(n.Name) != nil {
		return jiki.RuntimeError(jiki.KindShadowingDisabled, n.NameLoc, map[string]any{"name": n.Name})
	}

	var val jiki.Value = e.rules.Undefined
	if n.Value != nil {
		v, err := e.evalStorable(n.Value)
		if err != nil {
			return err
		}
		val = v
	}
	e.env.Define(n.Name, val, n.Const)
	e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: val, Name: n.Name})
	return nil
}

// evalStorable evaluates a value that is about to be kept or shown.
func (e *Executor) evalStorable(expr ast.Expr) (jiki.Value, error) {
	val, err := e.evalExpr(expr)
	if err != nil {
		return nil, err
	}
	if e.rules.NoneIsError && jiki.IsNone(val) {
		if call, ok := expr.(*ast.Call); ok {
			return nil, e.fail(jiki.KindCannotStoreNullValueFromFunction, expr, map[string]any{"function": call.CalleeName()})
		}
		return nil, e.fail(jiki.KindExpressionEvaluatedToNull, expr, nil)
	}
	return val, nil
}

func (e *Executor) execIf(n *ast.IfStmt) error {
	cond, err := e.evalExpr(n.Cond)
	if err != nil {
		return err
	}
	truth, fault := e.lang.Truthy(cond, &e.features)
	if fault != nil {
		return e.faultAt(fault, n.Cond)
	}
	e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: jiki.Boolean(truth)})

	if truth {
		return e.execStmt(n.Then)
	}
	if n.Else != nil {
		return e.execStmt(n.Else)
	}
	return nil
}

func (e *Executor) execReturn(n *ast.ReturnStmt) error {
	if e.functionDepth == 0 {
		return e.fail(jiki.KindReturnOutsideFunction, n, map[string]any{"lexeme": n.Lexeme})
	}
	var val jiki.Value = e.rules.Undefined
	if n.Value != nil {
		v, err := e.evalExpr(n.Value)
		if err != nil {
			return err
		}
		val = v
	}
	e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: val})
	return &control{kind: "return", value: val}
}

func (e *Executor) defineFunction(n *ast.FunctionStmt) {
	fn := &jiki.Function{
		Name:   n.Name,
		Params: n.ParamNames(),
		Decl:   n,
		Scope:  e.env,
	}
	e.env.Define(n.Name, fn, false)
}

func targetName(target ast.Expr) string {
	switch t := target.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.Member:
		return t.Name
	case *ast.Index:
		return targetName(t.Object)
	}
	return ""
}
