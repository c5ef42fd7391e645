package interp

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

// runBody executes one loop iteration. It reports whether the loop should
// stop because of a break.
func (e *Executor) runBody(body *ast.BlockStmt, env *Env) (stop bool, err error) {
	e.loopDepth++
	defer func() { e.loopDepth-- }()

	err = e.execBlockIn(body, env)
	switch err {
	case errBreak:
		return true, nil
	case errContinue:
		return false, nil
	}
	return false, err
}

// iterationEnv is the scope one iteration of a loop body runs in.
func (e *Executor) iterationEnv() *Env {
	if e.rules.BlockScopes {
		return NewEnv(e.env)
	}
	return e.env
}

// bindLoopVar binds a loop variable in env. Guests without block scopes
// rebind the same name on every iteration.
func (e *Executor) bindLoopVar(env *Env, name string, val jiki.Value) {
	if name == "" {
		return
	}
	env.Define(name, val, false)
}

func (e *Executor) checkLoopVar(node ast.Node, names ...string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		if e.rules.RedeclareChecksChain && e.userBinding(name) != nil {
			return e.fail(jiki.KindVariableAlreadyDeclared, node, map[string]any{"name": name})
		}
		if e.rules.CheckShadowing && !e.features.AllowShadowing && e.userBinding(name) != nil {
			return e.fail(jiki.KindShadowingDisabled, node, map[string]any{"name": name})
		}
	}
	return nil
}

func (e *Executor) indexValue(i int) jiki.Value {
	if e.rules.OneBasedIndex {
		return jiki.Number(i + 1)
	}
	return jiki.Number(i)
}

func (e *Executor) execWhile(n *ast.WhileStmt) error {
	for iteration := 1; ; iteration++ {
		if err := e.guardTime(n); err != nil {
			return err
		}
		cond, err := e.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		truth, fault := e.lang.Truthy(cond, &e.features)
		if fault != nil {
			return e.faultAt(fault, n.Cond)
		}
		if truth {
			if err := e.guardIteration(n); err != nil {
				return err
			}
		}
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: jiki.Boolean(truth), Iteration: iteration})
		if !truth {
			return nil
		}

		stop, err := e.runBody(n.Body, e.iterationEnv())
		if err != nil || stop {
			return err
		}
	}
}

func (e *Executor) execFor(n *ast.ForStmt) error {
	prev := e.env
	if e.rules.BlockScopes {
		e.env = NewEnv(e.env)
	}
	defer func() { e.env = prev }()

	if n.Init != nil {
		if err := e.execStmt(n.Init); err != nil {
			return err
		}
	}
	e.current = n

	for iteration := 1; ; iteration++ {
		if err := e.guardTime(n); err != nil {
			return err
		}
		truth := true
		if n.Cond != nil {
			cond, err := e.evalExpr(n.Cond)
			if err != nil {
				return err
			}
			t, fault := e.lang.Truthy(cond, &e.features)
			if fault != nil {
				return e.faultAt(fault, n.Cond)
			}
			truth = t
		}
		if truth {
			if err := e.guardIteration(n); err != nil {
				return err
			}
		}
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: jiki.Boolean(truth), Iteration: iteration})
		if !truth {
			return nil
		}

		stop, err := e.runBody(n.Body, e.iterationEnv())
		if err != nil || stop {
			return err
		}
		e.current = n
		if n.Update != nil {
			if _, err := e.evalExpr(n.Update); err != nil {
				return err
			}
		}
	}
}

func (e *Executor) execForEach(n *ast.ForEachStmt) error {
	iterable, err := e.evalExpr(n.Iterable)
	if err != nil {
		return err
	}
	names := 1
	if n.SecondName != "" {
		names = 2
	}
	items, fault := e.lang.Iterate(iterable, names)
	if fault != nil {
		return e.faultAt(fault, n.Iterable)
	}
	if e.rules.BlockScopes {
		if err := e.checkLoopVar(n, n.Name, n.SecondName, n.Index); err != nil {
			return err
		}
	}

	if len(items) == 0 {
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: iterable})
		return nil
	}

	log.Trace().Str("loop", n.Type).Int("items", len(items)).Msg("loop")
	for i, item := range items {
		if err := e.guardTime(n); err != nil {
			return err
		}
		if err := e.guardIteration(n); err != nil {
			return err
		}

		env := e.iterationEnv()
		e.bindLoopVar(env, n.Name, item.First)
		if n.SecondName != "" {
			e.bindLoopVar(env, n.SecondName, item.Second)
		}
		e.bindLoopVar(env, n.Index, e.indexValue(i))

		prev := e.env
		e.env = env
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{
			Type:      n.Type,
			Value:     item.First,
			Name:      n.Name,
			Iteration: i + 1,
			Total:     len(items),
		})
		e.env = prev

		stop, err := e.runBody(n.Body, env)
		if err != nil || stop {
			return err
		}
		e.current = n
	}
	return nil
}

func (e *Executor) execRepeat(n *ast.RepeatStmt) error {
	switch {
	case n.UntilGameOver:
		return e.repeatUntilGameOver(n)
	case n.Count == nil:
		return e.repeatForever(n)
	}

	count, err := e.evalExpr(n.Count)
	if err != nil {
		return err
	}
	num, ok := count.(jiki.Number)
	if !ok || math.IsNaN(float64(num)) {
		return e.fail(jiki.KindRepeatCountMustBeNumber, n.Count, map[string]any{"value": count})
	}
	if num < 0 {
		return e.fail(jiki.KindRepeatCountMustBeZeroOrGreater, n.Count, map[string]any{"count": float64(num)})
	}
	// compared as floats so huge counts cannot overflow past the limit
	if float64(num) > float64(e.features.MaxTotalLoopIterations) {
		return e.fail(jiki.KindRepeatCountTooHigh, n.Count, map[string]any{
			"count": float64(num),
			"max":   e.features.MaxTotalLoopIterations,
		})
	}
	if !num.IsInteger() {
		return e.fail(jiki.KindRepeatCountMustBeInteger, n.Count, map[string]any{"count": float64(num)})
	}
	if err := e.checkLoopVar(n, n.Index); err != nil {
		return err
	}

	total := int(num)
	if total == 0 {
		e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Value: num})
		return nil
	}

	for i := 0; i < total; i++ {
		stop, err := e.repeatIteration(n, i, total)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

func (e *Executor) repeatIteration(n *ast.RepeatStmt, i, total int) (bool, error) {
	if err := e.guardTime(n); err != nil {
		return false, err
	}
	if err := e.guardIteration(n); err != nil {
		return false, err
	}
	env := e.iterationEnv()
	e.bindLoopVar(env, n.Index, e.indexValue(i))

	e.current = n
	e.addSuccessFrame(n, n.Loc, &EvaluationResult{Type: n.Type, Iteration: i + 1, Total: total})
	e.time += e.features.RepeatDelay

	return e.runBody(n.Body, env)
}

func (e *Executor) repeatForever(n *ast.RepeatStmt) error {
	for i := 0; ; i++ {
		stop, err := e.repeatIteration(n, i, 0)
		if err != nil || stop {
			return err
		}
	}
}

func (e *Executor) repeatUntilGameOver(n *ast.RepeatStmt) error {
	max := e.features.MaxRepeatUntilGameOverIterations
	for i := 0; !e.gameOver; i++ {
		if i >= max {
			return e.fail(jiki.KindMaxIterationsReached, n, map[string]any{"max": max})
		}
		stop, err := e.repeatIteration(n, i, 0)
		if err != nil || stop {
			return err
		}
	}
	return nil
}
