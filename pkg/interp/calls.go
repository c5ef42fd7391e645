package interp

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

type callRecord struct {
	name string
	args []jiki.Value
}

func (e *Executor) evalArgs(exprs []ast.Expr) ([]jiki.Value, error) {
	args := make([]jiki.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := e.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

func (e *Executor) evalCall(n *ast.Call) (jiki.Value, error) {
	var fn jiki.Value
	name := n.CalleeName()

	switch callee := n.Callee.(type) {
	case *ast.Ident:
		val, err := e.resolve(callee, callee.Name)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, e.fail(jiki.KindFunctionNotFound, callee, map[string]any{
				"name":       callee.Name,
				"didYouMean": jiki.DidYouMean(callee.Name, e.callableNames()),
			})
		}
		fn = val
	case *ast.Member:
		obj, err := e.evalExpr(callee.Object)
		if err != nil {
			return nil, err
		}
		if o, ok := obj.(*jiki.Object); ok {
			method, ok := o.Class.Methods[callee.Name]
			if !ok {
				return nil, e.fail(jiki.KindMethodNotFound, callee, map[string]any{"name": callee.Name, "class": o.Class.Name})
			}
			fn = e.boundMethod(o, method)
		} else {
			val, err := e.getMember(callee, obj, callee.Name)
			if err != nil {
				return nil, err
			}
			fn = val
		}
	default:
		val, err := e.evalExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		fn = val
	}

	if !jiki.IsCallable(fn) {
		return nil, e.fail(jiki.KindNotCallable, n.Callee, map[string]any{"name": name, "type": fn.Type()})
	}

	args, err := e.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	val, err := e.callValue(fn, name, args, n)
	if err != nil {
		return nil, err
	}
	e.lastCall = &callRecord{name: name, args: args}
	return val, nil
}

// callableNames lists the functions a call could have meant.
func (e *Executor) callableNames() []string {
	var names []string
	for _, name := range append(e.env.Names(), e.globals.Names()...) {
		if val, ok := e.globals.Get(name); ok && jiki.IsCallable(val) {
			names = append(names, name)
		}
	}
	return names
}

// callValue invokes a guest or host callable with evaluated arguments.
func (e *Executor) callValue(fn jiki.Value, name string, args []jiki.Value, node ast.Node) (jiki.Value, error) {
	switch f := fn.(type) {
	case *jiki.HostFunction:
		return e.callHost(f, name, args, node)
	case *jiki.Function:
		return e.callGuest(f, args, node)
	}
	return nil, e.fail(jiki.KindNotCallable, node, map[string]any{"name": name, "type": fn.Type()})
}

func (e *Executor) callHost(f *jiki.HostFunction, name string, args []jiki.Value, node ast.Node) (jiki.Value, error) {
	if name == "" {
		name = f.Name
	}
	if !e.features.NativeMode && !f.Arity.Accepts(len(args)) {
		return nil, e.fail(jiki.KindInvalidNumberOfArguments, node, map[string]any{
			"function": name,
			"expected": f.Arity.Expected(),
			"got":      len(args),
		})
	}
	e.logCall(name, args)

	// lists and dictionaries cross the bridge by value
	passed := make([]jiki.Value, len(args))
	for i, a := range args {
		switch a.(type) {
		case *jiki.List, *jiki.Dictionary:
			passed[i] = a.Clone()
		default:
			passed[i] = a
		}
	}

	log.Trace().Str("call", name).Int("args", len(args)).Msg("host call")
	framed := e.errorFramed
	val, err := f.Func(e.ectx, passed)
	if err != nil {
		return nil, e.hostError(node, name, err)
	}
	if e.errorFramed && !framed {
		// the host handled an error raised by a guest callback
		e.unframeError()
	}
	return orNone(val), nil
}

// hostError maps an error raised by host code to the runtime error shown
// to the student.
func (e *Executor) hostError(node ast.Node, name string, err error) error {
	var logic *jiki.LogicError
	if errors.As(err, &logic) {
		return e.fail(jiki.KindLogicErrorInExecution, node, map[string]any{"message": logic.Message})
	}
	var jerr *jiki.Err
	if errors.As(err, &jerr) {
		if jerr.Loc == (jiki.Location{}) {
			jerr.Loc = node.Location()
		}
		return jerr
	}
	var ctl *control
	if errors.As(err, &ctl) {
		return err
	}
	return e.fail(jiki.KindFunctionExecutionError, node, map[string]any{
		"function": name,
		"message":  err.Error(),
	})
}

func (e *Executor) callGuest(f *jiki.Function, args []jiki.Value, node ast.Node) (jiki.Value, error) {
	decl, ok := f.Decl.(*ast.FunctionStmt)
	if !ok {
		return nil, jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, node.Location(),
			map[string]any{"message": "function without declaration: " + f.Name})
	}
	if len(args) != len(f.Params) {
		return nil, e.fail(jiki.KindInvalidNumberOfArguments, node, map[string]any{
			"function": f.Name,
			"expected": f.Arity().Expected(),
			"got":      len(args),
		})
	}

	if e.rules.MaxSameNameDepth > 0 {
		depth := 0
		for _, name := range e.callStack {
			if name == f.Name {
				depth++
			}
		}
		if depth >= e.rules.MaxSameNameDepth {
			return nil, e.fail(jiki.KindInfiniteRecursionDetected, node, map[string]any{"name": f.Name})
		}
	}
	if len(e.callStack) >= e.rules.MaxCallDepth {
		return nil, e.fail(jiki.KindInfiniteRecursionDetected, node, map[string]any{"name": f.Name})
	}
	e.logCall(f.Name, args)

	parent := e.builtins
	if e.rules.FunctionsSeeGlobals {
		if scope, ok := f.Scope.(*Env); ok {
			parent = scope
		}
	}
	env := newFunctionEnv(parent)
	for i, param := range f.Params {
		env.Define(param, args[i], false)
	}

	prevLoops, prevCurrent := e.loopDepth, e.current
	e.loopDepth = 0
	e.functionDepth++
	e.callStack = append(e.callStack, f.Name)
	defer func() {
		e.loopDepth, e.current = prevLoops, prevCurrent
		e.functionDepth--
		e.callStack = e.callStack[:len(e.callStack)-1]
	}()

	log.Trace().Str("call", f.Name).Int("depth", len(e.callStack)).Msg("guest call")
	err := e.execBlockIn(decl.Body, env)
	var ctl *control
	if errors.As(err, &ctl) && ctl.kind == "return" {
		return ctl.value, nil
	}
	if err != nil {
		return nil, err
	}
	return e.rules.Undefined, nil
}
