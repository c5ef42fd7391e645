package interp

import (
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

func (e *Executor) evalExpr(expr ast.Expr) (jiki.Value, error) {
	if err := e.checkNode(expr); err != nil {
		return nil, err
	}

	switch n := expr.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Ident:
		return e.evalIdent(n)
	case *ast.Group:
		return e.evalExpr(n.Inner)
	case *ast.Binary:
		left, err := e.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		val, fault := e.lang.Binary(n.Op, n.Lexeme, left, right, &e.features)
		if fault != nil {
			return nil, e.faultAt(fault, n)
		}
		return val, nil
	case *ast.Logical:
		return e.evalLogical(n)
	case *ast.Unary:
		operand, err := e.evalExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		val, fault := e.lang.Unary(n.Op, n.Lexeme, operand, &e.features)
		if fault != nil {
			return nil, e.faultAt(fault, n)
		}
		return val, nil
	case *ast.Update:
		return e.evalUpdate(n)
	case *ast.Assign:
		return e.assign(n, n.Target, n.Op, n.Lexeme, n.Value)
	case *ast.Call:
		return e.evalCall(n)
	case *ast.Member:
		obj, err := e.evalExpr(n.Object)
		if err != nil {
			return nil, err
		}
		return e.getMember(n, obj, n.Name)
	case *ast.Index:
		obj, err := e.evalExpr(n.Object)
		if err != nil {
			return nil, err
		}
		index, err := e.evalExpr(n.Index)
		if err != nil {
			return nil, err
		}
		val, fault := e.lang.GetIndex(obj, index)
		if fault != nil {
			return nil, e.faultAt(fault, n)
		}
		return val, nil
	case *ast.List:
		elems := make([]jiki.Value, 0, len(n.Elems))
		for _, el := range n.Elems {
			val, err := e.evalStorable(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, val)
		}
		return jiki.NewList(elems...), nil
	case *ast.Dict:
		dict := jiki.NewDictionary()
		for _, entry := range n.Entries {
			k, err := e.evalExpr(entry.Key)
			if err != nil {
				return nil, err
			}
			key, fault := e.lang.DictKey(k)
			if fault != nil {
				return nil, e.faultAt(fault, entry.Key)
			}
			val, err := e.evalStorable(entry.Value)
			if err != nil {
				return nil, err
			}
			dict.Set(key, val)
		}
		return dict, nil
	case *ast.Template:
		var sb strings.Builder
		for _, part := range n.Parts {
			if part.Expr == nil {
				sb.WriteString(part.Text)
				continue
			}
			val, err := e.evalExpr(part.Expr)
			if err != nil {
				return nil, err
			}
			if s, ok := val.(jiki.String); ok {
				sb.WriteString(string(s))
			} else {
				sb.WriteString(e.lang.Format(val))
			}
		}
		return jiki.String(sb.String()), nil
	case *ast.New:
		return e.instantiate(n)
	}
	return nil, jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, expr.Location(),
		map[string]any{"message": "unknown expression " + expr.Kind()})
}

// resolve looks a name up for reading. Functions that cannot see globals
// still resolve the program's own functions through them.
func (e *Executor) resolve(n ast.Node, name string) (jiki.Value, error) {
	if val, ok := e.env.Get(name); ok {
		return val, nil
	}
	if e.functionDepth > 0 && !e.rules.FunctionsSeeGlobals {
		if val, ok := e.globals.Get(name); ok {
			if _, isFn := val.(*jiki.Function); isFn {
				return val, nil
			}
			return nil, e.fail(jiki.KindVariableNotAccessibleInFunction, n, map[string]any{"name": name})
		}
	}
	return nil, nil
}

func (e *Executor) evalIdent(n *ast.Ident) (jiki.Value, error) {
	val, err := e.resolve(n, n.Name)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, e.fail(jiki.KindVariableNotDeclared, n, map[string]any{
			"name":       n.Name,
			"didYouMean": jiki.DidYouMean(n.Name, e.env.Names()),
		})
	}
	if !e.rules.FunctionsAreValues && jiki.IsCallable(val) {
		return nil, e.fail(jiki.KindUnexpectedUncalledFunction, n, map[string]any{"name": n.Name})
	}
	return val, nil
}

func (e *Executor) evalLogical(n *ast.Logical) (jiki.Value, error) {
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	truth, fault := e.lang.Truthy(left, &e.features)
	if fault != nil {
		return nil, e.faultAt(fault, n.Left)
	}
	if (n.Op == ast.OpAnd && !truth) || (n.Op == ast.OpOr && truth) {
		return left, nil
	}

	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	if _, fault := e.lang.Truthy(right, &e.features); fault != nil {
		return nil, e.faultAt(fault, n.Right)
	}
	return right, nil
}

// place is an assignable location: a variable, an element or a property.
type place struct {
	get func() (jiki.Value, error)
	set func(jiki.Value) error
}

func (e *Executor) placeOf(node ast.Node, target ast.Expr) (*place, error) {
	switch t := target.(type) {
	case *ast.Ident:
		return e.variablePlace(node, t)
	case *ast.Index:
		obj, err := e.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		index, err := e.evalExpr(t.Index)
		if err != nil {
			return nil, err
		}
		return &place{
			get: func() (jiki.Value, error) {
				val, fault := e.lang.GetIndex(obj, index)
				return val, e.faultAt(fault, t)
			},
			set: func(v jiki.Value) error {
				return e.faultAt(e.lang.SetIndex(obj, index, v), t)
			},
		}, nil
	case *ast.Member:
		obj, err := e.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		return &place{
			get: func() (jiki.Value, error) { return e.getMember(t, obj, t.Name) },
			set: func(v jiki.Value) error { return e.setMember(t, obj, t.Name, v) },
		}, nil
	}
	return nil, e.fail(jiki.KindInvalidAssignmentTarget, target, nil)
}

func (e *Executor) variablePlace(node ast.Node, t *ast.Ident) (*place, error) {
	if e.rules.AssignDeclares {
		// assignment binds in the current scope
		env := e.env
		return &place{
			get: func() (jiki.Value, error) {
				if b, ok := env.vt[t.Name]; ok {
					return b.val, nil
				}
				return e.evalIdent(t)
			},
			set: func(v jiki.Value) error {
				env.Define(t.Name, v, false)
				return nil
			},
		}, nil
	}

	b := e.userBinding(t.Name)
	if b == nil {
		if _, err := e.resolve(t, t.Name); err != nil {
			return nil, err
		}
		return nil, e.fail(jiki.KindVariableNotDeclared, t, map[string]any{
			"name":       t.Name,
			"didYouMean": jiki.DidYouMean(t.Name, e.env.Names()),
		})
	}
	return &place{
		get: func() (jiki.Value, error) { return b.val, nil },
		set: func(v jiki.Value) error {
			if b.constant {
				return e.fail(jiki.KindConstAssignment, node, map[string]any{"name": t.Name})
			}
			b.val = v
			return nil
		},
	}, nil
}

// assign evaluates plain and compound assignment and returns the stored
// value.
func (e *Executor) assign(node ast.Node, target ast.Expr, op ast.Operator, lexeme string, valueExpr ast.Expr) (jiki.Value, error) {
	arith, compound := op.Arithmetic()
	p, err := e.placeOf(node, target)
	if err != nil {
		return nil, err
	}

	val, err := e.evalStorable(valueExpr)
	if err != nil {
		return nil, err
	}
	if compound {
		current, err := p.get()
		if err != nil {
			return nil, err
		}
		result, fault := e.lang.Binary(arith, strings.TrimSuffix(lexeme, "="), current, val, &e.features)
		if fault != nil {
			return nil, e.faultAt(fault, node)
		}
		val = result
	}
	if err := p.set(val); err != nil {
		return nil, err
	}
	return val, nil
}

func (e *Executor) evalUpdate(n *ast.Update) (jiki.Value, error) {
	p, err := e.placeOf(n, n.Target)
	if err != nil {
		return nil, err
	}
	current, err := p.get()
	if err != nil {
		return nil, err
	}
	op, lexeme := ast.OpAdd, "+"
	if n.Op == ast.OpDecrement {
		op, lexeme = ast.OpSub, "-"
	}
	if _, ok := current.(jiki.Number); !ok {
		return nil, e.fail(jiki.KindOperandMustBeNumber, n, map[string]any{"operator": n.Lexeme, "value": current})
	}
	next, fault := e.lang.Binary(op, lexeme, current, jiki.Number(1), &e.features)
	if fault != nil {
		return nil, e.faultAt(fault, n)
	}
	if err := p.set(next); err != nil {
		return nil, err
	}
	if n.Prefix {
		return next, nil
	}
	return current, nil
}

func (e *Executor) getMember(n ast.Node, obj jiki.Value, name string) (jiki.Value, error) {
	if o, ok := obj.(*jiki.Object); ok {
		if getter, ok := o.Class.Getters[name]; ok {
			val, err := getter(e.ectx, o)
			if err != nil {
				return nil, e.hostError(n, o.Class.Name+"."+name, err)
			}
			return orNone(val), nil
		}
		if val, ok := o.Fields.Get(name); ok {
			return val, nil
		}
		if method, ok := o.Class.Methods[name]; ok {
			return e.boundMethod(o, method), nil
		}
		return nil, e.fail(jiki.KindPropertyNotFound, n, map[string]any{"name": name, "class": o.Class.Name})
	}
	val, fault := e.lang.GetMember(obj, name)
	if fault != nil {
		return nil, e.faultAt(fault, n)
	}
	return val, nil
}

func (e *Executor) setMember(n ast.Node, obj jiki.Value, name string, v jiki.Value) error {
	if o, ok := obj.(*jiki.Object); ok {
		if setter, ok := o.Class.Setters[name]; ok {
			if err := setter(e.ectx, o, v); err != nil {
				return e.hostError(n, o.Class.Name+"."+name, err)
			}
			return nil
		}
		if _, ok := o.Fields.Get(name); ok {
			o.Fields.Set(name, v)
			return nil
		}
		return e.fail(jiki.KindPropertyNotFound, n, map[string]any{"name": name, "class": o.Class.Name})
	}
	return e.faultAt(e.lang.SetMember(obj, name, v), n)
}

func (e *Executor) boundMethod(o *jiki.Object, m *jiki.Method) *jiki.HostFunction {
	return &jiki.HostFunction{
		Name:        m.Name,
		Arity:       m.Arity,
		Description: m.Description,
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return m.Func(ctx, o, args)
		},
	}
}

func (e *Executor) instantiate(n *ast.New) (jiki.Value, error) {
	val, _ := e.builtins.Get(n.Class)
	class, ok := val.(*jiki.Class)
	if !ok {
		return nil, e.fail(jiki.KindClassNotFound, n, map[string]any{"name": n.Class})
	}
	args, err := e.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	if !e.features.NativeMode && !class.Arity.Accepts(len(args)) {
		return nil, e.fail(jiki.KindInvalidNumberOfArguments, n, map[string]any{
			"function": class.Name,
			"expected": class.Arity.Expected(),
			"got":      len(args),
		})
	}
	obj := jiki.NewObject(class)
	if class.Constructor != nil {
		if err := class.Constructor(e.ectx, obj, args); err != nil {
			return nil, e.hostError(n, class.Name, err)
		}
	}
	return obj, nil
}

func orNone(v jiki.Value) jiki.Value {
	if v == nil {
		return jiki.None{}
	}
	return v
}
