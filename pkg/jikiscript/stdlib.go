package jikiscript

import (
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

type fn = func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error)

func native(name string, arity jiki.Arity, desc string, f fn) *jiki.HostFunction {
	return &jiki.HostFunction{Name: name, Arity: arity, Description: desc, Func: f}
}

// Builtins are opt-in: a program sees only the functions an exercise
// lists in AllowedStdlibFunctions.
func (*Language) Builtins(f *jiki.Features) map[string]jiki.Value {
	if f.AllowedStdlibFunctions == nil {
		return map[string]jiki.Value{}
	}
	all := map[string]jiki.Value{
		"concatenate": native("concatenate", jiki.AtLeast(1), "joined strings together",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				var b strings.Builder
				for i, a := range args {
					s, ok := a.(jiki.String)
					if !ok {
						return nil, ctx.LogicErrorf("concatenate expects strings, but input %d is %s", i+1, format(a, false))
					}
					b.WriteString(string(s))
				}
				return jiki.String(b.String()), nil
			}),
		"to_upper_case": stringTransform("to_upper_case", "converted a string to upper case", strings.ToUpper),
		"to_lower_case": stringTransform("to_lower_case", "converted a string to lower case", strings.ToLower),
		"number_to_string": native("number_to_string", jiki.Exactly(1), "converted a number to a string",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if err := jiki.GuardArgs(ctx, "number_to_string", args, jiki.IsNumber); err != nil {
					return nil, err
				}
				return jiki.String(args[0].String()), nil
			}),
		"join": native("join", jiki.Exactly(2), "joined a list of strings with a separator",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if err := jiki.GuardArgs(ctx, "join", args, jiki.IsList, jiki.IsString); err != nil {
					return nil, err
				}
				list := args[0].(*jiki.List)
				parts := make([]string, len(list.Elems))
				for i, el := range list.Elems {
					s, ok := el.(jiki.String)
					if !ok {
						return nil, ctx.LogicErrorf("join expects a list of strings, but element %d is %s", i+1, format(el, false))
					}
					parts[i] = string(s)
				}
				return jiki.String(strings.Join(parts, string(args[1].(jiki.String)))), nil
			}),
		"push": native("push", jiki.Exactly(2), "added an element to the end of a list",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if err := jiki.GuardArgs(ctx, "push", args, jiki.IsList); err != nil {
					return nil, err
				}
				elems := append(append([]jiki.Value{}, args[0].(*jiki.List).Elems...), args[1])
				return jiki.NewList(elems...), nil
			}),
	}
	allowed := map[string]jiki.Value{}
	for _, name := range f.AllowedStdlibFunctions {
		if v, ok := all[name]; ok {
			allowed[name] = v
		}
	}
	return allowed
}

func stringTransform(name, desc string, op func(string) string) *jiki.HostFunction {
	return native(name, jiki.Exactly(1), desc, func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
		if err := jiki.GuardArgs(ctx, name, args, jiki.IsString); err != nil {
			return nil, err
		}
		return jiki.String(op(string(args[0].(jiki.String)))), nil
	})
}
