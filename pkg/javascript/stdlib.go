package javascript

import (
	"math"
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

type fn = func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error)

func native(name string, arity jiki.Arity, desc string, f fn) *jiki.HostFunction {
	return &jiki.HostFunction{Name: name, Arity: arity, Description: desc, Func: f}
}

func (*Language) Builtins(f *jiki.Features) map[string]jiki.Value {
	all := map[string]jiki.Value{
		"console": console(),
		"Math":    mathObject(),
	}
	if f.AllowedStdlibFunctions == nil {
		return all
	}
	allowed := map[string]jiki.Value{}
	for _, name := range f.AllowedStdlibFunctions {
		if v, ok := all[name]; ok {
			allowed[name] = v
		}
	}
	return allowed
}

func console() *jiki.Dictionary {
	d := jiki.NewDictionary()
	d.Set("log", native("console.log", jiki.AtLeast(0), "printed its arguments to the console",
		func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = format(a, true)
			}
			ctx.Log(strings.Join(parts, " "))
			return undefined, nil
		}))
	return d
}

func numberArgs(ctx *jiki.ExecutionContext, name string, args []jiki.Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(jiki.Number)
		if !ok {
			return nil, ctx.LogicErrorf("%s expects numbers, but argument %d is %s", name, i+1, format(a, false))
		}
		nums[i] = float64(n)
	}
	return nums, nil
}

func unaryMath(name string, desc string, op func(float64) float64) *jiki.HostFunction {
	return native(name, jiki.Exactly(1), desc, func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
		nums, err := numberArgs(ctx, name, args)
		if err != nil {
			return nil, err
		}
		return jiki.Number(op(nums[0])), nil
	})
}

func mathObject() *jiki.Dictionary {
	d := jiki.NewDictionary()
	d.Set("PI", jiki.Number(math.Pi))
	d.Set("floor", unaryMath("Math.floor", "rounded a number down", math.Floor))
	d.Set("ceil", unaryMath("Math.ceil", "rounded a number up", math.Ceil))
	d.Set("round", unaryMath("Math.round", "rounded a number to the nearest integer", func(x float64) float64 {
		return math.Floor(x + 0.5)
	}))
	d.Set("abs", unaryMath("Math.abs", "took the absolute value of a number", math.Abs))
	d.Set("sqrt", unaryMath("Math.sqrt", "took the square root of a number", math.Sqrt))
	d.Set("pow", native("Math.pow", jiki.Exactly(2), "raised a number to a power",
		func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			nums, err := numberArgs(ctx, "Math.pow", args)
			if err != nil {
				return nil, err
			}
			return jiki.Number(math.Pow(nums[0], nums[1])), nil
		}))
	d.Set("max", native("Math.max", jiki.AtLeast(0), "found the largest number",
		func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			nums, err := numberArgs(ctx, "Math.max", args)
			if err != nil {
				return nil, err
			}
			best := math.Inf(-1)
			for _, n := range nums {
				best = math.Max(best, n)
			}
			return jiki.Number(best), nil
		}))
	d.Set("min", native("Math.min", jiki.AtLeast(0), "found the smallest number",
		func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			nums, err := numberArgs(ctx, "Math.min", args)
			if err != nil {
				return nil, err
			}
			best := math.Inf(1)
			for _, n := range nums {
				best = math.Min(best, n)
			}
			return jiki.Number(best), nil
		}))
	d.Set("random", native("Math.random", jiki.Exactly(0), "picked a random number between 0 and 1",
		func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return jiki.Number(ctx.Rand.Float64()), nil
		}))
	return d
}

// arrayMember resolves properties and methods of an array. Methods close
// over the receiver so they see and mutate the original.
func arrayMember(list *jiki.List, name string) (jiki.Value, bool) {
	switch name {
	case "length":
		return jiki.Number(len(list.Elems)), true
	case "push":
		return native("push", jiki.AtLeast(1), "added elements to the end of the array",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				list.Elems = append(list.Elems, args...)
				return jiki.Number(len(list.Elems)), nil
			}), true
	case "pop":
		return native("pop", jiki.Exactly(0), "removed the last element of the array",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if len(list.Elems) == 0 {
					return undefined, nil
				}
				last := list.Elems[len(list.Elems)-1]
				list.Elems = list.Elems[:len(list.Elems)-1]
				return last, nil
			}), true
	case "indexOf":
		return native("indexOf", jiki.Exactly(1), "searched the array for an element",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				for i, el := range list.Elems {
					if strictEquals(el, args[0]) {
						return jiki.Number(i), nil
					}
				}
				return jiki.Number(-1), nil
			}), true
	case "includes":
		return native("includes", jiki.Exactly(1), "checked whether the array contains an element",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				for _, el := range list.Elems {
					if strictEquals(el, args[0]) {
						return jiki.Boolean(true), nil
					}
				}
				return jiki.Boolean(false), nil
			}), true
	case "join":
		return native("join", jiki.Between(0, 1), "joined the array into a string",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				sep := ","
				if len(args) == 1 {
					s, ok := args[0].(jiki.String)
					if !ok {
						return nil, ctx.LogicError("join expects a string separator")
					}
					sep = string(s)
				}
				parts := make([]string, len(list.Elems))
				for i, el := range list.Elems {
					if !jiki.IsNone(el) {
						parts[i] = format(el, true)
					}
				}
				return jiki.String(strings.Join(parts, sep)), nil
			}), true
	case "at":
		return native("at", jiki.Exactly(1), "read the element at a position",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				n, ok := args[0].(jiki.Number)
				if !ok || !n.IsInteger() {
					return nil, ctx.LogicError("at expects a whole number")
				}
				i := int(n)
				if i < 0 {
					i += len(list.Elems)
				}
				if i < 0 || i >= len(list.Elems) {
					return undefined, nil
				}
				return list.Elems[i], nil
			}), true
	}
	return nil, false
}

func stringMember(s jiki.String, name string) (jiki.Value, bool) {
	str := string(s)
	switch name {
	case "length":
		return jiki.Number(len([]rune(str))), true
	case "toUpperCase":
		return native("toUpperCase", jiki.Exactly(0), "converted the string to upper case",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				return jiki.String(strings.ToUpper(str)), nil
			}), true
	case "toLowerCase":
		return native("toLowerCase", jiki.Exactly(0), "converted the string to lower case",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				return jiki.String(strings.ToLower(str)), nil
			}), true
	case "trim":
		return native("trim", jiki.Exactly(0), "removed surrounding whitespace",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				return jiki.String(strings.TrimSpace(str)), nil
			}), true
	case "includes", "indexOf":
		return native(name, jiki.Exactly(1), "searched the string",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				sub, ok := args[0].(jiki.String)
				if !ok {
					return nil, ctx.LogicErrorf("%s expects a string", name)
				}
				if name == "includes" {
					return jiki.Boolean(strings.Contains(str, string(sub))), nil
				}
				i := strings.Index(str, string(sub))
				if i > 0 {
					i = len([]rune(str[:i]))
				}
				return jiki.Number(i), nil
			}), true
	case "split":
		return native("split", jiki.Exactly(1), "split the string into an array",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				sep, ok := args[0].(jiki.String)
				if !ok {
					return nil, ctx.LogicError("split expects a string separator")
				}
				parts := strings.Split(str, string(sep))
				elems := make([]jiki.Value, len(parts))
				for i, p := range parts {
					elems[i] = jiki.String(p)
				}
				return jiki.NewList(elems...), nil
			}), true
	}
	return nil, false
}
