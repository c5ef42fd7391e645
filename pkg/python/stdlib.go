package python

import (
	"math"
	"strconv"
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

type fn = func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error)

func native(name string, arity jiki.Arity, desc string, f fn) *jiki.HostFunction {
	return &jiki.HostFunction{Name: name, Arity: arity, Description: desc, Func: f}
}

func (*Language) Builtins(f *jiki.Features) map[string]jiki.Value {
	all := map[string]jiki.Value{
		"print": native("print", jiki.AtLeast(0), "printed its arguments", builtinPrint),
		"len":   native("len", jiki.Exactly(1), "measured the length of a value", builtinLen),
		"range": native("range", jiki.Between(1, 3), "built a range of numbers", builtinRange),
		"str":   native("str", jiki.Exactly(1), "converted a value to a string", builtinStr),
		"int":   native("int", jiki.Exactly(1), "converted a value to an integer", builtinInt),
		"abs": native("abs", jiki.Exactly(1), "took the absolute value of a number",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				nums, err := numbers(ctx, "abs", args)
				if err != nil {
					return nil, err
				}
				return jiki.Number(math.Abs(nums[0])), nil
			}),
		"min": native("min", jiki.AtLeast(1), "found the smallest value", extremum("min", -1)),
		"max": native("max", jiki.AtLeast(1), "found the largest value", extremum("max", 1)),
		"sum": native("sum", jiki.Exactly(1), "added up a list of numbers",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				list, ok := args[0].(*jiki.List)
				if !ok {
					return nil, ctx.LogicErrorf("sum expects a list, got %s", typeName(args[0]))
				}
				nums, err := numbers(ctx, "sum", list.Elems)
				if err != nil {
					return nil, err
				}
				total := 0.0
				for _, n := range nums {
					total += n
				}
				return jiki.Number(total), nil
			}),
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

func builtinPrint(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = str(a, true)
	}
	ctx.Log(strings.Join(parts, " "))
	return jiki.None{}, nil
}

func builtinLen(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
	switch x := args[0].(type) {
	case jiki.String:
		return jiki.Number(len([]rune(string(x)))), nil
	case *jiki.List:
		return jiki.Number(len(x.Elems)), nil
	case *jiki.Dictionary:
		return jiki.Number(x.Len()), nil
	}
	return nil, ctx.LogicErrorf("object of type '%s' has no len()", typeName(args[0]))
}

// builtinRange materializes the range as a list, so it counts against the
// loop budget up front.
func builtinRange(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
	nums, err := numbers(ctx, "range", args)
	if err != nil {
		return nil, err
	}
	for _, n := range nums {
		if n != math.Trunc(n) {
			return nil, ctx.LogicError("range expects whole numbers")
		}
	}
	start, stop, step := 0.0, nums[0], 1.0
	if len(nums) >= 2 {
		start, stop = nums[0], nums[1]
	}
	if len(nums) == 3 {
		step = nums[2]
	}
	if step == 0 {
		return nil, ctx.LogicError("range() arg 3 must not be zero")
	}

	count := int(math.Max(0, math.Ceil((stop-start)/step)))
	if limit := ctx.Features.MaxTotalLoopIterations; limit > 0 && count > limit {
		return nil, jiki.RuntimeError(jiki.KindMaxIterationsReached, jiki.Location{}, map[string]any{"max": limit})
	}
	elems := make([]jiki.Value, count)
	for i := range elems {
		elems[i] = jiki.Number(start + float64(i)*step)
	}
	return jiki.NewList(elems...), nil
}

func builtinStr(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
	return jiki.String(str(args[0], true)), nil
}

func builtinInt(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
	switch x := args[0].(type) {
	case jiki.Number:
		return jiki.Number(math.Trunc(float64(x))), nil
	case jiki.Boolean:
		if x {
			return jiki.Number(1), nil
		}
		return jiki.Number(0), nil
	case jiki.String:
		n, err := strconv.Atoi(strings.TrimSpace(string(x)))
		if err != nil {
			return nil, ctx.LogicErrorf("invalid literal for int() with base 10: %s", x.Quoted('\''))
		}
		return jiki.Number(n), nil
	}
	return nil, ctx.LogicErrorf("int() argument must be a string or a number, not '%s'", typeName(args[0]))
}

func numbers(ctx *jiki.ExecutionContext, name string, args []jiki.Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(jiki.Number)
		if !ok {
			return nil, ctx.LogicErrorf("%s expects numbers, but argument %d is %s", name, i+1, typeName(a))
		}
		nums[i] = float64(n)
	}
	return nums, nil
}

// extremum accepts either several numbers or a single list of them.
func extremum(name string, sign float64) fn {
	return func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
		if len(args) == 1 {
			list, ok := args[0].(*jiki.List)
			if !ok {
				return nil, ctx.LogicErrorf("'%s' object is not iterable", typeName(args[0]))
			}
			if len(list.Elems) == 0 {
				return nil, ctx.LogicErrorf("%s() arg is an empty sequence", name)
			}
			args = list.Elems
		}
		nums, err := numbers(ctx, name, args)
		if err != nil {
			return nil, err
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if (n-best)*sign > 0 {
				best = n
			}
		}
		return jiki.Number(best), nil
	}
}

// listMethod returns a bound method of list, or nil.
func listMethod(list *jiki.List, name string) jiki.Value {
	switch name {
	case "append":
		return native("append", jiki.Exactly(1), "appended an element to the list",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				list.Elems = append(list.Elems, args[0])
				return jiki.None{}, nil
			})
	case "pop":
		return native("pop", jiki.Exactly(0), "removed the last element of the list",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if len(list.Elems) == 0 {
					return nil, ctx.LogicError("pop from empty list")
				}
				last := list.Elems[len(list.Elems)-1]
				list.Elems = list.Elems[:len(list.Elems)-1]
				return last, nil
			})
	case "index":
		return native("index", jiki.Exactly(1), "found the position of an element",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				for i, el := range list.Elems {
					if el.Equals(args[0]) {
						return jiki.Number(i), nil
					}
				}
				return nil, ctx.LogicErrorf("%s is not in list", str(args[0], false))
			})
	}
	return nil
}

func strMethod(s jiki.String, name string) jiki.Value {
	text := string(s)
	transform := func(desc string, f func(string) string) jiki.Value {
		return native(name, jiki.Exactly(0), desc,
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				return jiki.String(f(text)), nil
			})
	}
	switch name {
	case "upper":
		return transform("converted the string to upper case", strings.ToUpper)
	case "lower":
		return transform("converted the string to lower case", strings.ToLower)
	case "strip":
		return transform("removed surrounding whitespace", strings.TrimSpace)
	case "split":
		return native("split", jiki.Between(0, 1), "split the string into a list",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				var parts []string
				if len(args) == 0 {
					parts = strings.Fields(text)
				} else {
					sep, ok := args[0].(jiki.String)
					if !ok || sep == "" {
						return nil, ctx.LogicError("split expects a non-empty string separator")
					}
					parts = strings.Split(text, string(sep))
				}
				elems := make([]jiki.Value, len(parts))
				for i, p := range parts {
					elems[i] = jiki.String(p)
				}
				return jiki.NewList(elems...), nil
			})
	case "join":
		return native("join", jiki.Exactly(1), "joined a list of strings",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				list, ok := args[0].(*jiki.List)
				if !ok {
					return nil, ctx.LogicError("join expects a list")
				}
				parts := make([]string, len(list.Elems))
				for i, el := range list.Elems {
					part, ok := el.(jiki.String)
					if !ok {
						return nil, ctx.LogicErrorf("sequence item %d: expected str instance, %s found", i, typeName(el))
					}
					parts[i] = string(part)
				}
				return jiki.String(strings.Join(parts, text)), nil
			})
	case "replace":
		return native("replace", jiki.Exactly(2), "replaced part of the string",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				if err := jiki.GuardArgs(ctx, "replace", args, jiki.IsString, jiki.IsString); err != nil {
					return nil, err
				}
				return jiki.String(strings.ReplaceAll(text, string(args[0].(jiki.String)), string(args[1].(jiki.String)))), nil
			})
	}
	return nil
}

func dictMethod(d *jiki.Dictionary, name string) jiki.Value {
	switch name {
	case "keys":
		return native("keys", jiki.Exactly(0), "listed the keys of the dictionary",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				keys := d.Keys()
				elems := make([]jiki.Value, len(keys))
				for i, k := range keys {
					elems[i] = jiki.String(k)
				}
				return jiki.NewList(elems...), nil
			})
	case "values":
		return native("values", jiki.Exactly(0), "listed the values of the dictionary",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				var elems []jiki.Value
				for _, k := range d.Keys() {
					v, _ := d.Get(k)
					elems = append(elems, v)
				}
				return jiki.NewList(elems...), nil
			})
	case "items":
		return native("items", jiki.Exactly(0), "listed the entries of the dictionary",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				var elems []jiki.Value
				for _, k := range d.Keys() {
					v, _ := d.Get(k)
					elems = append(elems, jiki.NewList(jiki.String(k), v))
				}
				return jiki.NewList(elems...), nil
			})
	case "get":
		return native("get", jiki.Between(1, 2), "read a key with a fallback",
			func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				key, ok := args[0].(jiki.String)
				if !ok {
					return nil, ctx.LogicError("get expects a string key")
				}
				if v, ok := d.Get(string(key)); ok {
					return v, nil
				}
				if len(args) == 2 {
					return args[1], nil
				}
				return jiki.None{}, nil
			})
	}
	return nil
}
