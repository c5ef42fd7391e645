package jiki

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync/atomic"
)

// Arity is the accepted argument count of a callable. Max < 0 means the
// callable is variadic from Min upwards; the zero value accepts no arguments.
type Arity struct {
	Min int
	Max int
}

func Exactly(n int) Arity      { return Arity{Min: n, Max: n} }
func AtLeast(n int) Arity      { return Arity{Min: n, Max: -1} }
func Between(lo, hi int) Arity { return Arity{Min: lo, Max: hi} }

func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

// Expected is the human description used by InvalidNumberOfArguments.
func (a Arity) Expected() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	}
}

// HostFunc is the signature of every function the host exposes to guests.
type HostFunc func(ctx *ExecutionContext, args []Value) (Value, error)

// HostFunction is a host-implemented callable bound into a guest program.
type HostFunction struct {
	Name        string
	Arity       Arity
	Func        HostFunc
	Description string
}

func (v *HostFunction) String() string {
	return fmt.Sprintf("function %s (native)", v.Name)
}

func (v *HostFunction) Clone() Value { return v }
func (v *HostFunction) Type() string { return "function" }
func (v *HostFunction) value()       {}

func (v *HostFunction) Equals(other Value) bool {
	ov, ok := other.(*HostFunction)
	return ok && ov.Name == v.Name
}

// Method is a host-implemented method of a Class.
type Method struct {
	Name        string
	Arity       Arity
	Description string
	Func        func(ctx *ExecutionContext, this *Object, args []Value) (Value, error)
}

// Class describes a host class guests can instantiate with `new`.
type Class struct {
	Name        string
	Arity       Arity
	Constructor func(ctx *ExecutionContext, this *Object, args []Value) error
	Methods     map[string]*Method
	Getters     map[string]func(ctx *ExecutionContext, this *Object) (Value, error)
	Setters     map[string]func(ctx *ExecutionContext, this *Object, v Value) error
}

func (v *Class) String() string { return "class " + v.Name }
func (v *Class) Clone() Value   { return v }
func (v *Class) Type() string   { return "class" }
func (v *Class) value()         {}

func (v *Class) Equals(other Value) bool {
	ov, ok := other.(*Class)
	return ok && ov == v
}

// Object is an instance of a host Class.
type Object struct {
	Class  *Class
	Fields *Dictionary
	id     int64
}

var objectCount atomic.Int64

// NewObject allocates an instance without running the constructor.
func NewObject(class *Class) *Object {
	return &Object{Class: class, Fields: NewDictionary(), id: objectCount.Add(1)}
}

func (v *Object) String() string {
	fields := make([]string, 0, v.Fields.Len())
	for _, k := range v.Fields.Keys() {
		val, _ := v.Fields.Get(k)
		fields = append(fields, k+": "+val.String())
	}
	return fmt.Sprintf("(%s %s)", v.Class.Name, strings.Join(fields, ", "))
}

func (v *Object) Clone() Value {
	return &Object{Class: v.Class, Fields: v.Fields.Clone().(*Dictionary), id: v.id}
}

func (v *Object) Type() string { return "object" }
func (v *Object) value()       {}

// Equals compares identity; clones of the same instance stay equal.
func (v *Object) Equals(other Value) bool {
	ov, ok := other.(*Object)
	return ok && ov.id == v.id && ov.Class == v.Class
}

// Runtime is the slice of the evaluator a host callback may reach.
type Runtime interface {
	// Time is the current execution time in micro-units.
	Time() int64
	// FastForward advances the clock by the given number of milliseconds.
	FastForward(ms int64)
	// Log appends a line to the run's log output.
	Log(line string)
	// FinishExercise ends a repeat_until_game_over loop.
	FinishExercise()
	// Call invokes a guest or host callable from the host side.
	Call(fn Value, args []Value) (Value, error)
}

// ExecutionContext is passed to every host callback.
type ExecutionContext struct {
	Runtime
	State    map[string]any
	Features *Features
	Rand     *rand.Rand
}

// LogicError creates the error a host uses to blame the student's program.
func (ctx *ExecutionContext) LogicError(message string) error {
	return &LogicError{Message: message}
}

// LogicErrorf is LogicError with formatting.
func (ctx *ExecutionContext) LogicErrorf(format string, args ...any) error {
	return &LogicError{Message: fmt.Sprintf(format, args...)}
}

func IsNumber(v Value) bool     { _, ok := v.(Number); return ok }
func IsString(v Value) bool     { _, ok := v.(String); return ok }
func IsBoolean(v Value) bool    { _, ok := v.(Boolean); return ok }
func IsList(v Value) bool       { _, ok := v.(*List); return ok }
func IsDictionary(v Value) bool { _, ok := v.(*Dictionary); return ok }
func IsObject(v Value) bool     { _, ok := v.(*Object); return ok }

func IsNone(v Value) bool {
	_, ok := v.(None)
	return v == nil || ok
}

func IsCallable(v Value) bool {
	switch v.(type) {
	case *Function, *HostFunction:
		return true
	}
	return false
}

// GuardArgs checks each argument against a predicate, returning a
// LogicError naming the first argument that does not match.
func GuardArgs(ctx *ExecutionContext, fn string, args []Value, guards ...func(Value) bool) error {
	for i, g := range guards {
		if i >= len(args) {
			break
		}
		if !g(args[i]) {
			return ctx.LogicErrorf("argument %d of %s has the wrong type: got %s", i+1, fn, args[i].Type())
		}
	}
	return nil
}

// FromGo converts a host Go value into a guest value. Unsupported types
// produce an error.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return None{}, nil
	case Value:
		return x, nil
	case bool:
		return Boolean(x), nil
	case string:
		return String(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case float64:
		return Number(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return NewList(elems...), nil
	case []string:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = String(e)
		}
		return NewList(elems...), nil
	case []float64:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = Number(e)
		}
		return NewList(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := NewDictionary()
		for _, k := range keys {
			ev, err := FromGo(x[k])
			if err != nil {
				return nil, err
			}
			d.Set(k, ev)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a guest value", v)
	}
}

// ToGo converts a guest value into plain Go data: float64, string, bool,
// nil, []any and map[string]any. Callables and objects convert to their
// display string.
func ToGo(v Value) any {
	switch x := v.(type) {
	case nil, None:
		return nil
	case Number:
		return float64(x)
	case String:
		return string(x)
	case Boolean:
		return bool(x)
	case *List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = ToGo(e)
		}
		return out
	case *Dictionary:
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = ToGo(val)
		}
		return out
	case *Object:
		return ToGo(x.Fields)
	default:
		return v.String()
	}
}
