package jiki

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const maxPrintLen = 120

// Value represents any value a guest program can hold. The set of
// implementations is closed.
type Value interface {
	String() string
	// Equals reports whether the given value is deep-equal to the
	// receiving value. It does not compare references.
	Equals(Value) bool
	// Clone returns a deep copy for composites and the value itself for
	// immutable ones.
	Clone() Value
	// Type is the generic type name used in error contexts.
	Type() string

	value()
}

// Utility func to get a consistent string representation of numbers:
// integral values print without a decimal point, others in their shortest
// round-tripping form.
func nToS(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if i := int64(f); f == float64(i) && math.Abs(f) < 1e21 {
		return strconv.FormatInt(i, 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatNumber exposes the canonical numeral formatting to guest languages.
func FormatNumber(f float64) string {
	return nToS(f)
}

// Number is the single numeric type shared by all guests.
type Number float64

func (v Number) String() string  { return nToS(float64(v)) }
func (v Number) Clone() Value    { return v }
func (v Number) Type() string    { return "number" }
func (v Number) value()          {}
func (v Number) IsInteger() bool { return float64(v) == math.Trunc(float64(v)) }

func (v Number) Equals(other Value) bool {
	ov, ok := other.(Number)
	return ok && v == ov
}

// String is an immutable guest string.
type String string

func (v String) String() string { return string(v) }
func (v String) Clone() Value   { return v }
func (v String) Type() string   { return "string" }
func (v String) value()         {}

func (v String) Equals(other Value) bool {
	ov, ok := other.(String)
	return ok && v == ov
}

// Quoted renders the string as a literal with the given quote character.
func (v String) Quoted(quote byte) string {
	q := string(quote)
	escaped := strings.ReplaceAll(string(v), "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, q, "\\"+q)
	return q + escaped + q
}

// Boolean is either true or false.
type Boolean bool

func (v Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v Boolean) Clone() Value { return v }
func (v Boolean) Type() string { return "boolean" }
func (v Boolean) value()       {}

func (v Boolean) Equals(other Value) bool {
	ov, ok := other.(Boolean)
	return ok && v == ov
}

// None is the absent value: null, undefined or None depending on the guest.
// Undefined distinguishes JavaScript's undefined from null.
type None struct {
	Undefined bool
}

func (v None) String() string {
	if v.Undefined {
		return "undefined"
	}
	return "null"
}

func (v None) Clone() Value { return v }
func (v None) Type() string { return "none" }
func (v None) value()       {}

func (v None) Equals(other Value) bool {
	ov, ok := other.(None)
	return ok && ov.Undefined == v.Undefined
}

// List is a mutable ordered sequence. It is shared by reference.
type List struct {
	Elems []Value
}

func NewList(elems ...Value) *List {
	if elems == nil {
		elems = []Value{}
	}
	return &List{Elems: elems}
}

func (v *List) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		if s, ok := e.(String); ok {
			parts[i] = s.Quoted('"')
		} else {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v *List) Clone() Value {
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Clone()
	}
	return &List{Elems: elems}
}

func (v *List) Type() string { return "list" }
func (v *List) value()       {}

func (v *List) Equals(other Value) bool {
	ov, ok := other.(*List)
	if !ok || len(v.Elems) != len(ov.Elems) {
		return false
	}
	for i, e := range v.Elems {
		if !e.Equals(ov.Elems[i]) {
			return false
		}
	}
	return true
}

// Dictionary is a mutable string-keyed map that remembers insertion order.
type Dictionary struct {
	keys    []string
	entries map[string]Value
}

func NewDictionary() *Dictionary {
	return &Dictionary{entries: map[string]Value{}}
}

func (v *Dictionary) Get(key string) (Value, bool) {
	val, ok := v.entries[key]
	return val, ok
}

func (v *Dictionary) Set(key string, val Value) {
	if _, ok := v.entries[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

func (v *Dictionary) Delete(key string) {
	if _, ok := v.entries[key]; !ok {
		return
	}
	delete(v.entries, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (v *Dictionary) Keys() []string {
	return v.keys
}

func (v *Dictionary) Len() int {
	return len(v.keys)
}

func (v *Dictionary) String() string {
	entries := make([]string, len(v.keys))
	for i, k := range v.keys {
		val := v.entries[k]
		vstr := val.String()
		if s, ok := val.(String); ok {
			vstr = s.Quoted('"')
		}
		entries[i] = fmt.Sprintf("%s: %s", String(k).Quoted('"'), vstr)
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (v *Dictionary) Clone() Value {
	c := &Dictionary{
		keys:    append([]string(nil), v.keys...),
		entries: make(map[string]Value, len(v.entries)),
	}
	for k, val := range v.entries {
		c.entries[k] = val.Clone()
	}
	return c
}

func (v *Dictionary) Type() string { return "dictionary" }
func (v *Dictionary) value()       {}

func (v *Dictionary) Equals(other Value) bool {
	ov, ok := other.(*Dictionary)
	if !ok || len(v.keys) != len(ov.keys) {
		return false
	}
	for k, val := range v.entries {
		otherVal, prs := ov.entries[k]
		if !prs || !val.Equals(otherVal) {
			return false
		}
	}
	return true
}

// Function is a guest-defined function. Decl and Scope are owned by the
// evaluator that created it and are opaque everywhere else.
type Function struct {
	Name   string
	Params []string
	Decl   any
	Scope  any
}

func (v *Function) String() string {
	fstr := fmt.Sprintf("function %s(%s)", v.Name, strings.Join(v.Params, ", "))
	if len(fstr) > maxPrintLen {
		fstr = fstr[:maxPrintLen] + ".."
	}
	return fstr
}

func (v *Function) Clone() Value { return v }
func (v *Function) Type() string { return "function" }
func (v *Function) value()       {}

func (v *Function) Arity() Arity {
	return Exactly(len(v.Params))
}

func (v *Function) Equals(other Value) bool {
	ov, ok := other.(*Function)
	// compare declarations by reference
	return ok && v.Decl == ov.Decl
}
