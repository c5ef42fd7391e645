// Package jikiscript is the beginner language: English-like statements,
// do/end blocks, 1-based indexing and no implicit conversions.
package jikiscript

import (
	"math"
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

// Language implements interp.Language for JikiScript.
type Language struct{}

func New() *Language { return &Language{} }

func (*Language) Name() string { return "jikiscript" }

func (*Language) Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return Tokenize(source, f)
}

func (*Language) Parse(source string, f jiki.Features) (*ast.Program, error) {
	return Parse(source, f)
}

func (*Language) Rules() interp.Rules {
	return interp.Rules{
		BlockScopes:          true,
		HoistFunctions:       true,
		RedeclareChecksChain: true,
		NoneIsError:          true,
		OneBasedIndex:        true,
		MaxSameNameDepth:     5,
		MaxCallDepth:         500,
		Undefined:            jiki.None{},
	}
}

// Format renders values for log; strings are quoted only inside containers.
func (*Language) Format(v jiki.Value) string {
	return format(v, true)
}

func format(v jiki.Value, top bool) string {
	switch x := v.(type) {
	case nil, jiki.None:
		return "null"
	case jiki.Boolean:
		if x {
			return "true"
		}
		return "false"
	case jiki.String:
		if top {
			return string(x)
		}
		return x.Quoted('"')
	case *jiki.List:
		if len(x.Elems) == 0 {
			return "[]"
		}
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = format(el, false)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case *jiki.Dictionary:
		if x.Len() == 0 {
			return "{}"
		}
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			parts = append(parts, jiki.String(k).Quoted('"')+": "+format(val, false))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return v.String()
}

// round5 keeps arithmetic results free of binary float noise.
func round5(x float64) jiki.Number {
	return jiki.Number(math.Round(x*100000) / 100000)
}

func (*Language) Binary(op ast.Operator, lexeme string, left, right jiki.Value, f *jiki.Features) (jiki.Value, *interp.Fault) {
	if op == ast.OpEq || op == ast.OpNotEq {
		if fault := checkComparable(left, right); fault != nil {
			return nil, fault
		}
		eq := left.Equals(right)
		if op == ast.OpNotEq {
			eq = !eq
		}
		return jiki.Boolean(eq), nil
	}

	a, aok := left.(jiki.Number)
	if !aok {
		return nil, mustBeNumber(lexeme, left)
	}
	b, bok := right.(jiki.Number)
	if !bok {
		return nil, mustBeNumber(lexeme, right)
	}
	x, y := float64(a), float64(b)
	switch op {
	case ast.OpAdd:
		return round5(x + y), nil
	case ast.OpSub:
		return round5(x - y), nil
	case ast.OpMul:
		return round5(x * y), nil
	case ast.OpDiv:
		if y == 0 {
			return nil, interp.NewFault(jiki.KindDivisionByZero, map[string]any{"operator": lexeme})
		}
		return round5(x / y), nil
	case ast.OpMod:
		if y == 0 {
			return nil, interp.NewFault(jiki.KindDivisionByZero, map[string]any{"operator": lexeme})
		}
		return jiki.Number(math.Mod(x, y)), nil
	case ast.OpLess:
		return jiki.Boolean(x < y), nil
	case ast.OpLessEq:
		return jiki.Boolean(x <= y), nil
	case ast.OpGreater:
		return jiki.Boolean(x > y), nil
	case ast.OpGreaterEq:
		return jiki.Boolean(x >= y), nil
	}
	return nil, interp.NewFault(jiki.KindUnsupportedOperation, map[string]any{
		"operator": lexeme,
		"left":     left.Type(),
		"right":    right.Type(),
	})
}

func checkComparable(left, right jiki.Value) *interp.Fault {
	_, lo := left.(*jiki.Object)
	_, ro := right.(*jiki.Object)
	if lo || ro {
		return interp.NewFault(jiki.KindCannotCompareObjectInstances, nil)
	}
	_, ll := left.(*jiki.List)
	_, rl := right.(*jiki.List)
	if ll && rl {
		return interp.NewFault(jiki.KindCannotCompareListObjects, nil)
	}
	return nil
}

func mustBeNumber(lexeme string, v jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindOperandMustBeNumber, map[string]any{"operator": lexeme, "value": format(v, false)})
}

func (*Language) Unary(op ast.Operator, lexeme string, v jiki.Value, f *jiki.Features) (jiki.Value, *interp.Fault) {
	if op == ast.OpNot {
		b, ok := v.(jiki.Boolean)
		if !ok {
			return nil, interp.NewFault(jiki.KindOperandMustBeBoolean, map[string]any{"operator": lexeme, "value": format(v, false)})
		}
		return !b, nil
	}
	n, ok := v.(jiki.Number)
	if !ok {
		return nil, mustBeNumber(lexeme, v)
	}
	if op == ast.OpNeg {
		return -n, nil
	}
	return n, nil
}

// Truthy only accepts booleans; there is no truthiness in JikiScript.
func (*Language) Truthy(v jiki.Value, f *jiki.Features) (bool, *interp.Fault) {
	b, ok := v.(jiki.Boolean)
	if !ok {
		return false, interp.NewFault(jiki.KindOperandMustBeBoolean, map[string]any{"value": format(v, false)})
	}
	return bool(b), nil
}

// position converts a 1-based index into a slice offset.
func position(index jiki.Value, dataType string, length int) (int, *interp.Fault) {
	n, ok := index.(jiki.Number)
	if !ok || !n.IsInteger() {
		return 0, interp.NewFault(jiki.KindIndexMustBeInteger, map[string]any{"index": format(index, false), "dataType": dataType})
	}
	i := int(n)
	if i == 0 {
		return 0, interp.NewFault(jiki.KindIndexIsZeroBased, map[string]any{"dataType": dataType})
	}
	if i < 0 || i > length {
		return 0, interp.NewFault(jiki.KindIndexOutOfBounds, map[string]any{"index": i, "dataType": dataType, "length": length})
	}
	return i - 1, nil
}

func (l *Language) GetIndex(obj, index jiki.Value) (jiki.Value, *interp.Fault) {
	switch x := obj.(type) {
	case *jiki.List:
		i, fault := position(index, "list", len(x.Elems))
		if fault != nil {
			return nil, fault
		}
		return x.Elems[i], nil
	case jiki.String:
		runes := []rune(string(x))
		i, fault := position(index, "string", len(runes))
		if fault != nil {
			return nil, fault
		}
		return jiki.String(string(runes[i])), nil
	case *jiki.Dictionary:
		key, fault := l.DictKey(index)
		if fault != nil {
			return nil, fault
		}
		val, ok := x.Get(key)
		if !ok {
			return nil, interp.NewFault(jiki.KindKeyNotFound, map[string]any{"key": key})
		}
		return val, nil
	}
	return nil, interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": obj.Type()})
}

func (l *Language) SetIndex(obj, index, v jiki.Value) *interp.Fault {
	switch x := obj.(type) {
	case *jiki.List:
		i, fault := position(index, "list", len(x.Elems))
		if fault != nil {
			return fault
		}
		x.Elems[i] = v
		return nil
	case *jiki.Dictionary:
		key, fault := l.DictKey(index)
		if fault != nil {
			return fault
		}
		x.Set(key, v)
		return nil
	case jiki.String:
		return interp.NewFault(jiki.KindImmutableValue, map[string]any{"type": "string"})
	}
	return interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": obj.Type()})
}

func (*Language) GetMember(obj jiki.Value, name string) (jiki.Value, *interp.Fault) {
	if name == "length" {
		switch x := obj.(type) {
		case *jiki.List:
			return jiki.Number(len(x.Elems)), nil
		case jiki.String:
			return jiki.Number(len([]rune(string(x)))), nil
		}
	}
	return nil, interp.NewFault(jiki.KindPropertyNotFound, map[string]any{"name": name, "class": obj.Type()})
}

func (*Language) SetMember(obj jiki.Value, name string, v jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindImmutableValue, map[string]any{"type": obj.Type()})
}

// Iterate walks lists and strings with one name, dictionaries with two.
func (*Language) Iterate(v jiki.Value, names int) ([]interp.Item, *interp.Fault) {
	switch x := v.(type) {
	case *jiki.Dictionary:
		if names < 2 {
			return nil, interp.NewFault(jiki.KindMissingForeachSecondElementName, nil)
		}
		items := make([]interp.Item, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			items = append(items, interp.Item{First: jiki.String(k), Second: val})
		}
		return items, nil
	case *jiki.List, jiki.String:
		if names > 1 {
			return nil, interp.NewFault(jiki.KindUnexpectedForeachSecondElementName, map[string]any{"type": v.Type()})
		}
	default:
		return nil, interp.NewFault(jiki.KindNotIterable, map[string]any{"value": format(v, false)})
	}

	var items []interp.Item
	if list, ok := v.(*jiki.List); ok {
		for _, el := range list.Elems {
			items = append(items, interp.Item{First: el})
		}
		return items, nil
	}
	for _, r := range string(v.(jiki.String)) {
		items = append(items, interp.Item{First: jiki.String(string(r))})
	}
	return items, nil
}

func (*Language) DictKey(v jiki.Value) (string, *interp.Fault) {
	if s, ok := v.(jiki.String); ok {
		return string(s), nil
	}
	return "", interp.NewFault(jiki.KindDictionaryKeyMustBeString, map[string]any{"type": v.Type()})
}
