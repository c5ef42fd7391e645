// Package python is the Python-like guest: indentation-scoped blocks,
// def functions, lists, dictionaries and f-strings.
package python

import (
	"math"
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

// Language implements interp.Language for Python.
type Language struct{}

func New() *Language { return &Language{} }

func (*Language) Name() string { return "python" }

func (*Language) Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return Tokenize(source, f)
}

func (*Language) Parse(source string, f jiki.Features) (*ast.Program, error) {
	return Parse(source, f)
}

func (*Language) Rules() interp.Rules {
	return interp.Rules{
		AssignDeclares:      true,
		FunctionsSeeGlobals: true,
		FunctionsAreValues:  true,
		MaxCallDepth:        500,
		Undefined:           jiki.None{},
	}
}

// Format renders values as print() does; nested strings use repr quoting.
func (*Language) Format(v jiki.Value) string {
	return str(v, true)
}

func str(v jiki.Value, top bool) string {
	switch x := v.(type) {
	case nil, jiki.None:
		return "None"
	case jiki.Boolean:
		if x {
			return "True"
		}
		return "False"
	case jiki.String:
		if top {
			return string(x)
		}
		return x.Quoted('\'')
	case *jiki.List:
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = str(el, false)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *jiki.Dictionary:
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			parts = append(parts, jiki.String(k).Quoted('\'')+": "+str(val, false))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return v.String()
}

// typeName is the Python type of a value.
func typeName(v jiki.Value) string {
	switch x := v.(type) {
	case nil, jiki.None:
		return "NoneType"
	case jiki.Number:
		if x.IsInteger() {
			return "int"
		}
		return "float"
	case jiki.String:
		return "str"
	case jiki.Boolean:
		return "bool"
	case *jiki.List:
		return "list"
	case *jiki.Dictionary:
		return "dict"
	}
	return v.Type()
}

func unsupported(lexeme string, left, right jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindUnsupportedOperation, map[string]any{
		"operator": lexeme,
		"left":     typeName(left),
		"right":    typeName(right),
	})
}

func coercionFault(lexeme string, left, right jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindTypeCoercionNotAllowed, map[string]any{
		"operator": lexeme,
		"left":     genericType(left),
		"right":    genericType(right),
	})
}

func genericType(v jiki.Value) string {
	if v == nil {
		return jiki.None{}.Type()
	}
	return v.Type()
}

// scalar reports whether v takes part in numeric coercion.
func scalar(v jiki.Value) (jiki.Number, bool) {
	switch x := v.(type) {
	case jiki.Number:
		return x, true
	case jiki.Boolean:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// repeat handles sequence * int in either order.
func repeat(op ast.Operator, left, right jiki.Value) (jiki.Value, bool) {
	if op != ast.OpMul {
		return nil, false
	}
	seq, count := left, right
	if _, ok := left.(jiki.Number); ok {
		seq, count = right, left
	}
	n, ok := count.(jiki.Number)
	if !ok || !n.IsInteger() {
		return nil, false
	}
	times := max(int(n), 0)
	switch x := seq.(type) {
	case jiki.String:
		return jiki.String(strings.Repeat(string(x), times)), true
	case *jiki.List:
		elems := make([]jiki.Value, 0, len(x.Elems)*times)
		for i := 0; i < times; i++ {
			elems = append(elems, x.Elems...)
		}
		return jiki.NewList(elems...), true
	}
	return nil, false
}

func (*Language) Binary(op ast.Operator, lexeme string, left, right jiki.Value, f *jiki.Features) (jiki.Value, *interp.Fault) {
	switch op {
	case ast.OpEq:
		return jiki.Boolean(left.Equals(right)), nil
	case ast.OpNotEq:
		return jiki.Boolean(!left.Equals(right)), nil
	}

	ln, lnum := left.(jiki.Number)
	rn, rnum := right.(jiki.Number)
	if lnum && rnum {
		return numericOp(op, lexeme, ln, rn)
	}
	if v, ok := repeat(op, left, right); ok {
		return v, nil
	}

	switch l := left.(type) {
	case jiki.String:
		switch r := right.(type) {
		case jiki.String:
			switch op {
			case ast.OpAdd:
				return l + r, nil
			case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
				return jiki.Boolean(compare(op, strings.Compare(string(l), string(r)))), nil
			}
		case jiki.Number, jiki.Boolean:
			// strings never coerce
			return nil, coercionFault(lexeme, left, right)
		}
	case *jiki.List:
		if r, ok := right.(*jiki.List); ok && op == ast.OpAdd {
			elems := append(append([]jiki.Value{}, l.Elems...), r.Elems...)
			return jiki.NewList(elems...), nil
		}
	}
	if _, ok := right.(jiki.String); ok {
		if _, ok := scalar(left); ok {
			return nil, coercionFault(lexeme, left, right)
		}
	}

	// booleans mixed with numbers
	a, aok := scalar(left)
	b, bok := scalar(right)
	if aok && bok {
		if !f.AllowTypeCoercion {
			return nil, coercionFault(lexeme, left, right)
		}
		return numericOp(op, lexeme, a, b)
	}
	return nil, unsupported(lexeme, left, right)
}

func numericOp(op ast.Operator, lexeme string, a, b jiki.Number) (jiki.Value, *interp.Fault) {
	x, y := float64(a), float64(b)
	switch op {
	case ast.OpAdd:
		return a + b, nil
	case ast.OpSub:
		return a - b, nil
	case ast.OpMul:
		return a * b, nil
	case ast.OpPow:
		return jiki.Number(math.Pow(x, y)), nil
	case ast.OpDiv, ast.OpFloorDiv, ast.OpMod:
		if y == 0 {
			return nil, interp.NewFault(jiki.KindDivisionByZero, map[string]any{"operator": lexeme})
		}
		switch op {
		case ast.OpDiv:
			return jiki.Number(x / y), nil
		case ast.OpFloorDiv:
			return jiki.Number(math.Floor(x / y)), nil
		}
		// the result takes the sign of the divisor
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return jiki.Number(r), nil
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		c := 0
		if x < y {
			c = -1
		} else if x > y {
			c = 1
		}
		return jiki.Boolean(compare(op, c)), nil
	}
	return nil, unsupported(lexeme, a, b)
}

func compare(op ast.Operator, c int) bool {
	switch op {
	case ast.OpLess:
		return c < 0
	case ast.OpLessEq:
		return c <= 0
	case ast.OpGreater:
		return c > 0
	}
	return c >= 0
}

func (l *Language) Unary(op ast.Operator, lexeme string, v jiki.Value, f *jiki.Features) (jiki.Value, *interp.Fault) {
	if op == ast.OpNot {
		truth, fault := l.Truthy(v, f)
		if fault != nil {
			return nil, fault
		}
		return jiki.Boolean(!truth), nil
	}
	n, ok := v.(jiki.Number)
	if !ok {
		return nil, interp.NewFault(jiki.KindOperandMustBeNumber, map[string]any{"operator": lexeme, "value": str(v, false)})
	}
	if op == ast.OpNeg {
		return -n, nil
	}
	return n, nil
}

func (*Language) Truthy(v jiki.Value, f *jiki.Features) (bool, *interp.Fault) {
	if b, ok := v.(jiki.Boolean); ok {
		return bool(b), nil
	}
	if !f.AllowTruthiness {
		return false, interp.NewFault(jiki.KindTruthinessDisabled, map[string]any{"value": str(v, false)})
	}
	switch x := v.(type) {
	case nil, jiki.None:
		return false, nil
	case jiki.Number:
		return x != 0, nil
	case jiki.String:
		return x != "", nil
	case *jiki.List:
		return len(x.Elems) > 0, nil
	case *jiki.Dictionary:
		return x.Len() > 0, nil
	}
	return true, nil
}

// position resolves a possibly negative index.
func position(index jiki.Value, dataType string, length int) (int, *interp.Fault) {
	n, ok := index.(jiki.Number)
	if !ok || !n.IsInteger() {
		return 0, interp.NewFault(jiki.KindIndexMustBeInteger, map[string]any{"index": str(index, false), "dataType": dataType})
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, interp.NewFault(jiki.KindIndexOutOfBounds, map[string]any{"index": int(n), "dataType": dataType, "length": length})
	}
	return i, nil
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
		i, fault := position(index, "str", len(runes))
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
			return nil, interp.NewFault(jiki.KindKeyNotFound, map[string]any{"key": str(index, false)})
		}
		return val, nil
	}
	return nil, interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": typeName(obj)})
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
		return interp.NewFault(jiki.KindImmutableValue, map[string]any{"type": "str"})
	}
	return interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": typeName(obj)})
}

func (*Language) GetMember(obj jiki.Value, name string) (jiki.Value, *interp.Fault) {
	var val jiki.Value
	switch x := obj.(type) {
	case *jiki.List:
		val = listMethod(x, name)
	case jiki.String:
		val = strMethod(x, name)
	case *jiki.Dictionary:
		val = dictMethod(x, name)
	}
	if val == nil {
		return nil, interp.NewFault(jiki.KindPropertyNotFound, map[string]any{"name": name, "class": typeName(obj)})
	}
	return val, nil
}

func (*Language) SetMember(obj jiki.Value, name string, v jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindImmutableValue, map[string]any{"type": typeName(obj)})
}

func (*Language) Iterate(v jiki.Value, names int) ([]interp.Item, *interp.Fault) {
	var elems []jiki.Value
	switch x := v.(type) {
	case *jiki.List:
		elems = x.Elems
	case jiki.String:
		for _, r := range string(x) {
			elems = append(elems, jiki.String(string(r)))
		}
	case *jiki.Dictionary:
		for _, k := range x.Keys() {
			elems = append(elems, jiki.String(k))
		}
	default:
		return nil, interp.NewFault(jiki.KindNotIterable, map[string]any{"value": str(v, false)})
	}

	items := make([]interp.Item, len(elems))
	for i, el := range elems {
		if names < 2 {
			items[i] = interp.Item{First: el}
			continue
		}
		pair, ok := el.(*jiki.List)
		if !ok || len(pair.Elems) != 2 {
			return nil, interp.NewFault(jiki.KindUnexpectedForeachSecondElementName, map[string]any{"type": typeName(el)})
		}
		items[i] = interp.Item{First: pair.Elems[0], Second: pair.Elems[1]}
	}
	return items, nil
}

func (*Language) DictKey(v jiki.Value) (string, *interp.Fault) {
	switch x := v.(type) {
	case jiki.String:
		return string(x), nil
	case jiki.Number:
		return x.String(), nil
	}
	return "", interp.NewFault(jiki.KindDictionaryKeyMustBeString, map[string]any{"type": typeName(v)})
}
