// Package javascript is the JavaScript-like guest: a strict subset of
// JavaScript with let/const, functions, arrays, objects and template
// literals.
package javascript

import (
	"math"
	"strconv"
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

// Language implements interp.Language for JavaScript.
type Language struct{}

var undefined = jiki.None{Undefined: true}

func New() *Language { return &Language{} }

func (*Language) Name() string { return "javascript" }

func (*Language) Tokenize(source string, f jiki.Features) ([]token.Token, error) {
	return Tokenize(source, f)
}

func (*Language) Parse(source string, f jiki.Features) (*ast.Program, error) {
	return Parse(source, f)
}

func (*Language) Rules() interp.Rules {
	return interp.Rules{
		BlockScopes:         true,
		FunctionsSeeGlobals: true,
		FunctionsAreValues:  true,
		HoistFunctions:      true,
		CheckShadowing:      true,
		MaxCallDepth:        500,
		Undefined:           undefined,
	}
}

// Format prints a value the way console.log does.
func (*Language) Format(v jiki.Value) string {
	return format(v, true)
}

func format(v jiki.Value, top bool) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case jiki.String:
		if top {
			return string(x)
		}
		return x.Quoted('\'')
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
			parts = append(parts, k+": "+format(val, false))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return v.String()
}

// typeName is the type shown in error messages.
func typeName(v jiki.Value) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case jiki.None:
		return x.String()
	case *jiki.List:
		return "array"
	case *jiki.Dictionary:
		return "object"
	}
	return v.Type()
}

func coercionFault(lexeme string, left, right jiki.Value) *interp.Fault {
	return interp.NewFault(jiki.KindTypeCoercionNotAllowed, map[string]any{
		"operator": lexeme,
		"left":     typeName(left),
		"right":    typeName(right),
	})
}

func toNumber(v jiki.Value) float64 {
	switch x := v.(type) {
	case jiki.Number:
		return float64(x)
	case jiki.Boolean:
		if x {
			return 1
		}
		return 0
	case jiki.String:
		s := strings.TrimSpace(string(x))
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	case jiki.None:
		if !x.Undefined {
			return 0
		}
	}
	return math.NaN()
}

func (*Language) Binary(op ast.Operator, lexeme string, left, right jiki.Value, f *jiki.Features) (jiki.Value, *interp.Fault) {
	switch op {
	case ast.OpStrictEq:
		return jiki.Boolean(strictEquals(left, right)), nil
	case ast.OpStrictNotEq:
		return jiki.Boolean(!strictEquals(left, right)), nil
	case ast.OpEq, ast.OpNotEq:
		if f.EnforceStrictEquality {
			return nil, interp.NewFault(jiki.KindStrictEqualityRequired, map[string]any{
				"operator": lexeme,
				"expected": lexeme + "=",
			})
		}
		eq := looseEquals(left, right)
		if op == ast.OpNotEq {
			eq = !eq
		}
		return jiki.Boolean(eq), nil
	}

	ln, lnum := left.(jiki.Number)
	rn, rnum := right.(jiki.Number)
	ls, lstr := left.(jiki.String)
	rs, rstr := right.(jiki.String)

	switch op {
	case ast.OpAdd:
		switch {
		case lnum && rnum:
			return ln + rn, nil
		case lstr && rstr:
			return ls + rs, nil
		case !f.AllowTypeCoercion:
			return nil, coercionFault(lexeme, left, right)
		case lstr || rstr:
			return jiki.String(format(left, true) + format(right, true)), nil
		}
		return jiki.Number(toNumber(left) + toNumber(right)), nil
	case ast.OpMul:
		switch {
		case lnum && rnum:
			return ln * rn, nil
		case lstr && rnum:
			return repeat(ls, rn)
		case lnum && rstr:
			return repeat(rs, ln)
		}
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		if lstr && rstr {
			return jiki.Boolean(compare(op, strings.Compare(string(ls), string(rs)))), nil
		}
		if !(lnum && rnum) && !f.AllowTypeCoercion {
			return nil, coercionFault(lexeme, left, right)
		}
		a, b := toNumber(left), toNumber(right)
		if math.IsNaN(a) || math.IsNaN(b) {
			return jiki.Boolean(false), nil
		}
		c := 0
		if a < b {
			c = -1
		} else if a > b {
			c = 1
		}
		return jiki.Boolean(compare(op, c)), nil
	}

	if !(lnum && rnum) && !f.AllowTypeCoercion {
		return nil, coercionFault(lexeme, left, right)
	}
	a, b := toNumber(left), toNumber(right)
	switch op {
	case ast.OpMul:
		return jiki.Number(a * b), nil
	case ast.OpSub:
		return jiki.Number(a - b), nil
	case ast.OpDiv:
		return jiki.Number(a / b), nil
	case ast.OpMod:
		return jiki.Number(math.Mod(a, b)), nil
	case ast.OpPow:
		return jiki.Number(math.Pow(a, b)), nil
	}
	return nil, interp.NewFault(jiki.KindUnsupportedOperation, map[string]any{
		"operator": lexeme,
		"left":     typeName(left),
		"right":    typeName(right),
	})
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

func repeat(s jiki.String, n jiki.Number) (jiki.Value, *interp.Fault) {
	if n < 0 || !n.IsInteger() {
		return nil, interp.NewFault(jiki.KindUnsupportedOperation, map[string]any{
			"operator": "*",
			"left":     "string",
			"right":    "number " + n.String(),
		})
	}
	return jiki.String(strings.Repeat(string(s), int(n))), nil
}

// strictEquals is ===. Arrays and objects compare by reference.
func strictEquals(a, b jiki.Value) bool {
	switch x := a.(type) {
	case *jiki.List:
		y, ok := b.(*jiki.List)
		return ok && x == y
	case *jiki.Dictionary:
		y, ok := b.(*jiki.Dictionary)
		return ok && x == y
	case jiki.Number:
		y, ok := b.(jiki.Number)
		return ok && x == y
	}
	return a.Equals(b)
}

func looseEquals(a, b jiki.Value) bool {
	_, an := a.(jiki.None)
	_, bn := b.(jiki.None)
	switch {
	case an || bn:
		return an && bn
	case a.Type() == b.Type():
		return strictEquals(a, b)
	}
	switch a.(type) {
	case jiki.Number, jiki.String, jiki.Boolean:
		switch b.(type) {
		case jiki.Number, jiki.String, jiki.Boolean:
			return toNumber(a) == toNumber(b)
		}
	}
	return false
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
		if !f.AllowTypeCoercion {
			return nil, interp.NewFault(jiki.KindOperandMustBeNumber, map[string]any{"operator": lexeme, "value": format(v, false)})
		}
		n = jiki.Number(toNumber(v))
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
		return false, interp.NewFault(jiki.KindTruthinessDisabled, map[string]any{"value": format(v, false)})
	}
	switch x := v.(type) {
	case nil, jiki.None:
		return false, nil
	case jiki.Number:
		return x != 0 && !math.IsNaN(float64(x)), nil
	case jiki.String:
		return x != "", nil
	}
	return true, nil
}

// listIndex validates an integer index into a sequence of the given length.
func listIndex(index jiki.Value, dataType string, length int) (int, *interp.Fault) {
	n, ok := index.(jiki.Number)
	if !ok || !n.IsInteger() {
		return 0, interp.NewFault(jiki.KindIndexMustBeInteger, map[string]any{"index": format(index, false), "dataType": dataType})
	}
	if n < 0 || int(n) >= length {
		return 0, interp.NewFault(jiki.KindIndexOutOfBounds, map[string]any{"index": int(n), "dataType": dataType, "length": length})
	}
	return int(n), nil
}

func (l *Language) GetIndex(obj, index jiki.Value) (jiki.Value, *interp.Fault) {
	switch x := obj.(type) {
	case *jiki.List:
		i, fault := listIndex(index, "array", len(x.Elems))
		if fault != nil {
			return nil, fault
		}
		return x.Elems[i], nil
	case jiki.String:
		runes := []rune(string(x))
		i, fault := listIndex(index, "string", len(runes))
		if fault != nil {
			return nil, fault
		}
		return jiki.String(string(runes[i])), nil
	case *jiki.Dictionary:
		key, fault := l.DictKey(index)
		if fault != nil {
			return nil, fault
		}
		if val, ok := x.Get(key); ok {
			return val, nil
		}
		return undefined, nil
	}
	return nil, interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": typeName(obj)})
}

func (l *Language) SetIndex(obj, index, v jiki.Value) *interp.Fault {
	switch x := obj.(type) {
	case *jiki.List:
		if n, ok := index.(jiki.Number); ok && int(n) == len(x.Elems) && n.IsInteger() {
			x.Elems = append(x.Elems, v)
			return nil
		}
		i, fault := listIndex(index, "array", len(x.Elems))
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
	return interp.NewFault(jiki.KindNotIndexable, map[string]any{"type": typeName(obj)})
}

func (*Language) GetMember(obj jiki.Value, name string) (jiki.Value, *interp.Fault) {
	switch x := obj.(type) {
	case *jiki.Dictionary:
		if val, ok := x.Get(name); ok {
			return val, nil
		}
		return undefined, nil
	case *jiki.List:
		if val, ok := arrayMember(x, name); ok {
			return val, nil
		}
	case jiki.String:
		if val, ok := stringMember(x, name); ok {
			return val, nil
		}
	}
	return nil, interp.NewFault(jiki.KindPropertyNotFound, map[string]any{"name": name, "class": typeName(obj)})
}

func (*Language) SetMember(obj jiki.Value, name string, v jiki.Value) *interp.Fault {
	if d, ok := obj.(*jiki.Dictionary); ok {
		d.Set(name, v)
		return nil
	}
	return interp.NewFault(jiki.KindImmutableValue, map[string]any{"type": typeName(obj)})
}

func (*Language) Iterate(v jiki.Value, names int) ([]interp.Item, *interp.Fault) {
	if names > 1 {
		return nil, interp.NewFault(jiki.KindUnexpectedForeachSecondElementName, map[string]any{"type": typeName(v)})
	}
	switch x := v.(type) {
	case *jiki.List:
		items := make([]interp.Item, len(x.Elems))
		for i, el := range x.Elems {
			items[i] = interp.Item{First: el}
		}
		return items, nil
	case jiki.String:
		var items []interp.Item
		for _, r := range string(x) {
			items = append(items, interp.Item{First: jiki.String(string(r))})
		}
		return items, nil
	}
	return nil, interp.NewFault(jiki.KindNotIterable, map[string]any{"value": format(v, false)})
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
