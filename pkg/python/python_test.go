package python

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

func run(t *testing.T, src string, mutate func(*jiki.Features)) interp.Result {
	t.Helper()
	f := jiki.DefaultFeatures()
	if mutate != nil {
		mutate(&f)
	}
	return interp.Interpret(New(), src, interp.Options{Features: &f})
}

func output(r interp.Result) []string {
	lines := []string{}
	for _, l := range r.LogLines {
		lines = append(lines, l.Output)
	}
	return lines
}

func lastError(t *testing.T, r interp.Result) *jiki.Err {
	t.Helper()
	last := r.LastFrame()
	if last == nil || last.Status != interp.StatusError {
		t.Fatalf("expected a terminal error frame, got %+v", last)
	}
	return last.Error
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"arithmetic", "print(1 + 2 * 3)", []string{"7"}},
		{"floor division", "print(7 // 2, -7 // 2)", []string{"3 -4"}},
		{"modulo sign", "print(-7 % 3, 7 % -3)", []string{"2 -2"}},
		{"power binds right", "print(2 ** 3 ** 2)", []string{"512"}},
		{"assignment declares", "x = 1\nx += 2\nprint(x)", []string{"3"}},
		{"for range", "for i in range(3):\n    print(i)", []string{"0", "1", "2"}},
		{"range with step", "print(range(10, 0, -3))", []string{"[10, 7, 4, 1]"}},
		{"while", "n = 0\nwhile n < 3:\n    n += 1\nprint(n)", []string{"3"}},
		{"elif chain", "x = 5\nif x > 10:\n    print(\"big\")\nelif x > 3:\n    print(\"medium\")\nelse:\n    print(\"small\")", []string{"medium"}},
		{"function", "def add(a, b):\n    return a + b\n\nprint(add(2, 3))", []string{"5"}},
		{"recursion", "def fact(n):\n    if n <= 1:\n        return 1\n    return n * fact(n - 1)\n\nprint(fact(5))", []string{"120"}},
		{"list methods", "xs = [1, 2]\nxs.append(3)\nprint(len(xs), xs)", []string{"3 [1, 2, 3]"}},
		{"negative index", "xs = [1, 2, 3]\nprint(xs[-1])", []string{"3"}},
		{"dict", "d = {\"a\": 1}\nd[\"b\"] = 2\nprint(d, d[\"b\"])", []string{"{'a': 1, 'b': 2} 2"}},
		{"dict items", "d = {\"a\": 1, \"b\": 2}\nfor k, v in d.items():\n    print(k, v)", []string{"a 1", "b 2"}},
		{"f-string", "n = 2\nprint(f\"n is {n + 1}\")", []string{"n is 3"}},
		{"repetition both ways", "print('ab' * 3, 3 * 'ab', 2 * [0])", []string{"ababab ababab [0, 0]"}},
		{"string methods", "s = \" Hi \"\nprint(s.strip().upper(), \"-\".join([\"a\", \"b\"]))", []string{"HI a-b"}},
		{"list concat", "print([1] + [2] * 2)", []string{"[1, 2, 2]"}},
		{"none and bools", "print(None, True, not False)", []string{"None True True"}},
		{"builtins", "print(max(3, 9, 4), min([5, 2]), sum([1, 2, 3]), abs(-4))", []string{"9 2 6 4"}},
		{"conversions", "print(str(12) + \"!\", int(\"42\") + 1)", []string{"12! 43"}},
		{"comments", "# header\nx = 1  # trailing\nprint(x)", []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.src, nil)
			if r.Error != nil {
				t.Fatalf("unexpected error: %v", r.Error)
			}
			if r.State != interp.Completed {
				t.Fatalf("expected completed run, got %s: %+v", r.State, r.LastFrame())
			}
			if diff := cmp.Diff(tt.want, output(r)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind jiki.Kind
	}{
		{"missing colon", "if True\n    pass", jiki.KindMissingColon},
		{"missing block", "if True:\npass", jiki.KindMissingIndentedBlock},
		{"unexpected indent", "x = 1\n    y = 2", jiki.KindUnexpectedIndentation},
		{"tab indent", "if True:\n\tpass", jiki.KindIndentationError},
		{"missing condition", "if :\n    pass", jiki.KindMissingIfCondition},
		{"missing in", "for x of xs:\n    pass", jiki.KindMissingInAfterForEachVariable},
		{"elif alone", "elif True:\n    pass", jiki.KindUnexpectedElseWithoutMatchingIf},
		{"unimplemented", "class Foo:\n    pass", jiki.KindUnimplementedToken},
		{"excluded", "global x", jiki.KindPermanentlyExcludedToken},
		{"two statements", "x = 1 y = 2", jiki.KindMissingEndOfLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := interp.Compile(New(), tt.src, interp.Options{})
			if compiled.Success {
				t.Fatalf("expected %s, program compiled", tt.kind)
			}
			if diff := cmp.Diff(tt.kind, compiled.Error.Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind jiki.Kind
	}{
		{"division by zero", "x = 1 / 0", jiki.KindDivisionByZero},
		{"floor division by zero", "x = 1 // 0", jiki.KindDivisionByZero},
		{"missing key", "d = {}\nx = d[\"a\"]", jiki.KindKeyNotFound},
		{"out of bounds", "xs = [1]\nx = xs[5]", jiki.KindIndexOutOfBounds},
		{"string plus number", "x = \"a\" + 1", jiki.KindTypeCoercionNotAllowed},
		{"list plus number", "x = [1] + 1", jiki.KindUnsupportedOperation},
		{"truthiness", "if 1:\n    pass", jiki.KindTruthinessDisabled},
		{"undefined name", "print(y)", jiki.KindVariableNotDeclared},
		{"unknown function", "foo()", jiki.KindFunctionNotFound},
		{"unknown method", "xs = []\nxs.shove(1)", jiki.KindPropertyNotFound},
		{"bad unpack", "for a, b in [1, 2]:\n    pass", jiki.KindUnexpectedForeachSecondElementName},
		{"break outside loop", "break", jiki.KindBreakOutsideLoop},
		{"infinite recursion", "def f():\n    return f()\n\nf()", jiki.KindInfiniteRecursionDetected},
		{"host logic error", "x = [].pop()", jiki.KindLogicErrorInExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.src, nil)
			if diff := cmp.Diff(tt.kind, lastError(t, r).Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruthinessAllowed(t *testing.T) {
	r := run(t, "xs = []\nif not xs:\n    print(\"empty\")", func(f *jiki.Features) { f.AllowTruthiness = true })
	if diff := cmp.Diff([]string{"empty"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeCoercion(t *testing.T) {
	err := lastError(t, run(t, "x = 5 + True", nil))
	if err.Kind != jiki.KindTypeCoercionNotAllowed {
		t.Fatalf("expected TypeCoercionNotAllowed, got %s", err.Kind)
	}
	want := map[string]any{"operator": "+", "left": "number", "right": "boolean"}
	if diff := cmp.Diff(want, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}

	coerce := func(f *jiki.Features) { f.AllowTypeCoercion = true }
	r := run(t, "print(5 + True)\nprint(False * 3)", coerce)
	if diff := cmp.Diff([]string{"6", "0"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	// strings stay strict even with coercion on
	err = lastError(t, run(t, "x = \"a\" + 1", coerce))
	if err.Kind != jiki.KindTypeCoercionNotAllowed {
		t.Errorf("expected TypeCoercionNotAllowed, got %s", err.Kind)
	}

	r = run(t, "print(3 * 'ab')", nil)
	if diff := cmp.Diff([]string{"ababab"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeRespectsLoopLimit(t *testing.T) {
	r := run(t, "for i in range(50):\n    pass", func(f *jiki.Features) { f.MaxTotalLoopIterations = 10 })
	err := lastError(t, r)
	if err.Kind != jiki.KindMaxIterationsReached {
		t.Fatalf("expected MaxIterationsReached, got %s", err.Kind)
	}
	if diff := cmp.Diff(map[string]any{"max": 10}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestDivisionByZeroContext(t *testing.T) {
	err := lastError(t, run(t, "x = 4 % 0", nil))
	if diff := cmp.Diff(map[string]any{"operator": "%"}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestAllowedStdlibFunctions(t *testing.T) {
	r := run(t, "print(len([1]))", func(f *jiki.Features) { f.AllowedStdlibFunctions = []string{"print"} })
	if diff := cmp.Diff(jiki.KindFunctionNotFound, lastError(t, r).Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	d := jiki.NewDictionary()
	d.Set("k", jiki.NewList(jiki.String("v"), jiki.None{}, jiki.Boolean(false)))
	tests := []struct {
		val  jiki.Value
		want string
	}{
		{jiki.String("plain"), "plain"},
		{jiki.Number(2.5), "2.5"},
		{jiki.None{}, "None"},
		{d, "{'k': ['v', None, False]}"},
	}
	lang := New()
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, lang.Format(tt.val)); diff != "" {
			t.Errorf("format mismatch (-want +got):\n%s", diff)
		}
	}
}
