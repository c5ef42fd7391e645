package javascript

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

func run(t *testing.T, src string, mutate func(*jiki.Features), opts ...func(*interp.Options)) interp.Result {
	t.Helper()
	f := jiki.DefaultFeatures()
	if mutate != nil {
		mutate(&f)
	}
	o := interp.Options{Features: &f}
	for _, opt := range opts {
		opt(&o)
	}
	return interp.Interpret(New(), src, o)
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
		{"arithmetic", "console.log(1 + 2 * 3)", []string{"7"}},
		{"string repetition", "let s = \"ab\" * 3\nconsole.log(s)", []string{"ababab"}},
		{"template literal", "let n = 2\nconsole.log(`n is ${n + 1}`)", []string{"n is 3"}},
		{"c style for", "for (let i = 0; i < 3; i++) {\n  console.log(i)\n}", []string{"0", "1", "2"}},
		{"for of", "for (const x of [1, 2]) { console.log(x * 10) }", []string{"10", "20"}},
		{"while with break", "let i = 0\nwhile (true) {\n  i++\n  if (i === 3) {\n    break\n  }\n}\nconsole.log(i)", []string{"3"}},
		{"continue", "for (let i = 0; i < 4; i++) {\n  if (i % 2 === 0) {\n    continue\n  }\n  console.log(i)\n}", []string{"1", "3"}},
		{"repeat", "let c = 0\nrepeat (3) {\n  c++\n}\nconsole.log(c)", []string{"3"}},
		{"recursion", "function fib(n) {\n  if (n < 2) {\n    return n\n  }\n  return fib(n - 1) + fib(n - 2)\n}\nconsole.log(fib(10))", []string{"55"}},
		{"hoisting", "console.log(twice(4))\nfunction twice(x) {\n  return x * 2\n}", []string{"8"}},
		{"array methods", "let a = [1, 2]\na.push(3)\nconsole.log(a.length, a)", []string{"3 [ 1, 2, 3 ]"}},
		{"object members", "let o = { name: \"x\", n: 1 }\no.n += 2\nconsole.log(o.n, o)", []string{"3 { name: 'x', n: 3 }"}},
		{"index assignment", "let a = [1, 2, 3]\na[1] = 5\nconsole.log(a[1])", []string{"5"}},
		{"else if chain", "let x = 5\nif (x > 10) {\n  console.log(\"big\")\n} else if (x > 3) {\n  console.log(\"medium\")\n} else {\n  console.log(\"small\")\n}", []string{"medium"}},
		{"math", "console.log(Math.max(1, 5, 3), Math.floor(2.7))", []string{"5 2"}},
		{"string methods", "let s = \"Hello\"\nconsole.log(s.toUpperCase(), s.length)", []string{"HELLO 5"}},
		{"closures see globals", "let base = 10\nfunction add(x) {\n  return base + x\n}\nconsole.log(add(5))", []string{"15"}},
		{"semicolons", "let a = 1;\nlet b = 2;\nconsole.log(a + b);", []string{"3"}},
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
		{"const without value", "const x", jiki.KindMissingInitializerInConstDeclaration},
		{"trailing comma in array", "let x = [1, 2,];", jiki.KindTrailingCommaInList},
		{"trailing comma in object", "let x = {a: 1,};", jiki.KindTrailingCommaInDictionary},
		{"miscapitalized", "Let x = 1", jiki.KindMiscapitalizedKeyword},
		{"missing paren", "if x > 1 {\n}", jiki.KindMissingLeftParenthesisAfterKeyword},
		{"assignment in condition", "if (x = 5) {\n}", jiki.KindMissingRightParenthesisAfterExpressionWithPotentialTypo},
		{"missing brace", "while (true)\n  x++", jiki.KindMissingLeftBraceToStartBlock},
		{"unclosed block", "if (true) {\n  let x = 1\n", jiki.KindMissingRightBraceAfterBlock},
		{"nested function", "if (true) {\n  function f() {\n  }\n}", jiki.KindNestedFunctionDeclaration},
		{"duplicate key", "let o = { a: 1, a: 2 }", jiki.KindDuplicateDictionaryKey},
		{"duplicate parameter", "function f(a, a) {\n}", jiki.KindDuplicateParameterName},
		{"two statements", "let a = 1 let b = 2", jiki.KindMissingEndOfLine},
		{"const in for", "for (const i = 0; i < 3; i++) {\n}", jiki.KindConstInForLoopInit},
		{"space in name", "let my name = 1", jiki.KindUnexpectedSpaceInIdentifier},
		{"numeric name", "let 1x = 1", jiki.KindNumberContainsAlpha},
		{"unimplemented", "let f = x => x", jiki.KindUnimplementedToken},
		{"excluded", "var x = 1", jiki.KindPermanentlyExcludedToken},
		{"bad call", "console.log(1, 2", jiki.KindMissingRightParenthesisAfterFunctionCall},
		{"else alone", "else {\n}", jiki.KindUnexpectedElseWithoutMatchingIf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := interp.Compile(New(), tt.src, interp.Options{})
			if compiled.Success {
				t.Fatalf("expected %s, program compiled", tt.kind)
			}
			if compiled.Error.Category != jiki.ErrSyntax {
				t.Errorf("expected a syntax error, got category %d", compiled.Error.Category)
			}
			if diff := cmp.Diff(tt.kind, compiled.Error.Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStyleFeatures(t *testing.T) {
	semi := jiki.DefaultFeatures()
	semi.RequireSemicolons = true
	compiled := interp.Compile(New(), "let a = 1", interp.Options{Features: &semi})
	if compiled.Success || compiled.Error.Kind != jiki.KindMissingSemicolon {
		t.Errorf("expected MissingSemicolon, got %+v", compiled.Error)
	}

	one := jiki.DefaultFeatures()
	one.OneStatementPerLine = true
	compiled = interp.Compile(New(), "let a = 1; let b = 2", interp.Options{Features: &one})
	if compiled.Success || compiled.Error.Kind != jiki.KindMultipleStatementsPerLine {
		t.Errorf("expected MultipleStatementsPerLine, got %+v", compiled.Error)
	}
}

func TestEmptyAllowedNodesRejectsEverything(t *testing.T) {
	r := run(t, "5", func(f *jiki.Features) { f.AllowedNodes = []string{} })
	if r.Success || r.Error == nil {
		t.Fatalf("expected a compile error, got success")
	}
	if r.Error.Category != jiki.ErrSyntax {
		t.Errorf("expected a syntax error, got %+v", r.Error)
	}
	if diff := cmp.Diff(jiki.Kind("ExpressionStatementNotAllowed"), r.Error.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
	if len(r.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(r.Frames))
	}
}

func TestAllowedNodesPermitsListed(t *testing.T) {
	r := run(t, "5", func(f *jiki.Features) {
		f.AllowedNodes = []string{"ExpressionStatement", "LiteralExpression"}
	})
	if !r.Success || len(r.Frames) != 1 {
		t.Fatalf("expected one frame, got %+v", r)
	}
}

func TestTypeCoercion(t *testing.T) {
	r := run(t, "let x = 5 + true", nil)
	err := lastError(t, r)
	if diff := cmp.Diff(jiki.KindTypeCoercionNotAllowed, err.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"operator": "+", "left": "number", "right": "boolean"}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
	if !r.Success || r.State != interp.Errored {
		t.Errorf("runtime errors keep Success and set Errored, got %v %s", r.Success, r.State)
	}

	r = run(t, "let x = 5 + true", func(f *jiki.Features) { f.AllowTypeCoercion = true })
	if r.State != interp.Completed {
		t.Fatalf("expected completed run, got %+v", r.LastFrame())
	}
	if diff := cmp.Diff(jiki.Value(jiki.Number(6)), r.LastFrame().Variables["x"]); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind jiki.Kind
	}{
		{"loose equality", "let a = 1 == 1", jiki.KindStrictEqualityRequired},
		{"truthiness", "if (1) {\n}", jiki.KindTruthinessDisabled},
		{"undeclared", "x = 1", jiki.KindVariableNotDeclared},
		{"redeclared", "let x = 1\nlet x = 2", jiki.KindVariableAlreadyDeclared},
		{"shadowing", "let x = 1\nif (true) {\n  let x = 2\n}", jiki.KindShadowingDisabled},
		{"const assignment", "const x = 1\nx = 2", jiki.KindConstAssignment},
		{"out of bounds", "let a = [1]\nlet b = a[3]", jiki.KindIndexOutOfBounds},
		{"unknown function", "foo()", jiki.KindFunctionNotFound},
		{"wrong arity", "function f(a) {\n  return a\n}\nf(1, 2)", jiki.KindInvalidNumberOfArguments},
		{"break outside loop", "break", jiki.KindBreakOutsideLoop},
		{"return outside function", "return 1", jiki.KindReturnOutsideFunction},
		{"not iterable", "for (const x of 5) {\n}", jiki.KindNotIterable},
		{"infinite recursion", "function f() {\n  return f()\n}\nf()", jiki.KindInfiniteRecursionDetected},
		{"negative repeat", "repeat (-1) {\n}", jiki.KindRepeatCountMustBeZeroOrGreater},
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

func TestShadowingAllowed(t *testing.T) {
	r := run(t, "let x = 1\nif (true) {\n  let x = 2\n  console.log(x)\n}\nconsole.log(x)", func(f *jiki.Features) {
		f.AllowShadowing = true
	})
	if diff := cmp.Diff([]string{"2", "1"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestHostFunctionArity(t *testing.T) {
	move := &jiki.HostFunction{
		Name:  "move",
		Arity: jiki.Exactly(2),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return nil, nil
		},
	}
	withMove := func(o *interp.Options) { o.ExternalFunctions = []*jiki.HostFunction{move} }

	r := run(t, "move(1)", nil, withMove)
	err := lastError(t, r)
	if diff := cmp.Diff(jiki.KindInvalidNumberOfArguments, err.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"function": "move", "expected": "2", "got": 1}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}

	r = run(t, "move(1)", func(f *jiki.Features) { f.NativeMode = true }, withMove)
	if r.State != interp.Completed {
		t.Errorf("native mode skips arity checks, got %+v", r.LastFrame())
	}
}

func TestHostLogicError(t *testing.T) {
	guard := &jiki.HostFunction{
		Name:  "turn",
		Arity: jiki.Exactly(0),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return nil, ctx.LogicError("You hit a wall")
		},
	}
	r := run(t, "turn()", nil, func(o *interp.Options) { o.ExternalFunctions = []*jiki.HostFunction{guard} })
	err := lastError(t, r)
	if diff := cmp.Diff(jiki.KindLogicErrorInExecution, err.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopLimit(t *testing.T) {
	r := run(t, "let i = 0\nwhile (true) {\n  i++\n}", func(f *jiki.Features) { f.MaxTotalLoopIterations = 10 })
	errors := 0
	for _, f := range r.Frames {
		if f.Status == interp.StatusError {
			errors++
		}
	}
	if errors != 1 {
		t.Errorf("expected exactly one error frame, got %d", errors)
	}
	err := lastError(t, r)
	if diff := cmp.Diff(map[string]any{"max": 10}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
	if err.Kind != jiki.KindMaxIterationsReached {
		t.Errorf("expected MaxIterationsReached, got %s", err.Kind)
	}
}

func TestRepeatCountTooHigh(t *testing.T) {
	r := run(t, "repeat (50) {\n}", func(f *jiki.Features) { f.MaxTotalLoopIterations = 10 })
	err := lastError(t, r)
	if diff := cmp.Diff(map[string]any{"count": float64(50), "max": 10}, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeIsMonotonic(t *testing.T) {
	r := run(t, "let total = 0\nfor (let i = 0; i < 5; i++) {\n  total += i\n}\nconsole.log(total)", nil)
	var last int64 = -1
	for i, f := range r.Frames {
		if f.Time < last {
			t.Fatalf("frame %d went back in time: %d < %d", i, f.Time, last)
		}
		if f.TimeInMs != float64(f.Time)/1000 {
			t.Errorf("frame %d has inconsistent ms time", i)
		}
		last = f.Time
	}
}

func TestFastForward(t *testing.T) {
	wait := &jiki.HostFunction{
		Name:  "wait",
		Arity: jiki.Exactly(1),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			ctx.FastForward(int64(args[0].(jiki.Number)))
			return nil, nil
		},
	}
	r := run(t, "wait(5)\nlet x = 1", nil, func(o *interp.Options) { o.ExternalFunctions = []*jiki.HostFunction{wait} })
	if len(r.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(r.Frames))
	}
	if r.Frames[1].Time-r.Frames[0].Time < 5000 {
		t.Errorf("expected the clock to move by at least 5000, got %d", r.Frames[1].Time-r.Frames[0].Time)
	}
}

func TestDeterminism(t *testing.T) {
	src := "let xs = []\nfor (let i = 0; i < 3; i++) {\n  xs.push(Math.random())\n}\nconsole.log(xs)"
	seeded := func(o *interp.Options) { o.Seed = 7 }
	a := run(t, src, nil, seeded)
	b := run(t, src, nil, seeded)
	if diff := cmp.Diff(output(a), output(b)); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
	if len(a.Frames) != len(b.Frames) {
		t.Errorf("frame counts differ: %d vs %d", len(a.Frames), len(b.Frames))
	}
}

func TestSnapshotIsolation(t *testing.T) {
	r := run(t, "let a = [1]\na.push(2)\na.push(3)", nil)
	if len(r.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(r.Frames))
	}
	want := []int{1, 2, 3}
	for i, f := range r.Frames {
		list := f.Variables["a"].(*jiki.List)
		if len(list.Elems) != want[i] {
			t.Errorf("frame %d sees %d elements, want %d", i, len(list.Elems), want[i])
		}
	}
}

func TestAddSuccessFramesOff(t *testing.T) {
	r := run(t, "let a = 1\nlet b = a + true", func(f *jiki.Features) { f.AddSuccessFrames = false })
	if len(r.Frames) != 1 || r.Frames[0].Status != interp.StatusError {
		t.Errorf("expected only the error frame, got %+v", r.Frames)
	}
}

func TestEvaluateFunction(t *testing.T) {
	compiled := interp.Compile(New(), "function add(a, b) {\n  return a + b\n}", interp.Options{})
	if !compiled.Success {
		t.Fatal(compiled.Error)
	}
	r := interp.EvaluateFunction(compiled.Program, interp.Options{}, "add", jiki.Number(2), jiki.Number(3))
	if diff := cmp.Diff(jiki.Value(jiki.Number(5)), r.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}

	r = interp.EvaluateFunction(compiled.Program, interp.Options{}, "ad")
	if err := lastError(t, r); err.Kind != jiki.KindFunctionNotFound {
		t.Errorf("expected FunctionNotFound, got %s", err.Kind)
	}
}

func TestFunctionCallLog(t *testing.T) {
	r := run(t, "function sq(x) {\n  return x * x\n}\nsq(2)\nsq(2)\nsq(3)", nil)
	want := map[string]map[string]int{"sq": {"[2]": 2, "[3]": 1}}
	if diff := cmp.Diff(want, r.Meta.FunctionCallLog); diff != "" {
		t.Errorf("call log mismatch (-want +got):\n%s", diff)
	}
}

func TestOracleAgrees(t *testing.T) {
	src := "let xs = [1, 2, 3]\nlet total = 0\nfor (const x of xs) {\n  total += x\n}\nconsole.log(total, xs)"
	r := run(t, src, nil)
	o := &Oracle{}
	diff, err := o.CrossCheck(src, output(r))
	if err != nil {
		t.Fatal(err)
	}
	if diff != "" {
		t.Errorf("reference engine disagrees (-reference +ours):\n%s", diff)
	}
}
