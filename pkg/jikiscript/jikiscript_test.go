package jikiscript

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

func run(t *testing.T, src string, opts interp.Options, mutate func(*jiki.Features)) interp.Result {
	t.Helper()
	f := jiki.DefaultFeatures()
	if mutate != nil {
		mutate(&f)
	}
	opts.Features = &f
	return interp.Interpret(New(), src, opts)
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
	if r.Error != nil {
		t.Fatalf("expected a runtime error, got compile error %v", r.Error)
	}
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
		{"set and log", "set x to 5\nlog x", []string{"5"}},
		{"change", "set x to 1\nchange x to x + 2\nlog x", []string{"3"}},
		{"rounded arithmetic", "log 0.1 + 0.2", []string{"0.3"}},
		{"modulo", "log 7 % 3", []string{"1"}},
		{"repeat indexed", "repeat 3 times indexed by i do\n  log i\nend", []string{"1", "2", "3"}},
		{"for each list", "for each x in [1, 2] do\n  log x\nend", []string{"1", "2"}},
		{"for each dictionary", "for each key, value in {\"a\": 1} do\n  log key\n  log value\nend", []string{"a", "1"}},
		{"one based index", "set xs to [10, 20]\nlog xs[2]", []string{"20"}},
		{"change element", "set xs to [1, 2]\nchange xs[1] to 5\nlog xs", []string{"[ 5, 2 ]"}},
		{"dictionary", "set d to {\"a\": 1}\nchange d[\"b\"] to \"x\"\nlog d", []string{`{ "a": 1, "b": "x" }`}},
		{"else if chain", "set x to 5\nif x > 10 do\n  log \"big\"\nelse if x > 3 do\n  log \"medium\"\nelse do\n  log \"small\"\nend", []string{"medium"}},
		{"is not", "if 1 is not 2 do\n  log true\nend", []string{"true"}},
		{"function", "function add with a, b do\n  return a + b\nend\nlog add(2, 3)", []string{"5"}},
		{"hoisted function", "log double(4)\nfunction double with n do\n  return n * 2\nend", []string{"8"}},
		{"recursion", "function fact with n do\n  if n <= 1 do\n    return 1\n  end\n  return n * fact(n - 1)\nend\nlog fact(5)", []string{"120"}},
		{"while", "set n to 0\nwhile n < 3 do\n  change n to n + 1\nend\nlog n", []string{"3"}},
		{"template", "set n to 2\nlog `n is ${n + 1}`", []string{"n is 3"}},
		{"string length", "set s to \"abc\"\nlog s.length", []string{"3"}},
		{"bare block", "do\n  set x to 1\n  log x\nend", []string{"1"}},
		{"logic", "log true and not false", []string{"true"}},
		{"comments", "// note\nset x to 1 // trailing\nlog x", []string{"1"}},
		{"break", "repeat 5 times indexed by i do\n  if i is 3 do\n    break\n  end\n  log i\nend", []string{"1", "2"}},
		{"nested strings quoted", "log [\"a\", true, null]", []string{`[ "a", true, null ]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.src, interp.Options{}, nil)
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
		{"missing to", "set x 5", jiki.KindMissingToAfterVariableName},
		{"two statements", "set x to 5 log x", jiki.KindMissingEndOfLine},
		{"missing do", "if true\n  log 1\nend", jiki.KindMissingDoToStartBlock},
		{"missing end", "if true do\n  log 1", jiki.KindMissingEndAfterBlock},
		{"nested missing end", "if true do\n  if true do\n    log 1\n  end", jiki.KindMissingEndAfterBlock},
		{"missing condition", "if do\nend", jiki.KindMissingIfCondition},
		{"equals for assignment", "x = 5", jiki.KindUnexpectedEqualsForAssignmentUseSetInstead},
		{"equals for equality", "if x = 5 do\nend", jiki.KindUnexpectedEqualsForEqualityUseIsInstead},
		{"bare identifier", "foo", jiki.KindPotentialMissingParenthesesForFunctionCall},
		{"pointless", "5 + 5", jiki.KindPointlessStatementWithNoEffect},
		{"missing times", "repeat 5 do\nend", jiki.KindMissingTimesInRepeat},
		{"missing each", "for x in [] do\nend", jiki.KindMissingEachAfterFor},
		{"missing second name", "for each k, in {} do\nend", jiki.KindMissingSecondElementName},
		{"missing by", "repeat 3 times indexed do\nend", jiki.KindMissingByAfterIndexed},
		{"missing function name", "function do\nend", jiki.KindMissingFunctionName},
		{"missing with", "function foo a do\nend", jiki.KindMissingWithBeforeParameters},
		{"missing comma", "function foo with a b do\nend", jiki.KindMissingCommaBetweenParameters},
		{"duplicate parameter", "function foo with a, a do\nend", jiki.KindDuplicateParameterName},
		{"nested function", "function foo do\n  function bar do\n  end\nend", jiki.KindNestedFunctionDeclaration},
		{"else alone", "else do\nend", jiki.KindUnexpectedElseWithoutMatchingIf},
		{"trailing comma in list", "log [1, 2,]", jiki.KindTrailingCommaInList},
		{"trailing comma in dictionary", "log {\"a\": 1,}", jiki.KindTrailingCommaInDictionary},
		{"bare dictionary key", "log {a: 1}", jiki.KindInvalidDictionaryKey},
		{"chained equality", "log 1 is 1 is 1", jiki.KindUnexpectedChainedEquality},
		{"miscapitalized", "Set x to 5", jiki.KindMiscapitalizedKeyword},
		{"namespaced variable", "set my#x to 5", jiki.KindVariableCannotBeNamespaced},
		{"unimplemented", "class Foo do\nend", jiki.KindUnimplementedToken},
		{"missing class name", "set x to new ()", jiki.KindMissingClassName},
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
		{"redeclare", "set x to 1\nset x to 2", jiki.KindVariableAlreadyDeclared},
		{"change undeclared", "change y to 1", jiki.KindVariableNotDeclared},
		{"zero index", "set xs to [1]\nlog xs[0]", jiki.KindIndexIsZeroBased},
		{"out of bounds", "set xs to [1]\nlog xs[2]", jiki.KindIndexOutOfBounds},
		{"mixed types", "log 1 + \"a\"", jiki.KindOperandMustBeNumber},
		{"non boolean condition", "if 1 do\nend", jiki.KindOperandMustBeBoolean},
		{"list comparison", "log [1] is [1]", jiki.KindCannotCompareListObjects},
		{"division by zero", "log 1 / 0", jiki.KindDivisionByZero},
		{"missing key", "set d to {}\nlog d[\"a\"]", jiki.KindKeyNotFound},
		{"unknown function", "foo()", jiki.KindFunctionNotFound},
		{"dictionary needs two names", "for each k in {\"a\": 1} do\nend", jiki.KindMissingForeachSecondElementName},
		{"globals hidden from functions", "set x to 1\nfunction f do\n  log x\nend\nf()", jiki.KindVariableNotAccessibleInFunction},
		{"infinite recursion", "function f do\n  return f()\nend\nf()", jiki.KindInfiniteRecursionDetected},
		{"store null", "function f do\n  return\nend\nset x to f()", jiki.KindCannotStoreNullValueFromFunction},
		{"loop variable shadows", "set i to 1\nrepeat 2 times indexed by i do\nend", jiki.KindVariableAlreadyDeclared},
		{"unknown class", "set x to new Ball()", jiki.KindClassNotFound},
		{"huge repeat count", "repeat 100000 * 100000 * 100000 * 100000 times do\nend", jiki.KindRepeatCountTooHigh},
		{"fractional repeat count", "repeat 2.5 times do\nend", jiki.KindRepeatCountMustBeInteger},
		{"negative repeat count", "repeat -1 times do\nend", jiki.KindRepeatCountMustBeZeroOrGreater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.src, interp.Options{}, nil)
			if diff := cmp.Diff(tt.kind, lastError(t, r).Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndexOutOfBoundsContext(t *testing.T) {
	err := lastError(t, run(t, "set s to \"ab\"\nlog s[3]", interp.Options{}, nil))
	want := map[string]any{"index": 3, "dataType": "string", "length": 2}
	if diff := cmp.Diff(want, err.Context); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestHugeRepeatCountIsReported(t *testing.T) {
	r := run(t, "set x to 0\nrepeat 100000 * 100000 * 100000 * 100000 times do\n  change x to x + 1\nend\nlog x", interp.Options{}, nil)
	err := lastError(t, r)
	if err.Kind != jiki.KindRepeatCountTooHigh {
		t.Fatalf("expected RepeatCountTooHigh, got %s", err.Kind)
	}
	if count, _ := err.Context["count"].(float64); count < 1e19 {
		t.Errorf("expected the full count in the context, got %v", err.Context["count"])
	}
	if len(r.LogLines) != 0 {
		t.Errorf("expected the run to stop before logging, got %v", output(r))
	}
}

func TestRepeatFrames(t *testing.T) {
	r := run(t, "set x to 0\nrepeat 5 times do\n  change x to x + 1\nend", interp.Options{}, nil)
	if r.State != interp.Completed {
		t.Fatalf("expected completed run, got %s", r.State)
	}
	if diff := cmp.Diff(11, len(r.Frames)); diff != "" {
		t.Errorf("frame count mismatch (-want +got):\n%s", diff)
	}
}

func TestRepeatForeverIsBounded(t *testing.T) {
	r := run(t, "repeat_forever do\nend", interp.Options{}, func(f *jiki.Features) { f.MaxTotalLoopIterations = 20 })
	if diff := cmp.Diff(jiki.KindMaxIterationsReached, lastError(t, r).Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestStdlibIsOptIn(t *testing.T) {
	src := "log concatenate(\"a\", to_upper_case(\"b\"))"

	r := run(t, src, interp.Options{}, nil)
	if diff := cmp.Diff(jiki.KindFunctionNotFound, lastError(t, r).Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}

	r = run(t, src, interp.Options{}, func(f *jiki.Features) {
		f.AllowedStdlibFunctions = []string{"concatenate", "to_upper_case"}
	})
	if diff := cmp.Diff([]string{"aB"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPushReturnsNewList(t *testing.T) {
	src := "set xs to [1]\nset ys to push(xs, 2)\nlog xs\nlog ys"
	r := run(t, src, interp.Options{}, func(f *jiki.Features) { f.AllowedStdlibFunctions = []string{"push"} })
	if diff := cmp.Diff([]string{"[ 1 ]", "[ 1, 2 ]"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestHostClass(t *testing.T) {
	counter := &jiki.Class{
		Name:  "Counter",
		Arity: jiki.Exactly(0),
		Constructor: func(ctx *jiki.ExecutionContext, this *jiki.Object, args []jiki.Value) error {
			this.Fields.Set("count", jiki.Number(0))
			return nil
		},
		Methods: map[string]*jiki.Method{
			"increment": {
				Name:  "increment",
				Arity: jiki.Exactly(0),
				Func: func(ctx *jiki.ExecutionContext, this *jiki.Object, args []jiki.Value) (jiki.Value, error) {
					n, _ := this.Fields.Get("count")
					this.Fields.Set("count", n.(jiki.Number)+1)
					return nil, nil
				},
			},
		},
	}
	src := "set c to new Counter()\nc.increment()\nc.increment()\nlog c.count"
	r := run(t, src, interp.Options{Classes: []*jiki.Class{counter}}, nil)
	if r.State != interp.Completed {
		t.Fatalf("expected completed run, got %s: %+v", r.State, r.LastFrame())
	}
	if diff := cmp.Diff([]string{"2"}, output(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestExternalFunctionLogicError(t *testing.T) {
	move := &jiki.HostFunction{
		Name:  "move",
		Arity: jiki.Exactly(0),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return nil, ctx.LogicError("You walked into a wall")
		},
	}
	r := run(t, "move()", interp.Options{ExternalFunctions: []*jiki.HostFunction{move}}, nil)
	err := lastError(t, r)
	if diff := cmp.Diff(jiki.KindLogicErrorInExecution, err.Kind); diff != "" {
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
		{jiki.None{}, "null"},
		{jiki.NewList(), "[]"},
		{d, `{ "k": [ "v", null, false ] }`},
	}
	lang := New()
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, lang.Format(tt.val)); diff != "" {
			t.Errorf("format mismatch (-want +got):\n%s", diff)
		}
	}
}
