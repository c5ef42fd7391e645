package interp_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/javascript"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/jikiscript"
)

func logs(r interp.Result) []string {
	lines := []string{}
	for _, l := range r.LogLines {
		lines = append(lines, l.Output)
	}
	return lines
}

func compile(t *testing.T, lang interp.Language, src string) *interp.Program {
	t.Helper()
	compiled := interp.Compile(lang, src, interp.Options{})
	if !compiled.Success {
		t.Fatalf("compile failed: %v", compiled.Error)
	}
	return compiled.Program
}

func TestProgramRunsRepeatedly(t *testing.T) {
	prog := compile(t, jikiscript.New(), "set xs to [1]\nchange xs[1] to 2\nlog xs")
	for i := 0; i < 2; i++ {
		r := interp.Run(prog, interp.Options{})
		if diff := cmp.Diff([]string{"[ 2 ]"}, logs(r)); diff != "" {
			t.Errorf("run %d output mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEvaluateFunction(t *testing.T) {
	prog := compile(t, jikiscript.New(), "function add with a, b do\n  return a + b\nend")
	r := interp.EvaluateFunction(prog, interp.Options{}, "add", jiki.Number(2), jiki.Number(3))
	if r.State != interp.Completed {
		t.Fatalf("expected completed run, got %s: %+v", r.State, r.LastFrame())
	}
	if diff := cmp.Diff(jiki.Value(jiki.Number(5)), r.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestFrames(t *testing.T) {
	r := interp.Interpret(jikiscript.New(), "set x to 5\nlog \"hi\"", interp.Options{})
	if len(r.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(r.Frames))
	}

	descriptions := []string{r.Frames[0].Description(), r.Frames[1].Description()}
	want := []string{"Created a variable called x with the value 5.", `Logged "hi".`}
	if diff := cmp.Diff(want, descriptions); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]int64{0, 1}, []int64{r.Frames[0].Time, r.Frames[1].Time}); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
	wantVars := map[string]jiki.Value{"x": jiki.Number(5)}
	if diff := cmp.Diff(wantVars, r.Frames[1].Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, []int{r.Frames[0].Line, r.Frames[1].Line}); diff != "" {
		t.Errorf("line mismatch (-want +got):\n%s", diff)
	}
}

func TestSuccessFramesCanBeDisabled(t *testing.T) {
	f := jiki.DefaultFeatures()
	f.AddSuccessFrames = false
	r := interp.Interpret(jikiscript.New(), "set x to 1\nchange y to 2", interp.Options{Features: &f})
	if len(r.Frames) != 1 || r.Frames[0].Status != interp.StatusError {
		t.Fatalf("expected only the error frame, got %+v", r.Frames)
	}
}

func TestHostArgumentsAreCopied(t *testing.T) {
	mutate := &jiki.HostFunction{
		Name:  "mutate",
		Arity: jiki.Exactly(1),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			args[0].(*jiki.List).Elems[0] = jiki.Number(99)
			return nil, nil
		},
	}
	r := interp.Interpret(jikiscript.New(), "set xs to [1]\nmutate(xs)\nlog xs",
		interp.Options{ExternalFunctions: []*jiki.HostFunction{mutate}})
	if diff := cmp.Diff([]string{"[ 1 ]"}, logs(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionCallLog(t *testing.T) {
	src := "function f with n do\n  return n\nend\nset a to f(1)\nset b to f(1)\nset c to f(2)"
	r := interp.Interpret(jikiscript.New(), src, interp.Options{})
	want := map[string]int{"[1]": 2, "[2]": 1}
	if diff := cmp.Diff(want, r.Meta.FunctionCallLog["f"]); diff != "" {
		t.Errorf("call log mismatch (-want +got):\n%s", diff)
	}
}

func TestFinishExercise(t *testing.T) {
	finish := &jiki.HostFunction{
		Name:  "finish",
		Arity: jiki.Exactly(0),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			ctx.FinishExercise()
			return nil, nil
		},
	}
	opts := interp.Options{ExternalFunctions: []*jiki.HostFunction{finish}}

	r := interp.Interpret(jikiscript.New(), "repeat_until_game_over do\n  finish()\nend\nlog \"done\"", opts)
	if diff := cmp.Diff([]string{"done"}, logs(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	f := jiki.DefaultFeatures()
	f.MaxRepeatUntilGameOverIterations = 3
	opts.Features = &f
	r = interp.Interpret(jikiscript.New(), "repeat_until_game_over do\nend", opts)
	last := r.LastFrame()
	if last == nil || last.Error == nil || last.Error.Kind != jiki.KindMaxIterationsReached {
		t.Fatalf("expected MaxIterationsReached, got %+v", last)
	}
}

func TestHostCallsGuestFunction(t *testing.T) {
	apply := &jiki.HostFunction{
		Name:  "apply",
		Arity: jiki.Exactly(2),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			return ctx.Call(args[0], args[1:])
		},
	}
	src := "function double(n) {\n  return n * 2\n}\nconsole.log(apply(double, 4))"
	r := interp.Interpret(javascript.New(), src, interp.Options{ExternalFunctions: []*jiki.HostFunction{apply}})
	if diff := cmp.Diff([]string{"8"}, logs(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestAllowedNodes(t *testing.T) {
	f := jiki.DefaultFeatures()
	f.AllowedNodes = []string{"SetVariableStatement", "LiteralExpression"}
	compiled := interp.Compile(jikiscript.New(), "set x to 1\nlog x", interp.Options{Features: &f})
	if compiled.Success {
		t.Fatal("expected the log statement to be rejected")
	}
	if diff := cmp.Diff(jiki.Kind("LogStatementNotAllowed"), compiled.Error.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestHostPanicIsContained(t *testing.T) {
	boom := &jiki.HostFunction{
		Name:  "boom",
		Arity: jiki.Exactly(0),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			panic("host bug")
		},
	}
	r := interp.Interpret(jikiscript.New(), "boom()", interp.Options{ExternalFunctions: []*jiki.HostFunction{boom}})
	if r.State != interp.Errored {
		t.Fatalf("expected errored state, got %s", r.State)
	}
	if r.Error == nil || r.Error.Kind != jiki.KindInternalError {
		t.Fatalf("expected an internal error, got %v", r.Error)
	}
}

func TestErrorFrameSeesRaisingScope(t *testing.T) {
	tests := []struct {
		name string
		lang interp.Language
		src  string
		line int
		want map[string]jiki.Value
	}{
		{
			"javascript",
			javascript.New(),
			"let g = 1;\nfunction f(a) {\n  let local = 2;\n  return local + true;\n}\nf(3);",
			4,
			map[string]jiki.Value{"g": jiki.Number(1), "a": jiki.Number(3), "local": jiki.Number(2)},
		},
		{
			"jikiscript",
			jikiscript.New(),
			"function f with a do\n  set local to 2\n  log local + true\nend\nf(3)",
			3,
			map[string]jiki.Value{"a": jiki.Number(3), "local": jiki.Number(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := interp.Interpret(tt.lang, tt.src, interp.Options{})
			last := r.LastFrame()
			if last == nil || last.Status != interp.StatusError {
				t.Fatalf("expected a terminal error frame, got %+v", last)
			}
			if last.Line != tt.line {
				t.Errorf("expected the error on line %d, got %d", tt.line, last.Line)
			}
			if diff := cmp.Diff(tt.want, last.Variables); diff != "" {
				t.Errorf("variables mismatch (-want +got):\n%s", diff)
			}
			count := 0
			for _, f := range r.Frames {
				if f.Status == interp.StatusError {
					count++
				}
			}
			if count != 1 {
				t.Errorf("expected exactly one error frame, got %d", count)
			}
		})
	}
}

func TestHandledCallbackErrorLeavesNoFrame(t *testing.T) {
	attempt := &jiki.HostFunction{
		Name:  "attempt",
		Arity: jiki.Exactly(1),
		Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
			if _, err := ctx.Call(args[0], nil); err != nil {
				return jiki.String("caught"), nil
			}
			return jiki.String("fine"), nil
		},
	}
	src := "function bad() {\n  return 1 + true;\n}\nconsole.log(attempt(bad));"
	r := interp.Interpret(javascript.New(), src, interp.Options{ExternalFunctions: []*jiki.HostFunction{attempt}})
	if diff := cmp.Diff([]string{"caught"}, logs(r)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	for _, f := range r.Frames {
		if f.Status == interp.StatusError {
			t.Errorf("unexpected error frame: %s", f.Error.Kind)
		}
	}
}

func TestFrameDescriptionsReadConcurrently(t *testing.T) {
	r := interp.Interpret(jikiscript.New(), "set x to 5\nchange x to 6", interp.Options{})
	want := []string{"Created a variable called x with the value 5.", r.Frames[1].Description()}

	var wg sync.WaitGroup
	got := make([][]string, 4)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range r.Frames {
				got[i] = append(got[i], r.Frames[j].Description())
			}
		}(i)
	}
	wg.Wait()

	for _, descriptions := range got {
		if diff := cmp.Diff(want, descriptions); diff != "" {
			t.Errorf("description mismatch (-want +got):\n%s", diff)
		}
	}
}
