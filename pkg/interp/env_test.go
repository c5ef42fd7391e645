package interp

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/jiki"
)

func TestEnvScoping(t *testing.T) {
	global := NewEnv(nil)
	global.Define("x", jiki.Number(1), false)
	global.Define("k", jiki.Number(2), true)

	fn := newFunctionEnv(global)
	fn.Define("y", jiki.Number(3), false)
	inner := NewEnv(fn)

	if v, ok := inner.Get("x"); !ok || !v.Equals(jiki.Number(1)) {
		t.Errorf("expected x to resolve through the chain, got %v", v)
	}
	if b := inner.lookup("x", true); b != nil {
		t.Errorf("local lookup crossed a function boundary")
	}
	if b := inner.lookup("y", true); b == nil {
		t.Errorf("local lookup missed a binding inside the function")
	}

	if found, constant := inner.Assign("k", jiki.Number(9)); !found || !constant {
		t.Errorf("expected constant k to refuse assignment, got found=%v constant=%v", found, constant)
	}
	if found, _ := inner.Assign("x", jiki.Number(5)); !found {
		t.Errorf("expected x to be assignable")
	}
	if v, _ := global.Get("x"); !v.Equals(jiki.Number(5)) {
		t.Errorf("assignment did not reach the defining scope, got %v", v)
	}
}

func TestEnvVariablesSkipCallables(t *testing.T) {
	builtins := NewEnv(nil)
	builtins.Define("print", &jiki.HostFunction{Name: "print"}, true)
	global := NewEnv(builtins)
	global.Define("n", jiki.Number(1), false)
	global.Define("f", &jiki.Function{Name: "f"}, false)
	block := NewEnv(global)
	block.Define("n", jiki.Number(2), false)

	want := map[string]jiki.Value{"n": jiki.Number(2)}
	if diff := cmp.Diff(want, block.Variables(builtins)); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f", "n", "print"}, block.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
