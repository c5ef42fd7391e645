package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/engine"
	"github.com/thesephist/jiki/pkg/jiki"
)

func newSession(t *testing.T, name string) *session {
	t.Helper()
	lang, err := engine.DefaultRegistry().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return &session{lang: lang, opts: engine.DefaultConfig().Options}
}

func TestSessionIncomplete(t *testing.T) {
	tests := []struct {
		lang  string
		input string
		want  bool
	}{
		{"jikiscript", "set x to 1", false},
		{"jikiscript", "repeat 3 times do", true},
		{"jikiscript", "repeat 3 times do\n  log 1\nend", false},
		{"javascript", "for (let i = 0; i < 3; i++) {", true},
		{"javascript", "let x = 1", false},
		{"python", "def f():", true},
		{"python", "def f():\n    return 1", true},
		{"python", "def f():\n    return 1\n", false},
	}
	for _, tt := range tests {
		s := newSession(t, tt.lang)
		if got := s.incomplete(tt.input); got != tt.want {
			t.Errorf("%s: incomplete(%q) = %v, want %v", tt.lang, tt.input, got, tt.want)
		}
	}
}

func TestSessionKeepsState(t *testing.T) {
	s := newSession(t, "jikiscript")
	s.eval("set x to 1")
	s.eval("change y to 2") // fails and is dropped
	s.eval("change x to x + 1")
	s.eval("log x")

	if diff := cmp.Diff([]string{"set x to 1", "change x to x + 1", "log x"}, s.inputs); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if s.logged != 1 {
		t.Errorf("expected one logged line, got %d", s.logged)
	}
	last := s.current.LastFrame()
	if diff := cmp.Diff(jiki.Value(jiki.Number(2)), last.Variables["x"]); diff != "" {
		t.Errorf("x mismatch (-want +got):\n%s", diff)
	}

	s.reset()
	if len(s.inputs) != 0 || s.current.LastFrame() != nil {
		t.Errorf("reset left state behind: %+v", s.inputs)
	}
}

func TestRenderErrorPointsAtColumn(t *testing.T) {
	src := "set x to 1\nchange y to 2"
	err := jiki.RuntimeError(jiki.KindVariableNotDeclared, jiki.Location{Line: 2, Col: 8, Begin: 18, End: 19}, map[string]any{"name": "y"})
	out := renderError(src, err)
	if !strings.Contains(out, "change y to 2") {
		t.Errorf("expected the source line in:\n%s", out)
	}
	if !strings.Contains(out, string(jiki.KindVariableNotDeclared)) {
		t.Errorf("expected the error kind in:\n%s", out)
	}
}
