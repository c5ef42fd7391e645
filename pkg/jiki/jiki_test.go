package jiki

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNumberFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-3, "-3"},
		{1.5, "1.5"},
		{2.25, "2.25"},
		{1e21, "1000000000000000000000"},
	}
	for _, c := range cases {
		if got := Number(c.in).String(); got != c.want {
			t.Errorf("Number(%v).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewList(Number(1), Number(2))
	d := NewDictionary()
	d.Set("xs", inner)
	d.Set("name", String("jiki"))

	c := d.Clone().(*Dictionary)
	inner.Elems[0] = Number(100)
	d.Set("name", String("changed"))

	got, _ := c.Get("xs")
	if diff := cmp.Diff("[1, 2]", got.String()); diff != "" {
		t.Errorf("clone shares list storage (-want +got):\n%s", diff)
	}
	name, _ := c.Get("name")
	if !name.Equals(String("jiki")) {
		t.Errorf("clone shares entries: got %s", name)
	}
	if d.Equals(c) {
		t.Errorf("mutated original still equals its clone")
	}
}

func TestDictionaryKeepsInsertionOrder(t *testing.T) {
	d := NewDictionary()
	for _, k := range []string{"b", "a", "c"} {
		d.Set(k, Boolean(true))
	}
	d.Set("a", Boolean(false))
	d.Delete("b")

	if diff := cmp.Diff([]string{"a", "c"}, d.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if got, want := d.String(), `{"a": false, "c": true}`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestArity(t *testing.T) {
	cases := []struct {
		arity    Arity
		n        int
		accepts  bool
		expected string
	}{
		{Arity{}, 0, true, "0"},
		{Exactly(2), 1, false, "2"},
		{AtLeast(1), 5, true, "at least 1"},
		{Between(1, 3), 4, false, "between 1 and 3"},
	}
	for _, c := range cases {
		if got := c.arity.Accepts(c.n); got != c.accepts {
			t.Errorf("%+v.Accepts(%d) = %v", c.arity, c.n, got)
		}
		if got := c.arity.Expected(); got != c.expected {
			t.Errorf("%+v.Expected() = %q, want %q", c.arity, got, c.expected)
		}
	}
}

func TestGate(t *testing.T) {
	open := NewGate(DefaultFeatures())
	if !open.IsNodeAllowed("LiteralExpression") {
		t.Errorf("nil AllowedNodes should allow everything")
	}

	f := DefaultFeatures()
	f.AllowedNodes = []string{}
	if NewGate(f).IsNodeAllowed("LiteralExpression") {
		t.Errorf("empty AllowedNodes should reject everything")
	}

	f = DefaultFeatures()
	f.IncludeList = []string{"NUMBER"}
	f.ExcludeList = []string{"STRING"}
	g := NewGate(f)
	if ok, _ := g.IsTokenAllowed("NUMBER"); !ok {
		t.Errorf("NUMBER should be included")
	}
	if ok, list := g.IsTokenAllowed("IDENTIFIER"); ok || list != "include" {
		t.Errorf("IDENTIFIER should be rejected by the include list, got %v %q", ok, list)
	}
}

func TestSystemMessage(t *testing.T) {
	e := RuntimeError(KindTypeCoercionNotAllowed, Location{Line: 1, Col: 1}, map[string]any{
		"operator": "+",
		"left":     "number",
		"right":    "boolean",
	})
	want := "TypeCoercionNotAllowed: left: number, operator: +, right: boolean"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
}

func TestTranslate(t *testing.T) {
	ctx := map[string]any{"count": 20000, "max": 10000}
	got := Translate("en-GB", KindRepeatCountTooHigh, ctx)
	if want := "You asked to repeat 20,000 times, but the limit is 10,000."; got != want {
		t.Errorf("en: got %q, want %q", got, want)
	}

	got = Translate("nl", KindRepeatCountTooHigh, ctx)
	if !strings.HasPrefix(got, "Je vroeg om 20.000 herhalingen") {
		t.Errorf("nl: got %q", got)
	}

	// missing from the Dutch catalog: English wording
	got = Translate("nl", KindIndexIsZeroBased, nil)
	if got != "Indexen beginnen bij 1, niet bij 0." {
		t.Errorf("nl: got %q", got)
	}
	got = Translate("nl", KindNotCallable, nil)
	if got != "This value can't be called as a function." {
		t.Errorf("fallback: got %q", got)
	}
}

func TestNewErrRejectsUnknownKind(t *testing.T) {
	defer func() {
		r := recover()
		e, ok := r.(*Err)
		if !ok || e.Category != ErrAssert {
			t.Fatalf("expected an assertion Err panic, got %v", r)
		}
	}()
	NewErr(ErrRuntime, Kind("NoSuchKind"), Location{}, nil)
}

func TestDidYouMean(t *testing.T) {
	if got := DidYouMean("moev", []string{"move", "turn_left"}); got != "move" {
		t.Errorf("got %q", got)
	}
	if got := DidYouMean("xyz", []string{"move"}); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestFromGoRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":  "jiki",
		"pos":   []any{1.0, 2.0},
		"alive": true,
		"hat":   nil,
	}
	v, err := FromGo(in)
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}
	if diff := cmp.Diff(in, ToGo(v)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := FromGo(struct{}{}); err == nil {
		t.Errorf("expected an error for unsupported types")
	}
}
