package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thesephist/jiki/pkg/jiki"
)

const maxPrintLen = 120

type binding struct {
	val      jiki.Value
	constant bool
}

// Env represents the variables local to a scope, and recursively
// references its parent scopes.
type Env struct {
	parent *Env
	vt     map[string]*binding
	// function marks the outermost scope of a function call
	function bool
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vt: map[string]*binding{}}
}

func newFunctionEnv(parent *Env) *Env {
	env := NewEnv(parent)
	env.function = true
	return env
}

// Get a value from the scope chain
func (env *Env) Get(name string) (jiki.Value, bool) {
	for env != nil {
		if b, ok := env.vt[name]; ok {
			return b.val, true
		}
		env = env.parent
	}
	return nil, false
}

// Has reports whether name is bound in this scope itself.
func (env *Env) Has(name string) bool {
	_, ok := env.vt[name]
	return ok
}

// Define binds a name in this scope.
func (env *Env) Define(name string, val jiki.Value, constant bool) {
	env.vt[name] = &binding{val: val, constant: constant}
}

// lookup finds the binding for name, stopping at a function boundary when
// local is set.
func (env *Env) lookup(name string, local bool) *binding {
	for env != nil {
		if b, ok := env.vt[name]; ok {
			return b
		}
		if local && env.function {
			return nil
		}
		env = env.parent
	}
	return nil
}

// Assign updates an existing binding in the chain. It reports whether the
// name was found and whether it was a constant.
func (env *Env) Assign(name string, val jiki.Value) (found, constant bool) {
	b := env.lookup(name, false)
	if b == nil {
		return false, false
	}
	if b.constant {
		return true, true
	}
	b.val = val
	return true, false
}

// Names lists every name visible from this scope, sorted.
func (env *Env) Names() []string {
	seen := map[string]bool{}
	for e := env; e != nil; e = e.parent {
		for k := range e.vt {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Variables flattens the chain up to, but excluding, stop into a deep
// copied snapshot. Callables are left out. Inner bindings shadow outer ones.
func (env *Env) Variables(stop *Env) map[string]jiki.Value {
	vars := map[string]jiki.Value{}
	for e := env; e != nil && e != stop; e = e.parent {
		for k, b := range e.vt {
			if _, shadowed := vars[k]; shadowed {
				continue
			}
			switch b.val.(type) {
			case *jiki.Function, *jiki.HostFunction, *jiki.Class:
				continue
			}
			vars[k] = b.val.Clone()
		}
	}
	return vars
}

func (env *Env) String() string {
	if env == nil {
		return "<nil>"
	}
	entries := make([]string, 0, len(env.vt))
	for k, b := range env.vt {
		vstr := b.val.String()
		if len(vstr) > maxPrintLen {
			vstr = vstr[:maxPrintLen] + ".."
		}
		entries = append(entries, fmt.Sprintf("%s -> %s", k, vstr))
	}
	sort.Strings(entries)

	return fmt.Sprintf("{\n\t%s\n} -prnt-> %s", strings.Join(entries, "\n\t"), env.parent)
}
