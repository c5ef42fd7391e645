// Package interp is the tree-walking evaluator shared by every guest
// language. A Language supplies parsing and the handful of semantic rules
// that differ between guests; everything else, including frame recording,
// resource limits and the host function bridge, lives here.
package interp

import (
	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
	"github.com/thesephist/jiki/pkg/token"
)

// Language is one guest language.
type Language interface {
	Name() string
	Tokenize(source string, f jiki.Features) ([]token.Token, error)
	Parse(source string, f jiki.Features) (*ast.Program, error)
	Semantics
}

// Semantics are the value-level rules of a guest.
type Semantics interface {
	Rules() Rules
	// Format renders a value the way the guest prints it.
	Format(v jiki.Value) string
	Binary(op ast.Operator, lexeme string, left, right jiki.Value, f *jiki.Features) (jiki.Value, *Fault)
	Unary(op ast.Operator, lexeme string, v jiki.Value, f *jiki.Features) (jiki.Value, *Fault)
	// Truthy decides conditions and short-circuit operators.
	Truthy(v jiki.Value, f *jiki.Features) (bool, *Fault)
	GetIndex(obj, index jiki.Value) (jiki.Value, *Fault)
	SetIndex(obj, index, v jiki.Value) *Fault
	GetMember(obj jiki.Value, name string) (jiki.Value, *Fault)
	SetMember(obj jiki.Value, name string, v jiki.Value) *Fault
	// Iterate lists the items of a for-each loop binding the given number
	// of names.
	Iterate(v jiki.Value, names int) ([]Item, *Fault)
	// DictKey converts an evaluated dictionary literal key.
	DictKey(v jiki.Value) (string, *Fault)
	// Builtins are the globals every program starts with.
	Builtins(f *jiki.Features) map[string]jiki.Value
}

// Item is one step of a for-each loop.
type Item struct {
	First  jiki.Value
	Second jiki.Value
}

// Rules capture the scoping and binding differences between guests.
type Rules struct {
	// BlockScopes gives every block its own environment.
	BlockScopes bool
	// AssignDeclares makes assignment to an unknown name declare it.
	AssignDeclares bool
	// FunctionsSeeGlobals lets function bodies read top-level variables.
	FunctionsSeeGlobals bool
	// FunctionsAreValues lets a function name be used without calling it.
	FunctionsAreValues bool
	// HoistFunctions defines top-level functions before the program runs.
	HoistFunctions bool
	// RedeclareChecksChain reports VariableAlreadyDeclared for any visible
	// binding, not only the innermost scope.
	RedeclareChecksChain bool
	// CheckShadowing honours Features.AllowShadowing.
	CheckShadowing bool
	// NoneIsError rejects null values as expression results.
	NoneIsError bool
	// OneBasedIndex makes `indexed by` counters start at 1.
	OneBasedIndex bool
	// MaxSameNameDepth bounds nested calls of one function, 0 for no bound.
	MaxSameNameDepth int
	// MaxCallDepth bounds the whole call stack.
	MaxCallDepth int
	// Undefined is the value of a function that returns nothing.
	Undefined jiki.Value
}

// Fault is a runtime error raised before its location is known. The
// evaluator attaches the location of the node being evaluated.
type Fault struct {
	Kind    jiki.Kind
	Context map[string]any
}

func NewFault(kind jiki.Kind, context map[string]any) *Fault {
	return &Fault{Kind: kind, Context: context}
}

func (f *Fault) Error() string {
	return string(f.Kind)
}

func (f *Fault) At(loc jiki.Location) *jiki.Err {
	return jiki.RuntimeError(f.Kind, loc, f.Context)
}
