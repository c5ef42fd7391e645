package interp

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

// Options configure one compilation or run.
type Options struct {
	ExternalFunctions []*jiki.HostFunction
	Classes           []*jiki.Class
	// Features default to jiki.DefaultFeatures when nil.
	Features *jiki.Features
	// State is shared with host functions through the execution context.
	State  map[string]any
	Locale string
	// Seed makes ExecutionContext.Rand deterministic.
	Seed int64
}

func (o Options) features() jiki.Features {
	if o.Features == nil {
		return jiki.DefaultFeatures()
	}
	f := *o.Features
	f.Normalize()
	return f
}

// Program is a compiled guest program. It is immutable and may be run any
// number of times, concurrently.
type Program struct {
	Language Language
	AST      *ast.Program
	Features jiki.Features
}

// CompileResult reports whether source is a valid program.
type CompileResult struct {
	Success bool
	Error   *jiki.Err
	Program *Program
}

// Meta carries information about a run beyond its frames.
type Meta struct {
	// FunctionCallLog counts calls by function name and JSON encoded
	// arguments.
	FunctionCallLog map[string]map[string]int
	Statements      []ast.Stmt
}

// Result is the outcome of running a program.
type Result struct {
	Frames   []Frame
	LogLines []LogLine
	// Error is a compile error or an engine failure. Runtime errors are
	// attached to the last frame instead.
	Error   *jiki.Err
	Success bool
	State   State
	Meta    Meta
	// Value is the return value of EvaluateFunction.
	Value jiki.Value
}

// LastFrame returns the final frame of the run, or nil.
func (r *Result) LastFrame() *Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return &r.Frames[len(r.Frames)-1]
}

func asErr(err error, locale string) *jiki.Err {
	var jerr *jiki.Err
	if errors.As(err, &jerr) {
		return jerr.Localize(locale)
	}
	return jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, jiki.Location{},
		map[string]any{"message": err.Error()}).Localize(locale)
}

// Compile scans and parses source without running it.
func Compile(lang Language, source string, opts Options) CompileResult {
	features := opts.features()
	prog, err := lang.Parse(source, features)
	if err != nil {
		log.Debug().Str("language", lang.Name()).Err(err).Msg("compile failed")
		return CompileResult{Error: asErr(err, opts.Locale)}
	}
	return CompileResult{
		Success: true,
		Program: &Program{Language: lang, AST: prog, Features: features},
	}
}

// Interpret compiles and runs source in one step.
func Interpret(lang Language, source string, opts Options) Result {
	compiled := Compile(lang, source, opts)
	if !compiled.Success {
		return Result{Error: compiled.Error, State: Idle}
	}
	return Run(compiled.Program, opts)
}

// Run evaluates a compiled program with fresh state. Options.Features, when
// set, override the features the program was compiled with.
func Run(p *Program, opts Options) (result Result) {
	e := newExecutor(p, opts)
	defer e.recoverInto(&result)

	err := e.execute()
	return e.result(err)
}

// EvaluateFunction runs the program and then calls one of its functions
// with the given arguments. The call's value is returned in Result.Value.
func EvaluateFunction(p *Program, opts Options, name string, args ...jiki.Value) (result Result) {
	e := newExecutor(p, opts)
	defer e.recoverInto(&result)

	if err := e.execute(); err != nil || e.state == Errored {
		return e.result(err)
	}

	fn, ok := e.globals.Get(name)
	if !ok || !jiki.IsCallable(fn) {
		return e.result(e.settle(jiki.RuntimeError(jiki.KindFunctionNotFound, jiki.Location{}, map[string]any{
			"name":       name,
			"didYouMean": jiki.DidYouMean(name, e.globals.Names()),
		})))
	}
	call := &ast.Call{Base: ast.Base{Type: ast.CallExpression}, Callee: &ast.Ident{Base: ast.Base{Type: ast.IdentifierExpression}, Name: name}}
	e.current = call
	val, err := e.callValue(fn, name, args, call)
	if err = e.settle(err); err != nil {
		return e.result(err)
	}
	r := e.result(nil)
	r.Value = val
	return r
}

func (e *Executor) result(err error) Result {
	r := Result{
		Frames:   e.frames,
		LogLines: e.logLines,
		Success:  err == nil,
		State:    e.state,
		Meta: Meta{
			FunctionCallLog: e.callLog,
			Statements:      e.program.Statements,
		},
	}
	if err != nil {
		r.Error = asErr(err, e.locale)
	}
	return r
}

// recoverInto turns a panic inside the evaluator into an engine failure.
func (e *Executor) recoverInto(result *Result) {
	x := recover()
	if x == nil {
		return
	}
	var err error
	switch v := x.(type) {
	case error:
		err = v
	default:
		err = fmt.Errorf("%v", v)
	}
	e.state = Errored
	log.Error().Str("language", e.lang.Name()).Err(err).Msg("evaluator panic")
	*result = e.result(jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, jiki.Location{},
		map[string]any{"message": err.Error()}))
}
