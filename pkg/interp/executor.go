package interp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

// State is the lifecycle of one run.
type State int

const (
	Idle State = iota
	Running
	Completed
	Errored
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Errored:
		return "errored"
	}
	return "idle"
}

// control is the unwinding signal of return, break and continue.
type control struct {
	kind  string
	value jiki.Value
}

func (c *control) Error() string { return c.kind }

var (
	errBreak    = &control{kind: "break"}
	errContinue = &control{kind: "continue"}
)

// Executor evaluates one program once. It is not safe for concurrent use;
// a shared Program gets a fresh Executor per run.
type Executor struct {
	lang     Language
	rules    Rules
	program  *ast.Program
	source   string
	features jiki.Features
	gate     *jiki.Gate
	locale   string

	builtins *Env
	globals  *Env
	env      *Env

	frames   []Frame
	logLines []LogLine
	time     int64
	state    State

	iterations    int
	callStack     []string
	functionDepth int
	loopDepth     int
	gameOver      bool
	errorFramed   bool
	errorFrame    int
	callLog       map[string]map[string]int

	ectx     *jiki.ExecutionContext
	current  ast.Node
	lastCall *callRecord
	// descriptions of host functions, for frame narration
	descriptions map[string]string
}

func newExecutor(p *Program, opts Options) *Executor {
	features := p.Features
	if opts.Features != nil {
		features = *opts.Features
	}
	features.Normalize()

	e := &Executor{
		lang:     p.Language,
		rules:    p.Language.Rules(),
		program:  p.AST,
		source:   p.AST.Source,
		features: features,
		gate:     jiki.NewGate(features),
		locale:   opts.Locale,
		callLog:  map[string]map[string]int{},

		descriptions: map[string]string{},
	}
	if e.rules.Undefined == nil {
		e.rules.Undefined = jiki.None{}
	}
	if e.rules.MaxCallDepth == 0 {
		e.rules.MaxCallDepth = 500
	}

	e.builtins = NewEnv(nil)
	for name, v := range p.Language.Builtins(&e.features) {
		e.builtins.Define(name, v, true)
	}
	for _, fn := range opts.ExternalFunctions {
		e.builtins.Define(fn.Name, fn, true)
		if fn.Description != "" {
			e.descriptions[fn.Name] = fn.Description
		}
	}
	for _, class := range opts.Classes {
		e.builtins.Define(class.Name, class, true)
	}
	e.globals = NewEnv(e.builtins)
	e.env = e.globals

	state := opts.State
	if state == nil {
		state = map[string]any{}
	}
	e.ectx = &jiki.ExecutionContext{
		Runtime:  e,
		State:    state,
		Features: &e.features,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
	}
	return e
}

// execute runs the whole program, turning the first runtime error into a
// terminal error frame.
func (e *Executor) execute() (err error) {
	e.state = Running
	log.Debug().Str("language", e.lang.Name()).Int("statements", len(e.program.Statements)).Msg("run started")

	if e.rules.HoistFunctions {
		for _, stmt := range e.program.Statements {
			if fn, ok := stmt.(*ast.FunctionStmt); ok {
				e.defineFunction(fn)
			}
		}
	}

	for _, stmt := range e.program.Statements {
		if err = e.execStmt(stmt); err != nil {
			break
		}
	}
	return e.settle(err)
}

// settle classifies what stopped a run.
func (e *Executor) settle(err error) error {
	if err == nil {
		e.state = Completed
		return nil
	}
	e.state = Errored

	var ctl *control
	if errors.As(err, &ctl) {
		// a stray control signal is an evaluator bug; outside their
		// construct these statements raise runtime errors instead
		return jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, jiki.Location{}, map[string]any{"message": "unhandled " + ctl.kind})
	}
	var jerr *jiki.Err
	if errors.As(err, &jerr) {
		if jerr.Category == jiki.ErrAssert {
			return jerr
		}
		if !e.errorFramed {
			e.addErrorFrame(jerr.Localize(e.locale), e.current)
		}
		log.Debug().Str("kind", string(jerr.Kind)).Str("at", jerr.Loc.String()).Msg("run stopped by runtime error")
		return nil
	}
	return jiki.NewErr(jiki.ErrAssert, jiki.KindInternalError, jiki.Location{}, map[string]any{"message": err.Error()})
}

func (e *Executor) fail(kind jiki.Kind, node ast.Node, context map[string]any) error {
	return jiki.RuntimeError(kind, node.Location(), context)
}

func (e *Executor) faultAt(f *Fault, node ast.Node) error {
	if f == nil {
		return nil
	}
	return f.At(node.Location())
}

// checkNode re-asserts the Feature Gate at run time.
func (e *Executor) checkNode(node ast.Node) error {
	if !e.gate.IsNodeAllowed(node.Kind()) {
		return e.fail(jiki.KindNodeNotAllowed, node, map[string]any{"nodeType": node.Kind()})
	}
	return nil
}

// guardIteration counts one loop iteration against the run's budget.
func (e *Executor) guardIteration(node ast.Node) error {
	e.iterations++
	if e.iterations > e.features.MaxTotalLoopIterations {
		return e.fail(jiki.KindMaxIterationsReached, node, map[string]any{"max": e.features.MaxTotalLoopIterations})
	}
	return nil
}

func (e *Executor) guardTime(node ast.Node) error {
	if e.time > e.features.MaxTotalExecutionTime {
		return e.fail(jiki.KindMaxTotalExecutionTimeExceeded, node, map[string]any{"max": e.features.MaxTotalExecutionTime})
	}
	return nil
}

func (e *Executor) logCall(name string, args []jiki.Value) {
	plain := make([]any, len(args))
	for i, a := range args {
		plain[i] = jiki.ToGo(a)
	}
	key, err := json.Marshal(plain)
	if err != nil {
		key = []byte(fmt.Sprint(plain))
	}
	if e.callLog[name] == nil {
		e.callLog[name] = map[string]int{}
	}
	e.callLog[name][string(key)]++
}

// Time implements jiki.Runtime.
func (e *Executor) Time() int64 {
	return e.time
}

// FastForward implements jiki.Runtime.
func (e *Executor) FastForward(ms int64) {
	e.time += ms * 1000
}

// Log implements jiki.Runtime.
func (e *Executor) Log(line string) {
	e.logLines = append(e.logLines, LogLine{Time: e.time, Output: line})
}

// FinishExercise implements jiki.Runtime.
func (e *Executor) FinishExercise() {
	e.gameOver = true
}

// Call implements jiki.Runtime.
func (e *Executor) Call(fn jiki.Value, args []jiki.Value) (jiki.Value, error) {
	name := ""
	switch f := fn.(type) {
	case *jiki.Function:
		name = f.Name
	case *jiki.HostFunction:
		name = f.Name
	}
	return e.callValue(fn, name, args, e.current)
}
