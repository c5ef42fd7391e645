package interp

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// EvaluationResult is what a frame's node produced.
type EvaluationResult struct {
	Type string
	// Value is the live value; Immutable is a clone taken when the frame
	// was recorded.
	Value     jiki.Value
	Immutable jiki.Value

	// Name is the variable, function or loop counter involved, if any.
	Name string
	// Iteration counts loop iterations from 1.
	Iteration int
	Total     int
	// Callee and Args describe the outermost call in the statement.
	Callee string
	Args   []jiki.Value
}

// Frame is one step of a program's execution, as shown to the student.
type Frame struct {
	Line      int
	Code      string
	Status    Status
	Time      int64
	TimeInMs  float64
	Result    *EvaluationResult
	Variables map[string]jiki.Value
	Error     *jiki.Err
	Node      ast.Node

	description string
}

// Description narrates the frame.
func (f *Frame) Description() string {
	return f.description
}

type frameJSON struct {
	Line        int            `json:"line"`
	Code        string         `json:"code"`
	Status      Status         `json:"status"`
	Time        int64          `json:"time"`
	TimeInMs    float64        `json:"timeInMs"`
	Result      any            `json:"result,omitempty"`
	Variables   map[string]any `json:"variables"`
	Error       *errorJSON     `json:"error,omitempty"`
	Description string         `json:"description"`
}

type errorJSON struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (f *Frame) MarshalJSON() ([]byte, error) {
	vars := make(map[string]any, len(f.Variables))
	for k, v := range f.Variables {
		vars[k] = jiki.ToGo(v)
	}
	out := frameJSON{
		Line:        f.Line,
		Code:        f.Code,
		Status:      f.Status,
		Time:        f.Time,
		TimeInMs:    f.TimeInMs,
		Variables:   vars,
		Description: f.Description(),
	}
	if f.Result != nil && f.Result.Immutable != nil {
		out.Result = jiki.ToGo(f.Result.Immutable)
	}
	if f.Error != nil {
		ctx := make(map[string]any, len(f.Error.Context))
		for k, v := range f.Error.Context {
			if val, ok := v.(jiki.Value); ok {
				ctx[k] = jiki.ToGo(val)
			} else {
				ctx[k] = v
			}
		}
		out.Error = &errorJSON{Type: string(f.Error.Kind), Message: f.Error.Message, Context: ctx}
	}
	return json.Marshal(out)
}

// LogLine is output produced by the program.
type LogLine struct {
	Time   int64  `json:"time"`
	Output string `json:"output"`
}

// addFrame records a frame for the node at loc and advances the clock.
func (e *Executor) addFrame(loc jiki.Location, status Status, result *EvaluationResult, err *jiki.Err, node ast.Node) {
	if status == StatusSuccess && !e.features.AddSuccessFrames {
		return
	}
	if result != nil && result.Value != nil {
		result.Immutable = result.Value.Clone()
	}

	frame := Frame{
		Line:      loc.Line,
		Code:      loc.Code(e.source),
		Status:    status,
		Time:      e.time,
		TimeInMs:  float64(e.time) / 1000,
		Result:    result,
		Variables: e.env.Variables(e.builtins),
		Error:     err,
		Node:      node,
	}
	frame.description = describe(&frame, e.lang, e.descriptions)
	log.Trace().
		Int("line", frame.Line).
		Str("code", frame.Code).
		Str("status", string(status)).
		Int64("time", frame.Time).
		Msg("frame")

	e.frames = append(e.frames, frame)
	e.time += e.features.TimePerFrame
}

func (e *Executor) addSuccessFrame(node ast.Node, loc jiki.Location, result *EvaluationResult) {
	e.addFrame(loc, StatusSuccess, result, nil, node)
}

func (e *Executor) addErrorFrame(err *jiki.Err, node ast.Node) {
	e.errorFrame = len(e.frames)
	e.addFrame(err.Loc, StatusError, nil, err, node)
	e.errorFramed = true
}

func (e *Executor) unframeError() {
	e.frames = append(e.frames[:e.errorFrame], e.frames[e.errorFrame+1:]...)
	e.errorFramed = false
}

// frameError records the terminal error frame while the scope that raised
// err is still live. Control signals and engine failures get no frame.
func (e *Executor) frameError(err error, node ast.Node) {
	if e.errorFramed {
		return
	}
	var ctl *control
	if errors.As(err, &ctl) {
		return
	}
	var jerr *jiki.Err
	if !errors.As(err, &jerr) || jerr.Category == jiki.ErrAssert {
		return
	}
	e.addErrorFrame(jerr.Localize(e.locale), node)
}
