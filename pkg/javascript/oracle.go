package javascript

import (
	"errors"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/google/go-cmp/cmp"

	"github.com/thesephist/jiki/pkg/jiki"
)

// OracleError is a failure raised by the reference engine.
type OracleError struct {
	Message string
}

func (e *OracleError) Error() string {
	return "reference engine: " + e.Message
}

// Oracle runs programs on a full JavaScript engine so console output can be
// compared with ours. Only programs in the shared subset are meaningful;
// repeat loops and other extensions are syntax errors there.
type Oracle struct {
	Timeout time.Duration
}

// Run evaluates source and returns the lines it logged, formatted the way
// console.log formats them here.
func (o *Oracle) Run(source string) ([]string, error) {
	vm := goja.New()
	lines := []string{}

	console := vm.NewObject()
	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = exported(arg)
		}
		lines = append(lines, strings.Join(parts, " "))
		return goja.Undefined()
	}); err != nil {
		return nil, err
	}
	if err := vm.Set("console", console); err != nil {
		return nil, err
	}

	if o.Timeout > 0 {
		timer := time.AfterFunc(o.Timeout, func() {
			vm.Interrupt("timed out")
		})
		defer timer.Stop()
	}

	if _, err := vm.RunString(source); err != nil {
		var jsErr *goja.Exception
		if errors.As(err, &jsErr) {
			return lines, &OracleError{Message: jsErr.String()}
		}
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return lines, &OracleError{Message: interrupted.Error()}
		}
		return lines, err
	}
	return lines, nil
}

func exported(v goja.Value) string {
	if goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	val, err := jiki.FromGo(v.Export())
	if err != nil {
		return v.String()
	}
	return format(val, true)
}

// CrossCheck compares our log output with the reference engine's and
// returns a diff, empty when they agree.
func (o *Oracle) CrossCheck(source string, got []string) (string, error) {
	want, err := o.Run(source)
	if err != nil {
		return "", err
	}
	return cmp.Diff(want, got), nil
}
