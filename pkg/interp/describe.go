package interp

import (
	"fmt"
	"strings"

	"github.com/thesephist/jiki/pkg/ast"
	"github.com/thesephist/jiki/pkg/jiki"
)

func describe(f *Frame, lang Semantics, descriptions map[string]string) string {
	if f.Status == StatusError && f.Error != nil {
		return "Something went wrong: " + f.Error.Message
	}
	r := f.Result
	if r == nil {
		return ""
	}
	show := func(v jiki.Value) string {
		if v == nil {
			return ""
		}
		if s, ok := v.(jiki.String); ok {
			return s.Quoted('"')
		}
		return lang.Format(v)
	}

	switch f.Node.(type) {
	case *ast.DeclStmt:
		return fmt.Sprintf("Created a variable called %s with the value %s.", r.Name, show(r.Immutable))
	case *ast.AssignStmt:
		return fmt.Sprintf("Changed %s to %s.", r.Name, show(r.Immutable))
	case *ast.IfStmt:
		return fmt.Sprintf("The condition evaluated to %s.", show(r.Immutable))
	case *ast.WhileStmt, *ast.ForStmt:
		if r.Immutable != nil && r.Immutable.Equals(jiki.Boolean(false)) {
			return "The condition evaluated to false, so the loop finished."
		}
		return fmt.Sprintf("The condition evaluated to true, so iteration %d began.", r.Iteration)
	case *ast.ForEachStmt:
		if r.Iteration == 0 {
			return "There was nothing to iterate over, so the loop did not run."
		}
		return fmt.Sprintf("Iteration %d of %d: %s is now %s.", r.Iteration, r.Total, r.Name, show(r.Immutable))
	case *ast.RepeatStmt:
		switch {
		case r.Iteration == 0:
			return "The loop was asked to repeat zero times, so it did not run."
		case r.Total == 0:
			return fmt.Sprintf("Starting iteration %d.", r.Iteration)
		}
		return fmt.Sprintf("Starting iteration %d of %d.", r.Iteration, r.Total)
	case *ast.ReturnStmt:
		return fmt.Sprintf("Returned %s from the function.", show(r.Immutable))
	case *ast.BreakStmt:
		return "Left the loop."
	case *ast.ContinueStmt:
		return "Skipped to the next iteration of the loop."
	case *ast.LogStmt:
		return fmt.Sprintf("Logged %s.", show(r.Immutable))
	case *ast.PassStmt:
		return "Did nothing."
	}

	if r.Callee == "" {
		if jiki.IsNone(r.Immutable) {
			return "Evaluated the expression."
		}
		return fmt.Sprintf("The expression evaluated to %s.", show(r.Immutable))
	}

	var sb strings.Builder
	sb.WriteString("Used " + r.Callee)
	if desc, ok := descriptions[r.Callee]; ok {
		sb.WriteString(", which " + desc)
	}
	if len(r.Args) > 0 {
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			args[i] = show(a)
		}
		sb.WriteString(" with " + strings.Join(args, ", "))
	}
	sb.WriteString(".")
	if !jiki.IsNone(r.Immutable) {
		sb.WriteString(" It returned " + show(r.Immutable) + ".")
	}
	return sb.String()
}
