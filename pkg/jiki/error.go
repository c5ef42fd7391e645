package jiki

import (
	"fmt"
	"sort"
	"strings"
)

// Error reasons are enumerated here to be used as the Category of an Err,
// the error type shared across all jiki APIs.
const (
	ErrUnknown = 0
	ErrSyntax  = 1
	ErrRuntime = 2
	ErrSystem  = 40
	ErrAssert  = 100
)

// Kind names one member of the closed error taxonomy. See kinds.go.
type Kind string

// Err is the typed error raised by every stage of the engine. Syntax errors
// are returned from compilation, runtime errors end up attached to a Frame.
type Err struct {
	Kind     Kind
	Category int
	Message  string
	Loc      Location
	Context  map[string]any
}

// NewErr builds an error of a known kind, rendered in the system locale until
// it is localized. Asking for a kind outside the taxonomy is an engine bug.
func NewErr(category int, kind Kind, loc Location, context map[string]any) *Err {
	if !KnownKind(kind) {
		panic(&Err{
			Kind:     KindUnknownErrorKind,
			Category: ErrAssert,
			Message:  fmt.Sprintf("error kind %q is not part of the taxonomy", kind),
			Loc:      loc,
		})
	}
	if context == nil {
		context = map[string]any{}
	}
	e := &Err{
		Kind:     kind,
		Category: category,
		Loc:      loc,
		Context:  context,
	}
	e.Message = systemMessage(kind, context)
	return e
}

// SyntaxError is a shorthand for NewErr(ErrSyntax, ...).
func SyntaxError(kind Kind, loc Location, context map[string]any) *Err {
	return NewErr(ErrSyntax, kind, loc, context)
}

// RuntimeError is a shorthand for NewErr(ErrRuntime, ...).
func RuntimeError(kind Kind, loc Location, context map[string]any) *Err {
	return NewErr(ErrRuntime, kind, loc, context)
}

func (e *Err) Error() string {
	return e.Message
}

// Localize re-renders the message for the given locale and returns e.
func (e *Err) Localize(locale string) *Err {
	e.Message = Translate(locale, e.Kind, e.Context)
	return e
}

// CategoryName is the human name of the error's category.
func (e *Err) CategoryName() string {
	return categoryName(e.Category)
}

func categoryName(category int) string {
	switch category {
	case ErrSyntax:
		return "syntax error"
	case ErrRuntime:
		return "runtime error"
	case ErrSystem:
		return "system error"
	case ErrAssert:
		return "invariant violation"
	default:
		return "error"
	}
}

// systemMessage renders "Kind: key: value, key: value" with keys sorted, the
// stable form used by the "system" locale.
func systemMessage(kind Kind, context map[string]any) string {
	if len(context) == 0 {
		return string(kind)
	}
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, contextString(context[k]))
	}
	return string(kind) + ": " + strings.Join(parts, ", ")
}

func contextString(v any) string {
	switch c := v.(type) {
	case nil:
		return "null"
	case string:
		return c
	case Value:
		return c.String()
	case []string:
		return strings.Join(c, ", ")
	case float64:
		return nToS(c)
	default:
		return fmt.Sprint(c)
	}
}

// LogicError is returned by host functions to report a mistake in the
// student's program, as opposed to a failure of the host itself.
type LogicError struct {
	Message string
}

func (e *LogicError) Error() string {
	return e.Message
}
