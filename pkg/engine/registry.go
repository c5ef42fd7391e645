// Package engine ties the guest languages together: a registry to find
// them by name, a YAML configuration for exercises, and a runner that
// evaluates an exercise's scenarios concurrently.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/javascript"
	"github.com/thesephist/jiki/pkg/jikiscript"
	"github.com/thesephist/jiki/pkg/python"
)

// ErrUnknownLanguage is returned when a registry has no language by the
// requested name.
var ErrUnknownLanguage = errors.New("unknown language")

// Registry maps language names, aliases and file extensions to guests.
type Registry struct {
	langs      map[string]interp.Language
	aliases    map[string]string
	extensions map[string]string
}

func NewRegistry(langs ...interp.Language) *Registry {
	r := &Registry{
		langs:      map[string]interp.Language{},
		aliases:    map[string]string{},
		extensions: map[string]string{},
	}
	for _, lang := range langs {
		r.Register(lang)
	}
	return r
}

// DefaultRegistry holds the three built-in guests.
func DefaultRegistry() *Registry {
	r := NewRegistry(jikiscript.New(), javascript.New(), python.New())
	r.Alias("jiki", "jikiscript", ".jiki")
	r.Alias("js", "javascript", ".js")
	r.Alias("py", "python", ".py")
	return r
}

// Register adds a language under its own name, replacing any previous
// language of that name.
func (r *Registry) Register(lang interp.Language) {
	r.langs[lang.Name()] = lang
}

// Alias makes alias and extension resolve to the named language.
func (r *Registry) Alias(alias, name, extension string) {
	if alias != "" {
		r.aliases[alias] = name
	}
	if extension != "" {
		r.extensions[extension] = name
	}
}

// Names lists the registered language names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.langs))
	for name := range r.langs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a language by name or alias, ignoring case.
func (r *Registry) Lookup(name string) (interp.Language, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	lang, ok := r.langs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownLanguage, name, strings.Join(r.Names(), ", "))
	}
	return lang, nil
}

// ForFile picks a language from a file's extension.
func (r *Registry) ForFile(path string) (interp.Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := r.extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w for file extension %q", ErrUnknownLanguage, ext)
	}
	return r.Lookup(name)
}

// Compile compiles source in the named language.
func (r *Registry) Compile(name, source string, opts interp.Options) (interp.CompileResult, error) {
	lang, err := r.Lookup(name)
	if err != nil {
		return interp.CompileResult{}, err
	}
	return interp.Compile(lang, source, opts), nil
}

// Interpret compiles and runs source in the named language. Guest errors
// are reported in the result; the error return is only for an unknown
// language.
func (r *Registry) Interpret(name, source string, opts interp.Options) (interp.Result, error) {
	lang, err := r.Lookup(name)
	if err != nil {
		return interp.Result{}, err
	}
	return interp.Interpret(lang, source, opts), nil
}
