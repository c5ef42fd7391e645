package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()
	if diff := cmp.Diff([]string{"javascript", "jikiscript", "python"}, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		want string
	}{
		{"jikiscript", "jikiscript"},
		{"JS", "javascript"},
		{" py ", "python"},
		{"jiki", "jikiscript"},
	}
	for _, tt := range tests {
		lang, err := r.Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if lang.Name() != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.name, lang.Name(), tt.want)
		}
	}

	if _, err := r.Lookup("cobol"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRegistryForFile(t *testing.T) {
	r := DefaultRegistry()
	lang, err := r.ForFile("exercises/hello.py")
	if err != nil {
		t.Fatal(err)
	}
	if lang.Name() != "python" {
		t.Errorf("expected python, got %s", lang.Name())
	}
	if _, err := r.ForFile("notes.txt"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRegistryInterpret(t *testing.T) {
	r := DefaultRegistry()
	result, err := r.Interpret("python", "print(1 + 1)", interp.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("2", result.LogLines[0].Output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	compiled, err := r.Compile("jikiscript", "set x", interp.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if compiled.Success {
		t.Fatal("expected a compile error")
	}
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfigFromPath(filepath.Join("testdata", "exercise.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("nl", config.Locale); diff != "" {
		t.Errorf("locale mismatch (-want +got):\n%s", diff)
	}
	if config.Seed != 7 || config.Concurrency != 2 {
		t.Errorf("expected seed 7 and concurrency 2, got %d and %d", config.Seed, config.Concurrency)
	}
	if config.Features.MaxTotalLoopIterations != 50 {
		t.Errorf("expected overridden loop limit, got %d", config.Features.MaxTotalLoopIterations)
	}
	// untouched features keep their defaults
	if !config.Features.AddSuccessFrames || config.Features.MaxRepeatUntilGameOverIterations != 100 {
		t.Errorf("defaults were not kept: %+v", config.Features)
	}
	if config.Features.AllowedStdlibFunctions == nil || len(config.Features.AllowedStdlibFunctions) != 0 {
		t.Errorf("expected an empty, non-nil stdlib list, got %#v", config.Features.AllowedStdlibFunctions)
	}
	if diff := cmp.Diff("scenario 2", config.Scenarios[1].Name); diff != "" {
		t.Errorf("default scenario name mismatch (-want +got):\n%s", diff)
	}

	fns := config.HostFunctions()
	if len(fns) != 2 {
		t.Fatalf("expected 2 host functions, got %d", len(fns))
	}
	if !fns[0].Arity.Accepts(1) || fns[0].Arity.Accepts(2) {
		t.Errorf("move should take exactly one argument")
	}
	ret, err := fns[1].Func(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{1.0, 2.0}, jiki.ToGo(ret)); diff != "" {
		t.Errorf("stub return mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "language: [", "failed to parse config file"},
		{"unknown language", "language: cobol", "invalid language"},
		{"unnamed function", "functions:\n  - returns: 1", "functions[0].name is required"},
		{"duplicate function", "functions:\n  - name: f\n  - name: f", "declared twice"},
		{"args without function", "scenarios:\n  - args: [1]", "without a function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunnerReportsFailures(t *testing.T) {
	config := DefaultConfig()
	config.Scenarios = []Scenario{
		{Name: "right", Logs: []string{"3"}},
		{Name: "wrong logs", Logs: []string{"4"}},
		{Name: "missing error", ExpectError: "DivisionByZero"},
		{Name: "function", Function: "add", Args: []any{2, 5}, Expected: 7},
		{Name: "wrong value", Function: "add", Args: []any{2, 2}, Expected: 5},
	}
	src := "function add with a, b do\n  return a + b\nend\nlog add(1, 2)"

	results, err := NewRunner(DefaultRegistry(), config).RunScenarios(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	passed := make([]bool, len(results))
	for i, r := range results {
		passed[i] = r.Passed()
	}
	if diff := cmp.Diff([]bool{true, false, false, true, false}, passed); diff != "" {
		t.Errorf("pass mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"expected add to return 5, got 4"}, results[4].Failures); diff != "" {
		t.Errorf("failure mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerCompileError(t *testing.T) {
	_, err := NewRunner(DefaultRegistry(), DefaultConfig()).RunScenarios(context.Background(), "set x 5")
	var jerr *jiki.Err
	if !errors.As(err, &jerr) {
		t.Fatalf("expected a *jiki.Err, got %v", err)
	}
	if diff := cmp.Diff(jiki.KindMissingToAfterVariableName, jerr.Kind); diff != "" {
		t.Errorf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerHonoursCancellation(t *testing.T) {
	config := DefaultConfig()
	config.Scenarios = []Scenario{{Name: "a"}, {Name: "b"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(DefaultRegistry(), config).RunScenarios(ctx, "log 1"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerWithoutConcurrency(t *testing.T) {
	config := Config{Language: "jikiscript", Features: jiki.DefaultFeatures()}
	config.Scenarios = []Scenario{{Name: "a", Logs: []string{"1"}}, {Name: "b", Logs: []string{"1"}}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	results, err := NewRunner(DefaultRegistry(), config).RunScenarios(ctx, "log 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.Passed() {
			t.Errorf("%s failed: %s", r.Scenario.Name, strings.Join(r.Failures, "; "))
		}
	}
}

// Each fixture is an exercise config with the program under `source`.
func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found")
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var fixture struct {
				Source string `yaml:"source"`
			}
			if err := yaml.Unmarshal(data, &fixture); err != nil {
				t.Fatal(err)
			}
			config, err := ParseConfig(data)
			if err != nil {
				t.Fatal(err)
			}

			results, err := NewRunner(DefaultRegistry(), config).RunScenarios(context.Background(), fixture.Source)
			if err != nil {
				t.Fatal(err)
			}
			for _, r := range results {
				if !r.Passed() {
					t.Errorf("%s failed: %s", r.Scenario.Name, strings.Join(r.Failures, "; "))
				}
			}
		})
	}
}
