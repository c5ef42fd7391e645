package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Scenario Scenario
	Result   interp.Result
	// Failures explain why the scenario did not pass; empty when it did.
	Failures []string
}

func (r ScenarioResult) Passed() bool { return len(r.Failures) == 0 }

// Runner evaluates an exercise's scenarios against one program.
type Runner struct {
	Registry *Registry
	Config   Config
}

func NewRunner(registry *Registry, config Config) *Runner {
	return &Runner{Registry: registry, Config: config}
}

// RunScenarios compiles source once and evaluates every scenario on its
// own executor, at most Config.Concurrency at a time (the default when
// unset). Results are in scenario order. A compile error is returned as a
// *jiki.Err.
func (r *Runner) RunScenarios(ctx context.Context, source string) ([]ScenarioResult, error) {
	compiled, err := r.Registry.Compile(r.Config.Language, source, r.Config.Options())
	if err != nil {
		return nil, err
	}
	if !compiled.Success {
		return nil, compiled.Error
	}

	scenarios := r.Config.Scenarios
	if len(scenarios) == 0 {
		scenarios = []Scenario{{Name: "run"}}
	}
	results := make([]ScenarioResult, len(scenarios))

	limit := r.Config.Concurrency
	if limit <= 0 {
		limit = DefaultConfig().Concurrency
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runScenario(compiled.Program, sc)
			log.Debug().
				Str("scenario", sc.Name).
				Bool("passed", results[i].Passed()).
				Int("frames", len(results[i].Result.Frames)).
				Msg("scenario finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runScenario(prog *interp.Program, sc Scenario) ScenarioResult {
	opts := r.Config.Options()
	var result interp.Result
	if sc.Function == "" {
		result = interp.Run(prog, opts)
	} else {
		args := make([]jiki.Value, len(sc.Args))
		for i, a := range sc.Args {
			v, err := jiki.FromGo(a)
			if err != nil {
				return ScenarioResult{Scenario: sc, Failures: []string{fmt.Sprintf("argument %d: %v", i+1, err)}}
			}
			args[i] = v
		}
		result = interp.EvaluateFunction(prog, opts, sc.Function, args...)
	}
	return ScenarioResult{Scenario: sc, Result: result, Failures: check(sc, result, prog.Language)}
}

func check(sc Scenario, result interp.Result, lang interp.Semantics) []string {
	var failures []string
	if result.Error != nil {
		return append(failures, "engine error: "+result.Error.Error())
	}

	var runErr *jiki.Err
	if last := result.LastFrame(); last != nil && last.Status == interp.StatusError {
		runErr = last.Error
	}
	switch {
	case sc.ExpectError == "" && runErr != nil:
		failures = append(failures, fmt.Sprintf("unexpected error %s: %s", runErr.Kind, runErr.Message))
	case sc.ExpectError != "" && runErr == nil:
		failures = append(failures, "expected error "+sc.ExpectError+", but the program succeeded")
	case sc.ExpectError != "" && string(runErr.Kind) != sc.ExpectError:
		failures = append(failures, fmt.Sprintf("expected error %s, got %s", sc.ExpectError, runErr.Kind))
	}

	if sc.Logs != nil {
		got := make([]string, len(result.LogLines))
		for i, l := range result.LogLines {
			got[i] = l.Output
		}
		if !slices.Equal(sc.Logs, got) {
			failures = append(failures, fmt.Sprintf("expected logs %q, got %q", sc.Logs, got))
		}
	}

	if sc.Function != "" && sc.Expected != nil && runErr == nil {
		// validated when the config was parsed
		want, _ := jiki.FromGo(sc.Expected)
		if result.Value == nil || !want.Equals(result.Value) {
			got := "nothing"
			if result.Value != nil {
				got = lang.Format(result.Value)
			}
			failures = append(failures, fmt.Sprintf("expected %s to return %s, got %s", sc.Function, lang.Format(want), got))
		}
	}
	return failures
}
