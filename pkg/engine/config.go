package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

// FunctionStub is a host function declared in configuration. It logs its
// arguments and returns a constant, which is enough to run exercise
// programs from the command line.
type FunctionStub struct {
	Name        string `yaml:"name" description:"Function name visible to the program (required)"`
	Arity       *int   `yaml:"arity" description:"Exact number of arguments (omit for any)"`
	Returns     any    `yaml:"returns" description:"Constant return value (omit for null)"`
	Description string `yaml:"description" description:"Phrase used when narrating calls"`
}

// Scenario is one check of an exercise: a run of the whole program, or of
// one of its functions, and what it should produce.
type Scenario struct {
	Name        string   `yaml:"name" description:"Scenario name shown in reports"`
	Function    string   `yaml:"function" description:"Function to call after the program runs (omit to run the program only)"`
	Args        []any    `yaml:"args" description:"Arguments passed to function"`
	Expected    any      `yaml:"expected" description:"Expected return value of function"`
	Logs        []string `yaml:"logs" description:"Expected log output, line by line"`
	ExpectError string   `yaml:"expect_error" description:"Expected runtime error kind (omit when the run should succeed)"`
}

// Config holds the settings of one exercise.
type Config struct {
	Language    string         `yaml:"language" description:"Guest language (jikiscript, javascript, python)" default:"jikiscript"`
	Locale      string         `yaml:"locale" description:"Locale for error messages (system, en, nl)" default:"en"`
	Seed        int64          `yaml:"seed" description:"Seed for host randomness" default:"0"`
	Concurrency int            `yaml:"concurrency" description:"Scenarios evaluated at once" default:"4"`
	Features    jiki.Features  `yaml:"features" description:"Language restrictions and resource limits"`
	Functions   []FunctionStub `yaml:"functions" description:"Stub host functions"`
	Scenarios   []Scenario     `yaml:"scenarios" description:"Checks run by the scenario runner"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Language:    "jikiscript",
		Locale:      "en",
		Concurrency: 4,
		Features:    jiki.DefaultFeatures(),
	}
}

// LoadConfigFromPath loads configuration from the specified path.
// If path is empty or the file doesn't exist, returns default config.
func LoadConfigFromPath(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig overlays YAML data on the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := DefaultRegistry().Lookup(config.Language); err != nil {
		return Config{}, fmt.Errorf("invalid language in config: %w", err)
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConfig().Concurrency
	}
	config.Features.Normalize()

	seen := map[string]bool{}
	for i, fn := range config.Functions {
		if fn.Name == "" {
			return Config{}, fmt.Errorf("functions[%d].name is required", i)
		}
		if seen[fn.Name] {
			return Config{}, fmt.Errorf("function '%s' is declared twice", fn.Name)
		}
		seen[fn.Name] = true
		if _, err := jiki.FromGo(fn.Returns); err != nil {
			return Config{}, fmt.Errorf("function '%s' has an invalid return value: %w", fn.Name, err)
		}
	}
	for i, sc := range config.Scenarios {
		if sc.Name == "" {
			config.Scenarios[i].Name = fmt.Sprintf("scenario %d", i+1)
		}
		if sc.Function == "" && (len(sc.Args) > 0 || sc.Expected != nil) {
			return Config{}, fmt.Errorf("scenario '%s' has args or expected without a function", config.Scenarios[i].Name)
		}
		if _, err := jiki.FromGo(sc.Expected); err != nil {
			return Config{}, fmt.Errorf("scenario '%s' has an invalid expected value: %w", config.Scenarios[i].Name, err)
		}
	}
	return config, nil
}

// HostFunctions builds the stub functions.
func (c Config) HostFunctions() []*jiki.HostFunction {
	fns := make([]*jiki.HostFunction, 0, len(c.Functions))
	for _, stub := range c.Functions {
		arity := jiki.AtLeast(0)
		if stub.Arity != nil {
			arity = jiki.Exactly(*stub.Arity)
		}
		// validated by ParseConfig
		ret, _ := jiki.FromGo(stub.Returns)
		fns = append(fns, &jiki.HostFunction{
			Name:        stub.Name,
			Arity:       arity,
			Description: stub.Description,
			Func: func(ctx *jiki.ExecutionContext, args []jiki.Value) (jiki.Value, error) {
				return ret.Clone(), nil
			},
		})
	}
	return fns
}

// Options returns fresh interpreter options for one run. State is never
// shared between runs.
func (c Config) Options() interp.Options {
	features := c.Features
	return interp.Options{
		ExternalFunctions: c.HostFunctions(),
		Features:          &features,
		State:             map[string]any{},
		Locale:            c.Locale,
		Seed:              c.Seed,
	}
}
