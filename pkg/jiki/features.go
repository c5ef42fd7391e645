package jiki

// Features toggles language constructs and resource limits for one
// compilation or run. The zero value is not useful; start from
// DefaultFeatures.
type Features struct {
	// AllowedNodes restricts the AST node kinds a program may contain.
	// nil means unrestricted; an empty list rejects every node.
	AllowedNodes []string `yaml:"allowed_nodes" description:"Node kinds a program may use; omit for all"`
	// ExcludeList and IncludeList restrict token kinds by name.
	ExcludeList []string `yaml:"exclude_list" description:"Token kinds that are rejected"`
	IncludeList []string `yaml:"include_list" description:"If set, the only token kinds accepted"`

	AllowTypeCoercion     bool `yaml:"allow_type_coercion" description:"Let operators mix types" default:"false"`
	AllowTruthiness       bool `yaml:"allow_truthiness" description:"Accept non-boolean conditions" default:"false"`
	AllowShadowing        bool `yaml:"allow_shadowing" description:"Let inner scopes redeclare outer names" default:"false"`
	EnforceStrictEquality bool `yaml:"enforce_strict_equality" description:"Reject loose equality operators" default:"true"`
	RequireSemicolons     bool `yaml:"require_semicolons" description:"Statements must end in a semicolon" default:"false"`
	OneStatementPerLine   bool `yaml:"one_statement_per_line" description:"Reject several statements on one line" default:"false"`

	MaxTotalLoopIterations           int   `yaml:"max_total_loop_iterations" description:"Loop iterations across the whole run" default:"10000"`
	MaxRepeatUntilGameOverIterations int   `yaml:"max_repeat_until_game_over_iterations" description:"Iterations of repeat_until_game_over" default:"100"`
	MaxTotalExecutionTime            int64 `yaml:"max_total_execution_time" description:"Execution time budget in micro-units" default:"10000000"`
	TimePerFrame                     int64 `yaml:"time_per_frame" description:"Clock advance per frame in micro-units" default:"1"`
	RepeatDelay                      int64 `yaml:"repeat_delay" description:"Extra clock advance per repeat iteration in micro-units" default:"0"`

	// NativeMode skips arity checks on host functions.
	NativeMode bool `yaml:"native_mode" description:"Skip argument count checks for host functions" default:"false"`
	// AddSuccessFrames records frames for statements that succeed.
	AddSuccessFrames bool `yaml:"add_success_frames" description:"Record frames for successful statements" default:"true"`
	// AllowedStdlibFunctions names the stdlib functions in scope; nil means
	// the language default.
	AllowedStdlibFunctions []string `yaml:"allowed_stdlib_functions" description:"Stdlib functions in scope"`
}

// DefaultFeatures returns the defaults every guest starts from.
func DefaultFeatures() Features {
	return Features{
		EnforceStrictEquality:            true,
		MaxTotalLoopIterations:           10000,
		MaxRepeatUntilGameOverIterations: 100,
		MaxTotalExecutionTime:            10_000_000,
		TimePerFrame:                     1,
		AddSuccessFrames:                 true,
	}
}

// Normalize fills unset limits with their defaults.
func (f *Features) Normalize() {
	d := DefaultFeatures()
	if f.MaxTotalLoopIterations <= 0 {
		f.MaxTotalLoopIterations = d.MaxTotalLoopIterations
	}
	if f.MaxRepeatUntilGameOverIterations <= 0 {
		f.MaxRepeatUntilGameOverIterations = d.MaxRepeatUntilGameOverIterations
	}
	if f.MaxTotalExecutionTime <= 0 {
		f.MaxTotalExecutionTime = d.MaxTotalExecutionTime
	}
	if f.TimePerFrame <= 0 {
		f.TimePerFrame = d.TimePerFrame
	}
}
