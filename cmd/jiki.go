package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesephist/jiki/pkg/engine"
	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/javascript"
	"github.com/thesephist/jiki/pkg/jiki"
)

const Version = "0.3.0"

const HelpMessage = `
Jiki runs beginner programs in JikiScript, JavaScript or Python,
one narrated frame at a time.
	jiki v%s

By default, jiki interprets JikiScript from stdin.
	jiki < main.jiki
Run programs from source files; the extension picks the language.
	jiki main.jiki counter.js square.py
Check an exercise's scenarios with -config.
	jiki -config exercise.yaml solution.py
Step through the frames of a run with -scrub.
	jiki -scrub main.jiki
Start an interactive repl with -repl.
	jiki -repl -lang py
	> ___
Run from the command line with -eval.
	jiki -eval 'log "hi"'

`

type cli struct {
	registry *engine.Registry
	config   engine.Config
	lang     string

	json       bool
	frames     bool
	scrub      bool
	crosscheck bool
	debugLex   bool
	debugParse bool
	dump       bool
}

func main() {
	flag.Usage = func() {
		fmt.Printf(HelpMessage, Version)
		flag.PrintDefaults()
	}

	// exercise settings
	lang := flag.String("lang", "", "Guest language, overriding the file extension and config")
	configPath := flag.String("config", "", "Exercise configuration file (YAML)")
	locale := flag.String("locale", "", "Locale for error messages, overriding the config")

	// output
	jsonOut := flag.Bool("json", false, "Print the frames of each run as JSON")
	frames := flag.Bool("frames", false, "Print a narrated table of frames after each run")
	scrub := flag.Bool("scrub", false, "Step through the frames of a run interactively")
	crosscheck := flag.Bool("crosscheck", false, "Compare JavaScript output with a reference engine")
	watch := flag.Bool("watch", false, "Re-run files whenever they change")

	// cli arguments
	verbose := flag.Bool("verbose", false, "Log all interpreter debug information")
	trace := flag.Bool("trace", false, "Log every evaluation step")
	debugLexer := flag.Bool("debug-lex", false, "Log scanner output")
	debugParser := flag.Bool("debug-parse", false, "Log parser output")
	dump := flag.Bool("dump", false, "Dump global variables after eval")

	version := flag.Bool("version", false, "Print version string and exit")
	help := flag.Bool("help", false, "Print help message and exit")

	repl := flag.Bool("repl", false, "Run as an interactive repl")
	eval := flag.String("eval", "", "Evaluate argument as a program")

	flag.Parse()

	// collect all other non-parsed arguments from the CLI as files to be run
	files := flag.Args()

	// if asked for version, disregard everything else
	if *version {
		fmt.Printf("jiki v%s\n", Version)
		os.Exit(0)
	} else if *help {
		flag.Usage()
		os.Exit(0)
	}

	jiki.SetLogLevel(*verbose, *trace)

	config, err := engine.LoadConfigFromPath(*configPath)
	if err != nil {
		jiki.LogErrf(jiki.ErrSystem, "could not load config:\n\t-> %s", err.Error())
	}
	if *locale != "" {
		config.Locale = *locale
	}

	c := &cli{
		registry:   engine.DefaultRegistry(),
		config:     config,
		lang:       *lang,
		json:       *jsonOut,
		frames:     *frames,
		scrub:      *scrub,
		crosscheck: *crosscheck,
		debugLex:   *debugLexer || *verbose,
		debugParse: *debugParser || *verbose,
		dump:       *dump || *verbose,
	}

	if *repl {
		c.repl()
	} else if *eval != "" {
		if !c.run(c.language(""), *eval) {
			os.Exit(jiki.ErrRuntime)
		}
	} else if len(files) > 0 {
		if *watch {
			if err := c.watch(context.Background(), files); err != nil {
				jiki.LogErrf(jiki.ErrSystem, "could not watch files:\n\t-> %s", err.Error())
			}
			return
		}

		ok := true
		for _, filePath := range files {
			ok = c.runFile(filePath) && ok
		}
		if !ok {
			os.Exit(jiki.ErrRuntime)
		}
	} else {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			jiki.LogErrf(jiki.ErrSystem, "could not read stdin:\n\t-> %s", err.Error())
		}
		if !c.run(c.language(""), string(source)) {
			os.Exit(jiki.ErrRuntime)
		}
	}
}

// language resolves the guest for a file: the -lang flag wins, then the
// file extension, then the config.
func (c *cli) language(filePath string) interp.Language {
	name := c.lang
	if name == "" && filePath != "" {
		if lang, err := c.registry.ForFile(filePath); err == nil {
			return lang
		}
	}
	if name == "" {
		name = c.config.Language
	}
	lang, err := c.registry.Lookup(name)
	if err != nil {
		jiki.LogErrf(jiki.ErrSystem, "%s", err.Error())
	}
	return lang
}

func (c *cli) runFile(filePath string) bool {
	// expand out ~ for $HOME, which is not done by shells
	if strings.HasPrefix(filePath, "~"+string(os.PathSeparator)) {
		filePath = filepath.Join(os.Getenv("HOME"), filePath[2:])
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		jiki.LogSafeErr(jiki.ErrSystem, fmt.Sprintf("could not open %s for execution:\n\t-> %s", filePath, err))
		return false
	}
	if len(c.config.Scenarios) > 0 {
		return c.check(filePath, string(source))
	}
	return c.run(c.language(filePath), string(source))
}

// run interprets one program and prints what it did. It reports whether
// the program completed without error.
func (c *cli) run(lang interp.Language, source string) bool {
	opts := c.config.Options()

	if c.debugLex {
		tokens, err := lang.Tokenize(source, *opts.Features)
		for _, tok := range tokens {
			jiki.LogDebug(tok.String())
		}
		if err != nil {
			jiki.LogDebug("scan stopped:", err.Error())
		}
	}

	compiled := interp.Compile(lang, source, opts)
	if !compiled.Success {
		printError(source, compiled.Error)
		return false
	}
	if c.debugParse {
		jiki.LogDebug(compiled.Program.AST.String())
	}

	result := interp.Run(compiled.Program, opts)
	for _, line := range result.LogLines {
		fmt.Println(line.Output)
	}

	if c.json {
		out, err := json.MarshalIndent(result.Frames, "", "  ")
		if err != nil {
			jiki.LogSafeErr(jiki.ErrSystem, "could not encode frames:", err.Error())
		} else {
			fmt.Println(string(out))
		}
	}
	if c.frames {
		fmt.Println(renderFrames(result.Frames))
	}
	if c.dump {
		if last := result.LastFrame(); last != nil {
			dumpVariables(lang, last.Variables)
		}
	}
	if c.crosscheck {
		c.crossCheck(lang, source, result)
	}
	if c.scrub {
		if err := scrubFrames(lang, source, result.Frames); err != nil {
			jiki.LogSafeErr(jiki.ErrSystem, "scrubber failed:", err.Error())
		}
	}

	if result.Error != nil {
		printError(source, result.Error)
		return false
	}
	if last := result.LastFrame(); last != nil && last.Status == interp.StatusError {
		printError(source, last.Error)
		return false
	}
	return true
}

func (c *cli) crossCheck(lang interp.Language, source string, result interp.Result) {
	if lang.Name() != "javascript" {
		jiki.LogSafeErr(jiki.ErrSystem, "-crosscheck only applies to javascript, not", lang.Name())
		return
	}
	got := make([]string, len(result.LogLines))
	for i, line := range result.LogLines {
		got[i] = line.Output
	}

	oracle := &javascript.Oracle{Timeout: 2 * time.Second}
	diff, err := oracle.CrossCheck(source, got)
	switch {
	case err != nil:
		jiki.LogSafeErr(jiki.ErrSystem, "reference run failed:", err.Error())
	case diff != "":
		fmt.Println(errorStyle.Render("output differs from the reference engine (-reference +jiki):"))
		fmt.Println(diff)
	default:
		fmt.Println(passStyle.Render("output matches the reference engine"))
	}
}

// check runs the exercise scenarios from the config against a file.
func (c *cli) check(filePath, source string) bool {
	config := c.config
	if c.lang != "" {
		config.Language = c.lang
	} else if lang, err := c.registry.ForFile(filePath); err == nil {
		config.Language = lang.Name()
	}

	results, err := engine.NewRunner(c.registry, config).RunScenarios(context.Background(), source)
	if err != nil {
		var jerr *jiki.Err
		if errors.As(err, &jerr) {
			printError(source, jerr)
		} else {
			jiki.LogSafeErr(jiki.ErrSystem, err.Error())
		}
		return false
	}

	fmt.Println(titleStyle.Render(filePath))
	fmt.Println(renderScenarios(results))
	for _, r := range results {
		if !r.Passed() {
			return false
		}
	}
	return true
}
