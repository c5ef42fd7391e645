package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

// Compile errors that mean the input stops in the middle of a block, so
// the repl should keep reading.
var incompleteKinds = map[jiki.Kind]bool{
	jiki.KindUnexpectedEndOfInput:        true,
	jiki.KindMissingEndAfterBlock:        true,
	jiki.KindMissingRightBraceAfterBlock: true,
	jiki.KindMissingIndentedBlock:        true,
}

// session replays every accepted input on each run, so guest state carries
// over between lines without the interpreter keeping a live environment.
type session struct {
	lang    interp.Language
	opts    func() interp.Options
	inputs  []string
	logged  int
	current interp.Result
}

func (s *session) source(extra string) string {
	return strings.Join(append(append([]string{}, s.inputs...), extra), "\n")
}

// incomplete reports whether input needs more lines before it can run.
func (s *session) incomplete(input string) bool {
	// python blocks end at a blank line
	if s.lang.Name() == "python" {
		lines := strings.Split(input, "\n")
		last := lines[len(lines)-1]
		if strings.TrimSpace(last) != "" {
			for _, line := range lines {
				if strings.HasSuffix(strings.TrimSpace(line), ":") {
					return true
				}
			}
		}
	}
	compiled := interp.Compile(s.lang, s.source(input), s.opts())
	return !compiled.Success && incompleteKinds[compiled.Error.Kind]
}

// eval runs the session with input appended and prints only what input
// added. Input that fails is not kept.
func (s *session) eval(input string) {
	src := s.source(input)
	result := interp.Interpret(s.lang, src, s.opts())
	for _, line := range result.LogLines[min(s.logged, len(result.LogLines)):] {
		jiki.LogInteractive(line.Output)
	}

	if result.Error != nil {
		printError(src, result.Error)
		return
	}
	if last := result.LastFrame(); last != nil && last.Status == interp.StatusError {
		printError(src, last.Error)
		return
	}
	s.inputs = append(s.inputs, input)
	s.logged = len(result.LogLines)
	s.current = result
}

func (s *session) reset() {
	s.inputs = nil
	s.logged = 0
	s.current = interp.Result{}
}

func (c *cli) repl() {
	lang := c.language("")
	s := &session{lang: lang, opts: c.config.Options}

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".jiki_history")

	prompt := jiki.ANSI_GREEN_BOLD + lang.Name() + "> " + jiki.ANSI_RESET
	continuation := jiki.ANSI_GREEN_BOLD + strings.Repeat(".", len(lang.Name())) + "  " + jiki.ANSI_RESET

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		jiki.LogErrf(jiki.ErrSystem, "could not start repl:\n\t-> %s", err.Error())
	}
	defer func() {
		_ = rl.Close()
	}()

	fmt.Println(dimStyle.Render("Type :dump for variables, :frames for the last run, :reset to start over."))

	var pending []string
	for {
		if len(pending) > 0 {
			rl.SetPrompt(continuation)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				pending = nil
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			jiki.LogErrf(jiki.ErrSystem, "unexpected end of input:\n\t-> %s", err.Error())
		}

		if len(pending) == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":dump":
				if last := s.current.LastFrame(); last != nil {
					dumpVariables(lang, last.Variables)
				} else {
					dumpVariables(lang, nil)
				}
				continue
			case ":frames":
				fmt.Println(renderFrames(s.current.Frames))
				continue
			case ":reset":
				s.reset()
				continue
			}
		}

		pending = append(pending, line)
		input := strings.Join(pending, "\n")
		if s.incomplete(input) {
			continue
		}
		pending = nil
		s.eval(input)
	}
}
