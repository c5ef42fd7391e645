package jiki

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const (
	ANSI_RESET      = "\x1b[0;0m"
	ANSI_GREEN      = "\x1b[32;22m"
	ANSI_GREEN_BOLD = "\x1b[32;1m"
)

// Interactive output is colored only when stdout is a terminal.
var colorStdout = term.IsTerminal(int(os.Stdout.Fd()))

func init() {
	SetupLogging(os.Stderr, zerolog.WarnLevel)
}

// SetupLogging points the global logger at w, with colors when w is a
// terminal.
func SetupLogging(w io.Writer, level zerolog.Level) {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}).Level(level)
}

// SetLogLevel maps the CLI verbosity flags onto a log level.
func SetLogLevel(verbose, trace bool) {
	switch {
	case trace:
		log.Logger = log.Logger.Level(zerolog.TraceLevel)
	case verbose:
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	}
}

func LogDebug(args ...string) {
	log.Debug().Msg(strings.Join(args, " "))
}

func LogDebugf(s string, args ...interface{}) {
	log.Debug().Msgf(s, args...)
}

func LogInteractive(args ...string) {
	if colorStdout {
		fmt.Println(ANSI_GREEN + strings.Join(args, " ") + ANSI_RESET)
	} else {
		fmt.Println(strings.Join(args, " "))
	}
}

func LogInteractivef(s string, args ...interface{}) {
	LogInteractive(fmt.Sprintf(s, args...))
}

func LogSafeErr(reason int, args ...string) {
	log.Error().Str("reason", categoryName(reason)).Msg(strings.Join(args, " "))
}

func LogErr(reason int, args ...string) {
	LogSafeErr(reason, args...)
	os.Exit(reason)
}

func LogErrf(reason int, s string, args ...interface{}) {
	LogErr(reason, fmt.Sprintf(s, args...))
}
