package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesephist/jiki/pkg/engine"
	"github.com/thesephist/jiki/pkg/interp"
	"github.com/thesephist/jiki/pkg/jiki"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	errorBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("196"))
)

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// renderError shows an error with the offending source line and a caret
// under its column.
func renderError(source string, err *jiki.Err) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", err.CategoryName(), err.Kind)))
	if err.Loc.Line > 0 {
		b.WriteString(dimStyle.Render(" at " + err.Loc.String()))
	}
	b.WriteString("\n" + err.Message)

	if code := sourceLine(source, err.Loc.Line); code != "" {
		width := err.Loc.End - err.Loc.Begin
		if width < 1 {
			width = 1
		}
		col := err.Loc.Col
		if col < 1 {
			col = 1
		}
		if rest := len(code) - col + 1; width > rest && rest > 0 {
			width = rest
		}
		b.WriteString("\n\n" + codeStyle.Render(fmt.Sprintf("%4d | %s", err.Loc.Line, code)))
		b.WriteString("\n" + strings.Repeat(" ", col+6) + errorStyle.Render(strings.Repeat("^", width)))
	}
	return errorBoxStyle.Render(b.String())
}

func printError(source string, err *jiki.Err) {
	if err == nil {
		return
	}
	fmt.Println(renderError(source, err))
}

func statusMark(f interp.Frame) string {
	if f.Status == interp.StatusError {
		return errorStyle.Render("✗")
	}
	return passStyle.Render("✓")
}

// renderFrames lists every frame of a run with its narration.
func renderFrames(frames []interp.Frame) string {
	if len(frames) == 0 {
		return dimStyle.Render("(no frames)")
	}
	rows := make([]string, len(frames))
	for i := range frames {
		f := &frames[i]
		desc := f.Description()
		if f.Status == interp.StatusError && f.Error != nil {
			desc = f.Error.Message
		}
		rows[i] = fmt.Sprintf("%s %s %s  %s",
			statusMark(*f),
			dimStyle.Render(fmt.Sprintf("%6.1fms", f.TimeInMs)),
			codeStyle.Render(fmt.Sprintf("%4d", f.Line)),
			desc,
		)
	}
	return boxStyle.Render(titleStyle.Render("Frames") + "\n" + strings.Join(rows, "\n"))
}

func renderScenarios(results []engine.ScenarioResult) string {
	passed := 0
	rows := make([]string, 0, len(results))
	for _, r := range results {
		if r.Passed() {
			passed++
			rows = append(rows, passStyle.Render("✓ ")+r.Scenario.Name)
			continue
		}
		rows = append(rows, errorStyle.Render("✗ ")+r.Scenario.Name)
		for _, failure := range r.Failures {
			rows = append(rows, dimStyle.Render("    "+failure))
		}
	}
	summary := fmt.Sprintf("%d/%d scenarios passed", passed, len(results))
	if passed == len(results) {
		summary = passStyle.Render(summary)
	} else {
		summary = errorStyle.Render(summary)
	}
	return strings.Join(rows, "\n") + "\n" + summary
}

func dumpVariables(lang interp.Language, vars map[string]jiki.Value) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]string, len(names))
	for i, name := range names {
		rows[i] = fmt.Sprintf("%s %s", titleStyle.Render(name), lang.Format(vars[name]))
	}
	if len(rows) == 0 {
		rows = []string{dimStyle.Render("(no variables)")}
	}
	fmt.Println(boxStyle.Render(strings.Join(rows, "\n")))
}
