package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thesephist/jiki/pkg/interp"
)

const playInterval = 400 * time.Millisecond

var currentLineStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("230")).
	Background(lipgloss.Color("62"))

type playMsg struct{}

func playTick() tea.Cmd {
	return tea.Tick(playInterval, func(time.Time) tea.Msg { return playMsg{} })
}

// scrubber steps back and forth through the frames of one run, showing
// the program with the frame's line highlighted next to its narration.
type scrubber struct {
	lang    interp.Language
	lines   []string
	frames  []interp.Frame
	current int
	playing bool

	width  int
	height int
}

func scrubFrames(lang interp.Language, source string, frames []interp.Frame) error {
	if len(frames) == 0 {
		fmt.Println(dimStyle.Render("(no frames to scrub)"))
		return nil
	}
	m := scrubber{
		lang:   lang,
		lines:  strings.Split(source, "\n"),
		frames: frames,
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m scrubber) Init() tea.Cmd { return nil }

func (m scrubber) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.playing = false
			if m.current > 0 {
				m.current--
			}
		case "right", "l":
			m.playing = false
			if m.current < len(m.frames)-1 {
				m.current++
			}
		case "home", "g":
			m.current = 0
		case "end", "G":
			m.current = len(m.frames) - 1
		case " ", "p":
			m.playing = !m.playing
			if m.playing {
				if m.current == len(m.frames)-1 {
					m.current = 0
				}
				return m, playTick()
			}
		}
		return m, nil

	case playMsg:
		if !m.playing {
			return m, nil
		}
		if m.current < len(m.frames)-1 {
			m.current++
			return m, playTick()
		}
		m.playing = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m scrubber) View() string {
	f := &m.frames[m.current]

	code := make([]string, len(m.lines))
	for i, line := range m.lines {
		text := fmt.Sprintf("%4d  %s", i+1, line)
		if i+1 == f.Line {
			code[i] = currentLineStyle.Render(text)
		} else {
			code[i] = codeStyle.Render(text)
		}
	}
	left := boxStyle.Render(strings.Join(code, "\n"))

	var info strings.Builder
	info.WriteString(titleStyle.Render(fmt.Sprintf("Frame %d of %d", m.current+1, len(m.frames))))
	info.WriteString(dimStyle.Render(fmt.Sprintf("  %.1fms", f.TimeInMs)))
	info.WriteString("\n\n")
	if f.Status == interp.StatusError && f.Error != nil {
		info.WriteString(errorStyle.Render(string(f.Error.Kind)) + "\n" + f.Error.Message)
	} else {
		info.WriteString(statusMark(*f) + " " + f.Description())
	}

	names := make([]string, 0, len(f.Variables))
	for name := range f.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		info.WriteString("\n\n" + dimStyle.Render("Variables"))
		for _, name := range names {
			info.WriteString(fmt.Sprintf("\n  %s %s", titleStyle.Render(name), m.lang.Format(f.Variables[name])))
		}
	}

	rightWidth := 48
	if m.width > 0 {
		rightWidth = max(24, m.width-lipgloss.Width(left)-4)
	}
	right := boxStyle.Width(rightWidth).Render(info.String())

	help := dimStyle.Render("←/→ step · space play · g/G first/last · q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		help,
	)
}
