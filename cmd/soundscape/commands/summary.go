package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E8B57")).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000"))
	boxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type problem struct {
	file   string
	reason string
}

type summary struct {
	runID    string
	complete int
	partial  int
	failed   int
	skipped  int
	elapsed  time.Duration
	problems []problem
}

// done records a written record; err carries indices that were left out.
func (s *summary) done(file string, err error) {
	if err == nil {
		s.complete++
		return
	}
	s.partial++
	s.problems = append(s.problems, problem{file, describeFailure(err)})
}

func (s *summary) fail(file string, err error) {
	s.failed++
	reason := "unknown error"
	if err != nil {
		reason = describeFailure(err)
	}
	s.problems = append(s.problems, problem{file, reason})
}

func (s *summary) render() string {
	row := func(label string, style lipgloss.Style, value any) string {
		return labelStyle.Render(label) + style.Render(fmt.Sprint(value))
	}
	plain := lipgloss.NewStyle()

	lines := []string{
		titleStyle.Render("Soundscape run"),
		row("run", plain, s.runID),
		row("complete", okStyle, s.complete),
		row("partial", warnStyle, s.partial),
		row("failed", errStyle, s.failed),
		row("skipped", plain, s.skipped),
		row("elapsed", plain, s.elapsed.Round(time.Millisecond)),
	}

	if len(s.problems) > 0 {
		lines = append(lines, "")
		for _, p := range s.problems {
			lines = append(lines, warnStyle.Render(filepath.Base(p.file))+"  "+p.reason)
		}
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
