package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/codeslots/internal/runner"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// traceBoxStyle frames a fault trace
	traceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

// formatTrace renders a failed run for stderr
func formatTrace(w io.Writer, slot int, res *runner.Result) {
	header := fmt.Sprintf("%s %s  %s %s",
		errorStyle.Render("✗ Slot"), titleStyle.Render(fmt.Sprint(slot)),
		dimStyle.Render("run"), dimStyle.Render(res.RunID),
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, traceBoxStyle.Render(strings.TrimRight(res.Trace, "\n")))
}

// formatRunFooter reports a successful run's metadata for stderr, keeping
// stdout to the snippet's own output
func formatRunFooter(w io.Writer, slot int, res *runner.Result) {
	line := fmt.Sprintf("%s %s %s",
		successStyle.Render("✓ Slot"), titleStyle.Render(fmt.Sprint(slot)),
		dimStyle.Render(fmt.Sprintf("finished in %s", res.Duration.Round(time.Millisecond))),
	)
	if res.Truncated {
		line += " " + dimStyle.Render("(output truncated)")
	}
	fmt.Fprintln(w, line)
}

// firstLine returns the first non-blank line of code, shortened to width runes
func firstLine(code string, width int) string {
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > width {
			return string(r[:width-1]) + "…"
		}
		return line
	}
	return ""
}
