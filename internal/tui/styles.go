package tui

import "github.com/charmbracelet/lipgloss"

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// savedStyle for the "Saved" status
	savedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// loadedStyle for the "Loaded Slot N" status
	loadedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	// failedStyle for save failures
	failedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// runningStyle for the active run indicator
	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// outputStyle for successful run output
	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// traceStyle for fault traces
	traceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// paneStyle for unfocused panes with rounded border
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	// focusedPaneStyle for the pane receiving keys
	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("160"))

	// errorPaneStyle for the output pane after a fault
	errorPaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("196"))

	// runButtonStyle for the run hint
	runButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)
)
