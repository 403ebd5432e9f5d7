package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#5FAFAF") // Soft teal
	secondaryColor = lipgloss.Color("#666666") // Subtle gray
	successColor   = lipgloss.Color("#87AF87") // Soft green
	errorColor     = lipgloss.Color("#AF5F5F") // Soft red
)

// Shared styles for the monitor view.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// statusBar renders a bottom status bar with the given items joined by
// separators, padded to the full terminal width.
func statusBar(width int, items []string) string {
	content := strings.Join(items, " • ")
	return statusBarStyle.Width(width).Render(content)
}
