package repl

import "github.com/charmbracelet/lipgloss"

// Colors for the line-oriented REPL, a muted terminal palette.
var (
	colorPrimary = lipgloss.Color("#A78BFA") // Soft Purple
	colorSuccess = lipgloss.Color("#059669") // Emerald 600
	colorWarning = lipgloss.Color("#D97706") // Amber 600
	colorError   = lipgloss.Color("#DC2626") // Red 600
	colorMuted   = lipgloss.Color("#9CA3AF") // Gray 400
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
