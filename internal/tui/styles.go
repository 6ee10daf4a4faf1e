package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for stage output
type Styles struct {
	Title   lipgloss.Style
	Stage   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Stage: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")),
	}
}

// stageLabel is the human text for a stage name.
func stageLabel(stage string) string {
	switch stage {
	case "plan":
		return "Planning with coordinator"
	case "extract":
		return "Extracting task sections"
	case "frontend":
		return "Generating frontend code"
	case "backend":
		return "Generating backend code"
	default:
		return stage
	}
}
