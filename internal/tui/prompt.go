package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompt represents a simple interactive prompt configuration
type Prompt struct {
	Message     string
	Description string
	Placeholder string
	Required    bool

	// Multiline uses a text area instead of a single-line input
	Multiline bool
}

// PromptForString displays an interactive prompt and returns the trimmed input
func PromptForString(p Prompt) (string, error) {
	var value string

	var field huh.Field
	if p.Multiline {
		field = huh.NewText().
			Title(p.Message).
			Description(p.Description).
			Placeholder(p.Placeholder).
			Value(&value)
	} else {
		field = huh.NewInput().
			Title(p.Message).
			Description(p.Description).
			Placeholder(p.Placeholder).
			Value(&value)
	}

	form := huh.NewForm(huh.NewGroup(field))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	value = strings.TrimSpace(value)
	if p.Required && value == "" {
		return "", fmt.Errorf("value is required")
	}
	return value, nil
}

// PromptForBrief asks for the project brief.
func PromptForBrief() (string, error) {
	return PromptForString(Prompt{
		Message:     "Project brief",
		Description: "Describe the app to build. Leave empty to exit.",
		Placeholder: "store name and email, display them",
		Multiline:   true,
	})
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"BUILDKITE",
}

// InCI reports whether a common CI environment variable is set.
func InCI() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// ShouldPrompt returns true if prompts should be shown based on environment.
// Prompts are disabled in CI environments or when stdin is not a terminal.
func ShouldPrompt() bool {
	return !InCI() && IsInteractive()
}

// IsTerminal reports whether w is a character device such as a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
