package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type stageState int

const (
	statePending stageState = iota
	stateRunning
	stateDone
	stateFailed
)

type stageLine struct {
	name  string
	state stageState
	err   string
	took  time.Duration
	start time.Time
}

// Model is the Bubble Tea model that renders run progress
type Model struct {
	brief   string
	stages  []*stageLine
	notes   []string
	spinner spinner.Model
	styles  Styles
	now     func() time.Time

	quitting bool
}

// StageStartMsg reports that a stage began
type StageStartMsg struct {
	Stage string
}

// StageDoneMsg reports that a stage ended; Err is empty on success
type StageDoneMsg struct {
	Stage string
	Err   string
}

// NoteMsg carries a warning attached to a stage
type NoteMsg struct {
	Stage string
	Text  string
}

// DoneMsg ends the program
type DoneMsg struct{}

// NewModel creates a model for a run of brief
func NewModel(brief string) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	styles := DefaultStyles()
	s.Style = styles.Spinner

	return Model{
		brief:   brief,
		spinner: s,
		styles:  styles,
		now:     time.Now,
	}
}

// Init starts the spinner (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case StageStartMsg:
		line := m.line(msg.Stage)
		line.state = stateRunning
		line.start = m.now()
		return m, nil

	case StageDoneMsg:
		line := m.line(msg.Stage)
		if msg.Err != "" {
			line.state = stateFailed
			line.err = msg.Err
		} else {
			line.state = stateDone
		}
		if !line.start.IsZero() {
			line.took = m.now().Sub(line.start)
		}
		return m, nil

	case NoteMsg:
		m.notes = append(m.notes, fmt.Sprintf("%s: %s", msg.Stage, msg.Text))
		return m, nil

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// line returns the line for stage, appending it on first sight. Lines are
// shared between model copies so Update can mutate them in place.
func (m *Model) line(stage string) *stageLine {
	for _, l := range m.stages {
		if l.name == stage {
			return l
		}
	}
	l := &stageLine{name: stage}
	m.stages = append(m.stages, l)
	return l
}

// View renders the TUI (required by Bubble Tea)
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("crewgen"))
	if m.brief != "" {
		b.WriteString(m.styles.Muted.Render("  " + truncate(m.brief, 60)))
	}
	b.WriteString("\n\n")

	for _, l := range m.stages {
		b.WriteString(m.renderLine(l))
		b.WriteString("\n")
	}

	for _, n := range m.notes {
		b.WriteString(m.styles.Warning.Render("! " + n))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLine(l *stageLine) string {
	label := stageLabel(l.name)
	switch l.state {
	case stateRunning:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Stage.Render(label))
	case stateDone:
		return fmt.Sprintf("%s %s %s", m.styles.Success.Render("✓"), label,
			m.styles.Muted.Render(formatDuration(l.took)))
	case stateFailed:
		return fmt.Sprintf("%s %s %s", m.styles.Error.Render("✗"), label,
			m.styles.Error.Render(l.err))
	default:
		return m.styles.Muted.Render("  " + label)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(100 * time.Millisecond)
	return d.String()
}
