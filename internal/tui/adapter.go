package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/crewgen/internal/log"
	"github.com/felixgeelhaar/crewgen/internal/orchestrator"
)

// Adapter bridges between the orchestrator and the TUI. It implements
// orchestrator.Narrator; tea.Program.Send is safe from any goroutine.
type Adapter struct {
	program *tea.Program
	logger  *log.Logger
	done    chan struct{}
	stop    sync.Once
}

var _ orchestrator.Narrator = (*Adapter)(nil)

// NewAdapter creates a TUI adapter writing to out
func NewAdapter(brief string, out io.Writer) *Adapter {
	return &Adapter{
		program: tea.NewProgram(NewModel(brief), tea.WithOutput(out), tea.WithInput(nil)),
		logger:  log.DefaultLogger(),
		done:    make(chan struct{}),
	}
}

// Start runs the TUI program in the background. A Run error only ends the
// live view; it is logged at debug level.
func (a *Adapter) Start() {
	go func() {
		defer close(a.done)
		if _, err := a.program.Run(); err != nil {
			a.logger.Debug("live view stopped", "error", err)
		}
	}()
}

// Stop asks the program to render its final frame and waits for it to exit
func (a *Adapter) Stop() {
	a.stop.Do(func() {
		a.program.Send(DoneMsg{})
		<-a.done
	})
}

// StageStarted implements orchestrator.Narrator
func (a *Adapter) StageStarted(stage orchestrator.Stage) {
	a.program.Send(StageStartMsg{Stage: string(stage)})
}

// StageFinished implements orchestrator.Narrator
func (a *Adapter) StageFinished(stage orchestrator.Stage, err error) {
	msg := StageDoneMsg{Stage: string(stage)}
	if err != nil {
		msg.Err = err.Error()
	}
	a.program.Send(msg)
}

// Note implements orchestrator.Narrator
func (a *Adapter) Note(stage orchestrator.Stage, text string) {
	a.program.Send(NoteMsg{Stage: string(stage), Text: text})
}
