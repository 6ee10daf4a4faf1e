package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/felixgeelhaar/crewgen/internal/orchestrator"
)

// LineNarrator prints one styled line per stage event. It is used when the
// output is not a terminal and is safe for concurrent use.
type LineNarrator struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
	now    func() time.Time
	start  map[orchestrator.Stage]time.Time
}

var _ orchestrator.Narrator = (*LineNarrator)(nil)

// NewLineNarrator writes to w
func NewLineNarrator(w io.Writer) *LineNarrator {
	return &LineNarrator{
		w:      w,
		styles: DefaultStyles(),
		now:    time.Now,
		start:  map[orchestrator.Stage]time.Time{},
	}
}

// StageStarted implements orchestrator.Narrator
func (n *LineNarrator) StageStarted(stage orchestrator.Stage) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.start[stage] = n.now()
	fmt.Fprintf(n.w, "%s %s...\n", n.styles.Stage.Render("→"), stageLabel(string(stage)))
}

// StageFinished implements orchestrator.Narrator
func (n *LineNarrator) StageFinished(stage orchestrator.Stage, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var took time.Duration
	if t, ok := n.start[stage]; ok {
		took = n.now().Sub(t)
	}
	if err != nil {
		fmt.Fprintf(n.w, "%s %s: %v\n", n.styles.Error.Render("✗"), stageLabel(string(stage)), err)
		return
	}
	fmt.Fprintf(n.w, "%s %s %s\n", n.styles.Success.Render("✓"), stageLabel(string(stage)),
		n.styles.Muted.Render(formatDuration(took)))
}

// Note implements orchestrator.Narrator
func (n *LineNarrator) Note(stage orchestrator.Stage, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintf(n.w, "%s %s\n", n.styles.Warning.Render("!"), text)
}
