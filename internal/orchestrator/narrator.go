package orchestrator

// Stage is a step of a run.
type Stage string

const (
	StagePlan     Stage = "plan"
	StageExtract  Stage = "extract"
	StageFrontend Stage = "frontend"
	StageBackend  Stage = "backend"
)

// Narrator is told about stage progress. With Options.Parallel set the
// frontend and backend stages report from separate goroutines.
type Narrator interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage, err error)
	Note(stage Stage, msg string)
}

// NopNarrator discards everything.
type NopNarrator struct{}

func (NopNarrator) StageStarted(Stage)         {}
func (NopNarrator) StageFinished(Stage, error) {}
func (NopNarrator) Note(Stage, string)         {}
