// Package orchestrator sequences a run: plan, extract task sections, then
// generate frontend and backend code.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/crewgen/internal/agent"
	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/log"
)

// Section names looked up in the plan
const (
	FrontendSection = "Frontend Tasks"
	BackendSection  = "Backend Tasks"
)

// Runner is the agent surface the orchestrator needs.
type Runner interface {
	Run(ctx context.Context, role agent.Role, task string) (string, error)
}

// Options tunes a run.
type Options struct {
	// Parallel runs the frontend and backend agents concurrently
	Parallel bool

	// Extractor defaults to the standard strategy chain
	Extractor *extract.Extractor

	Narrator Narrator
	Logger   *log.Logger

	// Now defaults to time.Now
	Now func() time.Time
}

// Result is everything a run produced.
type Result struct {
	RunID         string    `json:"run_id"`
	Brief         string    `json:"project_brief"`
	Plan          string    `json:"plan"`
	FrontendTasks string    `json:"frontend_tasks"`
	BackendTasks  string    `json:"backend_tasks"`
	FrontendCode  string    `json:"frontend_code"`
	BackendCode   string    `json:"backend_code"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Orchestrator drives one Runner through the pipeline.
type Orchestrator struct {
	runner Runner
	opts   Options
}

// New returns an Orchestrator with defaults filled in.
func New(runner Runner, opts Options) *Orchestrator {
	if opts.Extractor == nil {
		opts.Extractor = extract.NewExtractor()
	}
	if opts.Narrator == nil {
		opts.Narrator = NopNarrator{}
	}
	if opts.Logger == nil {
		opts.Logger = log.DefaultLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{runner: runner, opts: opts}
}

// Run executes the pipeline for brief.
//
// An empty brief fails with ErrCodeBriefEmpty before any model call. When
// neither task section can be found the run stops with ErrCodeSectionsMissing
// and the returned Result carries the plan. Agent errors are returned as is.
func (o *Orchestrator) Run(ctx context.Context, brief string) (*Result, error) {
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return nil, crewerrors.NewBriefEmptyError()
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Brief:     brief,
		StartedAt: o.opts.Now(),
	}
	logger := o.opts.Logger.With("run_id", result.RunID)
	ctx = log.NewContext(ctx, logger)

	plan, err := o.stage(ctx, StagePlan, agent.RoleCoordinator, brief)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	logger.DebugContext(ctx, "plan received", "chars", len(plan))

	if err := o.extractTasks(ctx, result); err != nil {
		result.FinishedAt = o.opts.Now()
		return result, err
	}

	if err := o.generate(ctx, result); err != nil {
		return nil, err
	}

	result.FinishedAt = o.opts.Now()
	logger.InfoContext(ctx, "run complete", "duration", result.FinishedAt.Sub(result.StartedAt))
	return result, nil
}

func (o *Orchestrator) extractTasks(ctx context.Context, result *Result) error {
	n := o.opts.Narrator
	n.StageStarted(StageExtract)

	fe, feOK := o.opts.Extractor.Tasks(result.Plan, FrontendSection, extract.SnakeCase(FrontendSection))
	be, beOK := o.opts.Extractor.Tasks(result.Plan, BackendSection, extract.SnakeCase(BackendSection))

	if !feOK && !beOK {
		err := crewerrors.NewSectionsMissingError(FrontendSection, BackendSection)
		n.StageFinished(StageExtract, err)
		return err
	}

	// One missing section is tolerated; its agent gets an empty task list.
	for _, missing := range []struct {
		ok   bool
		name string
	}{{feOK, FrontendSection}, {beOK, BackendSection}} {
		if !missing.ok {
			log.FromContext(ctx, o.opts.Logger).WarnContext(ctx, "section missing from plan", "section", missing.name)
			n.Note(StageExtract, "no '"+missing.name+"' section found; continuing with an empty task list")
		}
	}

	result.FrontendTasks, result.BackendTasks = fe, be
	n.StageFinished(StageExtract, nil)
	return nil
}

// generate runs both code agents. Outputs land in fixed fields so the result
// does not depend on completion order.
func (o *Orchestrator) generate(ctx context.Context, result *Result) error {
	frontend := func(ctx context.Context) error {
		code, err := o.stage(ctx, StageFrontend, agent.RoleFrontend, result.FrontendTasks)
		result.FrontendCode = code
		return err
	}
	backend := func(ctx context.Context) error {
		code, err := o.stage(ctx, StageBackend, agent.RoleBackend, result.BackendTasks)
		result.BackendCode = code
		return err
	}

	if !o.opts.Parallel {
		if err := frontend(ctx); err != nil {
			return err
		}
		return backend(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return frontend(gctx) })
	g.Go(func() error { return backend(gctx) })
	return g.Wait()
}

func (o *Orchestrator) stage(ctx context.Context, stage Stage, role agent.Role, task string) (string, error) {
	o.opts.Narrator.StageStarted(stage)
	out, err := o.runner.Run(ctx, role, task)
	o.opts.Narrator.StageFinished(stage, err)
	return out, err
}
