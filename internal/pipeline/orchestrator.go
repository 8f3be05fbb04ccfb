package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CompletionHook is called after a successful run.
type CompletionHook func(ctx context.Context, run *PipelineRun)

// Orchestrator runs a Pipeline and records the run.
type Orchestrator struct {
	store RunStore
	hooks []CompletionHook
	now   func() time.Time
}

// NewOrchestrator creates a new Orchestrator. A nil store disables run bookkeeping.
func NewOrchestrator(store RunStore, hooks ...CompletionHook) *Orchestrator {
	return &Orchestrator{
		store: store,
		hooks: hooks,
		now:   time.Now,
	}
}

// OnComplete registers another completion hook.
func (o *Orchestrator) OnComplete(hook CompletionHook) {
	o.hooks = append(o.hooks, hook)
}

// Run executes p as of asOf. A pipeline error marks the run failed and is
// returned; per-item failures are only counted.
func (o *Orchestrator) Run(ctx context.Context, p Pipeline, asOf time.Time) (*PipelineRun, Report, error) {
	run := &PipelineRun{
		ID:           uuid.NewString(),
		PipelineName: p.Name(),
		AsOf:         asOf,
		Status:       StatusPending,
		StartedAt:    o.now(),
	}

	if err := o.create(ctx, run); err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline run: %w", err)
	}

	run.Status = StatusProcessing
	o.update(ctx, run)

	log.Info().Str("run_id", run.ID).Str("pipeline", run.PipelineName).Msg("pipeline run started")

	report, err := p.Execute(ctx, asOf)
	completedAt := o.now()
	run.CompletedAt = &completedAt

	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		o.update(ctx, run)
		log.Error().Err(err).Str("run_id", run.ID).Str("pipeline", run.PipelineName).Msg("pipeline run failed")
		return run, nil, fmt.Errorf("pipeline %s failed: %w", run.PipelineName, err)
	}

	counts := report.Counts()
	run.Status = StatusCompleted
	run.Total = counts.Total
	run.Generated = counts.Generated
	run.Skipped = counts.Skipped
	run.Failed = counts.Failed
	run.Message = report.Message()
	o.update(ctx, run)

	log.Info().
		Str("run_id", run.ID).
		Str("pipeline", run.PipelineName).
		Dur("duration", completedAt.Sub(run.StartedAt)).
		Msg(run.Message)

	for _, hook := range o.hooks {
		hook(ctx, run)
	}

	return run, report, nil
}

func (o *Orchestrator) create(ctx context.Context, run *PipelineRun) error {
	if o.store == nil {
		return nil
	}
	return o.store.CreatePipelineRun(ctx, run)
}

// update failures are logged; the run result stays authoritative.
func (o *Orchestrator) update(ctx context.Context, run *PipelineRun) {
	if o.store == nil {
		return
	}
	if err := o.store.UpdatePipelineRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to update pipeline run")
	}
}
