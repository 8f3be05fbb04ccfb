package pipeline

import (
	"context"
	"time"
)

// Pipeline defines the interface that all batch pipelines must implement
type Pipeline interface {
	// Name returns the unique identifier for this pipeline
	Name() string

	// Execute runs one full pass of the pipeline as of the given time
	Execute(ctx context.Context, asOf time.Time) (Report, error)
}

// Report is what a finished pipeline pass hands back to the orchestrator.
type Report interface {
	Counts() RunCounts
	Message() string
}

// RunCounts are the per-item outcomes of a pass.
type RunCounts struct {
	Total     int
	Generated int
	Skipped   int
	Failed    int
}

// PipelineConfig holds configuration for a pipeline instance
type PipelineConfig struct {
	Name        string
	WorkerCount int // Number of concurrent per-item workers
}

// DefaultPipelineConfig returns sequential defaults
func DefaultPipelineConfig(name string) PipelineConfig {
	return PipelineConfig{
		Name:        name,
		WorkerCount: 1,
	}
}

// PipelineStatus represents the current state of a pipeline run
type PipelineStatus string

const (
	StatusPending    PipelineStatus = "pending"
	StatusProcessing PipelineStatus = "processing"
	StatusCompleted  PipelineStatus = "completed"
	StatusFailed     PipelineStatus = "failed"
)

// PipelineRun tracks a single execution of a pipeline
type PipelineRun struct {
	ID           string         `json:"id"`
	PipelineName string         `json:"pipeline_name"`
	AsOf         time.Time      `json:"as_of"`
	Status       PipelineStatus `json:"status"`
	Total        int            `json:"total"`
	Generated    int            `json:"generated"`
	Skipped      int            `json:"skipped"`
	Failed       int            `json:"failed"`
	Message      string         `json:"message"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// RunStore persists pipeline run bookkeeping.
type RunStore interface {
	CreatePipelineRun(ctx context.Context, run *PipelineRun) error
	UpdatePipelineRun(ctx context.Context, run *PipelineRun) error
	GetPipelineRun(ctx context.Context, id string) (*PipelineRun, error)
	LatestPipelineRun(ctx context.Context, pipelineName string) (*PipelineRun, error)
}
