package pipeline

import (
	"context"
	"database/sql"
	"errors"
)

// Repository handles database operations for pipeline tracking
type Repository struct {
	db *sql.DB
}

var _ RunStore = (*Repository)(nil)

// NewRepository creates a new pipeline repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreatePipelineRun creates a new pipeline run record
func (r *Repository) CreatePipelineRun(ctx context.Context, run *PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (
			id, pipeline_name, as_of, status, started_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.ID, run.PipelineName, run.AsOf, run.Status, run.StartedAt,
	)

	return err
}

// UpdatePipelineRun updates an existing pipeline run
func (r *Repository) UpdatePipelineRun(ctx context.Context, run *PipelineRun) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, total_materials = $2, generated = $3, skipped = $4,
		    failed = $5, message = $6, completed_at = $7, error_message = $8
		WHERE id = $9
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.Status, run.Total, run.Generated, run.Skipped,
		run.Failed, run.Message, run.CompletedAt, run.ErrorMessage, run.ID,
	)

	return err
}

const selectRun = `
	SELECT id, pipeline_name, as_of, status, total_materials, generated,
	       skipped, failed, message, started_at, completed_at, error_message
	FROM pipeline_runs
`

// GetPipelineRun retrieves a pipeline run by ID. It returns nil when none exists.
func (r *Repository) GetPipelineRun(ctx context.Context, id string) (*PipelineRun, error) {
	return r.scanRun(r.db.QueryRowContext(ctx, selectRun+` WHERE id = $1`, id))
}

// LatestPipelineRun retrieves the most recently started run of a pipeline.
func (r *Repository) LatestPipelineRun(ctx context.Context, pipelineName string) (*PipelineRun, error) {
	query := selectRun + `
		WHERE pipeline_name = $1
		ORDER BY started_at DESC
		LIMIT 1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, pipelineName))
}

func (r *Repository) scanRun(row *sql.Row) (*PipelineRun, error) {
	run := &PipelineRun{}
	var errMsg sql.NullString
	err := row.Scan(
		&run.ID, &run.PipelineName, &run.AsOf, &run.Status,
		&run.Total, &run.Generated, &run.Skipped, &run.Failed,
		&run.Message, &run.StartedAt, &run.CompletedAt, &errMsg,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.ErrorMessage = errMsg.String
	return run, nil
}
