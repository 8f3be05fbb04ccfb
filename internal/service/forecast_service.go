package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/cache"
	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize     = 50
	maxPageSize         = 500
	defaultHistoryLimit = 30
)

// ErrRunInProgress is returned when a forecast batch is already running.
var ErrRunInProgress = errors.New("a forecast run is already in progress")

type ForecastService struct {
	repo         repository.ForecastRepository
	cache        cache.ForecastCache
	pipeline     *forecast.ForecastPipeline
	runs         pipeline.RunStore
	orchestrator *pipeline.Orchestrator
	running      sync.Mutex
}

// NewForecastService wires the read side of the active forecasts with the
// batch that produces them. runs may be nil when run history is not kept.
func NewForecastService(repo repository.ForecastRepository, p *forecast.ForecastPipeline, runs pipeline.RunStore, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}

	s := &ForecastService{
		repo:     repo,
		cache:    cacheImpl,
		pipeline: p,
		runs:     runs,
	}
	s.orchestrator = pipeline.NewOrchestrator(runs, s.invalidateCache)
	return s
}

func (s *ForecastService) GetSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get summary failed")
	}

	summary, err := s.repo.StatusSummary(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, filter, summary); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set summary failed")
	}

	return summary, nil
}

func (s *ForecastService) GetItems(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastItemsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	items, total, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]domain.MaterialForecast, 0)
	}

	return &domain.ForecastItemsResponse{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}, nil
}

func (s *ForecastService) GetMaterial(ctx context.Context, materialID int64) (*domain.MaterialForecast, error) {
	return s.repo.GetActive(ctx, materialID)
}

func (s *ForecastService) GetHistory(ctx context.Context, materialID int64, limit int) ([]domain.MaterialForecast, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history, err := s.repo.History(ctx, materialID, limit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = make([]domain.MaterialForecast, 0)
	}
	return history, nil
}

// ExportCSV writes every active forecast matching filter, ignoring paging.
func (s *ForecastService) ExportCSV(ctx context.Context, filter domain.ForecastFilter, w io.Writer) (int, error) {
	filter.Page = 0
	filter.PageSize = 0

	items, _, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := forecast.WriteCSV(w, items); err != nil {
		return 0, fmt.Errorf("failed to write forecast export: %w", err)
	}
	return len(items), nil
}

// Run executes one forecast batch as of asOf and records it.
func (s *ForecastService) Run(ctx context.Context, asOf time.Time) (*pipeline.PipelineRun, *forecast.Summary, error) {
	if !s.running.TryLock() {
		return nil, nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	run, report, err := s.orchestrator.Run(ctx, s.pipeline, asOf)
	if err != nil {
		return run, nil, err
	}

	summary, ok := report.(*forecast.Summary)
	if !ok {
		return run, nil, fmt.Errorf("unexpected report type %T", report)
	}
	return run, summary, nil
}

// LatestRun returns the most recent forecast run, or nil when none is recorded.
func (s *ForecastService) LatestRun(ctx context.Context) (*pipeline.PipelineRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.LatestPipelineRun(ctx, s.pipeline.Name())
}

func (s *ForecastService) invalidateCache(ctx context.Context, run *pipeline.PipelineRun) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("forecast: cache invalidation failed")
	}
}
