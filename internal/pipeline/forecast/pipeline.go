package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// Repositories are the stores the forecast pipeline reads from and writes to.
type Repositories struct {
	Outputs      repository.OutputRepository
	Transactions repository.TransactionRepository
	BOMs         repository.BOMRepository
	Materials    repository.MaterialRepository
	Forecasts    repository.ForecastRepository
}

// ForecastPipeline implements the generic pipeline.Pipeline interface for material forecasts.
type ForecastPipeline struct {
	config     Config
	calculator *ForecastCalculator
	repos      Repositories
	worker     *pipeline.Worker
}

var _ pipeline.Pipeline = (*ForecastPipeline)(nil)

// NewForecastPipeline creates a new material forecast pipeline instance.
func NewForecastPipeline(cfg Config, repos Repositories) *ForecastPipeline {
	cfg = cfg.withDefaults()
	return &ForecastPipeline{
		config:     cfg,
		calculator: NewForecastCalculator(cfg),
		repos:      repos,
		worker:     pipeline.NewWorker(cfg.Workers),
	}
}

// Name returns the unique identifier of this pipeline.
func (p *ForecastPipeline) Name() string {
	return "material_forecast"
}

// Execute runs Generate for the orchestrator.
func (p *ForecastPipeline) Execute(ctx context.Context, asOf time.Time) (pipeline.Report, error) {
	return p.Generate(ctx, asOf)
}

// inputs is the data every material forecast is computed from.
type inputs struct {
	averageOutput   float64
	outputDays      int
	effectiveOutput float64
	slope           float64
	direction       domain.TrendDirection
	consumption     map[int64][]domain.ConsumptionSample
	ratios          map[int64]float64
	materials       []domain.Material
}

// Generate computes and stores one active forecast per resolvable material.
// Failing to load inputs aborts the run; a material that cannot be resolved
// is skipped and a material whose forecast cannot be stored is counted as
// failed, and the batch continues in both cases.
func (p *ForecastPipeline) Generate(ctx context.Context, asOf time.Time) (*Summary, error) {
	asOf = domain.DayOf(asOf)

	in, err := p.load(ctx, asOf)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("materials", len(in.materials)).
		Float64("average_daily_output", roundFloat(in.averageOutput, 2)).
		Int("output_days", in.outputDays).
		Float64("trend_slope", roundFloat(in.slope, 4)).
		Str("trend", string(in.direction)).
		Msg("forecast: inputs loaded")

	type outcome struct {
		forecast *domain.MaterialForecast
		skipped  string
		failed   bool
	}
	outcomes := make([]outcome, len(in.materials))

	err = p.worker.Each(ctx, len(in.materials), func(ctx context.Context, i int) error {
		material := in.materials[i]

		f, err := p.buildForecast(material, in, asOf)
		if err != nil {
			var missing *domain.MissingReferenceError
			if !errors.As(err, &missing) {
				return err
			}
			log.Warn().Int64("material_id", material.ID).Str("reason", err.Error()).Msg("forecast: skipping material")
			outcomes[i] = outcome{skipped: err.Error()}
			return nil
		}

		if _, err := p.repos.Forecasts.ReplaceActive(ctx, *f); err != nil {
			log.Error().Err(err).Int64("material_id", material.ID).Msg("forecast: failed to store forecast")
			outcomes[i] = outcome{failed: true}
			return nil
		}

		outcomes[i] = outcome{forecast: f}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("forecast batch interrupted: %w", err)
	}

	summary := &Summary{
		AsOf:               asOf,
		TotalMaterials:     len(in.materials),
		AverageDailyOutput: in.averageOutput,
		OutputDays:         in.outputDays,
		TrendSlope:         in.slope,
		TrendDirection:     in.direction,
		Forecasts:          make([]domain.MaterialForecast, 0, len(in.materials)),
	}
	for i, o := range outcomes {
		switch {
		case o.forecast != nil:
			summary.Generated++
			summary.Forecasts = append(summary.Forecasts, *o.forecast)
		case o.failed:
			summary.Failed++
		default:
			summary.Skipped++
			summary.SkippedMaterials = append(summary.SkippedMaterials, SkippedMaterial{
				MaterialID: in.materials[i].ID,
				Reason:     o.skipped,
			})
		}
	}

	log.Info().
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("forecast: " + summary.Message())

	return summary, nil
}

func (p *ForecastPipeline) load(ctx context.Context, asOf time.Time) (*inputs, error) {
	in := &inputs{}

	// 1) Production ledger: aggregate average and trend over the trailing window
	samples, err := p.repos.Outputs.ListDailyOutput(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load production outputs: %w", err)
	}
	in.averageOutput, in.outputDays = AverageDailyOutput(samples, p.config.FallbackDailyOutput)
	in.slope = Slope(WindowValues(DailyOutputSeries(samples), asOf, p.config.TrendWindowDays))
	in.direction = Direction(in.slope)
	in.effectiveOutput = in.averageOutput
	if p.config.TrendAdjust {
		in.effectiveOutput = TrendAdjustedAverage(in.averageOutput, in.slope, p.config.ForecastDays)
	}

	// 2) Transaction ledger: per-material daily consumption
	var since time.Time
	if p.config.ConsumptionLookbackDays > 0 {
		since = asOf.AddDate(0, 0, -p.config.ConsumptionLookbackDays)
	}
	transactions, err := p.repos.Transactions.ListByType(ctx, p.config.ConsumptionType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory transactions: %w", err)
	}
	in.consumption = ConsumptionByMaterialAndDate(transactions, p.config.ConsumptionType)

	// 3) BOM ratios
	entries, err := p.repos.BOMs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill of materials: %w", err)
	}
	in.ratios = BOMRatios(entries)

	// 4) Material registry, in id order
	in.materials, err = p.repos.Materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	sort.Slice(in.materials, func(i, j int) bool {
		return in.materials[i].ID < in.materials[j].ID
	})

	return in, nil
}

func (p *ForecastPipeline) buildForecast(material domain.Material, in *inputs, asOf time.Time) (*domain.MaterialForecast, error) {
	if material.ID == 0 {
		return nil, &domain.MissingReferenceError{Resource: "material"}
	}

	ratio, ok := in.ratios[material.ID]
	if !ok {
		return nil, &domain.MissingReferenceError{Resource: "bom entry for material", ID: material.ID}
	}

	usage := EstimateUsage(in.consumption[material.ID], ratio, in.effectiveOutput)
	c := p.calculator.Calculate(material, usage)

	return &domain.MaterialForecast{
		MaterialID:          material.ID,
		MaterialName:        material.Name,
		CurrentStock:        material.CurrentStock,
		DailyUsage:          usage.DailyUsage,
		ForecastedUsage:     c.ForecastedUsage,
		DaysUntilStockout:   c.DaysUntilStockout,
		ProjectedStock:      c.ProjectedStock,
		Status:              c.Status,
		NeedsReorder:        c.NeedsReorder,
		ConfidenceScore:     c.ConfidenceScore,
		ConfidenceLevel:     c.ConfidenceLevel,
		ForecastMethod:      usage.Method,
		AverageDailyOutput:  roundFloat(in.effectiveOutput, 2),
		ExpectedDailyUsage:  roundFloat(usage.ExpectedDailyUsage, 2),
		SampleCount:         usage.SampleCount,
		TrendSlope:          roundFloat(in.slope, 4),
		TrendDirection:      in.direction,
		ForecastDays:        p.config.ForecastDays,
		ForecastPeriodStart: asOf,
		ForecastPeriodEnd:   asOf.AddDate(0, 0, p.config.ForecastDays),
		ForecastDate:        asOf,
		IsActive:            true,
	}, nil
}
