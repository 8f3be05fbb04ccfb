package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type forecastRepository struct {
	db *DB
}

var _ repository.ForecastRepository = (*forecastRepository)(nil)

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

const forecastColumns = `
	id, material_id, material_name, current_stock, daily_usage, forecasted_usage,
	days_until_stockout, projected_stock, status, needs_reorder, confidence_score,
	confidence_level, forecast_method, average_daily_output, expected_daily_usage,
	sample_count, trend_slope, trend_direction, forecast_days, forecast_period_start,
	forecast_period_end, forecast_date, is_active, created_at
`

const insertForecast = `
	INSERT INTO material_forecasts (
		material_id, material_name, current_stock, daily_usage, forecasted_usage,
		days_until_stockout, projected_stock, status, needs_reorder, confidence_score,
		confidence_level, forecast_method, average_daily_output, expected_daily_usage,
		sample_count, trend_slope, trend_direction, forecast_days, forecast_period_start,
		forecast_period_end, forecast_date, is_active
	) VALUES (
		:material_id, :material_name, :current_stock, :daily_usage, :forecasted_usage,
		:days_until_stockout, :projected_stock, :status, :needs_reorder, :confidence_score,
		:confidence_level, :forecast_method, :average_daily_output, :expected_daily_usage,
		:sample_count, :trend_slope, :trend_direction, :forecast_days, :forecast_period_start,
		:forecast_period_end, :forecast_date, TRUE
	)
	RETURNING id
`

// ReplaceActive deactivates and inserts in one transaction. The partial
// unique index on (material_id) WHERE is_active rejects a second active row
// if two writers race on the same material.
func (r *forecastRepository) ReplaceActive(ctx context.Context, f domain.MaterialForecast) (int64, error) {
	var id int64

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE material_forecasts
			SET is_active = FALSE
			WHERE material_id = $1 AND is_active
		`, f.MaterialID); err != nil {
			return fmt.Errorf("failed to deactivate forecasts: %w", err)
		}

		rows, err := sqlx.NamedQueryContext(ctx, tx, insertForecast, f)
		if err != nil {
			return fmt.Errorf("failed to insert forecast: %w", err)
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return fmt.Errorf("failed to insert forecast: %w", err)
			}
			return errors.New("failed to insert forecast: no id returned")
		}
		return rows.Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("material %d: %w", f.MaterialID, err)
	}

	return id, nil
}

func (r *forecastRepository) ListActive(ctx context.Context, filter domain.ForecastFilter) ([]domain.MaterialForecast, int, error) {
	filterClause, args := buildForecastFilterClause(filter, "", 1)

	countQuery := `SELECT COUNT(*) FROM material_forecasts WHERE is_active` + filterClause

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		log.Error().Err(err).Msg("failed to count active forecasts")
		return nil, 0, fmt.Errorf("failed to count forecasts: %w", err)
	}

	query := `SELECT ` + forecastColumns + ` FROM material_forecasts WHERE is_active` +
		filterClause + buildForecastOrderClause(filter, "")

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	items := []domain.MaterialForecast{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		log.Error().Err(err).Msg("failed to fetch active forecasts")
		return nil, 0, fmt.Errorf("failed to fetch forecasts: %w", err)
	}

	return items, total, nil
}

func (r *forecastRepository) GetActive(ctx context.Context, materialID int64) (*domain.MaterialForecast, error) {
	query := `SELECT ` + forecastColumns + ` FROM material_forecasts WHERE material_id = $1 AND is_active`

	var f domain.MaterialForecast
	if err := r.db.GetContext(ctx, &f, query, materialID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get forecast for material %d: %w", materialID, err)
	}
	return &f, nil
}

func (r *forecastRepository) History(ctx context.Context, materialID int64, limit int) ([]domain.MaterialForecast, error) {
	query := `SELECT ` + forecastColumns + `
		FROM material_forecasts
		WHERE material_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{materialID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var history []domain.MaterialForecast
	if err := r.db.SelectContext(ctx, &history, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get forecast history for material %d: %w", materialID, err)
	}
	return history, nil
}

func (r *forecastRepository) StatusSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, error) {
	filterClause, args := buildForecastFilterClause(filter, "", 1)

	var counts []domain.ForecastStatusCount
	query := `
		SELECT status, COUNT(*) AS count
		FROM material_forecasts
		WHERE is_active` + filterClause + `
		GROUP BY status
	`
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		log.Error().Err(err).Msg("forecast summary: failed to fetch status counts")
		return nil, fmt.Errorf("failed to fetch status counts: %w", err)
	}

	var totals struct {
		Total        int          `db:"total"`
		NeedsReorder int          `db:"needs_reorder"`
		LastForecast sql.NullTime `db:"last_forecast"`
	}
	totalsQuery := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE needs_reorder) AS needs_reorder,
		       MAX(created_at) AS last_forecast
		FROM material_forecasts
		WHERE is_active` + filterClause
	if err := r.db.GetContext(ctx, &totals, totalsQuery, args...); err != nil {
		log.Error().Err(err).Msg("forecast summary: failed to fetch totals")
		return nil, fmt.Errorf("failed to fetch forecast totals: %w", err)
	}

	byStatus := make(map[domain.StockStatus]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	summary := &domain.ForecastSummary{
		Total:        totals.Total,
		NeedsReorder: totals.NeedsReorder,
	}
	if totals.LastForecast.Valid {
		last := totals.LastForecast.Time
		summary.LastForecast = &last
	}
	for _, status := range domain.AllStockStatuses {
		if byStatus[status] == 0 {
			continue
		}
		summary.StatusCounts = append(summary.StatusCounts, domain.ForecastStatusCount{
			Status: status,
			Label:  status.Label(),
			Count:  byStatus[status],
		})
	}

	return summary, nil
}
