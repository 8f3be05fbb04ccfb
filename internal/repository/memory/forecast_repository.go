package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
)

// ForecastRepository stores forecasts in memory. All rows, active or not,
// are kept for history.
type ForecastRepository struct {
	mu     sync.RWMutex
	rows   []domain.MaterialForecast
	nextID int64
	now    func() time.Time
}

var _ repository.ForecastRepository = (*ForecastRepository)(nil)

// NewForecastRepository creates an empty forecast store
func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{now: time.Now}
}

// ReplaceActive deactivates and inserts under one lock so readers never see
// zero or two active rows for the material.
func (r *ForecastRepository) ReplaceActive(ctx context.Context, f domain.MaterialForecast) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].MaterialID == f.MaterialID && r.rows[i].IsActive {
			r.rows[i].IsActive = false
		}
	}

	r.nextID++
	f.ID = r.nextID
	f.IsActive = true
	f.CreatedAt = r.now()
	r.rows = append(r.rows, f)

	return f.ID, nil
}

func (r *ForecastRepository) ListActive(ctx context.Context, filter domain.ForecastFilter) ([]domain.MaterialForecast, int, error) {
	r.mu.RLock()
	active := r.activeMatching(filter)
	r.mu.RUnlock()

	sortForecasts(active, filter.SortField, filter.SortDirection)
	total := len(active)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(active) {
			return []domain.MaterialForecast{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(active) {
			end = len(active)
		}
		active = active[start:end]
	}

	return active, total, nil
}

func (r *ForecastRepository) GetActive(ctx context.Context, materialID int64) (*domain.MaterialForecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.rows {
		if f.MaterialID == materialID && f.IsActive {
			found := f
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ForecastRepository) History(ctx context.Context, materialID int64, limit int) ([]domain.MaterialForecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.MaterialForecast
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].MaterialID != materialID {
			continue
		}
		out = append(out, r.rows[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *ForecastRepository) StatusSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, error) {
	r.mu.RLock()
	active := r.activeMatching(filter)
	r.mu.RUnlock()

	counts := make(map[domain.StockStatus]int)
	summary := &domain.ForecastSummary{}
	for _, f := range active {
		counts[f.Status]++
		summary.Total++
		if f.NeedsReorder {
			summary.NeedsReorder++
		}
		if summary.LastForecast == nil || f.CreatedAt.After(*summary.LastForecast) {
			created := f.CreatedAt
			summary.LastForecast = &created
		}
	}

	for _, status := range domain.AllStockStatuses {
		if counts[status] == 0 {
			continue
		}
		summary.StatusCounts = append(summary.StatusCounts, domain.ForecastStatusCount{
			Status: status,
			Label:  status.Label(),
			Count:  counts[status],
		})
	}

	return summary, nil
}

// activeMatching must be called with the read lock held.
func (r *ForecastRepository) activeMatching(filter domain.ForecastFilter) []domain.MaterialForecast {
	materialIDs := make(map[int64]bool, len(filter.MaterialIDs))
	for _, id := range filter.MaterialIDs {
		materialIDs[id] = true
	}
	statuses := make(map[string]bool, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[strings.ToLower(s)] = true
	}

	var out []domain.MaterialForecast
	for _, f := range r.rows {
		if !f.IsActive {
			continue
		}
		if len(materialIDs) > 0 && !materialIDs[f.MaterialID] {
			continue
		}
		if len(statuses) > 0 && !statuses[string(f.Status)] {
			continue
		}
		if filter.NeedsReorder != nil && f.NeedsReorder != *filter.NeedsReorder {
			continue
		}
		out = append(out, f)
	}
	return out
}

func sortForecasts(rows []domain.MaterialForecast, field, direction string) {
	desc := strings.EqualFold(direction, "desc")

	var less func(a, b domain.MaterialForecast) bool
	switch field {
	case "projected_stock":
		less = func(a, b domain.MaterialForecast) bool { return a.ProjectedStock < b.ProjectedStock }
	case "material_id":
		less = func(a, b domain.MaterialForecast) bool { return a.MaterialID < b.MaterialID }
	case "confidence_score":
		less = func(a, b domain.MaterialForecast) bool { return a.ConfidenceScore < b.ConfidenceScore }
	default:
		less = func(a, b domain.MaterialForecast) bool { return a.DaysUntilStockout < b.DaysUntilStockout }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if less(a, b) {
			return !desc
		}
		if less(b, a) {
			return desc
		}
		return a.MaterialID < b.MaterialID
	})
}
