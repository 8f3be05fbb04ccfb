// backend-go/internal/repository/forecast_repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

// OutputRepository reads the production ledger.
type OutputRepository interface {
	// ListDailyOutput returns every output sample ordered by date.
	ListDailyOutput(ctx context.Context) ([]domain.OutputSample, error)
}

// TransactionRepository reads the inventory transaction ledger.
type TransactionRepository interface {
	// ListByType returns transactions of txType at or after since, ordered by
	// timestamp. A zero since returns the whole history.
	ListByType(ctx context.Context, txType string, since time.Time) ([]domain.InventoryTransaction, error)
}

// BOMRepository reads bill-of-materials entries.
type BOMRepository interface {
	// ListActive returns active entries whose product exists.
	ListActive(ctx context.Context) ([]domain.BOMEntry, error)
}

// MaterialRepository reads the material registry.
type MaterialRepository interface {
	List(ctx context.Context) ([]domain.Material, error)
}

// ForecastRepository stores material forecasts. At most one forecast per
// material is active at any time.
type ForecastRepository interface {
	// ReplaceActive deactivates every active forecast of f.MaterialID and
	// inserts f as the active one, atomically. It returns the new row id.
	ReplaceActive(ctx context.Context, f domain.MaterialForecast) (int64, error)
	ListActive(ctx context.Context, filter domain.ForecastFilter) ([]domain.MaterialForecast, int, error)
	GetActive(ctx context.Context, materialID int64) (*domain.MaterialForecast, error)
	History(ctx context.Context, materialID int64, limit int) ([]domain.MaterialForecast, error)
	StatusSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, error)
}
