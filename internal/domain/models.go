// backend-go/internal/domain/models.go
package domain

import "time"

// Material is a raw material tracked by the registry, with its stock thresholds.
type Material struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Unit          string    `json:"unit" db:"unit"`
	CurrentStock  float64   `json:"current_stock" db:"current_stock"`
	CriticalStock float64   `json:"critical_stock" db:"critical_stock"`
	ReorderLevel  float64   `json:"reorder_level" db:"reorder_level"`
	MaxLevel      float64   `json:"max_level" db:"max_level"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a finished good built from materials.
type Product struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// BOMEntry says how much of a material goes into one unit of a product.
type BOMEntry struct {
	ID              int64   `json:"id" db:"id"`
	ProductID       int64   `json:"product_id" db:"product_id"`
	MaterialID      int64   `json:"material_id" db:"material_id"`
	QuantityPerUnit float64 `json:"quantity_per_unit" db:"quantity_per_unit"`
	IsActive        bool    `json:"is_active" db:"is_active"`
}

// OutputSample is one production record. Several samples may share a date.
type OutputSample struct {
	Date             time.Time `json:"date" db:"output_date"`
	QuantityProduced int64     `json:"quantity_produced" db:"quantity_produced"`
}

// InventoryTransaction is a raw ledger entry. Consumption is recorded with a
// negative quantity. MaterialID 0 means the entry has no material reference.
type InventoryTransaction struct {
	ID              int64     `json:"id" db:"id"`
	MaterialID      int64     `json:"material_id" db:"material_id"`
	Timestamp       time.Time `json:"timestamp" db:"occurred_at"`
	Quantity        float64   `json:"quantity" db:"quantity"`
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
}

// ConsumptionSample is the total consumed quantity of a material on one day.
type ConsumptionSample struct {
	MaterialID       int64     `json:"material_id"`
	Date             time.Time `json:"date"`
	QuantityConsumed float64   `json:"quantity_consumed"`
}

// MaterialForecast is the projected stock position of a material over the
// forecast horizon. Only one forecast per material is active at a time.
type MaterialForecast struct {
	ID                  int64           `json:"id" db:"id"`
	MaterialID          int64           `json:"material_id" db:"material_id"`
	MaterialName        string          `json:"material_name" db:"material_name"`
	CurrentStock        float64         `json:"current_stock" db:"current_stock"`
	DailyUsage          float64         `json:"daily_usage" db:"daily_usage"`
	ForecastedUsage     float64         `json:"forecasted_usage" db:"forecasted_usage"`
	DaysUntilStockout   int             `json:"days_until_stockout" db:"days_until_stockout"`
	ProjectedStock      float64         `json:"projected_stock" db:"projected_stock"`
	Status              StockStatus     `json:"status" db:"status"`
	NeedsReorder        bool            `json:"needs_reorder" db:"needs_reorder"`
	ConfidenceScore     int             `json:"confidence_score" db:"confidence_score"`
	ConfidenceLevel     ConfidenceLevel `json:"confidence_level" db:"confidence_level"`
	ForecastMethod      ForecastMethod  `json:"forecast_method" db:"forecast_method"`
	AverageDailyOutput  float64         `json:"average_daily_output" db:"average_daily_output"`
	ExpectedDailyUsage  float64         `json:"expected_daily_usage" db:"expected_daily_usage"`
	SampleCount         int             `json:"sample_count" db:"sample_count"`
	TrendSlope          float64         `json:"trend_slope" db:"trend_slope"`
	TrendDirection      TrendDirection  `json:"trend_direction" db:"trend_direction"`
	ForecastDays        int             `json:"forecast_days" db:"forecast_days"`
	ForecastPeriodStart time.Time       `json:"forecast_period_start" db:"forecast_period_start"`
	ForecastPeriodEnd   time.Time       `json:"forecast_period_end" db:"forecast_period_end"`
	ForecastDate        time.Time       `json:"forecast_date" db:"forecast_date"`
	IsActive            bool            `json:"is_active" db:"is_active"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
