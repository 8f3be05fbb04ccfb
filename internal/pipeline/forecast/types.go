package forecast

import (
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

const (
	shortWindow = 7
	longWindow  = 14
	shortWeight = 0.6
	longWeight  = 0.4

	// Transaction-derived usage outside [minUsageRatio, maxUsageRatio] of the
	// BOM baseline is rejected.
	minUsageRatio = 0.5
	maxUsageRatio = 2.0

	trendDeadband = 0.1

	imminentStockoutDays = 7

	baseConfidence         = 70
	historyConfidenceBonus = 20
	richHistoryBonus       = 10
	richHistorySamples     = 14
	maxConfidence          = 100
	highConfidence         = 90
	mediumConfidence       = 70
)

// Config holds configuration for the material forecast pipeline
type Config struct {
	ForecastDays            int
	TrendWindowDays         int
	StockoutSentinel        int
	ReorderHorizonDays      int
	FallbackDailyOutput     float64
	ConsumptionType         string
	TrendAdjust             bool
	Workers                 int
	ConsumptionLookbackDays int
}

// DefaultConfig returns the stock forecasting constants.
func DefaultConfig() Config {
	return Config{
		ForecastDays:        30,
		TrendWindowDays:     14,
		StockoutSentinel:    99999,
		ReorderHorizonDays:  30,
		FallbackDailyOutput: 15.0,
		ConsumptionType:     "consumption",
		TrendAdjust:         true,
		Workers:             1,
	}
}

// NewConfig builds a pipeline Config from application settings. Unset
// numeric values fall back to DefaultConfig.
func NewConfig(fc config.ForecastConfig) Config {
	cfg := Config{
		ForecastDays:            fc.ForecastDays,
		TrendWindowDays:         fc.TrendWindowDays,
		StockoutSentinel:        fc.StockoutSentinel,
		ReorderHorizonDays:      fc.ReorderHorizonDays,
		FallbackDailyOutput:     fc.FallbackDailyOutput,
		ConsumptionType:         fc.ConsumptionType,
		TrendAdjust:             fc.TrendAdjust,
		Workers:                 fc.Workers,
		ConsumptionLookbackDays: fc.ConsumptionLookbackDays,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ForecastDays <= 0 {
		c.ForecastDays = def.ForecastDays
	}
	if c.TrendWindowDays <= 0 {
		c.TrendWindowDays = def.TrendWindowDays
	}
	if c.StockoutSentinel <= 0 {
		c.StockoutSentinel = def.StockoutSentinel
	}
	if c.ReorderHorizonDays <= 0 {
		c.ReorderHorizonDays = def.ReorderHorizonDays
	}
	if c.FallbackDailyOutput <= 0 {
		c.FallbackDailyOutput = def.FallbackDailyOutput
	}
	if c.ConsumptionType == "" {
		c.ConsumptionType = def.ConsumptionType
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	return c
}

// DailyOutput is the total production of one calendar day.
type DailyOutput struct {
	Date     time.Time
	Quantity float64
}

// UsageEstimate is the daily usage chosen for a material and how it was derived.
type UsageEstimate struct {
	DailyUsage         float64
	ExpectedDailyUsage float64 // BOM baseline
	FromTransactions   float64 // blended moving average, 0 without samples
	SampleCount        int
	Method             domain.ForecastMethod
	OutlierRejected    bool
}

// Classification holds the stock projection derived from a usage estimate.
type Classification struct {
	ForecastedUsage   float64
	ProjectedStock    float64
	DaysUntilStockout int
	Status            domain.StockStatus
	NeedsReorder      bool
	ConfidenceScore   int
	ConfidenceLevel   domain.ConfidenceLevel
}

// SkippedMaterial records a material the batch could not forecast.
type SkippedMaterial struct {
	MaterialID int64  `json:"material_id"`
	Reason     string `json:"reason"`
}
