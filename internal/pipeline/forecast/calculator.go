package forecast

import (
	"math"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

// ForecastCalculator turns a usage estimate into a stock projection, status
// and reorder decision. It holds the single rule table for stock statuses.
type ForecastCalculator struct {
	forecastDays       int
	stockoutSentinel   int
	reorderHorizonDays int
}

// NewForecastCalculator creates a new forecast calculator
func NewForecastCalculator(cfg Config) *ForecastCalculator {
	cfg = cfg.withDefaults()
	return &ForecastCalculator{
		forecastDays:       cfg.ForecastDays,
		stockoutSentinel:   cfg.StockoutSentinel,
		reorderHorizonDays: cfg.ReorderHorizonDays,
	}
}

// Calculate computes the projection for one material.
func (fc *ForecastCalculator) Calculate(material domain.Material, usage UsageEstimate) Classification {
	c := Classification{}

	// 1. Forecasted usage over the horizon and the stock left at its end
	c.ForecastedUsage = mulRound(usage.DailyUsage, fc.forecastDays)
	c.ProjectedStock = subRound(material.CurrentStock, c.ForecastedUsage)

	// 2. Days until stockout, clamped to [0, sentinel]
	c.DaysUntilStockout = fc.DaysUntilStockout(material.CurrentStock, usage.DailyUsage)

	// 3. Status
	c.Status = ClassifyStatus(material, c.ProjectedStock, c.DaysUntilStockout)

	// 4. Reorder flag
	c.NeedsReorder = c.Status == domain.StatusOutOfStock ||
		c.DaysUntilStockout <= fc.reorderHorizonDays ||
		c.ProjectedStock <= material.ReorderLevel

	// 5. Confidence
	c.ConfidenceScore, c.ConfidenceLevel = Confidence(usage.SampleCount)

	return c
}

// DaysUntilStockout returns floor(currentStock / dailyUsage), or the sentinel
// when nothing is consumed or the result would exceed it.
func (fc *ForecastCalculator) DaysUntilStockout(currentStock, dailyUsage float64) int {
	if dailyUsage <= 0 {
		return fc.stockoutSentinel
	}

	days := math.Floor(currentStock / dailyUsage)
	if days >= float64(fc.stockoutSentinel) {
		return fc.stockoutSentinel
	}
	if days < 0 {
		return 0
	}
	return int(days)
}

// ClassifyStatus applies the status rules in priority order; the first match
// wins. Stock that is already empty is out of stock whatever the projection.
func ClassifyStatus(material domain.Material, projectedStock float64, daysUntilStockout int) domain.StockStatus {
	if material.CurrentStock <= 0 {
		return domain.StatusOutOfStock
	}

	criticalBand := material.CriticalStock > 0 && projectedStock <= material.CriticalStock

	switch {
	case projectedStock <= 0:
		return domain.StatusOutOfStock
	case daysUntilStockout <= 0:
		return domain.StatusOutOfStock
	case daysUntilStockout <= imminentStockoutDays && criticalBand:
		return domain.StatusCritical
	case daysUntilStockout <= imminentStockoutDays:
		return domain.StatusOutOfStock
	case criticalBand:
		return domain.StatusCritical
	case material.ReorderLevel > 0 && projectedStock <= material.ReorderLevel:
		return domain.StatusLowStock
	case material.MaxLevel > 0 && projectedStock > material.MaxLevel:
		return domain.StatusOverstocked
	default:
		return domain.StatusInStock
	}
}

// Confidence scores how much consumption history backs a forecast.
func Confidence(sampleCount int) (int, domain.ConfidenceLevel) {
	score := baseConfidence
	if sampleCount > 0 {
		score += historyConfidenceBonus
		if sampleCount >= richHistorySamples {
			score += richHistoryBonus
		}
	}
	if score > maxConfidence {
		score = maxConfidence
	}

	switch {
	case score >= highConfidence:
		return score, domain.ConfidenceHigh
	case score >= mediumConfidence:
		return score, domain.ConfidenceMedium
	default:
		return score, domain.ConfidenceLow
	}
}
