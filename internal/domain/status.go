package domain

import "strings"

// StockStatus classifies a material's projected stock at the forecast horizon.
type StockStatus string

const (
	StatusOutOfStock  StockStatus = "out_of_stock"
	StatusCritical    StockStatus = "critical"
	StatusLowStock    StockStatus = "low_stock"
	StatusInStock     StockStatus = "in_stock"
	StatusOverstocked StockStatus = "overstocked"
)

// AllStockStatuses lists statuses from most to least urgent.
var AllStockStatuses = []StockStatus{
	StatusOutOfStock,
	StatusCritical,
	StatusLowStock,
	StatusInStock,
	StatusOverstocked,
}

var stockStatusLabels = map[StockStatus]string{
	StatusOutOfStock:  "Out of Stock",
	StatusCritical:    "Critical",
	StatusLowStock:    "Low Stock",
	StatusInStock:     "In Stock",
	StatusOverstocked: "Overstocked",
}

// Label returns a human-readable label for the status.
func (s StockStatus) Label() string {
	if label, ok := stockStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseStockStatus accepts either the code ("low_stock") or the label
// ("Low Stock"), case-insensitively.
func ParseStockStatus(value string) (StockStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	for _, status := range AllStockStatuses {
		if string(status) == normalized {
			return status, true
		}
	}

	return "", false
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

type ForecastMethod string

const (
	MethodHistoricalTransactions ForecastMethod = "historical_transactions"
	MethodBOMCalculation         ForecastMethod = "bom_calculation"
)

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)
