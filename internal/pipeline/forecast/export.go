package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

var exportHeader = []string{
	"material_id", "material_name", "current_stock", "daily_usage",
	"forecasted_usage", "days_until_stockout", "projected_stock", "status",
	"needs_reorder", "confidence_score", "confidence_level", "forecast_method",
	"forecast_period_start", "forecast_period_end", "forecast_date",
}

// WriteCSV writes forecasts as CSV with a header row.
func WriteCSV(w io.Writer, forecasts []domain.MaterialForecast) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, f := range forecasts {
		record := []string{
			strconv.FormatInt(f.MaterialID, 10),
			f.MaterialName,
			formatQty(f.CurrentStock),
			formatQty(f.DailyUsage),
			formatQty(f.ForecastedUsage),
			strconv.Itoa(f.DaysUntilStockout),
			formatQty(f.ProjectedStock),
			string(f.Status),
			strconv.FormatBool(f.NeedsReorder),
			strconv.Itoa(f.ConfidenceScore),
			string(f.ConfidenceLevel),
			string(f.ForecastMethod),
			f.ForecastPeriodStart.Format("2006-01-02"),
			f.ForecastPeriodEnd.Format("2006-01-02"),
			f.ForecastDate.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write material %d: %w", f.MaterialID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
