package forecast

import (
	"fmt"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline"
)

// Summary reports the outcome of one forecast batch.
type Summary struct {
	AsOf               time.Time                 `json:"as_of"`
	TotalMaterials     int                       `json:"total_materials"`
	Generated          int                       `json:"generated"`
	Skipped            int                       `json:"skipped"`
	Failed             int                       `json:"failed"`
	AverageDailyOutput float64                   `json:"average_daily_output"`
	OutputDays         int                       `json:"output_days"`
	TrendSlope         float64                   `json:"trend_slope"`
	TrendDirection     domain.TrendDirection     `json:"trend_direction"`
	SkippedMaterials   []SkippedMaterial         `json:"skipped_materials,omitempty"`
	Forecasts          []domain.MaterialForecast `json:"-"`
}

// Counts implements pipeline.Report.
func (s *Summary) Counts() pipeline.RunCounts {
	return pipeline.RunCounts{
		Total:     s.TotalMaterials,
		Generated: s.Generated,
		Skipped:   s.Skipped,
		Failed:    s.Failed,
	}
}

// Message is the user-facing one-line result of the batch.
func (s *Summary) Message() string {
	return fmt.Sprintf("generated %d forecasts for %d materials (%d skipped, %d failed)",
		s.Generated, s.TotalMaterials, s.Skipped, s.Failed)
}
