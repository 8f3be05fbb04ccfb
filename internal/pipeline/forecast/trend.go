package forecast

import (
	"math"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

// Slope fits an ordinary least-squares line through (i, values[i-1]) for
// i = 1..n. Indices are dense: a day without output has no point at all.
// Fewer than two points give a zero slope.
func Slope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denominator
}

// Direction labels a slope, treating |slope| <= 0.1 as stable.
func Direction(slope float64) domain.TrendDirection {
	switch {
	case slope > trendDeadband:
		return domain.TrendIncreasing
	case slope < -trendDeadband:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// PredictedOutput tapers the trend linearly across the horizon: day d of an
// N-day window gets d/N of the slope added to the average.
func PredictedOutput(average, slope float64, dayOffset, forecastDays int) float64 {
	if forecastDays <= 0 {
		return average
	}
	return average + slope*(float64(dayOffset)/float64(forecastDays))
}

// ProjectOutput returns the predicted output for days 1..forecastDays,
// floored at zero.
func ProjectOutput(average, slope float64, forecastDays int) []float64 {
	if forecastDays <= 0 {
		return nil
	}
	projection := make([]float64, forecastDays)
	for day := 1; day <= forecastDays; day++ {
		projection[day-1] = math.Max(0, PredictedOutput(average, slope, day, forecastDays))
	}
	return projection
}

// TrendAdjustedAverage is the mean of ProjectOutput over the horizon.
func TrendAdjustedAverage(average, slope float64, forecastDays int) float64 {
	projection := ProjectOutput(average, slope, forecastDays)
	if len(projection) == 0 {
		return average
	}
	return mean(projection)
}
