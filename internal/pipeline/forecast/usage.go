package forecast

import (
	"math"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

// EstimateUsage picks the daily usage of a material from its consumption
// history, falling back to the BOM baseline when there is no history or when
// the history disagrees with the baseline by more than 2x either way.
// samples must be ordered oldest first.
func EstimateUsage(samples []domain.ConsumptionSample, quantityPerUnit, averageDailyOutput float64) UsageEstimate {
	est := UsageEstimate{
		SampleCount: len(samples),
		Method:      domain.MethodBOMCalculation,
	}

	// 1. BOM-theoretical baseline
	est.ExpectedDailyUsage = averageDailyOutput * quantityPerUnit
	usage := est.ExpectedDailyUsage

	// 2. Recency-weighted moving average of the consumption history
	if len(samples) > 0 {
		est.Method = domain.MethodHistoricalTransactions

		movingAvg7 := trailingMean(samples, shortWindow)
		movingAvg14 := trailingMean(samples, longWindow)
		est.FromTransactions = shortWeight*movingAvg7 + longWeight*movingAvg14
		usage = est.FromTransactions

		// 3. Outlier guard against the baseline
		if est.ExpectedDailyUsage > 0 {
			ratio := est.FromTransactions / est.ExpectedDailyUsage
			if ratio > maxUsageRatio || ratio < minUsageRatio {
				est.OutlierRejected = true
				usage = est.ExpectedDailyUsage
			}
		}
	}

	// 4. Floor at zero, two decimals
	est.DailyUsage = roundFloat(math.Max(0, usage), 2)

	return est
}

// trailingMean averages the last window samples, or all of them when fewer.
func trailingMean(samples []domain.ConsumptionSample, window int) float64 {
	if len(samples) > window {
		samples = samples[len(samples)-window:]
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.QuantityConsumed
	}
	return mean(values)
}
