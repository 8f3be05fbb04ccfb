package forecast

import (
	"testing"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

func constantSamples(n int, qty float64) []domain.ConsumptionSample {
	samples := make([]domain.ConsumptionSample, n)
	for i := range samples {
		samples[i] = domain.ConsumptionSample{MaterialID: 1, Date: day(i+1, 0), QuantityConsumed: qty}
	}
	return samples
}

func TestEstimateUsage(t *testing.T) {
	ramp := make([]domain.ConsumptionSample, 14)
	for i := range ramp {
		ramp[i] = domain.ConsumptionSample{MaterialID: 1, Date: day(i+1, 0), QuantityConsumed: float64(i + 1)}
	}

	tests := []struct {
		name         string
		samples      []domain.ConsumptionSample
		ratio        float64
		avgOutput    float64
		wantUsage    float64
		wantMethod   domain.ForecastMethod
		wantRejected bool
	}{
		{
			name:       "no history uses BOM baseline",
			ratio:      2,
			avgOutput:  15,
			wantUsage:  30,
			wantMethod: domain.MethodBOMCalculation,
		},
		{
			// expected 10, history 25: ratio 2.5
			name:         "history above 2x baseline is rejected",
			samples:      constantSamples(5, 25),
			ratio:        1,
			avgOutput:    10,
			wantUsage:    10,
			wantMethod:   domain.MethodHistoricalTransactions,
			wantRejected: true,
		},
		{
			// expected 10, history 19.9: ratio 1.99
			name:       "history just inside band is kept",
			samples:    constantSamples(5, 19.9),
			ratio:      1,
			avgOutput:  10,
			wantUsage:  19.9,
			wantMethod: domain.MethodHistoricalTransactions,
		},
		{
			name:       "ratio of exactly 2 is kept",
			samples:    constantSamples(3, 20),
			ratio:      1,
			avgOutput:  10,
			wantUsage:  20,
			wantMethod: domain.MethodHistoricalTransactions,
		},
		{
			name:         "history below half the baseline is rejected",
			samples:      constantSamples(3, 4),
			ratio:        1,
			avgOutput:    10,
			wantUsage:    10,
			wantMethod:   domain.MethodHistoricalTransactions,
			wantRejected: true,
		},
		{
			name:       "zero baseline trusts history",
			samples:    constantSamples(3, 5),
			ratio:      0,
			avgOutput:  10,
			wantUsage:  5,
			wantMethod: domain.MethodHistoricalTransactions,
		},
		{
			// 0.6 * mean(8..14) + 0.4 * mean(1..14) = 0.6*11 + 0.4*7.5
			name:       "blends 7 and 14 sample windows",
			samples:    ramp,
			ratio:      0,
			avgOutput:  10,
			wantUsage:  9.6,
			wantMethod: domain.MethodHistoricalTransactions,
		},
		{
			name:       "short history uses every sample in both windows",
			samples:    []domain.ConsumptionSample{{QuantityConsumed: 2}, {QuantityConsumed: 4}},
			ratio:      0,
			avgOutput:  10,
			wantUsage:  3,
			wantMethod: domain.MethodHistoricalTransactions,
		},
		{
			name:       "rounds to two decimals",
			ratio:      1,
			avgOutput:  10.0 / 3.0,
			wantUsage:  3.33,
			wantMethod: domain.MethodBOMCalculation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateUsage(tt.samples, tt.ratio, tt.avgOutput)
			if got.DailyUsage != tt.wantUsage {
				t.Errorf("DailyUsage = %v, want %v", got.DailyUsage, tt.wantUsage)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %s, want %s", got.Method, tt.wantMethod)
			}
			if got.OutlierRejected != tt.wantRejected {
				t.Errorf("OutlierRejected = %v, want %v", got.OutlierRejected, tt.wantRejected)
			}
			if got.SampleCount != len(tt.samples) {
				t.Errorf("SampleCount = %d, want %d", got.SampleCount, len(tt.samples))
			}
		})
	}
}
