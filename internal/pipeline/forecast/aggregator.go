package forecast

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

// AverageDailyOutput sums production over every sample and divides by the
// number of distinct days that have at least one record. Without samples it
// returns fallback and zero days.
func AverageDailyOutput(samples []domain.OutputSample, fallback float64) (float64, int) {
	if len(samples) == 0 {
		return fallback, 0
	}

	days := make(map[time.Time]struct{}, len(samples))
	var total int64
	for _, s := range samples {
		days[domain.DayOf(s.Date)] = struct{}{}
		total += s.QuantityProduced
	}

	return float64(total) / float64(len(days)), len(days)
}

// DailyOutputSeries totals production per calendar day, oldest first. Days
// without records are absent rather than zero.
func DailyOutputSeries(samples []domain.OutputSample) []DailyOutput {
	totals := make(map[time.Time]float64)
	for _, s := range samples {
		totals[domain.DayOf(s.Date)] += float64(s.QuantityProduced)
	}

	series := make([]DailyOutput, 0, len(totals))
	for day, qty := range totals {
		series = append(series, DailyOutput{Date: day, Quantity: qty})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series
}

// WindowValues returns the quantities of the series points dated within the
// days calendar days ending on asOf, oldest first. Points after asOf are
// excluded; days <= 0 keeps everything up to asOf.
func WindowValues(series []DailyOutput, asOf time.Time, days int) []float64 {
	end := domain.DayOf(asOf).AddDate(0, 0, 1)
	var start time.Time
	if days > 0 {
		start = end.AddDate(0, 0, -days)
	}

	values := make([]float64, 0, len(series))
	for _, p := range series {
		if p.Date.Before(start) || !p.Date.Before(end) {
			continue
		}
		values = append(values, p.Quantity)
	}
	return values
}

type consumptionKey struct {
	materialID int64
	day        time.Time
}

// ConsumptionByMaterialAndDate keeps transactions of txType, groups them by
// material and calendar day and sums the absolute quantities. Samples per
// material are ordered oldest first. Transactions without a material are
// dropped.
func ConsumptionByMaterialAndDate(transactions []domain.InventoryTransaction, txType string) map[int64][]domain.ConsumptionSample {
	totals := make(map[consumptionKey]float64)
	for _, tx := range transactions {
		if tx.MaterialID == 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(tx.TransactionType), txType) {
			continue
		}
		key := consumptionKey{materialID: tx.MaterialID, day: domain.DayOf(tx.Timestamp)}
		totals[key] += math.Abs(tx.Quantity)
	}

	byMaterial := make(map[int64][]domain.ConsumptionSample)
	for key, qty := range totals {
		byMaterial[key.materialID] = append(byMaterial[key.materialID], domain.ConsumptionSample{
			MaterialID:       key.materialID,
			Date:             key.day,
			QuantityConsumed: qty,
		})
	}
	for _, samples := range byMaterial {
		sort.Slice(samples, func(i, j int) bool {
			return samples[i].Date.Before(samples[j].Date)
		})
	}

	return byMaterial
}

// BOMRatios reduces active BOM entries to one quantity-per-unit per material:
// the mean across every product that uses it. Entries without a material are
// ignored.
func BOMRatios(entries []domain.BOMEntry) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, e := range entries {
		if e.MaterialID == 0 || !e.IsActive {
			continue
		}
		sums[e.MaterialID] += e.QuantityPerUnit
		counts[e.MaterialID]++
	}

	ratios := make(map[int64]float64, len(sums))
	for id, sum := range sums {
		ratios[id] = sum / float64(counts[id])
	}
	return ratios
}
