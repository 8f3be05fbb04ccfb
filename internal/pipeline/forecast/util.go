package forecast

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundFloat rounds v half away from zero to the given number of decimal places.
func roundFloat(v float64, decimals int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(decimals).Float64()
	return f
}

// mulRound returns a*b rounded to two decimals without binary float drift.
func mulRound(a float64, b int) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromInt(int64(b))).Round(2).Float64()
	return f
}

// subRound returns a-b rounded to two decimals.
func subRound(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
