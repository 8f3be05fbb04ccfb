package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, time.January, d, hour, 0, 0, 0, time.UTC)
}

func TestAverageDailyOutput(t *testing.T) {
	t.Run("empty input falls back", func(t *testing.T) {
		avg, days := AverageDailyOutput(nil, 15.0)
		if avg != 15.0 || days != 0 {
			t.Fatalf("got (%v, %d), want (15, 0)", avg, days)
		}
	})

	t.Run("divides by distinct days with output", func(t *testing.T) {
		samples := []domain.OutputSample{
			{Date: day(1, 8), QuantityProduced: 10},
			{Date: day(1, 16), QuantityProduced: 20},
			{Date: day(3, 8), QuantityProduced: 30},
		}
		avg, days := AverageDailyOutput(samples, 15.0)
		if avg != 30 || days != 2 {
			t.Fatalf("got (%v, %d), want (30, 2)", avg, days)
		}
	})
}

func TestDailyOutputSeriesSkipsGaps(t *testing.T) {
	samples := []domain.OutputSample{
		{Date: day(3, 8), QuantityProduced: 30},
		{Date: day(1, 8), QuantityProduced: 10},
		{Date: day(1, 16), QuantityProduced: 20},
	}

	series := DailyOutputSeries(samples)
	if len(series) != 2 {
		t.Fatalf("expected 2 points (no zero-filled day 2), got %d", len(series))
	}
	if !series[0].Date.Equal(day(1, 0)) || series[0].Quantity != 30 {
		t.Errorf("unexpected first point: %+v", series[0])
	}
	if !series[1].Date.Equal(day(3, 0)) || series[1].Quantity != 30 {
		t.Errorf("unexpected second point: %+v", series[1])
	}

	values := WindowValues(series, day(3, 12), 1)
	if len(values) != 1 || values[0] != 30 {
		t.Errorf("unexpected window values: %v", values)
	}
}

func TestWindowValues(t *testing.T) {
	series := []DailyOutput{
		{Date: day(1, 0), Quantity: 1},
		{Date: day(5, 0), Quantity: 5},
		{Date: day(14, 0), Quantity: 14},
		{Date: day(20, 0), Quantity: 20},
	}

	tests := []struct {
		name string
		asOf time.Time
		days int
		want []float64
	}{
		{"window ending mid series", day(14, 15), 14, []float64{1, 5, 14}},
		{"first day falls out", day(15, 0), 14, []float64{5, 14}},
		{"later points excluded", day(10, 0), 14, []float64{1, 5}},
		{"gap leaves window empty", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 14, []float64{}},
		{"unbounded window", day(31, 0), 0, []float64{1, 5, 14, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowValues(series, tt.asOf, tt.days)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestConsumptionByMaterialAndDate(t *testing.T) {
	transactions := []domain.InventoryTransaction{
		{MaterialID: 1, Timestamp: day(2, 9), Quantity: -4, TransactionType: "consumption"},
		{MaterialID: 1, Timestamp: day(1, 8), Quantity: -3, TransactionType: "consumption"},
		{MaterialID: 1, Timestamp: day(1, 17), Quantity: -2, TransactionType: "Consumption"},
		{MaterialID: 1, Timestamp: day(1, 12), Quantity: 100, TransactionType: "receipt"},
		{MaterialID: 0, Timestamp: day(1, 12), Quantity: -9, TransactionType: "consumption"},
		{MaterialID: 2, Timestamp: day(1, 10), Quantity: -1, TransactionType: "consumption"},
	}

	byMaterial := ConsumptionByMaterialAndDate(transactions, "consumption")

	if len(byMaterial) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(byMaterial))
	}

	m1 := byMaterial[1]
	if len(m1) != 2 {
		t.Fatalf("expected 2 days for material 1, got %d", len(m1))
	}
	if m1[0].QuantityConsumed != 5 || !m1[0].Date.Equal(day(1, 0)) {
		t.Errorf("day 1: got %+v, want 5 on Jan 1", m1[0])
	}
	if m1[1].QuantityConsumed != 4 || !m1[1].Date.Equal(day(2, 0)) {
		t.Errorf("day 2: got %+v, want 4 on Jan 2", m1[1])
	}

	if _, ok := byMaterial[0]; ok {
		t.Errorf("transactions without a material must be dropped")
	}
}

func TestBOMRatios(t *testing.T) {
	entries := []domain.BOMEntry{
		{ProductID: 1, MaterialID: 1, QuantityPerUnit: 2, IsActive: true},
		{ProductID: 2, MaterialID: 1, QuantityPerUnit: 4, IsActive: true},
		{ProductID: 3, MaterialID: 1, QuantityPerUnit: 100, IsActive: false},
		{ProductID: 1, MaterialID: 0, QuantityPerUnit: 1, IsActive: true},
		{ProductID: 1, MaterialID: 2, QuantityPerUnit: 0.5, IsActive: true},
	}

	ratios := BOMRatios(entries)
	if len(ratios) != 2 {
		t.Fatalf("expected 2 ratios, got %v", ratios)
	}
	if ratios[1] != 3 {
		t.Errorf("material 1 ratio = %v, want mean 3", ratios[1])
	}
	if ratios[2] != 0.5 {
		t.Errorf("material 2 ratio = %v, want 0.5", ratios[2])
	}
}
