package postgres

import (
	"strings"
	"testing"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

func TestBuildForecastFilterClause(t *testing.T) {
	reorder := true
	clause, args := buildForecastFilterClause(domain.ForecastFilter{
		MaterialIDs:  []int64{1, 2},
		Statuses:     []string{"Critical", " low_stock"},
		NeedsReorder: &reorder,
	}, "f.", 1)

	want := " AND f.material_id = ANY($1) AND f.status = ANY($2) AND f.needs_reorder = $3"
	if clause != want {
		t.Fatalf("clause = %q\nwant     %q", clause, want)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}

	if clause, args := buildForecastFilterClause(domain.ForecastFilter{}, "", 1); clause != "" || args != nil {
		t.Fatalf("empty filter should produce no clause, got %q %v", clause, args)
	}
}

func TestBuildForecastOrderClause(t *testing.T) {
	tests := []struct {
		filter domain.ForecastFilter
		want   string
	}{
		{domain.ForecastFilter{}, "days_until_stockout ASC"},
		{domain.ForecastFilter{SortField: "projected_stock", SortDirection: "DESC"}, "projected_stock DESC"},
		{domain.ForecastFilter{SortField: "status; DROP TABLE materials"}, "days_until_stockout ASC"},
	}
	for _, tt := range tests {
		got := buildForecastOrderClause(tt.filter, "")
		if !strings.Contains(got, tt.want) {
			t.Errorf("order clause %q does not contain %q", got, tt.want)
		}
	}
}
