package postgres

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/lib/pq"
)

// buildForecastFilterClause constructs SQL filter clauses for active forecast queries
func buildForecastFilterClause(filter domain.ForecastFilter, alias string, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if len(filter.MaterialIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("%smaterial_id = ANY($%d)", alias, idx))
		args = append(args, pq.Array(filter.MaterialIDs))
		idx++
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, strings.ToLower(strings.TrimSpace(s)))
		}
		clauses = append(clauses, fmt.Sprintf("%sstatus = ANY($%d)", alias, idx))
		args = append(args, pq.Array(statuses))
		idx++
	}

	if filter.NeedsReorder != nil {
		clauses = append(clauses, fmt.Sprintf("%sneeds_reorder = $%d", alias, idx))
		args = append(args, *filter.NeedsReorder)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(clauses, " AND "), args
}

var forecastSortColumns = map[string]string{
	"days_until_stockout": "days_until_stockout",
	"projected_stock":     "projected_stock",
	"material_id":         "material_id",
	"confidence_score":    "confidence_score",
}

// buildForecastOrderClause whitelists the sort column; unknown fields sort by
// urgency.
func buildForecastOrderClause(filter domain.ForecastFilter, alias string) string {
	column, ok := forecastSortColumns[filter.SortField]
	if !ok {
		column = "days_until_stockout"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortDirection, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s%s %s, %smaterial_id ASC", alias, column, direction, alias)
}
