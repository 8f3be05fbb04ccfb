package domain

import "time"

// ForecastFilter narrows active forecast queries.
type ForecastFilter struct {
	MaterialIDs   []int64  `json:"material_ids"`
	Statuses      []string `json:"statuses"`
	NeedsReorder  *bool    `json:"needs_reorder"`
	SortField     string   `json:"sort_field"`
	SortDirection string   `json:"sort_direction"`
	Page          int      `json:"page"`
	PageSize      int      `json:"page_size"`
}

// ForecastStatusCount is the number of active forecasts in one status.
type ForecastStatusCount struct {
	Status StockStatus `json:"status" db:"status"`
	Label  string      `json:"label" db:"-"`
	Count  int         `json:"count" db:"count"`
}

// ForecastSummary aggregates the active forecasts for the summary cards.
type ForecastSummary struct {
	StatusCounts []ForecastStatusCount `json:"status_counts"`
	Total        int                   `json:"total"`
	NeedsReorder int                   `json:"needs_reorder"`
	LastForecast *time.Time            `json:"last_forecast,omitempty"`
}

// ForecastItemsResponse represents the paginated response for active forecasts
type ForecastItemsResponse struct {
	Items      []MaterialForecast `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
