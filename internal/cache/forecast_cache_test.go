package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
)

func TestBuildForecastSummaryKey(t *testing.T) {
	yes := true
	no := false

	if got := buildForecastSummaryKey(domain.ForecastFilter{}); got != "forecast:summary:default" {
		t.Fatalf("unexpected default key %q", got)
	}

	// Paging and sorting never change a summary.
	paged := domain.ForecastFilter{Page: 3, PageSize: 10, SortField: "days_until_stockout"}
	if got := buildForecastSummaryKey(paged); got != "forecast:summary:default" {
		t.Fatalf("expected paging to share the default key, got %q", got)
	}

	a := domain.ForecastFilter{MaterialIDs: []int64{3, 1}, Statuses: []string{"Critical", "out_of_stock"}}
	b := domain.ForecastFilter{MaterialIDs: []int64{1, 3}, Statuses: []string{"out_of_stock", " critical"}}
	if buildForecastSummaryKey(a) != buildForecastSummaryKey(b) {
		t.Fatalf("expected order and case insensitive keys")
	}

	withReorder := domain.ForecastFilter{NeedsReorder: &yes}
	withoutReorder := domain.ForecastFilter{NeedsReorder: &no}
	if buildForecastSummaryKey(withReorder) == buildForecastSummaryKey(withoutReorder) {
		t.Fatalf("expected needs_reorder to change the key")
	}
	if !strings.HasPrefix(buildForecastSummaryKey(withReorder), forecastSummaryKeyPrefix+":") {
		t.Fatalf("expected key prefix %q", forecastSummaryKeyPrefix)
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisPassword: "secret", RedisDB: 2})
	if err != nil {
		t.Fatalf("buildRedisOptions: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://cache.internal:6380/4"})
	if err != nil {
		t.Fatalf("buildRedisOptions with url: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 4 {
		t.Fatalf("unexpected options from url: %+v", opts)
	}

	if _, err := buildRedisOptions(config.CacheConfig{RedisURL: "http://nope"}); err == nil {
		t.Fatalf("expected error for invalid scheme")
	}
}

func TestSummaryTTL(t *testing.T) {
	if got := summaryTTL(config.CacheConfig{}); got != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %s", got)
	}
	if got := summaryTTL(config.CacheConfig{SummaryTTLSeconds: 90}); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}

func TestNewForecastCache_Disabled(t *testing.T) {
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewForecastCache: %v", err)
	}
	ctx := context.Background()
	if err := c.SetSummary(ctx, domain.ForecastFilter{}, &domain.ForecastSummary{Total: 4}); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	if _, ok, _ := c.GetSummary(ctx, domain.ForecastFilter{}); ok {
		t.Fatalf("expected the disabled cache to always miss")
	}
}
