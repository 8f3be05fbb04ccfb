package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/config"
	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	forecastSummaryKeyPrefix = "forecast:summary"
	scanBatchSize            = 100
)

// ForecastCache holds forecast status summaries between batch runs.
type ForecastCache interface {
	GetSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.ForecastFilter, summary *domain.ForecastSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache returns a Redis backed cache, or a no-op cache when
// caching is disabled.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, bool, error) {
	key := buildForecastSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.ForecastSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode forecast summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisForecastCache) SetSummary(ctx context.Context, filter domain.ForecastFilter, summary *domain.ForecastSummary) error {
	key := buildForecastSummaryKey(filter)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode forecast summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastSummaryKeyPrefix, scanBatchSize)
}

func (n *noopForecastCache) GetSummary(ctx context.Context, filter domain.ForecastFilter) (*domain.ForecastSummary, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetSummary(ctx context.Context, filter domain.ForecastFilter, summary *domain.ForecastSummary) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastSummaryKey(filter domain.ForecastFilter) string {
	return fmt.Sprintf("%s:%s", forecastSummaryKeyPrefix, forecastFilterHash(filter))
}

// forecastFilterHash only covers the fields that change a summary; sort and
// paging do not.
func forecastFilterHash(filter domain.ForecastFilter) string {
	parts := []string{}

	if len(filter.MaterialIDs) > 0 {
		parts = append(parts, "material_ids="+joinInt64s(filter.MaterialIDs))
	}
	if len(filter.Statuses) > 0 {
		parts = append(parts, "statuses="+joinStrings(filter.Statuses))
	}
	if filter.NeedsReorder != nil {
		parts = append(parts, "needs_reorder="+strconv.FormatBool(*filter.NeedsReorder))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func joinInt64s(values []int64) string {
	c := append([]int64(nil), values...)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	strs := make([]string, len(c))
	for i, v := range c {
		strs[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(strs, ",")
}

func joinStrings(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(strings.ToLower(c[i]))
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
