package quotes

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const comparisonKeyPrefix = "cotizamed:comparison:item:"

// ComparisonCache stores rendered comparisons in Redis so the selection view
// does not recompute prices on every request. A nil client disables caching.
type ComparisonCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewComparisonCache constructs the cache.
func NewComparisonCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ComparisonCache {
	return &ComparisonCache{client: client, ttl: ttl, logger: logger}
}

func comparisonKey(itemID int64) string {
	return comparisonKeyPrefix + strconv.FormatInt(itemID, 10)
}

// Get returns the cached comparison for an item, or false on a miss. Cache
// failures degrade to a miss.
func (c *ComparisonCache) Get(ctx context.Context, itemID int64) (Comparison, bool) {
	if c == nil || c.client == nil {
		return Comparison{}, false
	}
	raw, err := c.client.Get(ctx, comparisonKey(itemID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("comparison cache read", slog.Any("error", err))
		}
		return Comparison{}, false
	}
	var cmp Comparison
	if err := json.Unmarshal(raw, &cmp); err != nil {
		return Comparison{}, false
	}
	return cmp, true
}

// Set stores the comparison, best effort.
func (c *ComparisonCache) Set(ctx context.Context, cmp Comparison) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(cmp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, comparisonKey(cmp.ItemID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("comparison cache write", slog.Any("error", err))
	}
}

// Invalidate drops the cached comparison after a quote mutation.
func (c *ComparisonCache) Invalidate(ctx context.Context, itemID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, comparisonKey(itemID)).Err(); err != nil {
		c.logger.Warn("comparison cache invalidate", slog.Any("error", err))
	}
}
