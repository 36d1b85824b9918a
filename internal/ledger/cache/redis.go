// Package cache provides a Redis-backed read-through cache for computed
// summaries. Summaries are derived data, so every failure mode degrades
// to a recompute: cache errors are logged and reported as misses, never
// propagated to the caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
)

const (
	summaryKeyPrefix = "ledger:summary:"
	overviewKey      = "ledger:overview"

	// DefaultTTL bounds staleness when an invalidation is lost (for
	// example a crash between commit and invalidate).
	DefaultTTL = 5 * time.Minute
)

// RedisSummaryCache caches per-year summaries and the cross-year
// overview in Redis with a short TTL.
type RedisSummaryCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

type Option func(*RedisSummaryCache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *RedisSummaryCache) {
		c.logger = logger
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *RedisSummaryCache) {
		c.ttl = ttl
	}
}

// NewRedis constructs a Redis-backed summary cache.
func NewRedis(client *redis.Client, opts ...Option) *RedisSummaryCache {
	c := &RedisSummaryCache{
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisSummaryCache) logCacheError(ctx context.Context, op string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, "summary cache degraded", "op", op, "error", err)
	}
}

func (c *RedisSummaryCache) GetSummary(ctx context.Context, yearID id.YearID) (models.Summary, bool) {
	raw, err := c.client.Get(ctx, summaryKeyPrefix+yearID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Summary{}, false
	}
	if err != nil {
		c.logCacheError(ctx, "get_summary", err)
		return models.Summary{}, false
	}
	var s models.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		c.logCacheError(ctx, "get_summary", err)
		return models.Summary{}, false
	}
	return s, true
}

func (c *RedisSummaryCache) SetSummary(ctx context.Context, yearID id.YearID, s models.Summary) {
	raw, err := json.Marshal(s)
	if err != nil {
		c.logCacheError(ctx, "set_summary", err)
		return
	}
	if err := c.client.Set(ctx, summaryKeyPrefix+yearID.String(), raw, c.ttl).Err(); err != nil {
		c.logCacheError(ctx, "set_summary", err)
	}
}

func (c *RedisSummaryCache) GetOverview(ctx context.Context) ([]models.YearSummary, bool) {
	raw, err := c.client.Get(ctx, overviewKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logCacheError(ctx, "get_overview", err)
		return nil, false
	}
	var rows []models.YearSummary
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.logCacheError(ctx, "get_overview", err)
		return nil, false
	}
	return rows, true
}

func (c *RedisSummaryCache) SetOverview(ctx context.Context, rows []models.YearSummary) {
	raw, err := json.Marshal(rows)
	if err != nil {
		c.logCacheError(ctx, "set_overview", err)
		return
	}
	if err := c.client.Set(ctx, overviewKey, raw, c.ttl).Err(); err != nil {
		c.logCacheError(ctx, "set_overview", err)
	}
}

// Invalidate drops the year's summary together with the overview, since
// any figure change in one year changes the overview row as well.
func (c *RedisSummaryCache) Invalidate(ctx context.Context, yearID id.YearID) {
	if err := c.client.Del(ctx, summaryKeyPrefix+yearID.String(), overviewKey).Err(); err != nil {
		c.logCacheError(ctx, "invalidate", err)
	}
}
