package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mvidal/urlshort/internal/metrics"
	"github.com/mvidal/urlshort/internal/models"
)

const cacheKeyPrefix = "url:"

// CachedRepository is a read-through redis decorator around a Repository.
// Lookups hit redis first and fall back to the inner store, priming the
// cache on a miss. Inserts write through after the store accepts the row.
// Redis failures are soft: they are logged and the inner store answers.
type CachedRepository struct {
	inner   Repository
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCachedRepository(
	inner Repository,
	client *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *CachedRepository {
	return &CachedRepository{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func (c *CachedRepository) Insert(ctx context.Context, originalURL, shortCode string) (models.URLMapping, error) {
	mapping, err := c.inner.Insert(ctx, originalURL, shortCode)
	if err != nil {
		return models.URLMapping{}, err
	}

	c.cacheMapping(ctx, mapping)

	return mapping, nil
}

func (c *CachedRepository) FindByCode(ctx context.Context, shortCode string) (models.URLMapping, error) {
	if mapping, ok := c.fromCache(ctx, shortCode); ok {
		c.metrics.CacheHits.Inc()
		return mapping, nil
	}
	c.metrics.CacheMisses.Inc()

	mapping, err := c.inner.FindByCode(ctx, shortCode)
	if err != nil {
		return models.URLMapping{}, err
	}

	c.cacheMapping(ctx, mapping)

	return mapping, nil
}

func (c *CachedRepository) fromCache(ctx context.Context, shortCode string) (models.URLMapping, bool) {
	key := cacheKeyPrefix + shortCode

	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("short_code", shortCode), zap.Error(err))
		return models.URLMapping{}, false
	}
	if len(fields) == 0 {
		return models.URLMapping{}, false
	}

	// Sliding expiry: touching a key keeps popular codes cached.
	if c.ttl > 0 {
		c.client.Expire(ctx, key, c.ttl)
	}

	mapping := models.URLMapping{
		ID:          fields["id"],
		OriginalURL: fields["original_url"],
		ShortCode:   shortCode,
	}
	if nanos, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		mapping.CreatedAt = time.Unix(0, nanos).UTC()
		mapping.UpdatedAt = mapping.CreatedAt
	}

	return mapping, true
}

func (c *CachedRepository) cacheMapping(ctx context.Context, mapping models.URLMapping) {
	pipe := c.client.Pipeline()
	key := cacheKeyPrefix + mapping.ShortCode

	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           mapping.ID,
		"original_url": mapping.OriginalURL,
		"created_at":   mapping.CreatedAt.UnixNano(),
	})
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("short_code", mapping.ShortCode),
			zap.Error(err))
	}
}

func (c *CachedRepository) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *CachedRepository) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Warn("Closing redis client failed", zap.Error(err))
	}
	return c.inner.Close()
}

var _ Repository = (*CachedRepository)(nil)
