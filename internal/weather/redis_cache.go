package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// CachingLookup decorates another Lookup with a Redis cache of successful envelopes.
type CachingLookup struct {
	inner  Lookup
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingLookup returns a Lookup that first looks in Redis,
// falling back to inner (e.g. an Aggregator) on cache-miss.
func NewCachingLookup(inner Lookup, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachingLookup {
	return &CachingLookup{inner: inner, redis: rdb, ttl: ttl, logger: logger}
}

// CacheKey is the Redis key an envelope for query is stored under.
func CacheKey(query string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(query))
}

func (c *CachingLookup) Lookup(ctx context.Context, query string) (types.Envelope, error) {
	if strings.TrimSpace(query) == "" {
		return types.Envelope{}, ErrCityRequired
	}
	key := CacheKey(query)

	// 1) Try cache
	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var env types.Envelope
		if uerr := json.Unmarshal([]byte(raw), &env); uerr == nil {
			c.logger.Debug("cache hit", zap.String("query", query))
			return env, nil
		} else {
			c.logger.Warn("cache unmarshal failed", zap.Error(uerr))
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("redis GET failed", zap.Error(err))
	}

	// 2) Cache-miss -> delegate to inner, then store
	return c.fetchAndStore(ctx, query, key)
}

// Refresh skips the cache read and overwrites the entry with a fresh lookup.
func (c *CachingLookup) Refresh(ctx context.Context, query string) (types.Envelope, error) {
	if strings.TrimSpace(query) == "" {
		return types.Envelope{}, ErrCityRequired
	}
	return c.fetchAndStore(ctx, query, CacheKey(query))
}

func (c *CachingLookup) fetchAndStore(ctx context.Context, query, key string) (types.Envelope, error) {
	env, err := c.inner.Lookup(ctx, query)
	if err != nil {
		return env, err
	}

	blob, merr := json.Marshal(env)
	if merr != nil {
		c.logger.Warn("json marshal failed", zap.Error(merr))
	} else if serr := c.redis.Set(ctx, key, blob, c.ttl).Err(); serr != nil {
		c.logger.Warn("redis SET failed", zap.Error(serr))
	}

	return env, nil
}
