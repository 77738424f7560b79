package weather

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/config"
	"github.com/namefreezers/weatherwise/internal/weather/openweathermap"
)

// BuildLookup constructs the Lookup used by the API server and the cache warmer:
// 1) the OpenWeatherMap client
// 2) wrapped in an Aggregator (geocode, then current + forecast in parallel)
// 3) decorated with a Redis cache when REDIS_ADDR is set
//
// The returned *CachingLookup is nil when caching is disabled.
func BuildLookup(cfg *config.Config, logger *zap.Logger) (Lookup, *CachingLookup, error) {
	owm, err := openweathermap.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("openweathermap client: %w", err)
	}

	base := NewAggregator(owm, logger)

	if cfg.RedisAddr == "" || cfg.CacheTTL == 0 {
		logger.Info("envelope cache disabled")
		return base, nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	cached := NewCachingLookup(base, rdb, cfg.CacheTTL, logger)
	logger.Info("envelope cache enabled",
		zap.String("redis", cfg.RedisAddr),
		zap.Duration("ttl", cfg.CacheTTL),
	)
	return cached, cached, nil
}
