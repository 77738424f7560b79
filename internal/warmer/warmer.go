// Package warmer refreshes the envelope cache for every city a profile has saved as a favorite.
package warmer

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// FavoritesSource lists the stored value of a preference key across all profiles.
// repository.PreferenceRepository implements it.
type FavoritesSource interface {
	ValuesByKey(ctx context.Context, key string) ([]string, error)
}

// Refresher re-fetches an envelope and overwrites its cache entry.
// *weather.CachingLookup implements it.
type Refresher interface {
	Refresh(ctx context.Context, query string) (types.Envelope, error)
}

type Warmer struct {
	source    FavoritesSource
	refresher Refresher
	logger    *zap.Logger
}

func New(source FavoritesSource, refresher Refresher, logger *zap.Logger) *Warmer {
	return &Warmer{source: source, refresher: refresher, logger: logger}
}

// Result counts the outcome of one run.
type Result struct {
	Cities int
	Failed int
}

// Run refreshes every distinct favorite city once. Per-city failures are logged and skipped;
// only a failure to list favorites is returned.
func (w *Warmer) Run(ctx context.Context) (Result, error) {
	values, err := w.source.ValuesByKey(ctx, prefs.FavoritesKey)
	if err != nil {
		return Result{}, err
	}

	cities := w.distinctCities(values)
	res := Result{Cities: len(cities)}
	for _, city := range cities {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if _, err := w.refresher.Refresh(ctx, city); err != nil {
			res.Failed++
			w.logger.Error("cache warm failed", zap.String("city", city), zap.Error(err))
			continue
		}
		w.logger.Debug("cache warmed", zap.String("city", city))
	}

	w.logger.Info("cache warm finished",
		zap.Int("cities", res.Cities),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// distinctCities decodes each stored favorites list and dedupes case-insensitively,
// matching the cache key normalization. Unreadable lists are skipped.
func (w *Warmer) distinctCities(values []string) []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, raw := range values {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			w.logger.Warn("skipping unreadable favorites list", zap.Error(err))
			continue
		}
		for _, city := range list {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			key := strings.ToLower(city)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			cities = append(cities, city)
		}
	}
	return cities
}
