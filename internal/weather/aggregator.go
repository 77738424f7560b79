package weather

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// Sentinel errors. Their messages are sent to clients verbatim.
var (
	// ErrCityRequired is returned for a missing or blank query.
	ErrCityRequired = errors.New("City is required")

	// ErrCityNotFound is returned when geocoding yields no match.
	ErrCityNotFound = errors.New("City not found")
)

// UpstreamError wraps a failed provider call. Error() forwards the provider
// message unchanged so callers see what went wrong downstream.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Provider is the set of OpenWeatherMap calls the aggregator needs.
type Provider interface {
	Geocode(ctx context.Context, city string) ([]types.GeoResult, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]types.GeoResult, error)
	FetchCurrent(ctx context.Context, lat, lon float64) (types.Current, error)
	FetchForecast(ctx context.Context, lat, lon float64) (types.Forecast, error)
}

// Lookup turns a query into a merged weather envelope.
type Lookup interface {
	Lookup(ctx context.Context, query string) (types.Envelope, error)
}

// Aggregator resolves a query to coordinates, then fetches current conditions
// and the forecast in parallel and merges them.
type Aggregator struct {
	provider Provider
	logger   *zap.Logger
}

// NewAggregator constructs an Aggregator.
func NewAggregator(provider Provider, logger *zap.Logger) *Aggregator {
	return &Aggregator{provider: provider, logger: logger}
}

func (a *Aggregator) Lookup(ctx context.Context, query string) (types.Envelope, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Envelope{}, ErrCityRequired
	}

	geo, err := a.resolve(ctx, query)
	if err != nil {
		return types.Envelope{}, err
	}

	// Both calls only depend on the coordinates. The first failure cancels the other.
	var (
		current  types.Current
		forecast types.Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := a.provider.FetchCurrent(gctx, geo.Lat, geo.Lon)
		if err != nil {
			a.logger.Debug("current weather failed or cancelled", zap.Error(err))
			return &UpstreamError{Op: "current", Err: err}
		}
		current = c
		return nil
	})
	g.Go(func() error {
		f, err := a.provider.FetchForecast(gctx, geo.Lat, geo.Lon)
		if err != nil {
			a.logger.Debug("forecast failed or cancelled", zap.Error(err))
			return &UpstreamError{Op: "forecast", Err: err}
		}
		forecast = f
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("weather lookup failed", zap.String("query", query), zap.Error(err))
		return types.Envelope{}, err
	}

	env := types.Envelope{
		City:     geo.Name,
		Lat:      geo.Lat,
		Lon:      geo.Lon,
		Current:  &current,
		Forecast: truncateForecast(forecast.List),
	}
	a.logger.Info("weather lookup succeeded",
		zap.String("query", query),
		zap.String("city", env.City),
		zap.Int("forecast", len(env.Forecast)),
	)
	return env, nil
}

// resolve geocodes a city name, or reverse-geocodes a "lat,lon" query.
func (a *Aggregator) resolve(ctx context.Context, query string) (types.GeoResult, error) {
	if lat, lon, ok := ParseCoordinates(query); ok {
		matches, err := a.provider.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			return types.GeoResult{}, &UpstreamError{Op: "reverse geocode", Err: err}
		}
		if len(matches) == 0 {
			a.logger.Info("no place at coordinates", zap.Float64("lat", lat), zap.Float64("lon", lon))
			return types.GeoResult{}, ErrCityNotFound
		}
		// Keep the device position; only the name comes from the lookup.
		return types.GeoResult{Lat: lat, Lon: lon, Name: matches[0].Name}, nil
	}

	matches, err := a.provider.Geocode(ctx, query)
	if err != nil {
		return types.GeoResult{}, &UpstreamError{Op: "geocode", Err: err}
	}
	if len(matches) == 0 {
		a.logger.Info("city not found", zap.String("query", query))
		return types.GeoResult{}, ErrCityNotFound
	}
	return matches[0], nil
}

func truncateForecast(list []types.ForecastEntry) []types.ForecastEntry {
	if len(list) > types.MaxForecastEntries {
		list = list[:types.MaxForecastEntries]
	}
	out := make([]types.ForecastEntry, len(list))
	copy(out, list)
	return out
}

// ParseCoordinates recognises the "<lat>,<lon>" form sent by geolocating clients.
func ParseCoordinates(query string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(query, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, false
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
