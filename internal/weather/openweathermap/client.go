package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/namefreezers/weatherwise/internal/config"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// Client talks to the OpenWeatherMap geocoding, current weather and forecast endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	key := cfg.OpenWeatherMapOrgKey
	if key == "" {
		return nil, fmt.Errorf("OPENWEATHERMAP_ORG_API_KEY is not set")
	}
	base := strings.TrimRight(cfg.OpenWeatherMapURL, "/")
	if base == "" {
		base = "https://api.openweathermap.org"
	}
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     key,
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Geocode resolves a city name. It returns at most one result; an empty slice means no match.
func (c *Client) Geocode(ctx context.Context, city string) ([]types.GeoResult, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "1")

	var results []types.GeoResult
	if err := c.get(ctx, "geocoding", "/geo/1.0/direct", q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ReverseGeocode resolves coordinates to the nearest named place.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) ([]types.GeoResult, error) {
	q := coords(lat, lon)
	q.Set("limit", "1")

	var results []types.GeoResult
	if err := c.get(ctx, "reverse geocoding", "/geo/1.0/reverse", q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchCurrent returns current conditions in metric units.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (types.Current, error) {
	q := coords(lat, lon)
	q.Set("units", "metric")

	var body types.Current
	if err := c.get(ctx, "current weather", "/data/2.5/weather", q, &body); err != nil {
		return types.Current{}, err
	}
	return body, nil
}

// FetchForecast returns the 5 day / 3 hour forecast in metric units.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (types.Forecast, error) {
	q := coords(lat, lon)
	q.Set("units", "metric")

	var body types.Forecast
	if err := c.get(ctx, "forecast", "/data/2.5/forecast", q, &body); err != nil {
		return types.Forecast{}, err
	}
	return body, nil
}

func coords(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

// apiError is the body OpenWeatherMap sends with non-2xx statuses.
// "cod" is a number on some endpoints and a string on others.
type apiError struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	q.Set("appid", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("openweathermap: %s: failed to build request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openweathermap: %s: HTTP request failed: %w", op, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		var apiErr apiError
		if jerr := json.Unmarshal(payload, &apiErr); jerr == nil && apiErr.Message != "" {
			return fmt.Errorf("openweathermap: %s: unexpected status %d: %s", op, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf(
			"openweathermap: %s: unexpected status %d %s",
			op, resp.StatusCode, http.StatusText(resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openweathermap: %s: JSON decode error: %w", op, err)
	}
	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redactKey keeps the API key out of *url.Error messages, which embed the full request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}
