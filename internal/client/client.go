// Package client calls the WeatherWise proxy and classifies its failures.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// NetworkError means the proxy could not be reached or its body could not be read.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from the proxy.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server error %d: %s", e.StatusCode, e.Body)
}

// EnvelopeError is an in-band {"error": ...} reply.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string { return e.Message }

// Client is an HTTP client for GET /api/weather.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Weather fetches the envelope for query. Errors are *NetworkError,
// *StatusError or *EnvelopeError.
func (c *Client) Weather(ctx context.Context, query string) (types.Envelope, error) {
	endpoint := c.baseURL + "/api/weather?city=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.Envelope{}, &NetworkError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("proxy unreachable", zap.String("url", c.baseURL), zap.Error(err))
		return types.Envelope{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return types.Envelope{}, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("proxy returned error status", zap.Int("status", resp.StatusCode))
		return types.Envelope{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var env types.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return types.Envelope{}, &NetworkError{Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if env.Error != "" {
		return types.Envelope{}, &EnvelopeError{Message: env.Error}
	}
	if env.Forecast == nil {
		env.Forecast = []types.ForecastEntry{}
	}
	return env, nil
}
