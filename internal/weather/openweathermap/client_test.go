package openweathermap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/namefreezers/weatherwise/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.Config{
		OpenWeatherMapOrgKey: "test-key",
		OpenWeatherMapURL:    srv.URL + "/",
		UpstreamTimeout:      time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(&config.Config{})
	require.EqualError(t, err, "OPENWEATHERMAP_ORG_API_KEY is not set")
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geo/1.0/direct", r.URL.Path)
		require.Equal(t, "São Paulo", r.URL.Query().Get("q"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		require.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"São Paulo","lat":-23.55,"lon":-46.63,"country":"BR"}]`))
	})

	got, err := c.Geocode(context.Background(), "São Paulo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "São Paulo", got[0].Name)
	require.Equal(t, -23.55, got[0].Lat)
	require.Equal(t, -46.63, got[0].Lon)
}

func TestGeocode_NoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	got, err := c.Geocode(context.Background(), "Nowhereistan9999")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReverseGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geo/1.0/reverse", r.URL.Path)
		require.Equal(t, "48.8566", r.URL.Query().Get("lat"))
		require.Equal(t, "2.3522", r.URL.Query().Get("lon"))
		_, _ = w.Write([]byte(`[{"name":"Paris","lat":48.85,"lon":2.35}]`))
	})

	got, err := c.ReverseGeocode(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	require.Equal(t, "Paris", got[0].Name)
}

func TestFetchCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/weather", r.URL.Path)
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(`{
			"weather":[{"id":500,"main":"Rain","description":"light rain","icon":"10d"}],
			"main":{"temp":11.62,"feels_like":10.9,"pressure":1012,"humidity":81},
			"wind":{"speed":4.1},
			"name":"London"
		}`))
	})

	got, err := c.FetchCurrent(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	require.Equal(t, "light rain", got.Weather[0].Description)
	require.Equal(t, 11.62, *got.Main.Temp)
	require.Equal(t, 81.0, *got.Main.Humidity)
	require.Equal(t, 4.1, *got.Wind.Speed)
	require.Nil(t, got.Wind.Deg)
	require.Nil(t, got.Main.TempMin)
}

func TestFetchForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/forecast", r.URL.Path)
		_, _ = w.Write([]byte(`{"cnt":2,"list":[
			{"dt":1,"dt_txt":"2024-01-01 00:00:00","main":{"temp":1.5},"weather":[{"main":"Snow"}]},
			{"dt":2,"dt_txt":"2024-01-01 03:00:00","main":{"temp":0.5},"weather":[{"main":"Clear"}]}
		]}`))
	})

	got, err := c.FetchForecast(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, got.List, 2)
	require.Equal(t, "2024-01-01 03:00:00", got.List[1].DtTxt)
	require.Equal(t, "Clear", got.List[1].Weather[0].Main)
}

func TestGet_ErrorStatusCarriesProviderMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
	})

	_, err := c.FetchCurrent(context.Background(), 1, 2)
	require.EqualError(t, err, "openweathermap: current weather: unexpected status 401: Invalid API key.")
}

func TestGet_ErrorStatusWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FetchForecast(context.Background(), 1, 2)
	require.EqualError(t, err, "openweathermap: forecast: unexpected status 502 Bad Gateway")
}

func TestGet_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list":`))
	})

	_, err := c.FetchForecast(context.Background(), 1, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "openweathermap: forecast: JSON decode error")
}

func TestGet_TransportErrorHidesKey(t *testing.T) {
	c, err := NewClient(&config.Config{
		OpenWeatherMapOrgKey: "super-secret",
		OpenWeatherMapURL:    "http://127.0.0.1:1",
		UpstreamTimeout:      time.Second,
	})
	require.NoError(t, err)

	_, err = c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "super-secret")
	require.Contains(t, err.Error(), "openweathermap: geocoding: HTTP request failed")
}
