package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/weather" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("city")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotQuery
}

func TestWeather_Success(t *testing.T) {
	srv, gotQuery := newTestServer(t, http.StatusOK,
		`{"city":"São Paulo","lat":-23.5,"lon":-46.6,"current":{"weather":[{"main":"Clouds"}],"main":{"temp":21.4}},"forecast":[{"dt":1,"dt_txt":"2024-05-01 12:00:00","main":{"temp":20}}]}`)

	c := New(srv.URL+"/", time.Second, zap.NewNop())
	env, err := c.Weather(context.Background(), "São Paulo")
	require.NoError(t, err)
	require.Equal(t, "São Paulo", *gotQuery)
	require.Equal(t, "São Paulo", env.City)
	require.InDelta(t, -23.5, env.Lat, 1e-9)
	require.NotNil(t, env.Current)
	require.InDelta(t, 21.4, *env.Current.Main.Temp, 1e-9)
	require.Len(t, env.Forecast, 1)
	require.Equal(t, "2024-05-01 12:00:00", env.Forecast[0].DtTxt)
}

func TestWeather_NullForecastBecomesEmpty(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"city":"X","lat":0,"lon":0,"current":null,"forecast":null}`)

	env, err := New(srv.URL, time.Second, zap.NewNop()).Weather(context.Background(), "X")
	require.NoError(t, err)
	require.NotNil(t, env.Forecast)
	require.Empty(t, env.Forecast)
}

func TestWeather_InBandError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"error":"City not found"}`)

	_, err := New(srv.URL, time.Second, zap.NewNop()).Weather(context.Background(), "Atlantis")
	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	require.Equal(t, "City not found", envErr.Message)
	require.EqualError(t, err, "City not found")
}

func TestWeather_StatusError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, "upstream down")

	_, err := New(srv.URL, time.Second, zap.NewNop()).Weather(context.Background(), "Paris")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	require.EqualError(t, err, "Server error 502: upstream down")
}

func TestWeather_MalformedBodyIsNetworkError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `<html>`)

	_, err := New(srv.URL, time.Second, zap.NewNop()).Weather(context.Background(), "Paris")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestWeather_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second, zap.NewNop()).Weather(context.Background(), "Paris")
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %T: %v", err, err)
}
