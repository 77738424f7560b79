package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

func ptr(v float64) *float64 { return &v }

func sampleEnvelope() *types.Envelope {
	return &types.Envelope{
		City: "London",
		Lat:  51.5073,
		Lon:  -0.1276,
		Current: &types.Current{
			Weather: []types.Condition{{Main: "Rain", Description: "light rain"}},
			Main:    types.Main{Temp: ptr(12.5), FeelsLike: ptr(-0.5), Humidity: ptr(81), Pressure: ptr(1012)},
			Wind:    types.Wind{Speed: ptr(4.12)},
		},
		Forecast: []types.ForecastEntry{
			{DtTxt: "2024-05-01 12:00:00", Main: types.Main{Temp: ptr(13.49)}, Weather: []types.Condition{{Main: "Rain"}}},
			{DtTxt: "2024-05-01 15:00:00", Main: types.Main{Temp: ptr(-2.5)}, Weather: []types.Condition{{Main: "Clouds"}}},
			{DtTxt: "2024-05-01", Main: types.Main{}},
			{DtTxt: "2024-05-01 21:00:00", Main: types.Main{Temp: ptr(9)}},
		},
	}
}

func TestStateTransitions(t *testing.T) {
	require.True(t, Idle.CanTransition(Loading))
	require.True(t, Idle.CanTransition(Error))
	require.False(t, Idle.CanTransition(Loaded))
	require.True(t, Loading.CanTransition(Loaded))
	require.True(t, Loading.CanTransition(Error))
	require.False(t, Loading.CanTransition(Loading))
	require.True(t, Error.CanTransition(Loading))
	require.True(t, Loaded.CanTransition(Loading))
	require.False(t, Loaded.CanTransition(Idle))
	require.Equal(t, "loaded", Loaded.String())
}

func TestRender_Idle(t *testing.T) {
	v := Render(ViewState{State: Idle, Theme: prefs.Light})
	require.True(t, v.SearchEnabled)
	require.Equal(t, "Search", v.SearchLabel)
	require.False(t, v.LoaderVisible)
	require.Empty(t, v.ErrorBanner)
	require.Nil(t, v.Current)
	require.Nil(t, v.Chart)
	require.Equal(t, "No favorites yet", v.FavoritesEmpty)
	require.Equal(t, "🌙", v.ThemeIcon)
}

func TestRender_Loading(t *testing.T) {
	v := Render(ViewState{State: Loading, Theme: prefs.Dark})
	require.False(t, v.SearchEnabled)
	require.Equal(t, "Searching...", v.SearchLabel)
	require.True(t, v.LoaderVisible)
	require.Empty(t, v.ErrorBanner)
	require.Equal(t, "☀️", v.ThemeIcon)
}

func TestRender_Loaded(t *testing.T) {
	updated := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	v := Render(ViewState{
		State:         Loaded,
		Result:        sampleEnvelope(),
		UpdatedAt:     updated,
		Favorites:     []string{"London"},
		ChartRevision: 3,
	})

	require.NotNil(t, v.Current)
	require.Equal(t, CurrentCard{
		City:        "London",
		Updated:     "2024-05-01 10:30:00",
		Description: "light rain",
		Temp:        "13°C",
		FeelsLike:   "Feels like 0°C",
		Humidity:    "81",
		Wind:        "4.12",
		Pressure:    "1012",
	}, *v.Current)

	require.Equal(t, []string{"12:00", "15:00", "", "21:00"}, v.Chart.Labels)
	require.Len(t, v.Chart.Temps, 4)
	require.InDelta(t, 13.49, *v.Chart.Temps[0], 1e-9)
	require.Nil(t, v.Chart.Temps[2])
	require.Equal(t, 3, v.Chart.Revision)

	require.Equal(t, []ForecastItem{
		{Time: "2024-05-01 12:00", Temp: "13°C", Condition: "Rain"},
		{Time: "2024-05-01 15:00", Temp: "-2°C", Condition: "Clouds"},
		{Time: "2024-05-01 ", Temp: Missing, Condition: Missing},
	}, v.Forecast)
	require.Empty(t, v.FavoritesEmpty)
}

func TestRender_MissingValuesUseFallback(t *testing.T) {
	v := Render(ViewState{
		State:  Loaded,
		Result: &types.Envelope{Lat: 48.85, Lon: 2.35, Current: &types.Current{}},
	})
	require.Equal(t, "48.85,2.35", v.Current.City)
	require.Equal(t, Missing, v.Current.Description)
	require.Equal(t, Missing, v.Current.Temp)
	require.Equal(t, "Feels like "+Missing, v.Current.FeelsLike)
	require.Equal(t, Missing, v.Current.Humidity)
	require.Equal(t, Missing, v.Current.Wind)
	require.Equal(t, Missing, v.Current.Pressure)
	require.Empty(t, v.Chart.Labels)
	require.Empty(t, v.Forecast)
}

func TestRender_ErrorKeepsCards(t *testing.T) {
	v := Render(ViewState{State: Error, Error: "City not found", Result: sampleEnvelope()})
	require.Equal(t, "City not found", v.ErrorBanner)
	require.True(t, v.SearchEnabled)
	require.NotNil(t, v.Current)
	require.Equal(t, "London", v.Current.City)

	v = Render(ViewState{State: Error, Error: "City not found"})
	require.Nil(t, v.Current)
}

func TestRound(t *testing.T) {
	cases := map[float64]float64{
		2.5:   3,
		-2.5:  -2,
		-0.4:  0,
		0.49:  0,
		12.51: 13,
		-7.6:  -8,
	}
	for in, want := range cases {
		require.Equal(t, want, round(in), "round(%v)", in)
	}
}

func TestSliceClamps(t *testing.T) {
	require.Equal(t, "12:00", slice("2024-05-01 12:00:00", 11, 16))
	require.Equal(t, "12", slice("2024-05-01 12", 11, 16))
	require.Equal(t, "", slice("2024", 11, 16))
	require.Equal(t, "", slice("", 0, 10))
}
