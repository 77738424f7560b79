package viewer

import (
	"math"
	"strconv"

	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// Missing is shown in place of any value the provider did not send.
const Missing = "—"

// MaxForecastItems is how many forecast entries the short list shows.
const MaxForecastItems = 3

const timestampLayout = "2006-01-02 15:04:05"

type View struct {
	Theme     prefs.Theme
	ThemeIcon string

	SearchEnabled bool
	SearchLabel   string
	LoaderVisible bool

	// ErrorBanner is empty when no error is shown.
	ErrorBanner string

	// Result regions are nil until the first successful load.
	Current  *CurrentCard
	Chart    *Chart
	Forecast []ForecastItem

	Favorites      []string
	FavoritesEmpty string
}

type CurrentCard struct {
	City        string
	Updated     string
	Description string
	Temp        string
	FeelsLike   string
	Humidity    string
	Wind        string
	Pressure    string
}

// Chart is the forecast temperature series. Temps has nil where a reading is missing.
type Chart struct {
	Labels   []string
	Temps    []*float64
	Revision int
}

type ForecastItem struct {
	Time      string
	Temp      string
	Condition string
}

// Render maps a ViewState to what is displayed.
func Render(s ViewState) View {
	v := View{
		Theme:         s.Theme,
		ThemeIcon:     themeIcon(s.Theme),
		SearchEnabled: true,
		SearchLabel:   "Search",
		Favorites:     append([]string(nil), s.Favorites...),
	}
	if len(s.Favorites) == 0 {
		v.FavoritesEmpty = "No favorites yet"
	}

	switch s.State {
	case Loading:
		v.SearchEnabled = false
		v.SearchLabel = "Searching..."
		v.LoaderVisible = true
	case Error:
		v.ErrorBanner = s.Error
	}

	// Cards stay as they were after an error; only Loaded replaces them.
	if s.Result != nil {
		v.Current = currentCard(s)
		v.Chart = chart(s.Result.Forecast, s.ChartRevision)
		v.Forecast = forecastItems(s.Result.Forecast)
	}
	return v
}

func themeIcon(t prefs.Theme) string {
	if t == prefs.Dark {
		return "☀️"
	}
	return "🌙"
}

func currentCard(s ViewState) *CurrentCard {
	env := s.Result
	card := &CurrentCard{
		City:        env.City,
		Description: Missing,
		Temp:        celsius(nil),
		FeelsLike:   "Feels like " + celsius(nil),
		Humidity:    Missing,
		Wind:        Missing,
		Pressure:    Missing,
	}
	if card.City == "" {
		card.City = number(env.Lat) + "," + number(env.Lon)
	}
	if !s.UpdatedAt.IsZero() {
		card.Updated = s.UpdatedAt.Format(timestampLayout)
	}

	cur := env.Current
	if cur == nil {
		return card
	}
	if len(cur.Weather) > 0 && cur.Weather[0].Description != "" {
		card.Description = cur.Weather[0].Description
	}
	card.Temp = celsius(cur.Main.Temp)
	card.FeelsLike = "Feels like " + celsius(cur.Main.FeelsLike)
	card.Humidity = optional(cur.Main.Humidity)
	card.Wind = optional(cur.Wind.Speed)
	card.Pressure = optional(cur.Main.Pressure)
	return card
}

func chart(forecast []types.ForecastEntry, revision int) *Chart {
	c := &Chart{
		Labels:   make([]string, len(forecast)),
		Temps:    make([]*float64, len(forecast)),
		Revision: revision,
	}
	for i, f := range forecast {
		c.Labels[i] = slice(f.DtTxt, 11, 16)
		if f.Main.Temp != nil {
			t := *f.Main.Temp
			c.Temps[i] = &t
		}
	}
	return c
}

func forecastItems(forecast []types.ForecastEntry) []ForecastItem {
	n := min(MaxForecastItems, len(forecast))
	items := make([]ForecastItem, 0, n)
	for _, f := range forecast[:n] {
		item := ForecastItem{Temp: celsius(f.Main.Temp), Condition: Missing}
		if f.DtTxt != "" {
			item.Time = slice(f.DtTxt, 0, 10) + " " + slice(f.DtTxt, 11, 16)
		}
		if len(f.Weather) > 0 && f.Weather[0].Main != "" {
			item.Condition = f.Weather[0].Main
		}
		items = append(items, item)
	}
	return items
}

// round rounds half toward positive infinity.
func round(x float64) float64 {
	r := math.Floor(x + 0.5)
	if r == 0 {
		return 0 // no "-0"
	}
	return r
}

func celsius(v *float64) string {
	if v == nil {
		return Missing
	}
	return number(round(*v)) + "°C"
}

func optional(v *float64) string {
	if v == nil {
		return Missing
	}
	return number(*v)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// slice returns s[from:to] with both bounds clamped to the string.
func slice(s string, from, to int) string {
	from = min(max(from, 0), len(s))
	to = min(max(to, from), len(s))
	return s[from:to]
}
