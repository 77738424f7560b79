package types

// GeoResult is the first match of a geocoding lookup.
type GeoResult struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// Condition is one entry of the provider's "weather" array.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Main holds the numeric readings. The provider may omit any of them,
// so they are pointers: nil means "missing", not zero.
type Main struct {
	Temp      *float64 `json:"temp,omitempty"`
	FeelsLike *float64 `json:"feels_like,omitempty"`
	TempMin   *float64 `json:"temp_min,omitempty"`
	TempMax   *float64 `json:"temp_max,omitempty"`
	Pressure  *float64 `json:"pressure,omitempty"`
	Humidity  *float64 `json:"humidity,omitempty"`
}

type Wind struct {
	Speed *float64 `json:"speed,omitempty"`
	Deg   *float64 `json:"deg,omitempty"`
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current mirrors the fields of the current-conditions response the app uses.
type Current struct {
	Coord      *Coord      `json:"coord,omitempty"`
	Weather    []Condition `json:"weather"`
	Main       Main        `json:"main"`
	Wind       Wind        `json:"wind"`
	Visibility *int        `json:"visibility,omitempty"`
	Dt         int64       `json:"dt,omitempty"`
	Timezone   int         `json:"timezone,omitempty"`
	Name       string      `json:"name,omitempty"`
}

// ForecastEntry is one 3-hour step of the forecast list.
type ForecastEntry struct {
	Dt      int64       `json:"dt"`
	DtTxt   string      `json:"dt_txt,omitempty"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
	Pop     *float64    `json:"pop,omitempty"`
}

// Forecast is the forecast response; only the list is used.
type Forecast struct {
	List []ForecastEntry `json:"list"`
}

// Envelope is the merged response of GET /api/weather.
// The server never writes an Envelope with Error set; failures go out as
// {"error": "..."} alone. Error exists so consumers can decode either shape.
type Envelope struct {
	City     string          `json:"city"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Current  *Current        `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
	Error    string          `json:"error,omitempty"`
}

// MaxForecastEntries caps the forecast list carried by an Envelope.
const MaxForecastEntries = 8
