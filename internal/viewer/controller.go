package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/client"
	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

// User-facing messages.
const (
	MsgEmptyQuery      = "Please enter a city name"
	MsgNetwork         = "Network error. Is the server running?"
	MsgGeoUnsupported  = "Geolocation not supported"
	MsgGeoDenied       = "Geolocation denied or failed"
	MsgReverseGeocode  = "Reverse geocode failed. Type a city instead."
	MsgGeoLookupFailed = "Geo lookup failed"
)

// ErrNothingToExport is returned by Export before the first successful load.
var ErrNothingToExport = errors.New("No data to download")

// WeatherClient fetches an envelope from the proxy. *client.Client implements it.
type WeatherClient interface {
	Weather(ctx context.Context, query string) (types.Envelope, error)
}

type Option func(*Controller)

// WithClock replaces time.Now for the "updated" timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnChange registers a callback invoked with the rendered view after every change,
// including the intermediate Loading state.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the ViewState. It is not safe for concurrent use.
type Controller struct {
	client    WeatherClient
	favorites *prefs.Favorites
	themes    *prefs.Themes
	logger    *zap.Logger

	now      func() time.Time
	onChange func(View)

	state ViewState
}

// NewController reads the stored theme and favorites and starts in Idle.
func NewController(
	ctx context.Context,
	wc WeatherClient,
	store prefs.Store,
	logger *zap.Logger,
	opts ...Option,
) (*Controller, error) {
	c := &Controller{
		client:    wc,
		favorites: prefs.NewFavorites(store, logger),
		themes:    prefs.NewThemes(store),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	theme, err := c.themes.Current(ctx)
	if err != nil {
		return nil, err
	}
	favs, err := c.favorites.List(ctx)
	if err != nil {
		return nil, err
	}
	c.state = ViewState{State: Idle, Theme: theme, Favorites: favs}
	return c, nil
}

// State returns a copy of the current state.
func (c *Controller) State() ViewState {
	s := c.state
	s.Favorites = append([]string(nil), c.state.Favorites...)
	return s
}

func (c *Controller) View() View {
	return Render(c.state)
}

func (c *Controller) enter(next State) {
	if !c.state.State.CanTransition(next) {
		c.logger.DPanic("invalid view transition",
			zap.Stringer("from", c.state.State),
			zap.Stringer("to", next),
		)
	}
	c.state.State = next
}

func (c *Controller) changed() View {
	v := Render(c.state)
	if c.onChange != nil {
		c.onChange(v)
	}
	return v
}

func (c *Controller) fail(msg string) View {
	c.enter(Error)
	c.state.Error = msg
	return c.changed()
}

func (c *Controller) startLoading() {
	c.enter(Loading)
	c.state.Error = ""
	c.changed()
}

func (c *Controller) loaded(env types.Envelope) View {
	c.enter(Loaded)
	c.state.Result = &env
	c.state.UpdatedAt = c.now()
	c.state.ChartRevision++
	return c.changed()
}

// Search sets the query and looks it up.
func (c *Controller) Search(ctx context.Context, query string) View {
	c.state.Query = query
	q := strings.TrimSpace(query)
	if q == "" {
		return c.fail(MsgEmptyQuery)
	}

	c.startLoading()
	env, err := c.client.Weather(ctx, q)
	if err != nil {
		return c.fail(searchMessage(err))
	}
	c.logger.Info("weather loaded", zap.String("query", q), zap.String("city", env.City))
	return c.loaded(env)
}

func searchMessage(err error) string {
	var envErr *client.EnvelopeError
	var statusErr *client.StatusError
	switch {
	case errors.As(err, &envErr):
		return envErr.Message
	case errors.As(err, &statusErr):
		return statusErr.Error()
	default:
		return MsgNetwork
	}
}

// Refresh repeats the search for the current query. It does nothing when the query is blank.
func (c *Controller) Refresh(ctx context.Context) View {
	if strings.TrimSpace(c.state.Query) == "" {
		return c.View()
	}
	return c.Search(ctx, c.state.Query)
}

// Locate looks up the weather at the device position. On success the query becomes
// the resolved city name.
func (c *Controller) Locate(ctx context.Context, loc Locator) View {
	if loc == nil {
		return c.fail(MsgGeoUnsupported)
	}

	c.startLoading()
	lat, lon, err := loc.Locate(ctx)
	if err != nil {
		c.logger.Warn("geolocation failed", zap.Error(err))
		return c.fail(MsgGeoDenied)
	}

	query := number(lat) + "," + number(lon)
	env, err := c.client.Weather(ctx, query)
	if err != nil {
		var envErr *client.EnvelopeError
		if errors.As(err, &envErr) {
			return c.fail(MsgReverseGeocode)
		}
		return c.fail(MsgGeoLookupFailed)
	}

	c.state.Query = env.City
	if c.state.Query == "" {
		c.state.Query = strconv.FormatFloat(lat, 'f', 2, 64) + "," + strconv.FormatFloat(lon, 'f', 2, 64)
	}
	return c.loaded(env)
}

// AddFavorite saves city at the front of the favorites list.
func (c *Controller) AddFavorite(ctx context.Context, city string) error {
	list, err := c.favorites.Add(ctx, city)
	if err != nil {
		return err
	}
	c.state.Favorites = list
	c.changed()
	return nil
}

func (c *Controller) RemoveFavorite(ctx context.Context, city string) error {
	list, err := c.favorites.Remove(ctx, city)
	if err != nil {
		return err
	}
	c.state.Favorites = list
	c.changed()
	return nil
}

// LoadFavorite puts city in the query field and searches for it.
func (c *Controller) LoadFavorite(ctx context.Context, city string) View {
	return c.Search(ctx, city)
}

// ToggleTheme flips and persists the theme.
func (c *Controller) ToggleTheme(ctx context.Context) (prefs.Theme, error) {
	next, err := c.themes.Toggle(ctx)
	if err != nil {
		return c.state.Theme, err
	}
	c.state.Theme = next
	c.changed()
	return next, nil
}

// Export returns the last loaded envelope as indented JSON and its file name.
func (c *Controller) Export() (string, []byte, error) {
	if c.state.Result == nil {
		return "", nil, ErrNothingToExport
	}
	data, err := json.MarshalIndent(c.state.Result, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encode envelope: %w", err)
	}
	return exportName(c.state.Result.City), data, nil
}

func exportName(city string) string {
	if city == "" {
		return "weather.json"
	}
	return strings.NewReplacer("/", "_", `\`, "_").Replace(city) + ".json"
}
