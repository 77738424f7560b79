// Package viewer is the client-side view controller: an explicit state
// machine over proxy lookups plus the favorites and theme preferences,
// and a pure Render function that turns a ViewState into displayable text.
package viewer

import (
	"time"

	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/weather/types"
)

type State int

const (
	Idle State = iota
	Loading
	Error
	Loaded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	Idle:    {Loading, Error},
	Loading: {Error, Loaded},
	Error:   {Loading, Error},
	Loaded:  {Loading, Error},
}

// CanTransition reports whether the machine may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ViewState is everything Render needs.
type ViewState struct {
	State State
	Query string
	Error string

	// Result is the last successfully loaded envelope. It survives later errors.
	Result    *types.Envelope
	UpdatedAt time.Time

	Theme     prefs.Theme
	Favorites []string

	// ChartRevision increases every time a new chart replaces the old one.
	ChartRevision int
}
