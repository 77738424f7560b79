package viewer

import (
	"context"
	"errors"
)

// Locator reports the device position.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// ErrLocationUnavailable is returned by a Locator that has no position to offer.
var ErrLocationUnavailable = errors.New("location unavailable")

// StaticLocator returns a fixed position, e.g. one given on the command line.
type StaticLocator struct {
	Lat, Lon float64
}

func (s StaticLocator) Locate(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
		return 0, 0, ErrLocationUnavailable
	}
	return s.Lat, s.Lon, nil
}
