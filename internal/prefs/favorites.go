package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxFavorites caps the favorites list.
const MaxFavorites = 10

// ErrEmptyFavorite is returned when adding a blank city.
var ErrEmptyFavorite = errors.New("Type city first")

// Favorites manages the ordered favorites list, most recently added first.
type Favorites struct {
	store  Store
	logger *zap.Logger
}

func NewFavorites(store Store, logger *zap.Logger) *Favorites {
	return &Favorites{store: store, logger: logger}
}

// List returns the stored favorites. A corrupt stored value reads as an empty list
// and is overwritten by the next mutation.
func (f *Favorites) List(ctx context.Context) ([]string, error) {
	raw, ok, err := f.store.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		f.logger.Warn("discarding unreadable favorites", zap.Error(err))
		return []string{}, nil
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// Add puts city at the front, removing an earlier occurrence, and keeps at most
// MaxFavorites entries. It returns the new list.
func (f *Favorites) Add(ctx context.Context, city string) ([]string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyFavorite
	}
	list, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(list)+1)
	next = append(next, city)
	for _, c := range list {
		if c != city {
			next = append(next, c)
		}
	}
	if len(next) > MaxFavorites {
		next = next[:MaxFavorites]
	}
	return next, f.save(ctx, next)
}

// Remove drops every entry equal to city. Removing an absent city leaves the list as is.
func (f *Favorites) Remove(ctx context.Context, city string) ([]string, error) {
	list, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, len(list))
	for _, c := range list {
		if c != city {
			next = append(next, c)
		}
	}
	if len(next) == len(list) {
		return list, nil
	}
	return next, f.save(ctx, next)
}

func (f *Favorites) save(ctx context.Context, list []string) error {
	blob, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := f.store.Set(ctx, FavoritesKey, string(blob)); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	f.logger.Debug("favorites saved", zap.Strings("favorites", list))
	return nil
}
