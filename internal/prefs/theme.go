package prefs

import (
	"context"
	"fmt"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Themes reads and writes the theme preference. Unset or unknown values read as Light.
type Themes struct {
	store Store
}

func NewThemes(store Store) *Themes {
	return &Themes{store: store}
}

func (t *Themes) Current(ctx context.Context) (Theme, error) {
	raw, ok, err := t.store.Get(ctx, ThemeKey)
	if err != nil {
		return Light, fmt.Errorf("load theme: %w", err)
	}
	if ok && Theme(raw) == Dark {
		return Dark, nil
	}
	return Light, nil
}

func (t *Themes) Set(ctx context.Context, theme Theme) error {
	if theme != Dark {
		theme = Light
	}
	if err := t.store.Set(ctx, ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Toggle flips the stored theme and returns the new value.
func (t *Themes) Toggle(ctx context.Context) (Theme, error) {
	cur, err := t.Current(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Other()
	return next, t.Set(ctx, next)
}
