// Package theme resolves and persists the light/dark display preference.
//
// Resolution order is: an explicit stored preference, then the system color
// scheme hint, then light. Only an explicit Toggle ever writes to storage, so
// an absent preference stays absent until the user chooses one.
package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
)

// PreferenceKey is the storage key holding "dark" or "light".
const PreferenceKey = "theme"

// PreferenceStore reads and writes string preferences.
type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (value string, ok bool, err error)
	SetPreference(ctx context.Context, key, value string) error
}

// SystemHint reports whether the platform prefers a dark color scheme.
type SystemHint func() bool

// DisplayEffect is told whether dark mode is active whenever the theme changes.
type DisplayEffect func(dark bool)

// Source identifies which tier produced the resolved theme.
type Source string

// Resolution sources.
const (
	SourceStored   Source = "stored"
	SourceSystem   Source = "system"
	SourceFallback Source = "fallback"
	SourceToggle   Source = "toggle"
)

// Resolver owns the in-memory theme value.
type Resolver struct {
	store   PreferenceStore
	hint    SystemHint
	effect  DisplayEffect
	current model.Theme
	source  Source
	mu      sync.Mutex
}

// NewResolver creates a resolver. hint and effect may be nil.
func NewResolver(store PreferenceStore, hint SystemHint, effect DisplayEffect) *Resolver {
	return &Resolver{
		store:   store,
		hint:    hint,
		effect:  effect,
		current: model.ThemeLight,
		source:  SourceFallback,
	}
}

// Resolve determines the theme at startup. A failing store read is logged and
// treated as an absent preference.
func (r *Resolver) Resolve(ctx context.Context) model.Theme {
	theme, source := r.lookup(ctx)

	r.mu.Lock()
	r.current = theme
	r.source = source
	effect := r.effect
	r.mu.Unlock()

	common.LogDebug("Theme resolved", common.Fields{
		"theme":  string(theme),
		"source": string(source),
	})

	if effect != nil {
		effect(theme.IsDark())
	}
	return theme
}

func (r *Resolver) lookup(ctx context.Context) (model.Theme, Source) {
	if r.store != nil {
		value, ok, err := r.store.GetPreference(ctx, PreferenceKey)
		switch {
		case err != nil:
			common.LogError(err, "Failed to read theme preference", nil)
		case ok:
			if theme, parseErr := model.ParseTheme(value); parseErr == nil {
				return theme, SourceStored
			}
			common.LogDebug("Ignoring unrecognized stored theme", common.Fields{"value": value})
		}
	}

	if r.hint != nil && r.hint() {
		return model.ThemeDark, SourceSystem
	}

	return model.ThemeLight, SourceFallback
}

// Toggle flips the theme and writes it through to storage before returning.
// On a failed write the in-memory theme is left unchanged.
func (r *Resolver) Toggle(ctx context.Context) (model.Theme, error) {
	r.mu.Lock()
	next := r.current.Toggle()
	if r.store != nil {
		if err := r.store.SetPreference(ctx, PreferenceKey, string(next)); err != nil {
			r.mu.Unlock()
			return r.Current(), fmt.Errorf("failed to persist theme: %w", err)
		}
	}
	r.current = next
	r.source = SourceToggle
	effect := r.effect
	r.mu.Unlock()

	if effect != nil {
		effect(next.IsDark())
	}
	return next, nil
}

// Current returns the in-memory theme.
func (r *Resolver) Current() model.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Source reports which tier produced the current theme.
func (r *Resolver) Source() Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}
