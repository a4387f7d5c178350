package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/urlytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	readErr  error
	writeErr error
}

func (f failingStore) GetPreference(context.Context, string) (string, bool, error) {
	return "", false, f.readErr
}

func (f failingStore) SetPreference(context.Context, string, string) error {
	return f.writeErr
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		stored     *string
		systemDark bool
		want       model.Theme
		wantSource Source
	}{
		{name: "absent key, system dark", systemDark: true, want: model.ThemeDark, wantSource: SourceSystem},
		{name: "absent key, system light", systemDark: false, want: model.ThemeLight, wantSource: SourceFallback},
		{name: "stored light beats system dark", stored: ptr("light"), systemDark: true, want: model.ThemeLight, wantSource: SourceStored},
		{name: "stored dark beats system light", stored: ptr("dark"), systemDark: false, want: model.ThemeDark, wantSource: SourceStored},
		{name: "unrecognized stored value falls through", stored: ptr("sepia"), systemDark: true, want: model.ThemeDark, wantSource: SourceSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.SetPreference(ctx, PreferenceKey, *tt.stored))
			}
			writesBefore := store.Writes()

			var effects []bool
			r := NewResolver(store, StaticHint(tt.systemDark), func(dark bool) { effects = append(effects, dark) })

			got := r.Resolve(ctx)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, r.Current())
			assert.Equal(t, tt.wantSource, r.Source())
			assert.Equal(t, []bool{tt.want.IsDark()}, effects)

			// Resolution never writes.
			assert.Equal(t, writesBefore, store.Writes())
			if tt.stored == nil {
				_, ok, err := store.GetPreference(ctx, PreferenceKey)
				require.NoError(t, err)
				assert.False(t, ok, "resolve must not write the key")
			}
		})
	}
}

func TestResolver_NilHintFallsBackToLight(t *testing.T) {
	r := NewResolver(NewMemoryStore(), nil, nil)
	assert.Equal(t, model.ThemeLight, r.Resolve(context.Background()))
}

func TestResolver_ReadErrorFallsThrough(t *testing.T) {
	r := NewResolver(failingStore{readErr: errors.New("disk gone")}, StaticHint(true), nil)
	assert.Equal(t, model.ThemeDark, r.Resolve(context.Background()))
}

func TestResolver_Toggle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var effects []bool
	r := NewResolver(store, StaticHint(true), func(dark bool) { effects = append(effects, dark) })
	require.Equal(t, model.ThemeDark, r.Resolve(ctx))

	got, err := r.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, got)

	value, ok, err := store.GetPreference(ctx, PreferenceKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", value)

	got, err = r.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, got)
	value, _, _ = store.GetPreference(ctx, PreferenceKey)
	assert.Equal(t, "dark", value)
	assert.Equal(t, 2, store.Writes())
	assert.Equal(t, SourceToggle, r.Source())

	// Display effect tracks every change.
	assert.Equal(t, []bool{true, false, true}, effects)

	// A new resolver sees the persisted choice regardless of the hint.
	reloaded := NewResolver(store, StaticHint(false), nil)
	assert.Equal(t, model.ThemeDark, reloaded.Resolve(ctx))
}

func TestResolver_ToggleWriteFailure(t *testing.T) {
	ctx := context.Background()
	var effects []bool
	r := NewResolver(failingStore{writeErr: errors.New("read-only")}, nil, func(dark bool) { effects = append(effects, dark) })
	r.Resolve(ctx)

	got, err := r.Toggle(ctx)
	require.Error(t, err)
	assert.Equal(t, model.ThemeLight, got)
	assert.Equal(t, model.ThemeLight, r.Current())
	assert.Equal(t, []bool{false}, effects)
}

func TestEnvHint(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }
	hint := EnvHint(getenv, StaticHint(true))

	assert.True(t, hint(), "falls back when unset")

	env[ColorSchemeEnv] = "light"
	assert.False(t, hint())

	env[ColorSchemeEnv] = " DARK "
	assert.True(t, EnvHint(getenv, StaticHint(false))())

	env[ColorSchemeEnv] = "purple"
	assert.False(t, EnvHint(getenv, nil)())
}

func ptr(s string) *string { return &s }
