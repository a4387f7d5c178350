package tui

import (
	"context"

	"github.com/Veraticus/urlytics/internal/model"
	"github.com/Veraticus/urlytics/internal/session"
	"github.com/Veraticus/urlytics/internal/tui/themes"
)

// Session is the controller the screen drives and reads from.
type Session interface {
	SetActive(active bool)
	SetInputText(text string)
	Submit(ctx context.Context) error
	ToggleTheme(ctx context.Context) (model.Theme, error)
	State() session.State
}

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Session   Session
	Version   string
	Width     int
	Height    int
	ShowHelp  bool
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Version:   "dev",
		Width:     80,
		Height:    24,
		AltScreen: true,
	}
}

// WithSession sets the analysis session controller.
func WithSession(s Session) Option {
	return func(c *Config) {
		c.Session = s
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithFullHelp starts with the expanded help visible.
func WithFullHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
