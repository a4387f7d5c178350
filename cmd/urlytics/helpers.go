package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/Veraticus/urlytics/internal/classifier"
	"github.com/Veraticus/urlytics/internal/config"
	"github.com/Veraticus/urlytics/internal/notify"
	"github.com/Veraticus/urlytics/internal/session"
	"github.com/Veraticus/urlytics/internal/storage"
	"github.com/Veraticus/urlytics/internal/theme"
	"github.com/spf13/viper"
)

// app bundles the collaborators a command needs.
type app struct {
	cfg        *config.Config
	store      *storage.SQLiteStorage
	client     *classifier.Client
	notifier   *notify.Channel
	themes     *theme.Resolver
	controller *session.Controller
}

// loadConfig resolves and validates the configuration from viper.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newClient builds the classification client. A zero timeout leaves the
// request bounded only by the command's context.
func newClient(cfg *config.Config) (*classifier.Client, error) {
	opts := []classifier.Option{}
	if cfg.Classifier.Timeout > 0 {
		opts = append(opts, classifier.WithHTTPClient(&http.Client{Timeout: cfg.Classifier.Timeout}))
	}
	return classifier.New(cfg.Classifier.Endpoint, opts...)
}

// systemHint picks the color-scheme signal for the configured mode.
func systemHint(cfg *config.Config) theme.SystemHint {
	switch cfg.ColorScheme {
	case "dark":
		return theme.StaticHint(true)
	case "light":
		return theme.StaticHint(false)
	default:
		return theme.EnvHint(os.Getenv, theme.TerminalHint)
	}
}

// newApp wires storage, classifier, notifications, themes and the session
// controller. effect may be nil when nothing is rendered.
func newApp(ctx context.Context, effect theme.DisplayEffect) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := newClient(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	notifier := notify.New(notify.WithTTL(cfg.NotifyTTL))
	themes := theme.NewResolver(store, systemHint(cfg), effect)

	sessionCfg := session.Config{
		Classifier: client,
		Notifier:   notifier,
		Themes:     themes,
	}
	if !cfg.DisableSaving {
		sessionCfg.History = store
	}

	controller, err := session.NewController(ctx, sessionCfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	slog.Debug("Application initialized",
		"endpoint", client.Endpoint(),
		"database", store.Path(),
		"theme", themes.Current(),
		"theme_source", themes.Source())

	return &app{
		cfg:        cfg,
		store:      store,
		client:     client,
		notifier:   notifier,
		themes:     themes,
		controller: controller,
	}, nil
}

// Close releases the database.
func (a *app) Close() {
	a.notifier.Clear()
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// writeLine prints a formatted line, logging write failures.
func writeLine(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format+"\n", args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
