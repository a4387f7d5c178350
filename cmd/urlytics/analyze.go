package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/config"
	"github.com/Veraticus/urlytics/internal/tui"
	"github.com/Veraticus/urlytics/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Open the interactive analysis screen",
		Long: `Open the interactive analysis screen.

Type or paste a message, then press ctrl+s to analyze it. ctrl+e enables or
disables analysis, ctrl+t switches between the light and dark theme (the
choice is remembered), f1 shows all key bindings and esc quits.

Logs are written to the file set by logging.file; without it they are
discarded while the screen is open.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().String("log-file", "", "write logs to this file while the screen is open")
	_ = viper.BindPFlag("logging.file", cmd.Flags().Lookup("log-file"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	a, err := newApp(ctx, themes.SetDarkMode)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := tui.Run(ctx, a.notifier,
		tui.WithSession(a.controller),
		tui.WithVersion(version),
	); err != nil {
		return common.NewUserError("The analysis screen stopped unexpectedly", err)
	}
	return nil
}

// redirectLogs keeps log output off the terminal while the screen owns it.
func redirectLogs() (func(), error) {
	level, err := common.ParseLevel(strings.ToLower(viper.GetString("logging.level")))
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(viper.GetString("logging.format"))
	previous := slog.Default()
	restore := func() { slog.SetDefault(previous) }

	path := viper.GetString("logging.file")
	if path == "" {
		if err := common.SetupLogger(io.Discard, level, format); err != nil {
			return nil, err
		}
		return restore, nil
	}

	f, err := config.OpenLogFile(path)
	if err != nil {
		return nil, err
	}
	if err := common.SetupLogger(f, level, format); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return func() {
		restore()
		_ = f.Close()
	}, nil
}
