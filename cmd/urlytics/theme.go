package main

import (
	"fmt"

	"github.com/Veraticus/urlytics/internal/cli"
	"github.com/Veraticus/urlytics/internal/theme"
	"github.com/spf13/cobra"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the display theme",
		Long: `Show the display theme and where it came from: a saved preference, the
terminal's color scheme, or the light fallback.`,
		Args: cobra.NoArgs,
		RunE: runThemeShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark and remember the choice",
		Args:  cobra.NoArgs,
		RunE:  runThemeToggle,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the saved theme and follow the terminal again",
		Args:  cobra.NoArgs,
		RunE:  runThemeReset,
	})

	return cmd
}

func runThemeShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	writeLine(cmd.OutOrStdout(), "%s", cli.FormatInfo(fmt.Sprintf("Theme: %s (%s)", a.themes.Current(), a.themes.Source())))
	return nil
}

func runThemeToggle(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.controller.ToggleTheme(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	writeLine(cmd.OutOrStdout(), "%s", cli.FormatSuccess(fmt.Sprintf("Theme set to %s", current)))
	return nil
}

func runThemeReset(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.DeletePreference(cmd.Context(), theme.PreferenceKey); err != nil {
		return fmt.Errorf("failed to reset theme: %w", err)
	}

	writeLine(cmd.OutOrStdout(), "%s", cli.FormatSuccess("Saved theme removed"))
	return nil
}
