package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/urlytics/internal/cli"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses",
		Long: `List the most recent analyses, newest first.

Only successful analyses are recorded, and only while history.enabled is true.
Stored text is shortened to its first 100 characters.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().Bool("clear", false, "delete all recorded analyses")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	clearAll, _ := cmd.Flags().GetBool("clear")
	w := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if clearAll {
		n, err := store.ClearAnalyses(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		writeLine(w, "%s", cli.FormatSuccess(fmt.Sprintf("Deleted %d analyses", n)))
		return nil
	}

	records, err := store.ListAnalyses(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		writeLine(w, "%s", cli.FormatInfo("No analyses recorded yet."))
		return nil
	}

	summary, err := store.SummarizeAnalyses(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize history: %w", err)
	}

	var b strings.Builder
	for _, r := range records {
		verdict := cli.SuccessStyle.Render(cli.SuccessIcon + " safe      ")
		if r.IsSuspicious {
			verdict = cli.ErrorStyle.Render(cli.ErrorIcon + " phishing  ")
		}
		fmt.Fprintf(&b, "%s  %s  %6.2f%%  %s\n",
			cli.SubtleStyle.Render(r.AnalyzedAt.Local().Format("2006-01-02 15:04")),
			verdict,
			r.Confidence*100,
			strings.ReplaceAll(r.Text, "\n", " "))
	}
	fmt.Fprintf(&b, "\n%d analyses, %d suspicious", summary.Total, summary.Suspicious)

	writeLine(w, "%s", cli.RenderBox("Recent analyses", b.String()))
	return nil
}
