package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/urlytics/internal/classifier"
	"github.com/Veraticus/urlytics/internal/cli"
	"github.com/Veraticus/urlytics/internal/common"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the classification backend is up",
		Long: `Query the backend's /health route, next to the configured predict endpoint.

With --wait the check is retried with exponential backoff until the backend
answers or the attempts run out, which is handy right after starting it.`,
		Args: cobra.NoArgs,
		RunE: runHealth,
	}

	cmd.Flags().Bool("wait", false, "retry until the backend is healthy")
	cmd.Flags().Int("attempts", 10, "maximum attempts with --wait")
	cmd.Flags().Duration("interval", 500*time.Millisecond, "initial delay between attempts with --wait")
	cmd.Flags().Bool("info", false, "also print the model description from /info")

	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	wait, _ := cmd.Flags().GetBool("wait")
	attempts, _ := cmd.Flags().GetInt("attempts")
	interval, _ := cmd.Flags().GetDuration("interval")
	showInfo, _ := cmd.Flags().GetBool("info")
	w := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	var status classifier.HealthStatus

	if wait {
		ctx = cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(ctx, "Waiting for the backend")
		status, err = waitHealthy(ctx, client, cmd.ErrOrStderr(), attempts, interval)
	} else {
		status, err = client.Health(ctx)
	}
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Backend at %s is not healthy", client.Endpoint()), err)
	}

	printHealth(w, status)

	if showInfo {
		info, err := client.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get model info: %w", err)
		}
		printInfo(w, info)
	}
	return nil
}

func waitHealthy(ctx context.Context, client *classifier.Client, w io.Writer, attempts int, interval time.Duration) (classifier.HealthStatus, error) {
	indicator := cli.NewWaitIndicator(w, "Waiting for backend")
	defer indicator.Done()

	var status classifier.HealthStatus
	err := common.WithRetry(ctx, func() error {
		s, err := client.Health(ctx)
		if err != nil {
			return err
		}
		if s.Status != "healthy" {
			return fmt.Errorf("backend reports status %q", s.Status)
		}
		status = s
		return nil
	}, common.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: interval,
		MaxDelay:     5 * time.Second,
		Multiplier:   1.5,
		OnAttempt: func(attempt int, err error) {
			if err != nil {
				indicator.Attempt(attempt, err)
			}
		},
	})
	return status, err
}

func printHealth(w io.Writer, status classifier.HealthStatus) {
	content := fmt.Sprintf("Status:    %s\nTimestamp: %s\nFeatures:  %d\nEstimators: %d\n\nAccuracy:  %.2f%%\nPrecision: %.2f%%\nRecall:    %.2f%%\nF1:        %.2f%%",
		status.Status,
		status.Timestamp,
		status.Model.NumFeatures,
		status.Model.Estimators,
		status.Metrics.Accuracy*100,
		status.Metrics.Precision*100,
		status.Metrics.Recall*100,
		status.Metrics.F1*100,
	)
	writeLine(w, "%s", cli.RenderBox(cli.SuccessIcon+" Backend healthy", content))
}

func printInfo(w io.Writer, info classifier.ModelInfo) {
	content := fmt.Sprintf("Algorithm: %s\nVersion:   %s\nTraining samples: %d\nLast updated: %s",
		info.ModelInfo.Algorithm,
		info.ModelInfo.Version,
		info.ModelInfo.TrainingSamples,
		info.LastUpdated,
	)
	writeLine(w, "%s", cli.RenderBox("Model", content))
}
