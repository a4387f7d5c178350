package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/urlytics/internal/cli"
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/spf13/cobra"
)

// errSuspicious is returned with --fail-on-suspicious so scripts get exit 1.
var errSuspicious = errors.New("message looks like phishing")

// checkOutput is the --json rendering of a verdict.
type checkOutput struct {
	Label            string  `json:"label"`
	Headline         string  `json:"headline"`
	ConfidenceDetail string  `json:"confidence_detail"`
	RiskLevel        string  `json:"risk_level"`
	Score            float64 `json:"score"`
	IsSuspicious     bool    `json:"is_suspicious"`
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Analyze a single message",
		Long: `Analyze a message and print the verdict.

The text is taken from the arguments, or read from standard input when no
arguments are given. With --interactive every input line is analyzed until
end of input or "quit".

Examples:
  urlytics check "Your parcel is on hold, confirm payment at http://bit.ly/x"
  pbpaste | urlytics check --json
  urlytics check -i`,
		RunE: runCheck,
	}

	cmd.Flags().Bool("json", false, "print the verdict as JSON")
	cmd.Flags().BoolP("interactive", "i", false, "analyze one line at a time")
	cmd.Flags().Bool("fail-on-suspicious", false, "exit with status 1 when the verdict is phishing")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")
	interactive, _ := cmd.Flags().GetBool("interactive")
	failOnSuspicious, _ := cmd.Flags().GetBool("fail-on-suspicious")

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	a.notifier.OnChange(func(n model.Notification, ok bool) {
		if ok {
			writeLine(stderr, "%s", cli.FormatNotification(n))
		}
	})

	reader := cli.NewLineReader(cmd.InOrStdin())

	if interactive {
		return checkInteractive(ctx, a, reader, stdout, asJSON)
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		text, err = reader.ReadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	result, err := checkText(ctx, a, text)
	if err != nil {
		return err
	}
	if err := printResult(stdout, result, asJSON); err != nil {
		return err
	}
	if failOnSuspicious && result.IsSuspicious {
		return errSuspicious
	}
	return nil
}

// checkText runs one submission through the session controller.
func checkText(ctx context.Context, a *app, text string) (model.ClassificationResult, error) {
	a.controller.SetInputText(text)
	if err := a.controller.Submit(ctx); err != nil {
		return model.ClassificationResult{}, err
	}

	state := a.controller.State()
	if state.Result == nil {
		return model.ClassificationResult{}, errors.New("no result after a successful analysis")
	}
	return *state.Result, nil
}

func checkInteractive(ctx context.Context, a *app, reader *cli.LineReader, w io.Writer, asJSON bool) error {
	writeLine(w, "%s", cli.FormatTitle("URLytics"))
	writeLine(w, "%s", cli.FormatInfo(`Enter a message per line. Type "quit" to exit.`))

	for {
		if _, err := fmt.Fprint(w, cli.FormatPrompt("Text")); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrInputCancelled) {
			writeLine(w, "")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		result, err := checkText(ctx, a, line)
		if err != nil {
			// The notification listener already reported it.
			continue
		}
		if err := printResult(w, result, asJSON); err != nil {
			return err
		}
	}
}

func printResult(w io.Writer, result model.ClassificationResult, asJSON bool) error {
	if !asJSON {
		writeLine(w, "%s", cli.FormatResult(result))
		return nil
	}

	out := checkOutput{
		Label:            result.Label,
		Headline:         result.Headline,
		ConfidenceDetail: result.ConfidenceDetail,
		RiskLevel:        result.RiskLevel(),
		Score:            result.Score,
		IsSuspicious:     result.IsSuspicious,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
