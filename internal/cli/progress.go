package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// WaitIndicator is an indeterminate spinner shown while polling a backend.
type WaitIndicator struct {
	bar         *progressbar.ProgressBar
	description string
}

// NewWaitIndicator creates a spinner with the given description.
func NewWaitIndicator(writer io.Writer, description string) *WaitIndicator {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after spinner", "error", err)
			}
		}),
	)
	return &WaitIndicator{bar: bar, description: description}
}

// Attempt advances the spinner and shows the attempt number.
func (w *WaitIndicator) Attempt(n int, err error) {
	w.bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset] (attempt %d: %v)", w.description, n, err))
	if err := w.bar.Add(1); err != nil {
		slog.Warn("Failed to update spinner", "error", err)
	}
}

// Done stops the spinner.
func (w *WaitIndicator) Done() {
	if err := w.bar.Finish(); err != nil {
		slog.Warn("Failed to finish spinner", "error", err)
	}
}
