package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorSchemeEnv overrides terminal detection with "dark" or "light".
const ColorSchemeEnv = "URLYTICS_COLOR_SCHEME"

// TerminalHint queries the terminal background through lipgloss.
func TerminalHint() bool {
	return lipgloss.HasDarkBackground()
}

// EnvHint consults ColorSchemeEnv first and falls back to next when the
// variable is unset or unrecognized.
func EnvHint(getenv func(string) string, next SystemHint) SystemHint {
	if getenv == nil {
		getenv = os.Getenv
	}
	return func() bool {
		switch strings.ToLower(strings.TrimSpace(getenv(ColorSchemeEnv))) {
		case "dark":
			return true
		case "light":
			return false
		}
		if next == nil {
			return false
		}
		return next()
	}
}

// StaticHint returns a hint with a fixed answer.
func StaticHint(dark bool) SystemHint {
	return func() bool { return dark }
}
