// Package themes holds the light and dark palettes of the interactive screen.
package themes

import (
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI. Colors are adaptive: lipgloss
// picks the Light or Dark variant from the renderer's dark-background flag,
// which SetDarkMode keeps in sync with the resolved theme.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Muted         lipgloss.Style
	Box           lipgloss.Style
	ResultBox     lipgloss.Style
	StatusActive  lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Suspicious    lipgloss.Style
	Safe          lipgloss.Style
	Primary       lipgloss.AdaptiveColor
	Border        lipgloss.AdaptiveColor
}

var (
	primary = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#c026d3"}
	text    = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f3f4f6"}
	muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	border  = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}
	info    = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#93c5fd"}
	warning = lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#fde047"}
	danger  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#fca5a5"}
	success = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#86efac"}
)

// Default is the adaptive theme used by the screen.
var Default = Theme{
	Primary: primary,
	Border:  border,

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(text),
	Subtitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(muted),
	Normal: lipgloss.NewStyle().
		Foreground(text),
	Muted: lipgloss.NewStyle().
		Foreground(muted),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2),
	ResultBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Padding(0, 1),

	StatusActive: lipgloss.NewStyle().
		Foreground(success).
		Bold(true),
	StatusPaused: lipgloss.NewStyle().
		Foreground(warning).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(info).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(info).
		PaddingLeft(1),
	StatusWarning: lipgloss.NewStyle().
		Foreground(warning).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(warning).
		PaddingLeft(1),
	StatusError: lipgloss.NewStyle().
		Foreground(danger).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(danger).
		PaddingLeft(1),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(success).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(success).
		PaddingLeft(1),

	Suspicious: lipgloss.NewStyle().
		Foreground(danger).
		Bold(true),
	Safe: lipgloss.NewStyle().
		Foreground(success).
		Bold(true),
}

// NotificationStyle returns the style for a notification severity. Unknown
// severities render as info.
func (t Theme) NotificationStyle(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeverityError:
		return t.StatusError
	case model.SeverityWarning:
		return t.StatusWarning
	case model.SeveritySuccess:
		return t.StatusSuccess
	default:
		return t.StatusInfo
	}
}

// SetDarkMode is the display side of the theme toggle: it tells lipgloss
// which variant of every adaptive color to render.
func SetDarkMode(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}

// Icon returns the toggle glyph for the current theme.
func Icon(theme model.Theme) string {
	if theme.IsDark() {
		return "☀"
	}
	return "☾"
}
