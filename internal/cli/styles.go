// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"

	"github.com/Veraticus/urlytics/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main brand color.
	PrimaryColor = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#c026d3"}
	// SuccessColor indicates successful operations and safe verdicts.
	SuccessColor = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#86efac"}
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#fde047"}
	// ErrorColor indicates errors and suspicious verdicts.
	ErrorColor = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#fca5a5"}
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#93c5fd"}
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(1, 2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LinkIcon    = "🔗"
	AlertIcon   = "🚨"
	ShieldIcon  = "🛡️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the brand icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(LinkIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatNotification renders a notification with the icon of its severity.
func FormatNotification(n model.Notification) string {
	switch n.Severity {
	case model.SeverityError:
		return FormatError(n.Message)
	case model.SeverityWarning:
		return FormatWarning(n.Message)
	case model.SeveritySuccess:
		return FormatSuccess(n.Message)
	default:
		return FormatInfo(n.Message)
	}
}

// FormatResult renders a verdict as a box.
func FormatResult(r model.ClassificationResult) string {
	style := SuccessStyle
	icon := ShieldIcon
	if r.IsSuspicious {
		style = ErrorStyle
		icon = AlertIcon
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		style.Bold(true).Render(r.Headline),
		"",
		fmt.Sprintf("Confidence: %s", r.ConfidenceDetail),
		fmt.Sprintf("Risk level: %s", style.Render(fmt.Sprintf("%s (Score: %.2f)", r.RiskLevel(), r.Score))),
	)

	return RenderBox(icon+" "+r.Label, content)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}
