package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/urlytics/internal/model"
	"github.com/Veraticus/urlytics/internal/session"
	"github.com/Veraticus/urlytics/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.session.State()

	sections := []string{
		m.renderHeader(state),
		m.theme.Box.Render(m.input.View()),
		m.renderNotification(state),
		m.renderResult(state),
		m.help.View(m.keymap),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title, the gate status and the theme indicator.
func (m Model) renderHeader(state session.State) string {
	title := m.theme.Title.Render("URLytics")

	status := m.theme.StatusActive.Render("● Enabled")
	if !state.Active {
		status = m.theme.StatusPaused.Render("○ Disabled")
	}

	themeLabel := m.theme.Muted.Render(fmt.Sprintf("%s %s", themes.Icon(state.Theme), state.Theme))

	version := m.theme.Muted.Render(m.config.Version)

	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", version, "  ", status, "  ", themeLabel)
}

// renderNotification renders the live notification, or a blank line so the
// layout does not jump when it expires.
func (m Model) renderNotification(state session.State) string {
	if state.Notification == nil {
		if state.Pending {
			return m.spinner.View() + m.theme.Muted.Render(" Analyzing...")
		}
		return ""
	}
	n := state.Notification
	return m.theme.NotificationStyle(n.Severity).Render(n.Message)
}

// renderResult renders the most recent verdict.
func (m Model) renderResult(state session.State) string {
	if state.Result == nil {
		return m.theme.Muted.Render("No analysis yet.")
	}
	return m.theme.ResultBox.Render(formatResult(m.theme, *state.Result))
}

func formatResult(theme themes.Theme, r model.ClassificationResult) string {
	verdict := theme.Safe
	if r.IsSuspicious {
		verdict = theme.Suspicious
	}

	var b strings.Builder
	b.WriteString(verdict.Render(r.Label))
	b.WriteString("\n")
	b.WriteString(theme.Normal.Render(r.Headline))
	b.WriteString("\n\n")
	b.WriteString(theme.Muted.Render("Confidence: "))
	b.WriteString(theme.Normal.Render(r.ConfidenceDetail))
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("Risk level: "))
	b.WriteString(verdict.Render(fmt.Sprintf("%s (Score: %.2f)", r.RiskLevel(), r.Score)))
	return b.String()
}
