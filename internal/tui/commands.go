package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// submit runs the session's Submit off the update loop. The notification
// channel may call back into the program while Submit runs, so it must never
// execute inside Update.
func (m Model) submit() tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: s.Submit(ctx)}
	}
}

// toggleTheme persists the flipped theme off the update loop.
func (m Model) toggleTheme() tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		theme, err := s.ToggleTheme(ctx)
		return themeToggledMsg{theme: theme, err: err}
	}
}
