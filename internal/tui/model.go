// Package tui provides the interactive analysis screen.
package tui

import (
	"context"
	"errors"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/session"
	"github.com/Veraticus/urlytics/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minInputHeight = 3
	chromeHeight   = 16
)

// Model holds the screen state. Session state lives in the controller; the
// model only keeps widgets and layout.
type Model struct {
	ctx      context.Context
	session  Session
	lastErr  error
	theme    themes.Theme
	config   Config
	keymap   KeyMap
	help     help.Model
	input    textarea.Model
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	input := textarea.New()
	input.Placeholder = "Paste an email, SMS or URL to analyze..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = cfg.Theme.Muted

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:     ctx,
		session: cfg.Session,
		theme:   cfg.Theme,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    h,
		input:   input,
		spinner: spin,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	if text := cfg.Session.State().InputText; text != "" {
		m.input.SetValue(text)
	}
	m.resize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKeys(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case submitDoneMsg:
		m.lastErr = nil
		if msg.err != nil && !errors.Is(msg.err, session.ErrSuperseded) {
			m.lastErr = msg.err
		}
		return m, nil

	case themeToggledMsg:
		m.lastErr = msg.err
		return m, nil

	case NotificationChangedMsg:
		// State is read from the session on render.
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInputText(m.input.Value())
	return m, cmd
}

// handleKeys processes bound keys. Unbound keys go to the text area.
func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Submit):
		m.session.SetInputText(m.input.Value())
		return m.submit(), true

	case key.Matches(msg, m.keymap.ToggleGate):
		active := !m.session.State().Active
		m.session.SetActive(active)
		common.LogDebug("Analysis gate toggled", common.Fields{"active": active})
		return nil, true

	case key.Matches(msg, m.keymap.ToggleTheme):
		return m.toggleTheme(), true

	case key.Matches(msg, m.keymap.ClearInput):
		m.input.Reset()
		m.session.SetInputText("")
		return nil, true

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil, true
	}
	return nil, false
}

func (m *Model) resize() {
	width := m.width - 6
	if width < 20 {
		width = 20
	}
	height := m.height - chromeHeight
	if m.help.ShowAll {
		height -= 2
	}
	if height < minInputHeight {
		height = minInputHeight
	}
	m.input.SetWidth(width)
	m.input.SetHeight(height)
	m.help.Width = m.width
}
