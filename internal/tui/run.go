package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/Veraticus/urlytics/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

// Notifications is the change feed the screen subscribes to.
type Notifications interface {
	OnChange(l notify.Listener)
}

// Run starts the interactive screen and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, notifications Notifications, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Session == nil {
		return fmt.Errorf("session is required")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(ctx, cfg), programOpts...)

	if notifications != nil {
		notifications.OnChange(func(n model.Notification, ok bool) {
			// Listeners may fire from inside a command; never block it on the
			// program's message queue.
			go p.Send(NotificationChangedMsg{Notification: n, Visible: ok})
		})
	}

	common.LogInfo("Starting interactive session", common.Fields{"version": cfg.Version})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
