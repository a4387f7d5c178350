package tui

import "github.com/Veraticus/urlytics/internal/model"

// submitDoneMsg is sent when a Submit call returns.
type submitDoneMsg struct {
	err error
}

// themeToggledMsg is sent after the theme toggle was persisted or failed.
type themeToggledMsg struct {
	err   error
	theme model.Theme
}

// NotificationChangedMsg tells the screen the notification slot changed,
// including expiry.
type NotificationChangedMsg struct {
	Notification model.Notification
	Visible      bool
}
