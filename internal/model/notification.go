package model

import "time"

// Severity classifies a transient notification.
type Severity string

// Severity constants.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 3 * time.Second

// Notification is a transient message. At most one is alive at any time.
type Notification struct {
	CreatedAt time.Time
	Message   string
	Severity  Severity
	TTL       time.Duration
}

// ExpiresAt reports when the notification is due to be cleared.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.TTL)
}
