// Package notify holds the single-slot transient notification channel.
package notify

import (
	"sync"
	"time"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/jonboulle/clockwork"
)

// Listener is called after every change of the channel. ok is false when the
// channel became empty.
type Listener func(n model.Notification, ok bool)

// Channel holds zero or one notification and owns its expiry timer.
type Channel struct {
	clock      clockwork.Clock
	timer      clockwork.Timer
	listeners  []Listener
	current    model.Notification
	generation uint64
	ttl        time.Duration
	mu         sync.Mutex
	active     bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithClock sets the clock used for timestamps and expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Channel) {
		c.clock = clock
	}
}

// WithTTL overrides the default time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Channel) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// New creates an empty channel.
func New(opts ...Option) *Channel {
	c := &Channel{
		clock: clockwork.NewRealClock(),
		ttl:   model.DefaultNotificationTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers a listener.
func (c *Channel) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Post replaces the current notification using the channel's TTL.
func (c *Channel) Post(message string, severity model.Severity) model.Notification {
	return c.PostWithTTL(message, severity, c.ttl)
}

// PostWithTTL replaces the current notification and schedules its expiry.
// The previous expiry timer is stopped before the new one starts.
func (c *Channel) PostWithTTL(message string, severity model.Severity, ttl time.Duration) model.Notification {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.stopTimerLocked()
	c.generation++
	gen := c.generation

	n := model.Notification{
		Message:   message,
		Severity:  severity,
		CreatedAt: c.clock.Now(),
		TTL:       ttl,
	}
	c.current = n
	c.active = true
	c.timer = c.clock.AfterFunc(ttl, func() { c.expire(gen) })
	listeners := c.listenersLocked()
	c.mu.Unlock()

	common.LogDebug("Notification posted", common.Fields{
		"severity":   string(severity),
		"ttl":        ttl,
		"generation": gen,
	})
	emit(listeners, n, true)

	return n
}

// Clear empties the channel immediately and cancels the pending expiry.
func (c *Channel) Clear() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.generation++
	c.current = model.Notification{}
	c.active = false
	listeners := c.listenersLocked()
	c.mu.Unlock()

	emit(listeners, model.Notification{}, false)
}

// Current returns the live notification, if any.
func (c *Channel) Current() (model.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.active
}

// expire clears the channel only if no newer post or clear happened since the
// timer for gen was scheduled.
func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.active {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.current = model.Notification{}
	c.active = false
	listeners := c.listenersLocked()
	c.mu.Unlock()

	common.LogDebug("Notification expired", common.Fields{"generation": gen})
	emit(listeners, model.Notification{}, false)
}

func (c *Channel) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Channel) listenersLocked() []Listener {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(c.listeners))
	copy(out, c.listeners)
	return out
}

func emit(listeners []Listener, n model.Notification, ok bool) {
	for _, l := range listeners {
		l(n, ok)
	}
}
