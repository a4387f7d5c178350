// Package session implements the analysis session controller: the gate, the
// submit transition and the state read by the display.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/urlytics/internal/classifier"
	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Notification messages posted by Submit and ToggleTheme.
const (
	MessageInactive         = "URLytics is disabled. Enable it to analyze messages."
	MessageEmptyInput       = "Please enter text to analyze."
	MessageTransportFailure = "Could not reach the analysis backend."
	MessageThemeNotSaved    = "Could not save the theme preference."
)

// ErrSuperseded is returned by Submit when a newer submission was issued
// before this one's response arrived. The response is discarded.
var ErrSuperseded = errors.New("superseded by a newer submission")

// Classifier performs one remote classification.
type Classifier interface {
	Classify(ctx context.Context, text string) classifier.Outcome
}

// Notifier is the single-slot notification channel.
type Notifier interface {
	Post(message string, severity model.Severity) model.Notification
	Current() (model.Notification, bool)
}

// ThemeResolver resolves and toggles the persisted theme.
type ThemeResolver interface {
	Resolve(ctx context.Context) model.Theme
	Toggle(ctx context.Context) (model.Theme, error)
}

// HistoryRecorder persists successful analyses.
type HistoryRecorder interface {
	RecordAnalysis(ctx context.Context, record model.AnalysisRecord) error
}

// Config holds the controller's collaborators.
type Config struct {
	Classifier Classifier
	Notifier   Notifier
	Themes     ThemeResolver
	History    HistoryRecorder
	Clock      clockwork.Clock
}

// State is a snapshot of the session for display.
type State struct {
	Result       *model.ClassificationResult
	Notification *model.Notification
	InputText    string
	Theme        model.Theme
	Active       bool
	Pending      bool
}

// Controller owns the session state. All mutation goes through its methods.
type Controller struct {
	classifier Classifier
	notifier   Notifier
	themes     ThemeResolver
	history    HistoryRecorder
	clock      clockwork.Clock
	result     *model.ClassificationResult
	inputText  string
	theme      model.Theme
	requestID  uint64
	mu         sync.Mutex
	active     bool
	pending    bool
}

// NewController validates cfg and resolves the theme once.
func NewController(ctx context.Context, cfg Config) (*Controller, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if cfg.Themes == nil {
		return nil, fmt.Errorf("theme resolver is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &Controller{
		classifier: cfg.Classifier,
		notifier:   cfg.Notifier,
		themes:     cfg.Themes,
		history:    cfg.History,
		clock:      cfg.Clock,
		active:     true,
		theme:      cfg.Themes.Resolve(ctx),
	}, nil
}

// SetActive flips the gate. It posts nothing and keeps the current result.
func (c *Controller) SetActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
}

// SetInputText stages text for the next submission.
func (c *Controller) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputText = text
}

// Submit runs one analysis attempt.
//
// An inactive gate or blank input posts a notification, clears the result and
// returns without a network call. A transport failure posts an error and keeps
// the previous result. Only the most recent submission may apply its response.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	c.requestID++
	id := c.requestID

	if !c.active {
		c.result = nil
		c.pending = false
		c.mu.Unlock()
		c.notifier.Post(MessageInactive, model.SeverityInfo)
		return common.ErrInactiveGate
	}

	if strings.TrimSpace(c.inputText) == "" {
		c.result = nil
		c.pending = false
		c.mu.Unlock()
		c.notifier.Post(MessageEmptyInput, model.SeverityWarning)
		return common.ErrEmptyInput
	}

	text := c.inputText
	c.pending = true
	c.mu.Unlock()

	common.LogDebug("Submitting text for classification", common.Fields{
		"request_id": id,
		"length":     len(text),
	})

	outcome := c.classifier.Classify(ctx, text)

	c.mu.Lock()
	if id != c.requestID {
		c.mu.Unlock()
		common.LogDebug("Discarding stale classification response", common.Fields{
			"request_id": id,
		})
		return ErrSuperseded
	}
	c.pending = false

	switch o := outcome.(type) {
	case classifier.Classified:
		result := o.Result()
		c.result = &result
		c.mu.Unlock()
		c.record(ctx, text, o, result)
		return nil

	case classifier.TransportFailure:
		c.mu.Unlock()
		common.LogError(o, "Classification request failed", common.Fields{
			"request_id":  id,
			"status_code": o.StatusCode,
		})
		c.notifier.Post(MessageTransportFailure, model.SeverityError)
		return o

	default:
		c.mu.Unlock()
		c.notifier.Post(MessageTransportFailure, model.SeverityError)
		return fmt.Errorf("%w: unexpected outcome %T", common.ErrTransportFailure, outcome)
	}
}

func (c *Controller) record(ctx context.Context, text string, o classifier.Classified, result model.ClassificationResult) {
	if c.history == nil {
		return
	}
	record := model.AnalysisRecord{
		ID:           uuid.NewString(),
		Text:         model.TruncateText(text),
		Prediction:   o.Prediction,
		Confidence:   o.Confidence,
		IsSuspicious: result.IsSuspicious,
		AnalyzedAt:   c.clock.Now(),
	}
	if err := c.history.RecordAnalysis(ctx, record); err != nil {
		common.LogError(err, "Failed to record analysis", common.Fields{"id": record.ID})
	}
}

// ToggleTheme flips and persists the theme. A failed write posts an error
// notification and leaves the theme unchanged.
func (c *Controller) ToggleTheme(ctx context.Context) (model.Theme, error) {
	theme, err := c.themes.Toggle(ctx)

	c.mu.Lock()
	if err == nil {
		c.theme = theme
	}
	current := c.theme
	c.mu.Unlock()

	if err != nil {
		common.LogError(err, "Failed to toggle theme", nil)
		c.notifier.Post(MessageThemeNotSaved, model.SeverityError)
		return current, err
	}
	return current, nil
}

// State returns a snapshot for display.
func (c *Controller) State() State {
	c.mu.Lock()
	s := State{
		Active:    c.active,
		InputText: c.inputText,
		Theme:     c.theme,
		Pending:   c.pending,
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	c.mu.Unlock()

	if n, ok := c.notifier.Current(); ok {
		s.Notification = &n
	}
	return s
}
