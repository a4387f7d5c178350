package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/urlytics/internal/classifier"
	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
	"github.com/Veraticus/urlytics/internal/notify"
	"github.com/Veraticus/urlytics/internal/theme"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier returns queued outcomes and counts calls.
type fakeClassifier struct {
	outcomes []classifier.Outcome
	texts    []string
	mu       sync.Mutex
}

func (f *fakeClassifier) Classify(_ context.Context, text string) classifier.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if len(f.outcomes) == 0 {
		return classifier.TransportFailure{Err: errors.New("no outcome queued")}
	}
	o := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return o
}

func (f *fakeClassifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

// gatedClassifier blocks each call until its release channel is closed.
type gatedClassifier struct {
	started  chan string
	releases map[string]chan classifier.Outcome
	mu       sync.Mutex
}

func newGatedClassifier() *gatedClassifier {
	return &gatedClassifier{
		started:  make(chan string, 4),
		releases: make(map[string]chan classifier.Outcome),
	}
}

func (g *gatedClassifier) gate(text string) chan classifier.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.releases[text]
	if !ok {
		ch = make(chan classifier.Outcome, 1)
		g.releases[text] = ch
	}
	return ch
}

func (g *gatedClassifier) Classify(_ context.Context, text string) classifier.Outcome {
	ch := g.gate(text)
	g.started <- text
	return <-ch
}

type recordingHistory struct {
	records []model.AnalysisRecord
	err     error
	mu      sync.Mutex
}

func (h *recordingHistory) RecordAnalysis(_ context.Context, r model.AnalysisRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return h.err
}

type harness struct {
	controller *Controller
	classifier *fakeClassifier
	channel    *notify.Channel
	clock      *clockwork.FakeClock
	store      *theme.MemoryStore
	history    *recordingHistory
}

func newHarness(t *testing.T, outcomes ...classifier.Outcome) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	h := &harness{
		classifier: &fakeClassifier{outcomes: outcomes},
		channel:    notify.New(notify.WithClock(clock)),
		clock:      clock,
		store:      theme.NewMemoryStore(),
		history:    &recordingHistory{},
	}

	controller, err := NewController(context.Background(), Config{
		Classifier: h.classifier,
		Notifier:   h.channel,
		Themes:     theme.NewResolver(h.store, theme.StaticHint(false), nil),
		History:    h.history,
		Clock:      clock,
	})
	require.NoError(t, err)
	h.controller = controller
	return h
}

func classified(prediction model.Prediction, confidence float64) classifier.Outcome {
	return classifier.Classified{Prediction: prediction, Confidence: confidence}
}

func TestNewController_Defaults(t *testing.T) {
	h := newHarness(t)
	state := h.controller.State()

	assert.True(t, state.Active)
	assert.Empty(t, state.InputText)
	assert.Nil(t, state.Result)
	assert.Nil(t, state.Notification)
	assert.False(t, state.Pending)
	assert.Equal(t, model.ThemeLight, state.Theme)
}

func TestNewController_RequiresCollaborators(t *testing.T) {
	ctx := context.Background()
	resolver := theme.NewResolver(nil, nil, nil)
	channel := notify.New()

	_, err := NewController(ctx, Config{Notifier: channel, Themes: resolver})
	require.Error(t, err)
	_, err = NewController(ctx, Config{Classifier: &fakeClassifier{}, Themes: resolver})
	require.Error(t, err)
	_, err = NewController(ctx, Config{Classifier: &fakeClassifier{}, Notifier: channel})
	require.Error(t, err)
}

func TestController_ScenarioA_SuspiciousVerdict(t *testing.T) {
	h := newHarness(t, classified(model.PredictionPhishing, 0.82))
	h.controller.SetInputText("win a free prize, click now")

	require.NoError(t, h.controller.Submit(context.Background()))

	state := h.controller.State()
	require.NotNil(t, state.Result)
	assert.True(t, state.Result.IsSuspicious)
	assert.InDelta(t, 0.82, state.Result.Score, 1e-9)
	assert.Equal(t, "82.00%", state.Result.ConfidenceDetail)
	assert.Equal(t, model.LabelPhishing, state.Result.Label)
	assert.Nil(t, state.Notification, "success posts no notification")
	assert.Equal(t, []string{"win a free prize, click now"}, h.classifier.texts)
}

func TestController_ScenarioB_BelowThreshold(t *testing.T) {
	h := newHarness(t, classified(model.PredictionPhishing, 0.10))
	h.controller.SetInputText("hello, how are you")

	require.NoError(t, h.controller.Submit(context.Background()))

	state := h.controller.State()
	require.NotNil(t, state.Result)
	assert.False(t, state.Result.IsSuspicious)
	assert.Equal(t, model.LabelNotPhishing, state.Result.Label)
	assert.Equal(t, "10.00%", state.Result.ConfidenceDetail)
}

func TestController_ScenarioC_InactiveGate(t *testing.T) {
	h := newHarness(t, classified(model.PredictionPhishing, 0.9), classified(model.PredictionPhishing, 0.9))
	ctx := context.Background()

	h.controller.SetInputText("win a free prize")
	require.NoError(t, h.controller.Submit(ctx))
	require.NotNil(t, h.controller.State().Result)

	// Disabling keeps the result until the next submit.
	h.controller.SetActive(false)
	assert.NotNil(t, h.controller.State().Result)
	assert.Nil(t, h.controller.State().Notification)

	err := h.controller.Submit(ctx)
	require.ErrorIs(t, err, common.ErrInactiveGate)

	state := h.controller.State()
	assert.False(t, state.Active)
	assert.Nil(t, state.Result)
	require.NotNil(t, state.Notification)
	assert.Equal(t, model.SeverityInfo, state.Notification.Severity)
	assert.Equal(t, MessageInactive, state.Notification.Message)
	assert.Equal(t, 1, h.classifier.calls(), "no network call while inactive")
}

func TestController_ScenarioD_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		t.Run("input "+input, func(t *testing.T) {
			h := newHarness(t, classified(model.PredictionLegitimate, 0.9))
			ctx := context.Background()

			h.controller.SetInputText("a real message")
			require.NoError(t, h.controller.Submit(ctx))

			h.controller.SetInputText(input)
			err := h.controller.Submit(ctx)
			require.ErrorIs(t, err, common.ErrEmptyInput)

			state := h.controller.State()
			assert.Nil(t, state.Result)
			require.NotNil(t, state.Notification)
			assert.Equal(t, model.SeverityWarning, state.Notification.Severity)
			assert.Equal(t, MessageEmptyInput, state.Notification.Message)
			assert.Equal(t, 1, h.classifier.calls())
		})
	}
}

func TestController_ScenarioE_TransportFailureKeepsResult(t *testing.T) {
	h := newHarness(t,
		classified(model.PredictionPhishing, 0.82),
		classifier.TransportFailure{Err: errors.New("connection refused")},
	)
	ctx := context.Background()

	h.controller.SetInputText("win a free prize")
	require.NoError(t, h.controller.Submit(ctx))
	before := h.controller.State().Result
	require.NotNil(t, before)

	h.controller.SetInputText("another message")
	err := h.controller.Submit(ctx)
	require.ErrorIs(t, err, common.ErrTransportFailure)

	state := h.controller.State()
	require.NotNil(t, state.Result)
	assert.Equal(t, *before, *state.Result)
	require.NotNil(t, state.Notification)
	assert.Equal(t, model.SeverityError, state.Notification.Severity)
	assert.Equal(t, MessageTransportFailure, state.Notification.Message)
	assert.False(t, state.Pending)
}

func TestController_TransportFailureWithoutPriorResult(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/predict"
	server.Close()

	client, err := classifier.New(endpoint)
	require.NoError(t, err)

	channel := notify.New(notify.WithClock(clockwork.NewFakeClock()))
	controller, err := NewController(context.Background(), Config{
		Classifier: client,
		Notifier:   channel,
		Themes:     theme.NewResolver(theme.NewMemoryStore(), nil, nil),
	})
	require.NoError(t, err)

	controller.SetInputText("is this reachable")
	require.ErrorIs(t, controller.Submit(context.Background()), common.ErrTransportFailure)

	state := controller.State()
	assert.Nil(t, state.Result)
	require.NotNil(t, state.Notification)
	assert.Equal(t, model.SeverityError, state.Notification.Severity)
}

func TestController_NotificationExpires(t *testing.T) {
	h := newHarness(t)
	h.controller.SetActive(false)
	require.ErrorIs(t, h.controller.Submit(context.Background()), common.ErrInactiveGate)
	require.NotNil(t, h.controller.State().Notification)

	h.clock.Advance(model.DefaultNotificationTTL)
	assert.Eventually(t, func() bool {
		return h.controller.State().Notification == nil
	}, time.Second, 5*time.Millisecond)
}

func TestController_RejectionReplacesNotification(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.controller.SetActive(false)
	require.ErrorIs(t, h.controller.Submit(ctx), common.ErrInactiveGate)
	h.clock.Advance(2 * time.Second)

	h.controller.SetActive(true)
	require.ErrorIs(t, h.controller.Submit(ctx), common.ErrEmptyInput)

	// The first notification's deadline passes without clearing the second.
	h.clock.Advance(1500 * time.Millisecond)
	assert.Never(t, func() bool {
		return h.controller.State().Notification == nil
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, MessageEmptyInput, h.controller.State().Notification.Message)
}

func TestController_RecordsHistory(t *testing.T) {
	h := newHarness(t, classified(model.PredictionPhishing, 0.82), classified(model.PredictionPhishing, 0.1))
	ctx := context.Background()

	h.controller.SetInputText("win a free prize, click now")
	require.NoError(t, h.controller.Submit(ctx))
	h.controller.SetInputText("hello, how are you")
	require.NoError(t, h.controller.Submit(ctx))

	require.Len(t, h.history.records, 2)
	first := h.history.records[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "win a free prize, click now", first.Text)
	assert.Equal(t, model.PredictionPhishing, first.Prediction)
	assert.True(t, first.IsSuspicious)
	assert.Equal(t, h.clock.Now(), first.AnalyzedAt)
	assert.False(t, h.history.records[1].IsSuspicious)
	assert.NotEqual(t, first.ID, h.history.records[1].ID)
}

func TestController_HistoryFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, classified(model.PredictionLegitimate, 0.9))
	h.history.err = errors.New("database locked")

	h.controller.SetInputText("hi")
	require.NoError(t, h.controller.Submit(context.Background()))
	assert.NotNil(t, h.controller.State().Result)
	assert.Nil(t, h.controller.State().Notification)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	gated := newGatedClassifier()
	channel := notify.New(notify.WithClock(clockwork.NewFakeClock()))
	controller, err := NewController(context.Background(), Config{
		Classifier: gated,
		Notifier:   channel,
		Themes:     theme.NewResolver(theme.NewMemoryStore(), nil, nil),
	})
	require.NoError(t, err)

	ctx := context.Background()
	results := make(map[string]error)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	submit := func(text string) {
		controller.SetInputText(text)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := controller.Submit(ctx)
			mu.Lock()
			results[text] = err
			mu.Unlock()
		}()
		<-gated.started
	}

	submit("older")
	assert.True(t, controller.State().Pending)
	submit("newer")

	// The newer request resolves first, then the older one arrives late.
	gated.gate("newer") <- classified(model.PredictionLegitimate, 0.9)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, done := results["newer"]
		return done
	}, time.Second, 5*time.Millisecond)
	gated.gate("older") <- classified(model.PredictionPhishing, 0.99)
	wg.Wait()

	assert.NoError(t, results["newer"])
	assert.ErrorIs(t, results["older"], ErrSuperseded)

	state := controller.State()
	require.NotNil(t, state.Result)
	assert.False(t, state.Result.IsSuspicious, "late response must not overwrite the newer one")
	assert.False(t, state.Pending)
}

func TestController_RejectionSupersedesInFlight(t *testing.T) {
	gated := newGatedClassifier()
	channel := notify.New(notify.WithClock(clockwork.NewFakeClock()))
	controller, err := NewController(context.Background(), Config{
		Classifier: gated,
		Notifier:   channel,
		Themes:     theme.NewResolver(theme.NewMemoryStore(), nil, nil),
	})
	require.NoError(t, err)
	ctx := context.Background()

	controller.SetInputText("in flight")
	done := make(chan error, 1)
	go func() { done <- controller.Submit(ctx) }()
	<-gated.started

	controller.SetActive(false)
	require.ErrorIs(t, controller.Submit(ctx), common.ErrInactiveGate)
	assert.False(t, controller.State().Pending)

	gated.gate("in flight") <- classified(model.PredictionPhishing, 0.9)
	require.ErrorIs(t, <-done, ErrSuperseded)
	assert.Nil(t, controller.State().Result)
}

type failingPrefs struct{}

func (failingPrefs) GetPreference(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (failingPrefs) SetPreference(context.Context, string, string) error {
	return errors.New("read-only database")
}

func TestController_ToggleTheme(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got, err := h.controller.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, got)
	assert.Equal(t, model.ThemeDark, h.controller.State().Theme)

	value, ok, err := h.store.GetPreference(ctx, theme.PreferenceKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", value)

	got, err = h.controller.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, got)
}

func TestController_ToggleThemeFailure(t *testing.T) {
	channel := notify.New(notify.WithClock(clockwork.NewFakeClock()))
	controller, err := NewController(context.Background(), Config{
		Classifier: &fakeClassifier{},
		Notifier:   channel,
		Themes:     theme.NewResolver(failingPrefs{}, nil, nil),
	})
	require.NoError(t, err)

	got, err := controller.ToggleTheme(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.ThemeLight, got)

	state := controller.State()
	assert.Equal(t, model.ThemeLight, state.Theme)
	require.NotNil(t, state.Notification)
	assert.Equal(t, MessageThemeNotSaved, state.Notification.Message)
}

func TestController_StateIsACopy(t *testing.T) {
	h := newHarness(t, classified(model.PredictionPhishing, 0.82))
	h.controller.SetInputText("win")
	require.NoError(t, h.controller.Submit(context.Background()))

	state := h.controller.State()
	state.Result.IsSuspicious = false

	assert.True(t, h.controller.State().Result.IsSuspicious)
}
