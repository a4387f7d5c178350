package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// PredictBackend is a fake classification service. It answers POST /predict
// with the configured verdict and records every submitted text.
type PredictBackend struct {
	Server     *httptest.Server
	texts      []string
	Prediction int
	Confidence float64
	Status     int
	mu         sync.Mutex
}

// NewPredictBackend starts a backend that returns prediction and confidence.
// It is shut down when the test ends.
func NewPredictBackend(t *testing.T, prediction int, confidence float64) *PredictBackend {
	t.Helper()

	b := &PredictBackend{
		Prediction: prediction,
		Confidence: confidence,
		Status:     http.StatusOK,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the predict endpoint.
func (b *PredictBackend) URL() string {
	return b.Server.URL + "/predict"
}

// SetVerdict changes the answer for later requests.
func (b *PredictBackend) SetVerdict(prediction int, confidence float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Prediction = prediction
	b.Confidence = confidence
}

// SetStatus makes later requests fail with status when it is not 200.
func (b *PredictBackend) SetStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Status = status
}

// Texts returns the submitted texts in order.
func (b *PredictBackend) Texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

func (b *PredictBackend) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/predict" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid JSON"}`, http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.texts = append(b.texts, req.Text)
	status, prediction, confidence := b.Status, b.Prediction, b.Confidence
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error": "Prediction failed"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"prediction": prediction,
		"confidence": confidence,
	})
}
