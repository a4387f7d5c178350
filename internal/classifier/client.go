// Package classifier talks to the remote phishing classification backend.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/Veraticus/urlytics/internal/model"
)

// DefaultEndpoint is the backend's predict route when run locally.
const DefaultEndpoint = "http://localhost:5000/predict"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Outcome is the typed result of one classification call: either
// Classified or TransportFailure.
type Outcome interface {
	isOutcome()
}

// Classified carries a decoded backend verdict.
type Classified struct {
	PhishingProbability *float64
	PredictionLabel     string
	RiskLevel           string
	Prediction          model.Prediction
	Confidence          float64
}

// TransportFailure marks a network error, a non-2xx status or a malformed body.
type TransportFailure struct {
	Err        error
	StatusCode int
}

func (Classified) isOutcome()       {}
func (TransportFailure) isOutcome() {}

// Result maps the verdict to the displayed result using the threshold rule.
func (c Classified) Result() model.ClassificationResult {
	return model.NewClassificationResult(c.Prediction, c.Confidence)
}

// Error implements error so failures can be wrapped and logged directly.
func (f TransportFailure) Error() string {
	if f.Err == nil {
		return common.ErrTransportFailure.Error()
	}
	return fmt.Sprintf("%s: %v", common.ErrTransportFailure, f.Err)
}

// Unwrap lets errors.Is match common.ErrTransportFailure.
func (f TransportFailure) Unwrap() []error {
	if f.Err == nil {
		return []error{common.ErrTransportFailure}
	}
	return []error{common.ErrTransportFailure, f.Err}
}

// Client sends text to the classification endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   *url.URL
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the given predict endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid classifier endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid classifier endpoint %q: missing host", endpoint)
	}

	c := &Client{
		endpoint:   u,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured predict URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Prediction          *int     `json:"prediction"`
	Confidence          *float64 `json:"confidence"`
	PhishingProbability *float64 `json:"phishing_probability,omitempty"`
	PredictionLabel     string   `json:"prediction_label,omitempty"`
	RiskLevel           string   `json:"risk_level,omitempty"`
}

// Classify performs one POST round trip. text must be non-empty; callers
// validate it. There are no retries.
func (c *Client) Classify(ctx context.Context, text string) Outcome {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return TransportFailure{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return TransportFailure{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TransportFailure{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TransportFailure{Err: fmt.Errorf("failed to read response: %w", err), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TransportFailure{
			Err:        fmt.Errorf("classifier error (status %d): %s", resp.StatusCode, truncate(raw)),
			StatusCode: resp.StatusCode,
		}
	}

	classified, err := decodePrediction(raw)
	if err != nil {
		return TransportFailure{Err: err, StatusCode: resp.StatusCode}
	}
	return classified
}

func decodePrediction(raw []byte) (Classified, error) {
	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return Classified{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if pr.Prediction == nil {
		return Classified{}, fmt.Errorf("response missing prediction")
	}
	if pr.Confidence == nil {
		return Classified{}, fmt.Errorf("response missing confidence")
	}

	prediction := model.Prediction(*pr.Prediction)
	if prediction != model.PredictionLegitimate && prediction != model.PredictionPhishing {
		return Classified{}, fmt.Errorf("prediction %d out of range", *pr.Prediction)
	}
	if *pr.Confidence < 0 || *pr.Confidence > 1 {
		return Classified{}, fmt.Errorf("confidence %v out of range", *pr.Confidence)
	}

	return Classified{
		Prediction:          prediction,
		Confidence:          *pr.Confidence,
		PhishingProbability: pr.PhishingProbability,
		PredictionLabel:     pr.PredictionLabel,
		RiskLevel:           pr.RiskLevel,
	}, nil
}

func truncate(raw []byte) string {
	const limit = 200
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
