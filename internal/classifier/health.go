package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HealthStatus is the backend's /health payload.
type HealthStatus struct {
	Model struct {
		Features    []string `json:"features"`
		Estimators  int      `json:"n_estimators"`
		NumFeatures int      `json:"n_features"`
	} `json:"model"`
	Metrics   ModelMetrics `json:"metrics"`
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
}

// ModelMetrics are the evaluation scores the backend reports.
type ModelMetrics struct {
	Accuracy  float64 `json:"test_accuracy"`
	Precision float64 `json:"test_precision"`
	Recall    float64 `json:"test_recall"`
	F1        float64 `json:"test_f1"`
}

// ModelInfo is the backend's /info payload.
type ModelInfo struct {
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Performance       map[string]any     `json:"performance"`
	LastUpdated       string             `json:"last_updated"`
	Features          []string           `json:"features"`
	ModelInfo         struct {
		Algorithm       string `json:"algorithm"`
		Version         string `json:"version"`
		Estimators      int    `json:"n_estimators"`
		TrainingSamples int    `json:"training_samples"`
	} `json:"model_info"`
}

// Health queries the backend's health route next to the predict endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "/health", &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// Info queries the backend's model description.
func (c *Client) Info(ctx context.Context) (ModelInfo, error) {
	var info ModelInfo
	if err := c.getJSON(ctx, "/info", &info); err != nil {
		return ModelInfo{}, err
	}
	return info, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	u := *c.endpoint
	u.Path = path
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
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
	if resp.StatusCode != http.StatusOK {
		return TransportFailure{
			Err:        fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, truncate(raw)),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return TransportFailure{Err: fmt.Errorf("failed to parse %s response: %w", path, err), StatusCode: resp.StatusCode}
	}
	return nil
}
