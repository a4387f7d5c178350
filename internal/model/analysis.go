// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// SuspicionThreshold is the minimum confidence at which a phishing prediction
// is reported as suspicious.
const SuspicionThreshold = 0.25

// Prediction is the raw class returned by the classification backend.
type Prediction int

// Prediction constants.
const (
	PredictionLegitimate Prediction = 0
	PredictionPhishing   Prediction = 1
)

// String returns the backend's label for the prediction.
func (p Prediction) String() string {
	if p == PredictionPhishing {
		return "phishing"
	}
	return "legitimate"
}

// ClassificationResult is the verdict shown to the user after a successful call.
// Values are replaced wholesale, never mutated.
type ClassificationResult struct {
	Label            string
	Headline         string
	ConfidenceDetail string
	Score            float64
	IsSuspicious     bool
}

// Labels and headlines used in results.
const (
	LabelPhishing      = "Phishing"
	LabelNotPhishing   = "No Phishing"
	HeadlineSuspicious = "Alert! Possible phishing."
	HeadlineSafe       = "Looks safe."
)

// IsSuspicious applies the threshold rule. A legitimate prediction is never
// upgraded; a phishing prediction below the threshold is downgraded.
func IsSuspicious(prediction Prediction, confidence float64) bool {
	return prediction == PredictionPhishing && confidence >= SuspicionThreshold
}

// NewClassificationResult derives the displayed verdict from a raw prediction.
func NewClassificationResult(prediction Prediction, confidence float64) ClassificationResult {
	suspicious := IsSuspicious(prediction, confidence)

	result := ClassificationResult{
		IsSuspicious:     suspicious,
		Label:            LabelNotPhishing,
		Headline:         HeadlineSafe,
		ConfidenceDetail: FormatConfidence(confidence),
		Score:            confidence,
	}
	if suspicious {
		result.Label = LabelPhishing
		result.Headline = HeadlineSuspicious
	}
	return result
}

// FormatConfidence renders a [0,1] score as a percentage with two decimals.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.2f%%", confidence*100)
}

// RiskLevel returns "High" for suspicious verdicts and "Low" otherwise.
func (r ClassificationResult) RiskLevel() string {
	if r.IsSuspicious {
		return "High"
	}
	return "Low"
}

// AnalysisRecord is a persisted entry of the analysis history.
type AnalysisRecord struct {
	AnalyzedAt   time.Time
	ID           string
	Text         string
	Prediction   Prediction
	Confidence   float64
	IsSuspicious bool
}

// maxRecordedText matches the length the backend echoes back.
const maxRecordedText = 100

// TruncateText shortens text for history records.
func TruncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxRecordedText {
		return text
	}
	return string(runes[:maxRecordedText]) + "..."
}
