package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/urlytics/internal/model"
)

// HistorySummary aggregates the analysis history.
type HistorySummary struct {
	Total      int
	Suspicious int
}

// RecordAnalysis stores one successful analysis.
func (s *SQLiteStorage) RecordAnalysis(ctx context.Context, record model.AnalysisRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, text, prediction, confidence, is_suspicious, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Text,
		int(record.Prediction),
		record.Confidence,
		record.IsSuspicious,
		record.AnalyzedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns the most recent analyses, newest first. A limit of zero
// or less returns everything.
func (s *SQLiteStorage) ListAnalyses(ctx context.Context, limit int) ([]model.AnalysisRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, prediction, confidence, is_suspicious, analyzed_at
		FROM analyses
		ORDER BY analyzed_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AnalysisRecord
	for rows.Next() {
		var (
			r          model.AnalysisRecord
			prediction int
			analyzedAt time.Time
		)
		if err := rows.Scan(&r.ID, &r.Text, &prediction, &r.Confidence, &r.IsSuspicious, &analyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		r.Prediction = model.Prediction(prediction)
		r.AnalyzedAt = analyzedAt
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return records, nil
}

// SummarizeAnalyses counts recorded analyses.
func (s *SQLiteStorage) SummarizeAnalyses(ctx context.Context) (HistorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return HistorySummary{}, err
	}

	var summary HistorySummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_suspicious), 0) FROM analyses`).
		Scan(&summary.Total, &summary.Suspicious)
	if err != nil {
		return HistorySummary{}, fmt.Errorf("failed to summarize analyses: %w", err)
	}
	return summary, nil
}

// ClearAnalyses deletes the whole history and reports how many rows went.
func (s *SQLiteStorage) ClearAnalyses(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared analyses: %w", err)
	}
	return n, nil
}
