// Package testutil provides shared fixtures for tests: a migrated SQLite
// database and a fake classification backend.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/urlytics/internal/model"
	"github.com/Veraticus/urlytics/internal/storage"
)

// TestDB wraps a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Preferences    map[string]string
	Records        []model.AnalysisRecord
	SkipMigrations bool
}

// SetupTestDB creates a new in-memory database with migrations applied.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database seeded from opts.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Preferences: map[string]string{"theme": "dark"},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for key, value := range opts.Preferences {
		if err := store.SetPreference(ctx, key, value); err != nil {
			t.Fatalf("failed to seed preference %q: %v", key, err)
		}
	}

	for _, r := range opts.Records {
		if err := store.RecordAnalysis(ctx, r); err != nil {
			t.Fatalf("failed to seed analysis %q: %v", r.ID, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustListAnalyses returns every recorded analysis, newest first, or fails
// the test.
func (db *TestDB) MustListAnalyses() []model.AnalysisRecord {
	db.t.Helper()
	records, err := db.Storage.ListAnalyses(context.Background(), 0)
	if err != nil {
		db.t.Fatalf("failed to list analyses: %v", err)
	}
	return records
}

// MustGetPreference returns a stored preference, or "" when unset.
func (db *TestDB) MustGetPreference(key string) string {
	db.t.Helper()
	value, _, err := db.Storage.GetPreference(context.Background(), key)
	if err != nil {
		db.t.Fatalf("failed to read preference %q: %v", key, err)
	}
	return value
}
