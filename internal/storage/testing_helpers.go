package storage

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestDB creates a migrated database in a temporary directory.
// Returns the store and a cleanup function that should be deferred.
func NewTestDB(t *testing.T) (*Store, func()) {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := store.Initialize(context.Background()); err != nil {
		store.Close()
		t.Fatalf("failed to initialize test database: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	}

	return store, cleanup
}

// NewTestDBWithData creates a migrated test database holding the sample data.
// Returns the store and a cleanup function that should be deferred.
func NewTestDBWithData(t *testing.T) (*Store, func()) {
	t.Helper()

	store, cleanup := NewTestDB(t)

	if err := SeedSampleData(context.Background(), store.DB()); err != nil {
		cleanup()
		t.Fatalf("failed to seed test database: %v", err)
	}

	return store, cleanup
}
