package services

import (
	"path/filepath"
	"testing"

	"fintrack/internal/storage"
)

// newTestRepo opens an isolated store in a per-test temp directory so each
// case starts from an empty schema.
func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}
