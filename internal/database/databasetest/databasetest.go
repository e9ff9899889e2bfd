// Package databasetest opens throwaway databases for store tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bloops-games/boardgames/internal/database"
)

// NewDB opens a bbolt file in a temporary directory closed at test cleanup.
func NewDB(t testing.TB) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewFromEnv(ctx, &database.Config{FilePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(ctx); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	return db
}
