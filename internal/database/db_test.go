package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "advisor.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"nutrition_data", "recommendation_history", "engine_runs"} {
		var name string
		err := db.SQL.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table '%s' to exist, got error: %v", table, err)
		}
	}

	t.Run("SchemaVersion", func(t *testing.T) {
		version, err := db.SchemaVersion(ctx)
		if err != nil {
			t.Fatalf("SchemaVersion failed: %v", err)
		}
		if version != 3 {
			t.Errorf("Expected schema version 3, got %d", version)
		}
	})

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		version, err := Migrate(dbPath)
		if err != nil {
			t.Fatalf("Expected second migration run to succeed, got %v", err)
		}
		if version != 3 {
			t.Errorf("Expected schema version 3, got %d", version)
		}
	})

	t.Run("ForeignKeysEnabled", func(t *testing.T) {
		var on int
		if err := db.SQL.QueryRow("PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("PRAGMA failed: %v", err)
		}
		if on != 1 {
			t.Errorf("Expected foreign keys on, got %d", on)
		}
	})
}
