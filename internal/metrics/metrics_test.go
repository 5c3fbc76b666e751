package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nutrition-advisor/internal/database"
	"nutrition-advisor/internal/shared"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := NewStore(db.SQL)
	store.now = func() time.Time { return now }

	runs := []Run{
		{Operation: "estimate", Model: "gemini", PromptTokens: 100, CompletionTokens: 20, Items: 1, LatencyMS: 300, Timestamp: now.Add(-time.Hour)},
		{Operation: "recommend", Items: 12, LatencyMS: 5, Timestamp: now.Add(-2 * time.Hour)},
		{Operation: "analyze", Items: 4, LatencyMS: 2, Timestamp: now.AddDate(0, 0, -1)},
		{Operation: "analyze", Items: 3, LatencyMS: 2, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, r := range runs {
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := store.RecordMeta(ctx, shared.RunMeta{Operation: "score", Items: 1, Latency: time.Millisecond}); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	t.Run("GetDailyUsage", func(t *testing.T) {
		usage, err := store.GetDailyUsage(ctx, 7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if len(usage) < 2 {
			t.Fatalf("Expected at least 2 days, got %+v", usage)
		}
		var today *DailyUsage
		for i := range usage {
			if usage[i].Date == "2026-10-19" {
				today = &usage[i]
			}
		}
		if today == nil {
			t.Fatalf("Expected usage for 2026-10-19, got %+v", usage)
		}
		if today.TotalPrompt != 100 || today.TotalCompletion != 20 {
			t.Errorf("Expected 100/20 tokens today, got %d/%d", today.TotalPrompt, today.TotalCompletion)
		}
		if today.TotalItems != 14 {
			t.Errorf("Expected 14 items today, got %d", today.TotalItems)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		n, err := store.Cleanup(ctx, 30)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 deleted run, got %d", n)
		}
	})
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles")
	if err := os.MkdirAll(profiles, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "advisor.db"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(profiles, "api_1.json"), make([]byte, 1024), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	h := GetSysHealth(
		DataStore{Name: "database", Path: filepath.Join(dir, "advisor.db")},
		DataStore{Name: "profiles", Path: profiles},
		DataStore{Name: "cache", Path: filepath.Join(dir, "missing")},
	)
	if h.DataDiskSize != "3.0 KB" {
		t.Errorf("Expected 3.0 KB in total, got %s", h.DataDiskSize)
	}
	if len(h.Stores) != 3 {
		t.Fatalf("Expected 3 stores, got %d", len(h.Stores))
	}
	if h.Stores[0].Size != "2.0 KB" || h.Stores[1].Bytes != 1024 || h.Stores[2].Bytes != 0 {
		t.Errorf("Unexpected store sizes %+v", h.Stores)
	}
	if h.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", h.Goroutines)
	}
	if h.Uptime == "" {
		t.Error("Expected an uptime")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d): expected %s, got %s", in, want, got)
		}
	}
}
