package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nutrition-advisor/internal/database"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/recommend"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db.SQL)
	clock := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	p := profile.UserProfile{Age: 22, Gender: profile.GenderMale, Weight: 70, Height: 175, ActivityLevel: profile.ActivityModerate}
	set := recommend.Generate(meal.SampleRecords(), p, nutrient.Intake{}, nil)

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, "alice", set); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	if err := repo.Save(ctx, "bob", recommend.RecommendationSet{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := repo.ListRecent(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Errorf("Expected newest first, got %v then %v", entries[0].CreatedAt, entries[1].CreatedAt)
	}
	got := entries[0].Set
	if len(got.MealRecommendations) != len(set.MealRecommendations) || got.DailyMealPlan == nil {
		t.Errorf("Expected the stored set to round-trip, got %+v", got)
	}
	if got.NutritionalGaps[0].Nutrient != set.NutritionalGaps[0].Nutrient {
		t.Errorf("Expected gaps to round-trip, got %+v", got.NutritionalGaps)
	}

	none, err := repo.ListRecent(ctx, "carol", 5)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no entries for an unknown user, got %d", len(none))
	}
}
