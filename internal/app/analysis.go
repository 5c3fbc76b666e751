package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/recommend"
	"nutrition-advisor/internal/scoring"
)

// Window is the period of eaten meals an analysis looks at.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultWindow covers the last LookbackDays days up to now.
func (a *App) DefaultWindow() Window {
	end := a.now()
	return Window{Start: end.AddDate(0, 0, -a.cfg.LookbackDays), End: end}
}

// resolve fills zero bounds from the default window.
func (a *App) resolve(w Window) Window {
	def := a.DefaultWindow()
	if w.Start.IsZero() {
		w.Start = def.Start
	}
	if w.End.IsZero() {
		w.End = def.End
	}
	return w
}

// NutritionReport is the result of analysing a window of meals against a profile.
type NutritionReport struct {
	Analysis  nutrient.Analysis `json:"analysis"`
	Grade     nutrient.Grade    `json:"grade"`
	MealCount int               `json:"mealCount"`
	Window    Window            `json:"dateRange"`
}

// RecommendationReport wraps a recommendation set with the counts it was built from.
type RecommendationReport struct {
	Set            recommend.RecommendationSet `json:"recommendations"`
	AnalysisDate   time.Time                   `json:"analysisDate"`
	MealsAnalyzed  int                         `json:"mealsAnalyzed"`
	AvailableMeals int                         `json:"availableMeals"`
}

// AnalyzeNutrition compares the meals eaten in w with the profile's daily requirements.
func (a *App) AnalyzeNutrition(ctx context.Context, p profile.UserProfile, w Window) (NutritionReport, error) {
	start := time.Now()
	w = a.resolve(w)

	meals, err := a.meals.ListBetween(ctx, w.Start, w.End)
	if err != nil {
		logger.Error("Failed to fetch meal data", zap.Error(err))
		return NutritionReport{}, fmt.Errorf("failed to fetch meal data: %w", err)
	}

	analysis := nutrient.AnalyzeIntake(nutrient.CalculateIntake(meals), nutrient.CalculateRequirements(p))
	a.recordRun(ctx, "analyze", len(meals), start)

	logger.Info("Analyzed nutrition",
		zap.Int("meals", len(meals)),
		zap.Int("score", analysis.OverallScore),
		zap.Int("deficiencies", len(analysis.Deficiencies)))

	return NutritionReport{
		Analysis:  analysis,
		Grade:     nutrient.NutritionGrade(analysis.OverallScore),
		MealCount: len(meals),
		Window:    w,
	}, nil
}

// NutritionGaps returns the prioritised gaps for the meals eaten in w.
func (a *App) NutritionGaps(ctx context.Context, p profile.UserProfile, w Window) ([]nutrient.Gap, error) {
	start := time.Now()
	w = a.resolve(w)

	meals, err := a.meals.ListBetween(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent meals: %w", err)
	}
	gaps := nutrient.AnalyzeGaps(nutrient.CalculateIntake(meals), p)
	a.recordRun(ctx, "gaps", len(meals), start)
	return gaps, nil
}

// ScoreMeal scores a single meal. A nil profile scores without goals or restrictions.
func (a *App) ScoreMeal(ctx context.Context, p *profile.UserProfile, m meal.Record) scoring.MealScore {
	start := time.Now()
	score := scoring.CalculateMealScore(m, p)
	a.recordRun(ctx, "score", 1, start)
	return score
}

// ScoreDish looks a dish up in the catalog by name and scores it.
func (a *App) ScoreDish(ctx context.Context, p *profile.UserProfile, dishName string) (meal.Record, scoring.MealScore, error) {
	rec, err := a.meals.FindByDishName(ctx, strings.TrimSpace(dishName))
	if err != nil {
		return meal.Record{}, scoring.MealScore{}, fmt.Errorf("failed to look up dish: %w", err)
	}
	if rec == nil {
		return meal.Record{}, scoring.MealScore{}, fmt.Errorf("%w: %s", ErrMealNotFound, dishName)
	}
	return *rec, a.ScoreMeal(ctx, p, *rec), nil
}

// Recommend builds recommendations from the catalog for the intake observed in w.
// When userID is set the result is stored in the user's history.
func (a *App) Recommend(ctx context.Context, userID string, p profile.UserProfile, w Window, recentScores []int) (RecommendationReport, error) {
	start := time.Now()
	w = a.resolve(w)

	catalog, err := a.meals.Catalog(ctx, a.cfg.CatalogLimit)
	if err != nil {
		logger.Error("Failed to fetch meal data", zap.Error(err))
		return RecommendationReport{}, fmt.Errorf("failed to fetch meal data: %w", err)
	}

	recent, err := a.meals.ListBetween(ctx, w.Start, w.End)
	if err != nil {
		logger.Error("Failed to fetch recent meals", zap.Error(err))
		return RecommendationReport{}, fmt.Errorf("failed to fetch recent meals: %w", err)
	}

	set := recommend.Generate(catalog, p, nutrient.CalculateIntake(recent), recentScores)
	a.recordRun(ctx, "recommend", len(catalog), start)

	if userID != "" {
		if err := a.history.Save(ctx, userID, set); err != nil {
			logger.Warn("Failed to save recommendations to history", zap.String("user", userID), zap.Error(err))
		}
	}

	logger.Info("Generated recommendations",
		zap.String("user", userID),
		zap.Int("catalog", len(catalog)),
		zap.Int("recent", len(recent)),
		zap.Int("gaps", len(set.NutritionalGaps)))

	return RecommendationReport{
		Set:            set,
		AnalysisDate:   a.now(),
		MealsAnalyzed:  len(recent),
		AvailableMeals: len(catalog),
	}, nil
}

// ListMeals returns catalog records matching the filter.
func (a *App) ListMeals(ctx context.Context, f meal.Filter) ([]meal.Record, error) {
	meals, err := a.meals.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nutrition data: %w", err)
	}
	return meals, nil
}
