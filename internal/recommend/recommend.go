// Package recommend ranks catalog meals for a person and assembles daily
// plans, advice and weekly goals around the detected nutrient gaps.
package recommend

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/scoring"
)

const (
	// DefaultLimit is used when a non-positive limit is passed to GenerateMealRecommendations.
	DefaultLimit = 5
	// OverallLimit caps the ranked list returned by Generate.
	OverallLimit = 8

	gapContributionThreshold = 15
)

// MealRecommendation is a catalog meal with its personalised score.
type MealRecommendation struct {
	Meal                  meal.Record `json:"meal"`
	Score                 int         `json:"score"`
	Reason                string      `json:"reason"`
	Benefits              []string    `json:"benefits"`
	NutritionalHighlights []string    `json:"nutritionalHighlights"`
	SuitabilityForGoals   int         `json:"suitabilityForGoals"`
}

// AlternativeMeal pairs a poorly scoring meal with better options.
type AlternativeMeal struct {
	Original     meal.Record          `json:"original"`
	Alternatives []MealRecommendation `json:"alternatives"`
}

// RecommendationSet is the full recommendation payload for one person.
type RecommendationSet struct {
	MealRecommendations []MealRecommendation `json:"mealRecommendations"`
	DailyMealPlan       *DailyMealPlan       `json:"dailyMealPlan"`
	NutritionalGaps     []nutrient.Gap       `json:"nutritionalGaps"`
	GeneralAdvice       []string             `json:"generalAdvice"`
	WeeklyGoals         []string             `json:"weeklyGoals"`
	// AlternativeMeals is reserved and always empty.
	AlternativeMeals []AlternativeMeal `json:"alternativeMeals"`
}

// goalBonus rewards meals that fit a health goal.
type goalBonus struct {
	goal    string
	points  int
	benefit string
	fits    func(meal.Record) bool
}

var goalBonuses = []goalBonus{
	{
		goal:    profile.GoalWeightLoss,
		points:  10,
		benefit: "Supports weight management goals",
		fits:    func(m meal.Record) bool { return m.Calories < 400 && m.Protein > 15 },
	},
	{
		goal:    profile.GoalMuscleGain,
		points:  15,
		benefit: "High protein for muscle building",
		fits:    func(m meal.Record) bool { return m.Protein > 20 },
	},
	{
		goal:    profile.GoalHeartHealth,
		points:  10,
		benefit: "Heart-healthy nutrition profile",
		fits:    func(m meal.Record) bool { return m.Sodium < 400 && m.Fibre > 5 },
	},
}

var highlights = []struct {
	text  string
	match func(meal.Record) bool
}{
	{"High protein content", func(m meal.Record) bool { return m.Protein > 20 }},
	{"Excellent fiber source", func(m meal.Record) bool { return m.Fibre > 8 }},
	{"Rich in calcium", func(m meal.Record) bool { return m.Calcium > 300 }},
	{"Good iron source", func(m meal.Record) bool { return m.Iron > 3 }},
	{"High vitamin C", func(m meal.Record) bool { return m.VitaminC > 30 }},
}

// GenerateMealRecommendations scores each candidate for the profile, adds
// bonuses for meals that address gaps or fit health goals, and returns the
// best limit meals. An empty mealType keeps every candidate; otherwise it is
// matched case-insensitively. Equal scores keep catalog order.
func GenerateMealRecommendations(candidates []meal.Record, p profile.UserProfile, gaps []nutrient.Gap, mealType string, limit int) []MealRecommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	goals := p.NormalizedGoals()
	recs := []MealRecommendation{}

	for _, m := range candidates {
		if mealType != "" && !strings.EqualFold(strings.TrimSpace(m.MealType), strings.TrimSpace(mealType)) {
			continue
		}
		recs = append(recs, recommendMeal(m, &p, goals, gaps))
	}

	slices.SortStableFunc(recs, func(a, b MealRecommendation) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func recommendMeal(m meal.Record, p *profile.UserProfile, goals []string, gaps []nutrient.Gap) MealRecommendation {
	base := scoring.CalculateMealScore(m, p)
	benefits := []string{}
	highlighted := []string{}

	gapBonus := 0
	for _, g := range gaps {
		contribution := gapContribution(m, g)
		if contribution <= gapContributionThreshold {
			continue
		}
		gapBonus += g.Priority.Bonus()
		benefits = append(benefits, fmt.Sprintf("Helps address %s deficiency", g.Nutrient))
		highlighted = append(highlighted, fmt.Sprintf("%d%% of daily %s needs", roundInt(contribution), g.Nutrient))
	}

	goalPoints := 0
	for _, goal := range goals {
		for _, b := range goalBonuses {
			if b.goal == goal && b.fits(m) {
				goalPoints += b.points
				benefits = append(benefits, b.benefit)
			}
		}
	}

	for _, h := range highlights {
		if h.match(m) {
			highlighted = append(highlighted, h.text)
		}
	}

	score := min(100, base.OverallScore+gapBonus+goalPoints)
	reason := fmt.Sprintf("Score: %d/100", score)
	if gapBonus > 0 {
		reason += " (addresses nutritional gaps)"
	}
	if goalPoints > 0 {
		reason += " (aligns with health goals)"
	}

	return MealRecommendation{
		Meal:                  m,
		Score:                 score,
		Reason:                reason,
		Benefits:              benefits,
		NutritionalHighlights: highlighted,
		SuitabilityForGoals:   goalPoints,
	}
}

// gapContribution is the share of the gap's recommended intake, in percent,
// that one serving of m provides.
func gapContribution(m meal.Record, g nutrient.Gap) float64 {
	d, ok := g.Descriptor()
	if !ok || g.RecommendedIntake == 0 {
		return 0
	}
	return d.FromMeal(m) / g.RecommendedIntake * 100
}

// Generate produces the complete recommendation set from a meal catalog,
// the profile, the intake over the recent window and recent meal scores.
func Generate(catalog []meal.Record, p profile.UserProfile, recent nutrient.Intake, recentScores []int) RecommendationSet {
	gaps := nutrient.AnalyzeGaps(recent, p)

	return RecommendationSet{
		MealRecommendations: GenerateMealRecommendations(catalog, p, gaps, "", OverallLimit),
		DailyMealPlan:       GenerateDailyMealPlan(catalog, p, gaps),
		NutritionalGaps:     gaps,
		GeneralAdvice:       GenerateGeneralAdvice(p, gaps, recentScores),
		WeeklyGoals:         GenerateWeeklyGoals(p, gaps),
		AlternativeMeals:    []AlternativeMeal{},
	}
}
