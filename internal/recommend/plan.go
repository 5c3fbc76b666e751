package recommend

import (
	"fmt"
	"math"
	"strings"

	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
)

// Per-slot candidate limits when building a plan.
var slotLimits = map[meal.Type]int{
	meal.Breakfast: 3,
	meal.Lunch:     3,
	meal.Dinner:    3,
	meal.Snack:     2,
}

// missingSnackScore is added to the three-slot sum when no snack was chosen.
// The divisor stays 3 in that case.
const missingSnackScore = 80

// DailyMealPlan picks one meal per slot and summarises the combined nutrition.
type DailyMealPlan struct {
	Breakfast       MealRecommendation  `json:"breakfast"`
	Lunch           MealRecommendation  `json:"lunch"`
	Dinner          MealRecommendation  `json:"dinner"`
	Snack           *MealRecommendation `json:"snack,omitempty"`
	TotalNutrition  nutrient.Intake     `json:"totalNutrition"`
	PlanScore       int                 `json:"planScore"`
	BalanceAnalysis string              `json:"balanceAnalysis"`
}

// Meals returns the chosen meals in slot order.
func (d DailyMealPlan) Meals() []meal.Record {
	meals := []meal.Record{d.Breakfast.Meal, d.Lunch.Meal, d.Dinner.Meal}
	if d.Snack != nil {
		meals = append(meals, d.Snack.Meal)
	}
	return meals
}

// GenerateDailyMealPlan returns nil unless the candidates cover breakfast,
// lunch and dinner. The snack slot is filled only when snack candidates exist.
func GenerateDailyMealPlan(candidates []meal.Record, p profile.UserProfile, gaps []nutrient.Gap) *DailyMealPlan {
	best := func(t meal.Type) *MealRecommendation {
		var slot []meal.Record
		for _, m := range candidates {
			if m.IsType(t) {
				slot = append(slot, m)
			}
		}
		if len(slot) == 0 {
			return nil
		}
		recs := GenerateMealRecommendations(slot, p, gaps, string(t), slotLimits[t])
		if len(recs) == 0 {
			return nil
		}
		return &recs[0]
	}

	breakfast, lunch, dinner := best(meal.Breakfast), best(meal.Lunch), best(meal.Dinner)
	if breakfast == nil || lunch == nil || dinner == nil {
		return nil
	}

	plan := &DailyMealPlan{
		Breakfast: *breakfast,
		Lunch:     *lunch,
		Dinner:    *dinner,
		Snack:     best(meal.Snack),
	}
	plan.TotalNutrition = nutrient.CalculateIntake(plan.Meals())

	analysis := nutrient.AnalyzeIntake(plan.TotalNutrition, nutrient.CalculateRequirements(p))
	plan.PlanScore = planScore(plan)
	plan.BalanceAnalysis = balanceAnalysis(analysis)
	return plan
}

func planScore(plan *DailyMealPlan) int {
	sum := plan.Breakfast.Score + plan.Lunch.Score + plan.Dinner.Score
	if plan.Snack == nil {
		return roundInt(float64(sum+missingSnackScore) / 3)
	}
	return roundInt(float64(sum+plan.Snack.Score) / 4)
}

func balanceAnalysis(a nutrient.Analysis) string {
	text := fmt.Sprintf("This meal plan provides %d%% nutritional adequacy. ", a.OverallScore)
	if len(a.Deficiencies) == 0 {
		return text + "Well-balanced nutrition across all major nutrients."
	}
	top := a.Deficiencies[:min(2, len(a.Deficiencies))]
	names := make([]string, len(top))
	for i, n := range top {
		names[i] = string(n)
	}
	return text + fmt.Sprintf("Consider adding foods rich in %s.", strings.Join(names, " and "))
}

func roundInt(x float64) int {
	return int(math.Round(x))
}
