package scoring

import (
	"math"

	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/profile"
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// macroBalance scores the protein, carbohydrate and fat split of the calories.
func macroBalance(m meal.Record) float64 {
	if m.Calories == 0 {
		return 0
	}
	score := 100.0
	score -= proteinBand.penalty(m.Protein * 4 / m.Calories * 100)
	score -= carbohydrateBand.penalty(m.Carbohydrates * 4 / m.Calories * 100)
	score -= fatBand.penalty(m.Fats * 9 / m.Calories * 100)
	return math.Max(0, score)
}

// portionScore rates how close the calories are to the window for the meal type.
func portionScore(m meal.Record) float64 {
	r, ok := portionRanges[m.Type()]
	if !ok {
		r = defaultPortion
	}
	cal := m.Calories

	switch {
	case cal < r.min:
		return math.Max(0, 80-80*(r.min-cal)/r.min)
	case cal > r.max:
		return math.Max(0, 80-60*(cal-r.max)/r.max)
	default:
		mid := r.mid()
		deviation := math.Abs(cal-mid) / (mid * 0.3)
		return math.Max(80, 100-deviation*20)
	}
}

// micronutrientDensity rewards vitamins and minerals per 100 kcal and
// penalises sodium and free sugar.
func micronutrientDensity(m meal.Record) float64 {
	if m.Calories == 0 {
		return 0
	}
	var score float64
	for _, rule := range densityRules {
		score += rule.points(m)
	}

	sodium := m.Sodium / m.Calories * 100
	switch {
	case sodium > 300:
		score -= 20
	case sodium > 200:
		score -= 10
	}

	if m.HasFreeSugar() {
		sugar := m.Sugar() / m.Calories * 100
		switch {
		case sugar > 15:
			score -= 15
		case sugar > 10:
			score -= 10
		}
	}
	return clamp(score, 0, 100)
}

// ratio returns part/calories, and ok=false when calories is zero so that
// ratio conditions never hold for an empty meal.
func ratio(part, calories float64) (float64, bool) {
	if calories == 0 {
		return 0, false
	}
	return part / calories, true
}

// goalAlignment scores the meal against each health goal of the profile.
func goalAlignment(m meal.Record, goals []string) float64 {
	if len(goals) == 0 {
		return neutralGoalScore
	}
	score := float64(baseGoalScore)
	protein, hasRatio := ratio(m.Protein, m.Calories)
	fibre, _ := ratio(m.Fibre, m.Calories)
	fats, _ := ratio(m.Fats, m.Calories)
	carbs, _ := ratio(m.Carbohydrates, m.Calories)

	for _, g := range goals {
		switch g {
		case profile.GoalWeightLoss:
			if hasRatio && protein > 0.15 {
				score += 10
			}
			if hasRatio && fibre > 0.02 {
				score += 10
			}
			if m.Calories < 400 {
				score += 5
			}
		case profile.GoalMuscleGain:
			if hasRatio && protein > 0.2 {
				score += 15
			}
			if m.Protein > 20 {
				score += 10
			}
		case profile.GoalHeartHealth:
			if m.Sodium < 400 {
				score += 10
			}
			if m.Fibre > 5 {
				score += 10
			}
			if hasRatio && fats < 0.3 {
				score += 5
			}
		case profile.GoalDiabetesManagement:
			if m.HasFreeSugar() && m.Sugar() < 10 {
				score += 10
			}
			if m.Fibre > 5 {
				score += 10
			}
			if hasRatio && carbs < 0.6 {
				score += 5
			}
		case profile.GoalBoneHealth:
			if m.Calcium > 200 {
				score += 15
			}
		}
	}
	return clamp(score, 0, 100)
}

// restrictionCompliance deducts points for each restriction the meal breaks.
func restrictionCompliance(m meal.Record, restrictions []string) float64 {
	score := 100.0
	for _, r := range restrictions {
		switch r {
		case profile.RestrictionLowSodium:
			switch {
			case m.Sodium > 600:
				score -= 30
			case m.Sodium > 400:
				score -= 15
			}
		case profile.RestrictionLowSugar:
			if !m.HasFreeSugar() {
				continue
			}
			switch {
			case m.Sugar() > 15:
				score -= 30
			case m.Sugar() > 10:
				score -= 15
			}
		case profile.RestrictionHighProtein:
			if m.Protein < 15 {
				score -= 20
			}
		case profile.RestrictionLowFat:
			fat, _ := ratio(m.Fats*9, m.Calories)
			switch {
			case fat > 0.35:
				score -= 25
			case fat > 0.25:
				score -= 10
			}
		}
	}
	return math.Max(0, score)
}
