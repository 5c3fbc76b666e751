// Package scoring rates how suitable a single meal is for a person.
package scoring

import (
	"math"

	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/profile"
)

// Grade is the letter grade of a meal score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// HealthImpact is a coarse label for a meal score.
type HealthImpact string

const (
	ImpactExcellent HealthImpact = "excellent"
	ImpactGood      HealthImpact = "good"
	ImpactFair      HealthImpact = "fair"
	ImpactPoor      HealthImpact = "poor"
)

// Factors are the six sub-scores, each in [0, 100].
type Factors struct {
	NutritionalBalance           float64 `json:"nutritionalBalance"`
	PortionAppropriate           float64 `json:"portionAppropriate"`
	MicronutrientDensity         float64 `json:"micronutrientDensity"`
	HealthGoalAlignment          float64 `json:"healthGoalAlignment"`
	DietaryRestrictionCompliance float64 `json:"dietaryRestrictionCompliance"`
	MealTimingAppropriate        float64 `json:"mealTimingAppropriate"`
}

func (f Factors) weighted() float64 {
	return f.NutritionalBalance*weightBalance +
		f.PortionAppropriate*weightPortion +
		f.MicronutrientDensity*weightMicro +
		f.HealthGoalAlignment*weightGoals +
		f.DietaryRestrictionCompliance*weightRestriction +
		f.MealTimingAppropriate*weightTiming
}

// MealScore is the suitability assessment of one meal.
type MealScore struct {
	OverallScore   int          `json:"overallScore"`
	Grade          Grade        `json:"grade"`
	Factors        Factors      `json:"factors"`
	Strengths      []string     `json:"strengths"`
	Improvements   []string     `json:"improvements"`
	HealthImpact   HealthImpact `json:"healthImpact"`
	Recommendation string       `json:"recommendation"`
}

// CalculateMealScore scores a meal. A nil profile means no health goals and
// no dietary restrictions. Tags are matched case-insensitively.
func CalculateMealScore(m meal.Record, p *profile.UserProfile) MealScore {
	var goals, restrictions []string
	if p != nil {
		goals = p.NormalizedGoals()
		restrictions = p.NormalizedRestrictions()
	}

	f := Factors{
		NutritionalBalance:           macroBalance(m),
		PortionAppropriate:           portionScore(m),
		MicronutrientDensity:         micronutrientDensity(m),
		HealthGoalAlignment:          goalAlignment(m, goals),
		DietaryRestrictionCompliance: restrictionCompliance(m, restrictions),
		MealTimingAppropriate:        mealTimingScore,
	}

	overall := int(clamp(math.Round(f.weighted()), 0, 100))
	strengths, improvements := assess(m, f)

	return MealScore{
		OverallScore:   overall,
		Grade:          GradeFor(overall),
		Factors:        f,
		Strengths:      strengths,
		Improvements:   improvements,
		HealthImpact:   ImpactFor(overall),
		Recommendation: RecommendationFor(overall),
	}
}

func assess(m meal.Record, f Factors) (strengths, improvements []string) {
	strengths, improvements = []string{}, []string{}

	if f.NutritionalBalance >= 80 {
		strengths = append(strengths, "Well-balanced macronutrients")
	} else {
		improvements = append(improvements, "Improve macronutrient balance")
	}
	if f.MicronutrientDensity >= 70 {
		strengths = append(strengths, "Rich in essential vitamins and minerals")
	} else {
		improvements = append(improvements, "Increase micronutrient density")
	}
	if f.PortionAppropriate >= 80 {
		strengths = append(strengths, "Appropriate portion size")
	} else {
		improvements = append(improvements, "Adjust portion size")
	}

	if m.Fibre >= 5 {
		strengths = append(strengths, "High fiber content")
	}
	if m.Protein >= 15 {
		strengths = append(strengths, "Good protein content")
	}
	if m.Sodium < 400 {
		strengths = append(strengths, "Low sodium content")
	}

	if m.Sodium > 600 {
		improvements = append(improvements, "Reduce sodium content")
	}
	if m.HasFreeSugar() && m.Sugar() > 15 {
		improvements = append(improvements, "Reduce added sugar")
	}
	return strengths, improvements
}

// GradeFor maps an overall score to its letter grade.
func GradeFor(score int) Grade {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade
		}
	}
	return GradeF
}

// ImpactFor maps an overall score to its health impact label.
func ImpactFor(score int) HealthImpact {
	for _, b := range impactBands {
		if score >= b.min {
			return b.impact
		}
	}
	return ImpactPoor
}

// RecommendationFor returns the advice sentence for an overall score.
func RecommendationFor(score int) string {
	for _, b := range recommendationBands {
		if score >= b.min {
			return b.text
		}
	}
	return fallbackRecommendation
}
