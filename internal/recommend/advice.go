package recommend

import (
	"fmt"
	"strings"

	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
)

const (
	maxAdvice      = 6
	maxWeeklyGoals = 5
)

var goalAdvice = map[string][]string{
	profile.GoalWeightLoss: {
		"Choose meals with high protein and fiber to help with satiety",
		"Pay attention to portion sizes and meal timing",
	},
	profile.GoalMuscleGain: {
		"Aim for protein at every meal, especially post-workout",
		"Don't forget carbohydrates for energy and recovery",
	},
	profile.GoalHeartHealth: {
		"Limit sodium intake and choose meals rich in potassium",
		"Focus on meals with healthy fats and plenty of vegetables",
	},
}

// GenerateGeneralAdvice collects advice for the person's age, activity level,
// high priority gaps, recent meal quality and health goals, keeping the first six.
// The meal quality block is skipped when there are no recent scores.
func GenerateGeneralAdvice(p profile.UserProfile, gaps []nutrient.Gap, recentScores []int) []string {
	advice := []string{}

	switch {
	case p.Age < 25:
		advice = append(advice,
			"Focus on building healthy eating habits that will benefit you long-term",
			"Ensure adequate calcium intake for peak bone mass development")
	case p.Age > 50:
		advice = append(advice,
			"Pay special attention to calcium and vitamin D for bone health",
			"Consider foods rich in antioxidants to support healthy aging")
	}

	switch p.ActivityLevel {
	case profile.ActivityActive, profile.ActivityVeryActive:
		advice = append(advice,
			"Increase protein intake to support muscle recovery and growth",
			"Stay well-hydrated, especially around workout times")
	case profile.ActivitySedentary:
		advice = append(advice,
			"Focus on nutrient-dense, lower-calorie foods to maintain healthy weight",
			"Consider incorporating more physical activity into your routine")
	}

	for _, g := range gaps {
		if g.Priority != nutrient.PriorityHigh {
			continue
		}
		sources := g.FoodSources[:min(3, len(g.FoodSources))]
		advice = append(advice, fmt.Sprintf("Prioritize foods rich in %s: %s", g.Nutrient, strings.Join(sources, ", ")))
	}

	if len(recentScores) > 0 {
		sum := 0
		for _, s := range recentScores {
			sum += s
		}
		avg := float64(sum) / float64(len(recentScores))
		switch {
		case avg < 70:
			advice = append(advice,
				"Try to choose more nutritionally balanced meals from the available options",
				"Look for meals with higher fiber content and lower sodium")
		case avg > 85:
			advice = append(advice,
				"Great job maintaining excellent nutritional choices!",
				"Continue focusing on variety to ensure all micronutrient needs are met")
		}
	}

	for _, goal := range p.NormalizedGoals() {
		advice = append(advice, goalAdvice[goal]...)
	}

	return advice[:min(maxAdvice, len(advice))]
}

// GenerateWeeklyGoals returns up to five goals for the coming week. Of the
// two largest gaps, those with high priority get a dedicated goal.
func GenerateWeeklyGoals(p profile.UserProfile, gaps []nutrient.Gap) []string {
	goals := []string{}

	for _, g := range gaps[:min(2, len(gaps))] {
		if g.Priority != nutrient.PriorityHigh || len(g.FoodSources) == 0 {
			continue
		}
		goals = append(goals, fmt.Sprintf("Increase %s intake by choosing meals with %s",
			g.Nutrient, strings.ToLower(g.FoodSources[0])))
	}

	goals = append(goals,
		"Try at least 3 new nutritious meals from the hostel menu",
		"Aim for meals with suitability scores above 80")

	if p.HasGoal(profile.GoalWeightLoss) {
		goals = append(goals, "Choose high-protein, high-fiber meals for better satiety")
	}
	if p.HasGoal(profile.GoalMuscleGain) {
		goals = append(goals, "Include a protein-rich meal or snack after physical activity")
	}

	goals = append(goals, "Maintain consistent meal timing throughout the week")
	return goals[:min(maxWeeklyGoals, len(goals))]
}
