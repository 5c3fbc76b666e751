package scoring

import "nutrition-advisor/internal/meal"

// Calorie windows a meal of each type should fall in.
type portionRange struct {
	min, max float64
}

func (r portionRange) mid() float64 {
	return (r.min + r.max) / 2
}

var portionRanges = map[meal.Type]portionRange{
	meal.Breakfast: {300, 500},
	meal.Lunch:     {400, 700},
	meal.Dinner:    {400, 600},
	meal.Snack:     {100, 250},
}

var defaultPortion = portionRange{300, 600}

// macroBand is an acceptable percentage-of-calories window. Outside the
// outer window costs 20 points, outside the inner window 10.
type macroBand struct {
	outerMin, outerMax float64
	innerMin, innerMax float64
}

func (b macroBand) penalty(pct float64) float64 {
	switch {
	case pct < b.outerMin || pct > b.outerMax:
		return 20
	case pct < b.innerMin || pct > b.innerMax:
		return 10
	default:
		return 0
	}
}

var (
	proteinBand      = macroBand{10, 35, 15, 25}
	carbohydrateBand = macroBand{35, 75, 45, 65}
	fatBand          = macroBand{15, 45, 20, 35}
)

// densityTier awards points once a per-100-kcal density reaches at.
type densityTier struct {
	at     float64
	points float64
}

type densityRule struct {
	value func(meal.Record) float64
	tiers []densityTier // descending by at
}

func (r densityRule) points(m meal.Record) float64 {
	density := r.value(m) / m.Calories * 100
	for _, t := range r.tiers {
		if density >= t.at {
			return t.points
		}
	}
	return 0
}

var densityRules = []densityRule{
	{func(m meal.Record) float64 { return m.Fibre }, []densityTier{{3, 20}, {2, 15}, {1, 10}}},
	{func(m meal.Record) float64 { return m.VitaminC }, []densityTier{{10, 15}, {5, 10}, {2, 5}}},
	{func(m meal.Record) float64 { return m.Iron }, []densityTier{{1, 15}, {0.5, 10}, {0.2, 5}}},
	{func(m meal.Record) float64 { return m.Calcium }, []densityTier{{50, 15}, {25, 10}, {10, 5}}},
	{func(m meal.Record) float64 { return m.Folate }, []densityTier{{20, 15}, {10, 10}, {5, 5}}},
}

// Weights of each factor in the overall score. They sum to 1.
const (
	weightBalance     = 0.25
	weightPortion     = 0.20
	weightMicro       = 0.25
	weightGoals       = 0.15
	weightRestriction = 0.10
	weightTiming      = 0.05
)

const (
	neutralGoalScore = 75
	baseGoalScore    = 50
	mealTimingScore  = 85
)

var gradeBands = []struct {
	min   int
	grade Grade
}{
	{95, GradeAPlus},
	{90, GradeA},
	{85, GradeBPlus},
	{80, GradeB},
	{75, GradeCPlus},
	{70, GradeC},
	{60, GradeD},
}

var impactBands = []struct {
	min    int
	impact HealthImpact
}{
	{85, ImpactExcellent},
	{75, ImpactGood},
	{65, ImpactFair},
}

var recommendationBands = []struct {
	min  int
	text string
}{
	{90, "Excellent choice! This meal provides optimal nutrition for your health goals."},
	{80, "Good meal choice with room for minor improvements in nutritional balance."},
	{70, "Decent meal but consider adding more nutrients or adjusting portions."},
}

const fallbackRecommendation = "Consider choosing a more nutritionally balanced alternative or modifying this meal."
