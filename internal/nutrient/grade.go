package nutrient

// Grade is a letter grade for a daily adequacy score.
type Grade struct {
	Grade       string `json:"grade"`
	Description string `json:"description"`
}

var gradeBands = []struct {
	min int
	Grade
}{
	{90, Grade{"A+", "Excellent nutrition"}},
	{80, Grade{"A", "Very good nutrition"}},
	{70, Grade{"B", "Good nutrition"}},
	{60, Grade{"C", "Fair nutrition"}},
	{50, Grade{"D", "Poor nutrition"}},
}

// NutritionGrade maps an adequacy score to a letter grade.
func NutritionGrade(score int) Grade {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.Grade
		}
	}
	return Grade{"F", "Very poor nutrition"}
}
