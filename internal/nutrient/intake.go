package nutrient

import "nutrition-advisor/internal/meal"

// CalculateIntake sums the tracked nutrients over a set of meals.
// Absent optional values count as 0 and an empty slice yields zero intake.
func CalculateIntake(meals []meal.Record) Intake {
	var total Amounts
	for _, m := range meals {
		for _, d := range Descriptors {
			d.add(&total, d.FromMeal(m))
		}
	}
	return Intake(total)
}
