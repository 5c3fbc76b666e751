package nutrient

import (
	"math"

	"nutrition-advisor/internal/profile"
)

// ActivityMultipliers scale BMR to total daily energy expenditure.
var ActivityMultipliers = map[profile.ActivityLevel]float64{
	profile.ActivitySedentary:  1.2,
	profile.ActivityLight:      1.375,
	profile.ActivityModerate:   1.55,
	profile.ActivityActive:     1.725,
	profile.ActivityVeryActive: 1.9,
}

const (
	proteinPerKg       = 1.0
	carbohydrateShare  = 0.5
	fatShare           = 0.3
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
	sodiumLimitMg      = 2300
	folateTargetMicrog = 400
	olderAdultAge      = 50
	elderlyAge         = 70
	defaultCalciumMg   = 1000
	olderFemaleCalcium = 1200
	elderlyCalciumMg   = 1200
	olderAdultIronMg   = 8
)

// ageTargets is a target split at olderAdultAge: [age <= 50, age > 50].
type ageTargets [2]float64

func (t ageTargets) at(age int) float64 {
	if age > olderAdultAge {
		return t[1]
	}
	return t[0]
}

// Male and female reference tables. Gender "other" reads the female tables.
var (
	fiberTargets = map[profile.Gender]ageTargets{
		profile.GenderMale:   {38, 30},
		profile.GenderFemale: {25, 21},
	}
	ironTargets = map[profile.Gender]float64{
		profile.GenderMale:   8,
		profile.GenderFemale: 18,
	}
	vitaminCTargets = map[profile.Gender]float64{
		profile.GenderMale:   90,
		profile.GenderFemale: 75,
	}
)

// referenceGender maps a gender onto the male/female reference tables.
func referenceGender(g profile.Gender) profile.Gender {
	if g == profile.GenderMale {
		return profile.GenderMale
	}
	return profile.GenderFemale
}

// CalculateBMR estimates basal metabolic rate with the Mifflin-St Jeor equation.
// Gender "other" uses the female constant.
func CalculateBMR(p profile.UserProfile) float64 {
	base := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == profile.GenderMale {
		return base + 5
	}
	return base - 161
}

// CalculateTDEE returns BMR scaled by the activity multiplier, rounded to whole kcal.
// An unknown activity level yields 0; profiles are validated before they get here.
func CalculateTDEE(p profile.UserProfile) int {
	return int(math.Round(CalculateBMR(p) * ActivityMultipliers[p.ActivityLevel]))
}

// CalculateRequirements derives the ten daily targets for a profile.
func CalculateRequirements(p profile.UserProfile) Requirements {
	calories := float64(CalculateTDEE(p))
	ref := referenceGender(p.Gender)

	calcium := float64(defaultCalciumMg)
	if p.Age > olderAdultAge && p.Gender == profile.GenderFemale {
		calcium = olderFemaleCalcium
	}
	if p.Age > elderlyAge {
		calcium = elderlyCalciumMg
	}

	iron := ironTargets[ref]
	if p.Age > olderAdultAge {
		iron = olderAdultIronMg
	}

	return Requirements{
		Calories:      calories,
		Protein:       float64(round(p.Weight * proteinPerKg)),
		Carbohydrates: float64(round(calories * carbohydrateShare / kcalPerGramCarb)),
		Fats:          float64(round(calories * fatShare / kcalPerGramFat)),
		Fiber:         fiberTargets[ref].at(p.Age),
		Sodium:        sodiumLimitMg,
		Calcium:       calcium,
		Iron:          iron,
		VitaminC:      vitaminCTargets[ref],
		Folate:        folateTargetMicrog,
	}
}
