// Package nutrient derives daily nutrient requirements from a profile, sums
// intake over meal records and compares the two.
package nutrient

import (
	"math"

	"nutrition-advisor/internal/meal"
)

// Name identifies one of the ten tracked nutrients.
type Name string

const (
	Calories      Name = "calories"
	Protein       Name = "protein"
	Carbohydrates Name = "carbohydrates"
	Fats          Name = "fats"
	Fiber         Name = "fiber"
	Sodium        Name = "sodium"
	Calcium       Name = "calcium"
	Iron          Name = "iron"
	VitaminC      Name = "vitaminC"
	Folate        Name = "folate"
)

// Amounts holds one value per tracked nutrient.
type Amounts struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`       // g
	Carbohydrates float64 `json:"carbohydrates"` // g
	Fats          float64 `json:"fats"`          // g
	Fiber         float64 `json:"fiber"`         // g
	Sodium        float64 `json:"sodium"`        // mg
	Calcium       float64 `json:"calcium"`       // mg
	Iron          float64 `json:"iron"`          // mg
	VitaminC      float64 `json:"vitaminC"`      // mg
	Folate        float64 `json:"folate"`        // µg
}

// Requirements are the daily targets for a person.
type Requirements Amounts

// Intake is the summed consumption over a period.
type Intake Amounts

// Descriptor describes a tracked nutrient: how to read it from requirement and
// intake structures and from a meal record.
type Descriptor struct {
	Name Name
	Unit string
	// ExcessExempt nutrients are never flagged as excessive.
	ExcessExempt bool
	// FoodSources is set for nutrients that take part in gap analysis.
	FoodSources []string

	field    func(*Amounts) *float64
	fromMeal func(meal.Record) float64
}

// Of returns the descriptor's value in a.
func (d Descriptor) Of(a Amounts) float64 {
	return *d.field(&a)
}

// Required returns the descriptor's value in r.
func (d Descriptor) Required(r Requirements) float64 {
	return d.Of(Amounts(r))
}

// Consumed returns the descriptor's value in i.
func (d Descriptor) Consumed(i Intake) float64 {
	return d.Of(Amounts(i))
}

// FromMeal returns the amount of the nutrient contained in a meal record.
func (d Descriptor) FromMeal(r meal.Record) float64 {
	return d.fromMeal(r)
}

// GapAnalyzed reports whether the nutrient takes part in gap analysis.
func (d Descriptor) GapAnalyzed() bool {
	return len(d.FoodSources) > 0
}

func (d Descriptor) add(a *Amounts, v float64) {
	*d.field(a) += v
}

// Descriptors lists every tracked nutrient in the fixed analysis order.
var Descriptors = []Descriptor{
	{
		Name:     Calories,
		Unit:     "kcal",
		field:    func(a *Amounts) *float64 { return &a.Calories },
		fromMeal: func(r meal.Record) float64 { return r.Calories },
	},
	{
		Name:        Protein,
		Unit:        "g",
		FoodSources: []string{"Lentils", "Chickpeas", "Paneer", "Eggs", "Greek Yogurt", "Quinoa"},
		field:       func(a *Amounts) *float64 { return &a.Protein },
		fromMeal:    func(r meal.Record) float64 { return r.Protein },
	},
	{
		Name:     Carbohydrates,
		Unit:     "g",
		field:    func(a *Amounts) *float64 { return &a.Carbohydrates },
		fromMeal: func(r meal.Record) float64 { return r.Carbohydrates },
	},
	{
		Name:     Fats,
		Unit:     "g",
		field:    func(a *Amounts) *float64 { return &a.Fats },
		fromMeal: func(r meal.Record) float64 { return r.Fats },
	},
	{
		Name:         Fiber,
		Unit:         "g",
		ExcessExempt: true,
		FoodSources:  []string{"Whole grains", "Vegetables", "Fruits", "Legumes", "Oats"},
		field:        func(a *Amounts) *float64 { return &a.Fiber },
		fromMeal:     func(r meal.Record) float64 { return r.Fibre },
	},
	{
		Name:     Sodium,
		Unit:     "mg",
		field:    func(a *Amounts) *float64 { return &a.Sodium },
		fromMeal: func(r meal.Record) float64 { return r.Sodium },
	},
	{
		Name:        Calcium,
		Unit:        "mg",
		FoodSources: []string{"Dairy products", "Leafy greens", "Sesame seeds", "Almonds"},
		field:       func(a *Amounts) *float64 { return &a.Calcium },
		fromMeal:    func(r meal.Record) float64 { return r.Calcium },
	},
	{
		Name:        Iron,
		Unit:        "mg",
		FoodSources: []string{"Spinach", "Lentils", "Fortified cereals", "Pumpkin seeds"},
		field:       func(a *Amounts) *float64 { return &a.Iron },
		fromMeal:    func(r meal.Record) float64 { return r.Iron },
	},
	{
		Name:         VitaminC,
		Unit:         "mg",
		ExcessExempt: true,
		FoodSources:  []string{"Citrus fruits", "Bell peppers", "Strawberries", "Broccoli"},
		field:        func(a *Amounts) *float64 { return &a.VitaminC },
		fromMeal:     func(r meal.Record) float64 { return r.VitaminC },
	},
	{
		Name:         Folate,
		Unit:         "µg",
		ExcessExempt: true,
		FoodSources:  []string{"Leafy greens", "Legumes", "Fortified grains", "Asparagus"},
		field:        func(a *Amounts) *float64 { return &a.Folate },
		fromMeal:     func(r meal.Record) float64 { return r.Folate },
	},
}

// Lookup returns the descriptor for a nutrient name.
func Lookup(n Name) (Descriptor, bool) {
	for _, d := range Descriptors {
		if d.Name == n {
			return d, true
		}
	}
	return Descriptor{}, false
}

// round rounds half away from zero; all inputs here are non-negative.
func round(x float64) int {
	return int(math.Round(x))
}
