package meal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type is the normalized (lowercase) meal slot of a record.
type Type string

const (
	Breakfast Type = "breakfast"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
	Snack     Type = "snack"
)

// ErrInvalidMealType is returned by ParseType for unknown meal slots.
var ErrInvalidMealType = errors.New("invalid meal type")

// ParseType normalizes a meal type case-insensitively.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Breakfast, Lunch, Dinner, Snack:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMealType, s)
}

// Record is one dish with its nutrient content, as served or as eaten.
// Records are value objects: the analysis packages read them and never modify them.
type Record struct {
	ID       string `json:"id,omitempty"`
	Day      string `json:"day,omitempty"`
	DishName string `json:"dish_name"`
	MealType string `json:"meal_type"`

	Calories      float64  `json:"calories"`      // kcal
	Carbohydrates float64  `json:"carbohydrates"` // g
	Protein       float64  `json:"protein"`       // g
	Fats          float64  `json:"fats"`          // g
	Fibre         float64  `json:"fibre"`         // g
	FreeSugar     *float64 `json:"free_sugar,omitempty"`
	Sodium        float64  `json:"sodium"`    // mg
	Calcium       float64  `json:"calcium"`   // mg
	Iron          float64  `json:"iron"`      // mg
	VitaminC      float64  `json:"vitamin_c"` // mg
	Folate        float64  `json:"folate"`    // µg

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Type returns the lowercased meal type without validating it.
func (r Record) Type() Type {
	return Type(strings.ToLower(strings.TrimSpace(r.MealType)))
}

// IsType reports whether the record belongs to the given slot, ignoring case.
func (r Record) IsType(t Type) bool {
	return r.Type() == t
}

// Sugar returns the free sugar content, 0 when absent.
func (r Record) Sugar() float64 {
	if r.FreeSugar == nil {
		return 0
	}
	return *r.FreeSugar
}

// HasFreeSugar reports whether a non-zero free sugar value was recorded.
// Sugar rules only fire for recorded, non-zero values.
func (r Record) HasFreeSugar() bool {
	return r.FreeSugar != nil && *r.FreeSugar != 0
}

// Validate rejects records with negative nutrient values.
// Unknown meal types are accepted; the scorer falls back to a default portion range for them.
func (r Record) Validate() error {
	values := map[string]float64{
		"calories":      r.Calories,
		"carbohydrates": r.Carbohydrates,
		"protein":       r.Protein,
		"fats":          r.Fats,
		"fibre":         r.Fibre,
		"free_sugar":    r.Sugar(),
		"sodium":        r.Sodium,
		"calcium":       r.Calcium,
		"iron":          r.Iron,
		"vitamin_c":     r.VitaminC,
		"folate":        r.Folate,
	}
	var negative []string
	for _, name := range nutrientColumns {
		if values[name] < 0 {
			negative = append(negative, name)
		}
	}
	if len(negative) > 0 {
		return fmt.Errorf("meal %q has negative values for %s", r.DishName, strings.Join(negative, ", "))
	}
	return nil
}

// Float returns a pointer to v, for optional fields such as FreeSugar.
func Float(v float64) *float64 {
	return &v
}

// nutrientColumns is the column order used by CSV files, HTML menus and the database.
var nutrientColumns = []string{
	"calories", "carbohydrates", "protein", "fats", "free_sugar",
	"fibre", "sodium", "calcium", "iron", "vitamin_c", "folate",
}
