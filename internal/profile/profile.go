package profile

import "strings"

// Gender of the person the requirements are computed for.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel is the self-reported daily activity of a person.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Health goal tags understood by the scorer and the recommendation engine.
const (
	GoalWeightLoss         = "weight_loss"
	GoalMuscleGain         = "muscle_gain"
	GoalHeartHealth        = "heart_health"
	GoalDiabetesManagement = "diabetes_management"
	GoalBoneHealth         = "bone_health"
)

// Dietary restriction tags understood by the scorer.
const (
	RestrictionLowSodium   = "low_sodium"
	RestrictionLowSugar    = "low_sugar"
	RestrictionHighProtein = "high_protein"
	RestrictionLowFat      = "low_fat"
)

// UserProfile holds the biometric data and preferences of a person.
// It is created by the caller and never modified by the analysis packages.
type UserProfile struct {
	Age                 int           `json:"age" yaml:"age"`
	Gender              Gender        `json:"gender" yaml:"gender"`
	Weight              float64       `json:"weight" yaml:"weight"` // kg
	Height              float64       `json:"height" yaml:"height"` // cm
	ActivityLevel       ActivityLevel `json:"activityLevel" yaml:"activityLevel"`
	HealthGoals         []string      `json:"healthGoals,omitempty" yaml:"healthGoals,omitempty"`
	DietaryRestrictions []string      `json:"dietaryRestrictions,omitempty" yaml:"dietaryRestrictions,omitempty"`
}

// HasGoal reports whether the profile lists the given goal tag exactly.
func (p UserProfile) HasGoal(goal string) bool {
	for _, g := range p.HealthGoals {
		if g == goal {
			return true
		}
	}
	return false
}

// NormalizedGoals returns the health goals lowercased, in their original order.
func (p UserProfile) NormalizedGoals() []string {
	return lowerAll(p.HealthGoals)
}

// NormalizedRestrictions returns the dietary restrictions lowercased, in their original order.
func (p UserProfile) NormalizedRestrictions() []string {
	return lowerAll(p.DietaryRestrictions)
}

func lowerAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.ToLower(t))
	}
	return out
}
