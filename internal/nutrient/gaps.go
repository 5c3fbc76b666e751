package nutrient

import (
	"cmp"
	"slices"

	"nutrition-advisor/internal/profile"
)

// Priority ranks how urgently a gap should be addressed.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Bonus is the recommendation score bonus for a meal that addresses a gap
// of this priority.
func (p Priority) Bonus() int {
	switch p {
	case PriorityHigh:
		return 15
	case PriorityMedium:
		return 10
	default:
		return 5
	}
}

const (
	significantDeficit = 20
	highDeficit        = 50
	mediumDeficit      = 30
)

// Gap is a significant shortfall of a nutrient against the requirement.
type Gap struct {
	Nutrient          Name     `json:"nutrient"`
	CurrentIntake     float64  `json:"currentIntake"`
	RecommendedIntake float64  `json:"recommendedIntake"`
	DeficitPercentage float64  `json:"deficitPercentage"`
	FoodSources       []string `json:"foodSources"`
	Priority          Priority `json:"priority"`
}

// Descriptor returns the descriptor of the gap's nutrient.
func (g Gap) Descriptor() (Descriptor, bool) {
	return Lookup(g.Nutrient)
}

// AnalyzeGaps reports the gap-analyzed nutrients whose deficit exceeds 20%
// of the profile's requirement, largest deficit first. Ties keep the
// descriptor order.
func AnalyzeGaps(recent Intake, p profile.UserProfile) []Gap {
	req := CalculateRequirements(p)
	gaps := []Gap{}

	for _, d := range Descriptors {
		if !d.GapAnalyzed() {
			continue
		}
		required := d.Required(req)
		current := d.Consumed(recent)
		deficit := deficitPercentage(current, required)
		if deficit <= significantDeficit {
			continue
		}
		gaps = append(gaps, Gap{
			Nutrient:          d.Name,
			CurrentIntake:     current,
			RecommendedIntake: required,
			DeficitPercentage: deficit,
			FoodSources:       slices.Clone(d.FoodSources),
			Priority:          priorityFor(deficit),
		})
	}

	slices.SortStableFunc(gaps, func(a, b Gap) int {
		return cmp.Compare(b.DeficitPercentage, a.DeficitPercentage)
	})
	return gaps
}

func deficitPercentage(current, required float64) float64 {
	if required == 0 {
		return 0
	}
	return max(0, (required-current)/required*100)
}

func priorityFor(deficit float64) Priority {
	switch {
	case deficit > highDeficit:
		return PriorityHigh
	case deficit > mediumDeficit:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
