package profile

import (
	"fmt"
	"strings"
)

// ValidationError lists every field of a profile that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile: %s", strings.Join(e.Fields, "; "))
}

var validGenders = map[Gender]struct{}{
	GenderMale:   {},
	GenderFemale: {},
	GenderOther:  {},
}

var validActivityLevels = map[ActivityLevel]struct{}{
	ActivitySedentary:  {},
	ActivityLight:      {},
	ActivityModerate:   {},
	ActivityActive:     {},
	ActivityVeryActive: {},
}

// Validate checks the profile at the application boundary.
// The nutrient and scoring packages assume a profile that passed this check.
func (p UserProfile) Validate() error {
	var fields []string
	if p.Age <= 0 {
		fields = append(fields, "age must be a positive integer")
	}
	if p.Weight <= 0 {
		fields = append(fields, "weight must be positive")
	}
	if p.Height <= 0 {
		fields = append(fields, "height must be positive")
	}
	if _, ok := validGenders[p.Gender]; !ok {
		fields = append(fields, fmt.Sprintf("unknown gender %q", p.Gender))
	}
	if _, ok := validActivityLevels[p.ActivityLevel]; !ok {
		fields = append(fields, fmt.Sprintf("unknown activity level %q", p.ActivityLevel))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
