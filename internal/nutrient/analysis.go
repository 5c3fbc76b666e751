package nutrient

const (
	deficientBelow = 80
	excessAbove    = 150
)

// Analysis compares an intake against the matching requirements.
type Analysis struct {
	Requirements    Requirements `json:"requirements"`
	Intake          Intake       `json:"intake"`
	Percentages     []Percentage `json:"percentages"`
	Deficiencies    []Name       `json:"deficiencies"`
	Excesses        []Name       `json:"excesses"`
	Recommendations []string     `json:"recommendations"`
	OverallScore    int          `json:"overallScore"`
}

// Percentage is the share of a requirement met by the intake.
type Percentage struct {
	Nutrient Name `json:"nutrient"`
	Value    int  `json:"value"`
}

// Percentage returns the computed percentage for n, or 0 if n is unknown.
func (a Analysis) Percentage(n Name) int {
	for _, p := range a.Percentages {
		if p.Nutrient == n {
			return p.Value
		}
	}
	return 0
}

// IsDeficient reports whether n was flagged as deficient.
func (a Analysis) IsDeficient(n Name) bool {
	return contains(a.Deficiencies, n)
}

// IsExcessive reports whether n was flagged as excessive.
func (a Analysis) IsExcessive(n Name) bool {
	return contains(a.Excesses, n)
}

type advice struct {
	nutrient Name
	text     string
}

var deficiencyAdvice = []advice{
	{Protein, "Include more protein-rich foods like legumes, dairy, or lean meats"},
	{Fiber, "Add more fruits, vegetables, and whole grains to increase fiber intake"},
	{Calcium, "Include more dairy products, leafy greens, or fortified foods for calcium"},
	{Iron, "Include iron-rich foods like spinach, lentils, or fortified cereals"},
	{VitaminC, "Add citrus fruits, berries, or bell peppers for vitamin C"},
}

var excessAdvice = []advice{
	{Sodium, "Reduce sodium intake by limiting processed foods and adding less salt"},
	{Calories, "Consider portion control or increasing physical activity"},
}

// AnalyzeIntake computes per-nutrient percentages of the requirements, flags
// deficiencies and excesses, and produces advice and an adequacy score.
func AnalyzeIntake(intake Intake, req Requirements) Analysis {
	a := Analysis{
		Requirements:    req,
		Intake:          intake,
		Percentages:     make([]Percentage, 0, len(Descriptors)),
		Deficiencies:    []Name{},
		Excesses:        []Name{},
		Recommendations: []string{},
	}

	adequate := 0
	for _, d := range Descriptors {
		pct := percentOf(d.Consumed(intake), d.Required(req))
		a.Percentages = append(a.Percentages, Percentage{Nutrient: d.Name, Value: pct})

		if pct < deficientBelow {
			a.Deficiencies = append(a.Deficiencies, d.Name)
		}
		if pct > excessAbove && !d.ExcessExempt {
			a.Excesses = append(a.Excesses, d.Name)
		}
		if pct >= deficientBelow && pct <= excessAbove {
			adequate++
		}
	}

	for _, adv := range deficiencyAdvice {
		if a.IsDeficient(adv.nutrient) {
			a.Recommendations = append(a.Recommendations, adv.text)
		}
	}
	for _, adv := range excessAdvice {
		if a.IsExcessive(adv.nutrient) {
			a.Recommendations = append(a.Recommendations, adv.text)
		}
	}

	a.OverallScore = round(float64(adequate) / float64(len(Descriptors)) * 100)
	return a
}

// percentOf returns round(value/required*100); a zero requirement gives 0.
func percentOf(value, required float64) int {
	if required == 0 {
		return 0
	}
	return round(value / required * 100)
}

func contains(names []Name, n Name) bool {
	for _, x := range names {
		if x == n {
			return true
		}
	}
	return false
}
