package adequacy

import (
	"github.com/phrazzld/vitals/internal/domain"
)

// Params defines the status thresholds and recommendation text used by the
// analyzer. Thresholds are percentages of the target amount.
type Params struct {
	// Status boundaries
	DeficientBelow float64
	LowBelow       float64
	AdequateUpTo   float64

	// ExcessiveRatio is used in place of UpperLimit/Target when a nutrient
	// has no upper limit.
	ExcessiveRatio float64

	// Generic recommendation per status. A missing entry means none.
	Templates map[domain.NutrientStatus]string

	// Rules are checked in order before Templates; the first match wins.
	Rules []Rule
}

// Rule is a nutrient- and profile-specific recommendation override.
type Rule struct {
	NutrientID string
	Statuses   []domain.NutrientStatus
	// Applies reports whether the rule fits the profile. Nil matches all.
	Applies func(p domain.Profile, age int) bool
	Message string
}

func (r Rule) matches(nutrientID string, status domain.NutrientStatus, p domain.Profile, age int) bool {
	if r.NutrientID != nutrientID {
		return false
	}
	hit := false
	for _, s := range r.Statuses {
		if s == status {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	return r.Applies == nil || r.Applies(p, age)
}

var (
	belowTarget = []domain.NutrientStatus{domain.StatusDeficient, domain.StatusLow}
	aboveTarget = []domain.NutrientStatus{domain.StatusHigh, domain.StatusExcessive}
)

func female(p domain.Profile) bool { return p.Sex == domain.SexFemale }

func hasCondition(c domain.HealthCondition) func(domain.Profile, int) bool {
	return func(p domain.Profile, _ int) bool { return p.HasCondition(c) }
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		DeficientBelow: 50,
		LowBelow:       75,
		AdequateUpTo:   150,
		ExcessiveRatio: 200,

		Templates: map[domain.NutrientStatus]string{
			domain.StatusDeficient: "Well below recommended levels. Increase food sources or consider a supplement.",
			domain.StatusLow:       "Slightly below recommended levels. Try to include more food sources.",
			domain.StatusHigh:      "Intake is above recommended levels. Consider moderating supplements.",
			domain.StatusExcessive: "Intake is at or above the safe upper limit. Reduce supplementation and consult a healthcare provider.",
		},

		Rules: []Rule{
			// Health conditions
			{
				NutrientID: "iron",
				Statuses:   belowTarget,
				Applies:    hasCondition(domain.ConditionAnemia),
				Message:    "Low iron intake with anemia. Discuss iron supplementation with your healthcare provider.",
			},
			{
				NutrientID: "calcium",
				Statuses:   belowTarget,
				Applies:    hasCondition(domain.ConditionOsteoporosis),
				Message:    "Calcium supports bone density with osteoporosis. Consider dairy, fortified foods or a supplement.",
			},
			{
				NutrientID: "vitamin_d",
				Statuses:   belowTarget,
				Applies:    hasCondition(domain.ConditionOsteoporosis),
				Message:    "Vitamin D is needed to absorb calcium with osteoporosis. Consider a supplement.",
			},
			{
				NutrientID: "potassium",
				Statuses:   belowTarget,
				Applies:    hasCondition(domain.ConditionHypertension),
				Message:    "Potassium helps manage blood pressure. Include fruits, vegetables and legumes.",
			},

			// Demographics
			{
				NutrientID: "iron",
				Statuses:   aboveTarget,
				Applies:    func(p domain.Profile, _ int) bool { return p.Sex == domain.SexMale },
				Message:    "High iron intake may be unnecessary for males and could cause oxidative stress. Consider reducing iron-rich supplements.",
			},
			{
				NutrientID: "iron",
				Statuses:   belowTarget,
				Applies:    func(p domain.Profile, age int) bool { return female(p) && age < 51 },
				Message:    "Pre-menopausal women have higher iron needs. Consider iron-rich foods like red meat, spinach, or fortified cereals.",
			},
			{
				NutrientID: "calcium",
				Statuses:   belowTarget,
				Applies:    func(p domain.Profile, age int) bool { return female(p) && age >= 51 },
				Message:    "Post-menopausal women need extra calcium (1200mg) for bone health. Consider dairy products or calcium supplements.",
			},
			{
				NutrientID: "folate",
				Statuses:   belowTarget,
				Applies:    func(p domain.Profile, age int) bool { return female(p) && age >= 19 && age <= 45 },
				Message:    "Women of childbearing age need adequate folate. Consider leafy greens or a folic acid supplement.",
			},
			{
				NutrientID: "vitamin_d",
				Statuses:   belowTarget,
				Applies:    func(_ domain.Profile, age int) bool { return age >= 71 },
				Message:    "Older adults need more vitamin D (20mcg / 800 IU). Consider supplements as skin synthesis decreases with age.",
			},
		},
	}
}
