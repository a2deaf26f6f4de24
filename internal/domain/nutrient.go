package domain

// NutrientUnit is the unit an amount of a nutrient is expressed in.
type NutrientUnit string

// Supported nutrient units.
const (
	UnitMilligram     NutrientUnit = "mg"
	UnitMicrogram     NutrientUnit = "mcg"
	UnitGram          NutrientUnit = "g"
	UnitInternational NutrientUnit = "IU"
)

// NutrientTarget is one reference-table row: the recommended amount of a
// nutrient for a demographic bucket. Immutable once loaded.
type NutrientTarget struct {
	NutrientID   string       `json:"nutrient_id"`
	DisplayName  string       `json:"display_name"`
	BucketKey    string       `json:"bucket"`
	TargetAmount float64      `json:"target_amount"`
	Unit         NutrientUnit `json:"unit"`
	UpperLimit   *float64     `json:"upper_limit,omitempty"`
}

// NutrientIntake is one measured intake of a nutrient, for example a
// supplement dose or the nutrient content of a meal.
type NutrientIntake struct {
	NutrientID string       `json:"nutrient_id" validate:"required"`
	Amount     float64      `json:"amount" validate:"gte=0"`
	Unit       NutrientUnit `json:"unit" validate:"required"`
}

// NutrientStatus categorizes intake against the target.
type NutrientStatus string

// Nutrient statuses, from lowest to highest intake.
const (
	StatusDeficient NutrientStatus = "deficient"
	StatusLow       NutrientStatus = "low"
	StatusAdequate  NutrientStatus = "adequate"
	StatusHigh      NutrientStatus = "high"
	StatusExcessive NutrientStatus = "excessive"
)

// NutrientAnalysis is the derived adequacy figure for one nutrient.
// It is recomputed on every call and never persisted.
type NutrientAnalysis struct {
	NutrientID         string         `json:"nutrient_id"`
	DisplayName        string         `json:"display_name"`
	Intake             float64        `json:"intake"`
	TargetAmount       float64        `json:"target_amount"`
	Unit               NutrientUnit   `json:"unit"`
	UpperLimit         *float64       `json:"upper_limit,omitempty"`
	PercentageOfTarget float64        `json:"percentage_of_target"`
	Status             NutrientStatus `json:"status"`
	Recommendation     string         `json:"recommendation,omitempty"`
}
