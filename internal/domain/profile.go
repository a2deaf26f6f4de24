package domain

import (
	"fmt"
	"time"
)

// Sex is the biological sex used to select reference targets.
type Sex string

// Supported sexes.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Trimester identifies a pregnancy trimester. The zero value means "not set".
type Trimester int

// Pregnancy trimesters.
const (
	TrimesterNone   Trimester = 0
	TrimesterFirst  Trimester = 1
	TrimesterSecond Trimester = 2
	TrimesterThird  Trimester = 3
)

// HealthCondition is a tag describing a known health condition.
type HealthCondition string

// Known health conditions.
const (
	ConditionDiabetes     HealthCondition = "diabetes"
	ConditionHypertension HealthCondition = "hypertension"
	ConditionHeartDisease HealthCondition = "heart_disease"
	ConditionOsteoporosis HealthCondition = "osteoporosis"
	ConditionAnemia       HealthCondition = "anemia"
	ConditionThyroid      HealthCondition = "thyroid_disorder"
)

// Profile describes the person whose intake is being analyzed.
// It is supplied fresh on every analysis call and never mutated.
type Profile struct {
	BirthDate        time.Time         `json:"birth_date"`
	Sex              Sex               `json:"sex"`
	Pregnant         bool              `json:"pregnant"`
	Trimester        Trimester         `json:"trimester,omitempty"`
	Breastfeeding    bool              `json:"breastfeeding"`
	HealthConditions []HealthCondition `json:"health_conditions,omitempty"`
}

// Age returns the age in whole years at now.
func (p Profile) Age(now time.Time) int {
	return p.AgeInMonths(now) / 12
}

// AgeInMonths returns the age in whole months at now. It is negative when the
// birth date lies after now.
func (p Profile) AgeInMonths(now time.Time) int {
	b := p.BirthDate.In(now.Location())
	months := (now.Year()-b.Year())*12 + int(now.Month()) - int(b.Month())
	if now.Day() < b.Day() {
		months--
	}
	return months
}

// HasCondition reports whether the profile carries the given condition.
func (p Profile) HasCondition(c HealthCondition) bool {
	for _, hc := range p.HealthConditions {
		if hc == c {
			return true
		}
	}
	return false
}

// Validate checks the life-stage flags for contradictions.
// All failures wrap ErrInvalidProfile.
func (p Profile) Validate() error {
	switch p.Sex {
	case SexMale, SexFemale:
	default:
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidProfile, p.Sex)
	}

	if p.Trimester < TrimesterNone || p.Trimester > TrimesterThird {
		return fmt.Errorf("%w: trimester %d out of range", ErrInvalidProfile, p.Trimester)
	}

	if p.Pregnant && p.Trimester == TrimesterNone {
		return fmt.Errorf("%w: pregnant without trimester", ErrInvalidProfile)
	}

	if !p.Pregnant && p.Trimester != TrimesterNone {
		return fmt.Errorf("%w: trimester set without pregnancy", ErrInvalidProfile)
	}

	if p.Sex == SexMale && (p.Pregnant || p.Breastfeeding) {
		return fmt.Errorf("%w: life-stage flags set for male profile", ErrInvalidProfile)
	}

	return nil
}

// AgeBand is one of the fixed age ranges used by the reference tables.
type AgeBand string

// Reference-table age bands.
const (
	AgeBandInfant0to6  AgeBand = "0-6mo"
	AgeBandInfant7to12 AgeBand = "7-12mo"
	AgeBandChild1to3   AgeBand = "1-3"
	AgeBandChild4to8   AgeBand = "4-8"
	AgeBandYouth9to13  AgeBand = "9-13"
	AgeBandYouth14to18 AgeBand = "14-18"
	AgeBandAdult19to30 AgeBand = "19-30"
	AgeBandAdult31to50 AgeBand = "31-50"
	AgeBandAdult51to70 AgeBand = "51-70"
	AgeBandAdult71Plus AgeBand = "71+"
)

// AgeBands lists every band in ascending order.
var AgeBands = []AgeBand{
	AgeBandInfant0to6,
	AgeBandInfant7to12,
	AgeBandChild1to3,
	AgeBandChild4to8,
	AgeBandYouth9to13,
	AgeBandYouth14to18,
	AgeBandAdult19to30,
	AgeBandAdult31to50,
	AgeBandAdult51to70,
	AgeBandAdult71Plus,
}

// LifeStage selects between the standard, pregnancy and lactation sub-tables.
type LifeStage string

// Life stages.
const (
	LifeStageStandard  LifeStage = "standard"
	LifeStagePregnancy LifeStage = "pregnancy"
	LifeStageLactation LifeStage = "lactation"
)

// DemographicBucket is the resolved key used to select reference targets.
// For the pregnancy and lactation stages only Trimester (pregnancy) is
// significant; AgeBand and Sex are kept for recommendations.
type DemographicBucket struct {
	AgeBand   AgeBand   `json:"age_band"`
	Sex       Sex       `json:"sex"`
	LifeStage LifeStage `json:"life_stage"`
	Trimester Trimester `json:"trimester,omitempty"`
}

// Key returns a stable string form of the bucket, e.g. "female/19-30",
// "pregnancy/2" or "lactation".
func (b DemographicBucket) Key() string {
	switch b.LifeStage {
	case LifeStagePregnancy:
		return fmt.Sprintf("pregnancy/%d", b.Trimester)
	case LifeStageLactation:
		return "lactation"
	default:
		return fmt.Sprintf("%s/%s", b.Sex, b.AgeBand)
	}
}
