package adequacy

import (
	"math"
	"sort"

	"github.com/phrazzld/vitals/internal/domain"
)

// percentageOfTarget returns intake as a percentage of target, never
// negative. A non-positive target yields 0.
func percentageOfTarget(intake, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := intake / target * 100
	if pct < 0 || math.IsNaN(pct) {
		return 0
	}
	return pct
}

// excessiveAt returns the percentage at which intake becomes excessive:
// the upper limit as a percentage of target, or the default ratio.
func excessiveAt(target float64, upperLimit *float64, params *Params) float64 {
	if upperLimit == nil || target <= 0 {
		return params.ExcessiveRatio
	}
	return *upperLimit / target * 100
}

// classify buckets a percentage into a status. Boundaries are checked in
// ascending order, so an upper limit below the adequate band only affects
// intakes above it.
func classify(pct, excessive float64, params *Params) domain.NutrientStatus {
	switch {
	case pct < params.DeficientBelow:
		return domain.StatusDeficient
	case pct < params.LowBelow:
		return domain.StatusLow
	case pct <= params.AdequateUpTo:
		return domain.StatusAdequate
	case pct < excessive:
		return domain.StatusHigh
	default:
		return domain.StatusExcessive
	}
}

// recommend picks the first matching rule, then the status template.
func recommend(
	nutrientID string,
	status domain.NutrientStatus,
	p domain.Profile,
	age int,
	params *Params,
) string {
	if status == domain.StatusAdequate {
		return ""
	}
	for _, r := range params.Rules {
		if r.matches(nutrientID, status, p, age) {
			return r.Message
		}
	}
	return params.Templates[status]
}

// analyzeTarget computes the analysis of one nutrient given its summed,
// normalized intake.
func analyzeTarget(
	target domain.NutrientTarget,
	intake float64,
	p domain.Profile,
	age int,
	params *Params,
) domain.NutrientAnalysis {
	pct := percentageOfTarget(intake, target.TargetAmount)
	status := classify(pct, excessiveAt(target.TargetAmount, target.UpperLimit, params), params)

	// copy so callers cannot write through to the reference table
	var ul *float64
	if target.UpperLimit != nil {
		v := *target.UpperLimit
		ul = &v
	}

	return domain.NutrientAnalysis{
		NutrientID:         target.NutrientID,
		DisplayName:        target.DisplayName,
		Intake:             intake,
		TargetAmount:       target.TargetAmount,
		Unit:               target.Unit,
		UpperLimit:         ul,
		PercentageOfTarget: pct,
		Status:             status,
		Recommendation:     recommend(target.NutrientID, status, p, age, params),
	}
}

// sortAnalyses orders by ascending percentage, then nutrient ID.
func sortAnalyses(analyses []domain.NutrientAnalysis) {
	sort.SliceStable(analyses, func(i, j int) bool {
		a, b := analyses[i], analyses[j]
		if a.PercentageOfTarget != b.PercentageOfTarget {
			return a.PercentageOfTarget < b.PercentageOfTarget
		}
		return a.NutrientID < b.NutrientID
	})
}
