package reference

import (
	"fmt"
	"strings"

	"github.com/phrazzld/vitals/internal/domain"
)

// micrograms per unit of mass
var massFactors = map[domain.NutrientUnit]float64{
	domain.UnitGram:      1e6,
	domain.UnitMilligram: 1e3,
	domain.UnitMicrogram: 1,
}

// ParseUnit normalizes a unit spelling ("MG", "µg", "ug", "iu") to a
// NutrientUnit. It reports false for anything unrecognized.
func ParseUnit(s string) (domain.NutrientUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gram", "grams":
		return domain.UnitGram, true
	case "mg", "milligram", "milligrams":
		return domain.UnitMilligram, true
	case "mcg", "µg", "μg", "ug", "microgram", "micrograms":
		return domain.UnitMicrogram, true
	case "iu":
		return domain.UnitInternational, true
	default:
		return "", false
	}
}

// Normalize converts amount, given in unit, to the canonical unit of the
// nutrient. Mass units convert by scale; IU converts through the nutrient's
// IU factor. Any other combination returns a *domain.UnitConversionError.
// An unknown nutrient returns an error wrapping domain.ErrMissingReferenceData.
func (t *Table) Normalize(nutrientID string, amount float64, unit domain.NutrientUnit) (float64, error) {
	n, ok := t.byID[nutrientID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingReferenceData, nutrientID)
	}

	from, ok := ParseUnit(string(unit))
	if !ok {
		return 0, &domain.UnitConversionError{NutrientID: nutrientID, From: unit, To: n.Unit}
	}

	if from == n.Unit {
		return amount, nil
	}

	if from == domain.UnitInternational {
		if n.IUFactor == 0 {
			return 0, &domain.UnitConversionError{NutrientID: nutrientID, From: from, To: n.Unit}
		}
		return amount * n.IUFactor, nil
	}

	src, srcOK := massFactors[from]
	dst, dstOK := massFactors[n.Unit]
	if !srcOK || !dstOK {
		return 0, &domain.UnitConversionError{NutrientID: nutrientID, From: from, To: n.Unit}
	}

	return amount * src / dst, nil
}
