package reference

import (
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/vitals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucket(sex domain.Sex, band domain.AgeBand) domain.DemographicBucket {
	return domain.DemographicBucket{AgeBand: band, Sex: sex, LifeStage: domain.LifeStageStandard}
}

func pregnancy(tr domain.Trimester) domain.DemographicBucket {
	return domain.DemographicBucket{Sex: domain.SexFemale, LifeStage: domain.LifeStagePregnancy, Trimester: tr}
}

func TestLoadDefault(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	require.NoError(t, err)

	assert.Len(t, table.Nutrients(), 24)

	adult := table.TargetsFor(bucket(domain.SexFemale, domain.AgeBandAdult19to30))
	assert.Len(t, adult, 24, "every nutrient has an adult row")
	for i := 1; i < len(adult); i++ {
		assert.Less(t, adult[i-1].NutrientID, adult[i].NutrientID, "rows are ordered by nutrient ID")
	}

	toddler := table.TargetsFor(bucket(domain.SexMale, domain.AgeBandChild1to3))
	assert.Len(t, toddler, 8)
}

func TestTableTarget(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		name       string
		bucket     domain.DemographicBucket
		nutrient   string
		wantAmount float64
		wantUL     *float64
		wantUnit   domain.NutrientUnit
	}{
		{"vitamin C adult female", bucket(domain.SexFemale, domain.AgeBandAdult19to30), "vitamin_c", 75, ptr(2000), domain.UnitMilligram},
		{"vitamin C adult male", bucket(domain.SexMale, domain.AgeBandAdult31to50), "vitamin_c", 90, ptr(2000), domain.UnitMilligram},
		{"vitamin C teen female", bucket(domain.SexFemale, domain.AgeBandYouth14to18), "vitamin_c", 65, ptr(1800), domain.UnitMilligram},
		{"iron premenopausal", bucket(domain.SexFemale, domain.AgeBandAdult31to50), "iron", 18, ptr(45), domain.UnitMilligram},
		{"iron postmenopausal", bucket(domain.SexFemale, domain.AgeBandAdult51to70), "iron", 8, ptr(45), domain.UnitMilligram},
		{"iron pregnancy inherits adult limit", pregnancy(domain.TrimesterSecond), "iron", 27, ptr(45), domain.UnitMilligram},
		{"magnesium first trimester", pregnancy(domain.TrimesterFirst), "magnesium", 350, ptr(350), domain.UnitMilligram},
		{"magnesium third trimester", pregnancy(domain.TrimesterThird), "magnesium", 360, ptr(350), domain.UnitMilligram},
		{"vitamin D older adult", bucket(domain.SexMale, domain.AgeBandAdult71Plus), "vitamin_d", 20, ptr(100), domain.UnitMicrogram},
		{"calcium older female", bucket(domain.SexFemale, domain.AgeBandAdult51to70), "calcium", 1200, ptr(2000), domain.UnitMilligram},
		{"calcium older male", bucket(domain.SexMale, domain.AgeBandAdult51to70), "calcium", 1000, ptr(2000), domain.UnitMilligram},
		{"vitamin K has no limit", bucket(domain.SexFemale, domain.AgeBandAdult19to30), "vitamin_k", 90, nil, domain.UnitMicrogram},
		{"phosphorus pregnancy limit", pregnancy(domain.TrimesterFirst), "phosphorus", 700, ptr(3500), domain.UnitMilligram},
		{"folate lactation", domain.DemographicBucket{Sex: domain.SexFemale, LifeStage: domain.LifeStageLactation}, "folate", 500, ptr(1000), domain.UnitMicrogram},
		{"infant vitamin C has no limit", bucket(domain.SexFemale, domain.AgeBandInfant0to6), "vitamin_c", 40, nil, domain.UnitMilligram},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			row, err := table.Target(tc.bucket, tc.nutrient)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAmount, row.TargetAmount)
			assert.Equal(t, tc.wantUnit, row.Unit)
			assert.Equal(t, tc.bucket.Key(), row.BucketKey)
			if tc.wantUL == nil {
				assert.Nil(t, row.UpperLimit)
			} else {
				require.NotNil(t, row.UpperLimit)
				assert.Equal(t, *tc.wantUL, *row.UpperLimit)
			}
		})
	}
}

func TestTableTargetMissing(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	require.NoError(t, err)

	_, err = table.Target(bucket(domain.SexMale, domain.AgeBandChild1to3), "choline")
	assert.ErrorIs(t, err, domain.ErrMissingReferenceData)

	_, err = table.Target(bucket(domain.SexMale, domain.AgeBandAdult19to30), "unobtainium")
	assert.ErrorIs(t, err, domain.ErrMissingReferenceData)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unsupported version",
			doc:     "version: 2\nnutrients: []\n",
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "unknown bucket key",
			doc: `version: 1
nutrients:
  - id: iron
    unit: mg
    targets:
      female/20-29: 18
`,
			wantErr: ErrInvalidTable,
		},
		{
			name: "duplicate nutrient",
			doc: `version: 1
nutrients:
  - id: iron
    unit: mg
    targets: {adult: 8}
  - id: iron
    unit: mg
    targets: {adult: 8}
`,
			wantErr: ErrInvalidTable,
		},
		{
			name: "IU as canonical unit",
			doc: `version: 1
nutrients:
  - id: vitamin_d
    unit: IU
    targets: {adult: 600}
`,
			wantErr: ErrInvalidTable,
		},
		{
			name: "non-positive target",
			doc: `version: 1
nutrients:
  - id: iron
    unit: mg
    targets: {adult: 0}
`,
			wantErr: ErrInvalidTable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("version: 1\nnutrients:\n  - id: iron\n    units: mg\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode reference tables")
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("/nonexistent/nutrients.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open reference tables")
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	table, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		name     string
		nutrient string
		amount   float64
		unit     domain.NutrientUnit
		want     float64
		wantErr  error
	}{
		{"same unit", "vitamin_c", 30, domain.UnitMilligram, 30, nil},
		{"grams to milligrams", "vitamin_c", 0.5, domain.UnitGram, 500, nil},
		{"micrograms to milligrams", "iron", 8000, domain.UnitMicrogram, 8, nil},
		{"alternate spelling", "vitamin_b12", 2.4, "µg", 2.4, nil},
		{"vitamin D IU", "vitamin_d", 600, domain.UnitInternational, 15, nil},
		{"vitamin A IU", "vitamin_a", 1000, "iu", 300, nil},
		{"vitamin E IU", "vitamin_e", 100, domain.UnitInternational, 67, nil},
		{"IU without factor", "vitamin_c", 10, domain.UnitInternational, 0, domain.ErrUnitConversion},
		{"unknown unit", "vitamin_c", 1, "cups", 0, domain.ErrUnitConversion},
		{"unknown nutrient", "unobtainium", 1, domain.UnitMilligram, 0, domain.ErrMissingReferenceData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := table.Normalize(tc.nutrient, tc.amount, tc.unit)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				if errors.Is(tc.wantErr, domain.ErrUnitConversion) {
					var convErr *domain.UnitConversionError
					require.ErrorAs(t, err, &convErr)
					assert.Equal(t, tc.nutrient, convErr.NutrientID)
				}
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseUnit(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.NutrientUnit{
		"MG":         domain.UnitMilligram,
		" mcg ":      domain.UnitMicrogram,
		"ug":         domain.UnitMicrogram,
		"g":          domain.UnitGram,
		"IU":         domain.UnitInternational,
		"micrograms": domain.UnitMicrogram,
	} {
		got, ok := ParseUnit(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseUnit("tbsp")
	assert.False(t, ok)
}

func ptr(v float64) *float64 { return &v }
