// Package reference holds the dietary reference tables: the per-nutrient
// targets and upper limits for every demographic bucket, plus the unit
// metadata used to normalize intakes. Tables are loaded once and are
// read-only afterwards, so a *Table is safe for concurrent use.
package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phrazzld/vitals/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed nutrients.yaml
var defaultTables []byte

// supportedVersion is the only table file format version Load accepts.
const supportedVersion = 1

// Errors returned while loading tables
var (
	ErrUnsupportedVersion = errors.New("unsupported reference table version")
	ErrInvalidTable       = errors.New("invalid reference table")
)

// Nutrient is the static metadata of one nutrient.
type Nutrient struct {
	ID          string
	DisplayName string
	// Unit is the canonical unit targets and limits are expressed in.
	Unit domain.NutrientUnit
	// IUFactor converts one IU into Unit. Zero means IU is not accepted.
	IUFactor float64
}

// Table is the loaded reference data.
type Table struct {
	nutrients []Nutrient
	byID      map[string]Nutrient
	// targets is keyed by bucket key, then nutrient ID.
	targets map[string]map[string]domain.NutrientTarget
}

type tableFile struct {
	Version   int            `yaml:"version"`
	Nutrients []nutrientFile `yaml:"nutrients"`
}

type nutrientFile struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Unit        string             `yaml:"unit"`
	IUFactor    float64            `yaml:"iu_factor"`
	Targets     map[string]float64 `yaml:"targets"`
	UpperLimits map[string]float64 `yaml:"upper_limits"`
}

// LoadDefault returns the tables compiled into the binary.
func LoadDefault() (*Table, error) {
	return Load(bytes.NewReader(defaultTables))
}

// LoadFile reads tables from a YAML file on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference tables: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Load decodes and validates YAML reference tables from r, expanding the
// shorthand row keys into one row per demographic bucket.
func Load(r io.Reader) (*Table, error) {
	var doc tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode reference tables: %w", err)
	}

	if doc.Version != supportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	t := &Table{
		byID:    make(map[string]Nutrient, len(doc.Nutrients)),
		targets: make(map[string]map[string]domain.NutrientTarget),
	}

	buckets := allBuckets()
	valid := validKeys(buckets)

	for _, nf := range doc.Nutrients {
		n, err := nf.nutrient()
		if err != nil {
			return nil, err
		}
		if _, dup := t.byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate nutrient %q", ErrInvalidTable, n.ID)
		}
		if err := checkKeys(n.ID, nf.Targets, nf.UpperLimits, valid); err != nil {
			return nil, err
		}

		t.nutrients = append(t.nutrients, n)
		t.byID[n.ID] = n

		for _, b := range buckets {
			amount, ok := lookup(nf.Targets, targetKeys(b))
			if !ok {
				continue
			}
			row := domain.NutrientTarget{
				NutrientID:   n.ID,
				DisplayName:  n.DisplayName,
				BucketKey:    b.Key(),
				TargetAmount: amount,
				Unit:         n.Unit,
			}
			if ul, ok := lookup(nf.UpperLimits, upperLimitKeys(b)); ok {
				row.UpperLimit = &ul
			}

			rows, ok := t.targets[row.BucketKey]
			if !ok {
				rows = make(map[string]domain.NutrientTarget)
				t.targets[row.BucketKey] = rows
			}
			rows[n.ID] = row
		}
	}

	return t, nil
}

func (nf nutrientFile) nutrient() (Nutrient, error) {
	id := strings.TrimSpace(nf.ID)
	if id == "" {
		return Nutrient{}, fmt.Errorf("%w: nutrient without id", ErrInvalidTable)
	}

	unit, ok := ParseUnit(nf.Unit)
	if !ok || unit == domain.UnitInternational {
		return Nutrient{}, fmt.Errorf("%w: nutrient %q has unsupported unit %q", ErrInvalidTable, id, nf.Unit)
	}

	if nf.IUFactor < 0 {
		return Nutrient{}, fmt.Errorf("%w: nutrient %q has negative iu_factor", ErrInvalidTable, id)
	}

	for key, v := range nf.Targets {
		if v <= 0 {
			return Nutrient{}, fmt.Errorf("%w: nutrient %q target %q must be positive", ErrInvalidTable, id, key)
		}
	}

	name := nf.Name
	if name == "" {
		name = id
	}

	return Nutrient{ID: id, DisplayName: name, Unit: unit, IUFactor: nf.IUFactor}, nil
}

// Nutrient returns the metadata for id.
func (t *Table) Nutrient(id string) (Nutrient, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Nutrients returns every known nutrient in file order.
func (t *Table) Nutrients() []Nutrient {
	out := make([]Nutrient, len(t.nutrients))
	copy(out, t.nutrients)
	return out
}

// TargetsFor returns every target row for the bucket, ordered by nutrient ID.
// Nutrients without a row for the bucket are omitted.
func (t *Table) TargetsFor(b domain.DemographicBucket) []domain.NutrientTarget {
	rows := t.targets[b.Key()]
	out := make([]domain.NutrientTarget, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NutrientID < out[j].NutrientID })
	return out
}

// Target returns the row for one nutrient in one bucket. It returns an error
// wrapping domain.ErrMissingReferenceData when there is none.
func (t *Table) Target(b domain.DemographicBucket, nutrientID string) (domain.NutrientTarget, error) {
	row, ok := t.targets[b.Key()][nutrientID]
	if !ok {
		return domain.NutrientTarget{}, fmt.Errorf("%w: %s for %s", domain.ErrMissingReferenceData, nutrientID, b.Key())
	}
	return row, nil
}

var adultBands = []domain.AgeBand{
	domain.AgeBandAdult19to30,
	domain.AgeBandAdult31to50,
	domain.AgeBandAdult51to70,
	domain.AgeBandAdult71Plus,
}

func isAdult(band domain.AgeBand) bool {
	for _, a := range adultBands {
		if a == band {
			return true
		}
	}
	return false
}

// allBuckets enumerates every bucket a profile can resolve to.
func allBuckets() []domain.DemographicBucket {
	var out []domain.DemographicBucket
	for _, sex := range []domain.Sex{domain.SexMale, domain.SexFemale} {
		for _, band := range domain.AgeBands {
			out = append(out, domain.DemographicBucket{AgeBand: band, Sex: sex, LifeStage: domain.LifeStageStandard})
		}
	}
	for tr := domain.TrimesterFirst; tr <= domain.TrimesterThird; tr++ {
		out = append(out, domain.DemographicBucket{Sex: domain.SexFemale, LifeStage: domain.LifeStagePregnancy, Trimester: tr})
	}
	out = append(out, domain.DemographicBucket{Sex: domain.SexFemale, LifeStage: domain.LifeStageLactation})
	return out
}

// targetKeys lists the row keys that may supply a bucket's target, most
// specific first.
func targetKeys(b domain.DemographicBucket) []string {
	switch b.LifeStage {
	case domain.LifeStagePregnancy:
		return []string{b.Key(), "pregnancy"}
	case domain.LifeStageLactation:
		return []string{"lactation"}
	}

	keys := []string{b.Key(), string(b.AgeBand)}
	if isAdult(b.AgeBand) {
		keys = append(keys, string(b.Sex)+"/adult", "adult")
	}
	return keys
}

// upperLimitKeys is targetKeys plus the adult fallback for pregnancy and
// lactation.
func upperLimitKeys(b domain.DemographicBucket) []string {
	keys := targetKeys(b)
	if b.LifeStage != domain.LifeStageStandard {
		keys = append(keys, "adult")
	}
	return keys
}

func lookup(rows map[string]float64, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := rows[k]; ok {
			return v, true
		}
	}
	return 0, false
}

func validKeys(buckets []domain.DemographicBucket) map[string]struct{} {
	valid := map[string]struct{}{
		"adult":        {},
		"male/adult":   {},
		"female/adult": {},
		"pregnancy":    {},
		"lactation":    {},
	}
	for _, b := range buckets {
		valid[b.Key()] = struct{}{}
		if b.LifeStage == domain.LifeStageStandard {
			valid[string(b.AgeBand)] = struct{}{}
		}
	}
	return valid
}

func checkKeys(id string, targets, limits map[string]float64, valid map[string]struct{}) error {
	for _, rows := range []map[string]float64{targets, limits} {
		for key := range rows {
			if _, ok := valid[key]; !ok {
				return fmt.Errorf("%w: nutrient %q has unknown bucket key %q", ErrInvalidTable, id, key)
			}
		}
	}
	return nil
}
