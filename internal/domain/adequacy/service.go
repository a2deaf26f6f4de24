// Package adequacy compares nutrient intake against the reference targets for
// a profile's demographic bucket.
package adequacy

import (
	"errors"
	"sort"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/domain/profile"
	"github.com/phrazzld/vitals/internal/domain/reference"
)

// Report is the result of one analysis call.
type Report struct {
	Bucket domain.DemographicBucket `json:"bucket"`
	// Analyses holds one entry per nutrient with a target for the bucket,
	// ordered by ascending percentage of target.
	Analyses []domain.NutrientAnalysis `json:"analyses"`
	// UnitErrors lists intakes excluded because their unit could not be
	// converted, in input order.
	UnitErrors []*domain.UnitConversionError `json:"unit_errors,omitempty"`
	// Unknown lists nutrient IDs with no reference data, sorted.
	Unknown []string `json:"unknown,omitempty"`
}

// Service defines the interface for nutrient adequacy analysis
type Service interface {
	// Analyze sums intakes per nutrient and grades them against the targets
	// for the profile. Only an invalid profile fails the call.
	Analyze(intakes []domain.NutrientIntake, p domain.Profile, now time.Time) (*Report, error)
}

type defaultService struct {
	table    *reference.Table
	resolver *profile.Resolver
	params   *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new adequacy service with default parameters
func NewDefaultService(table *reference.Table, resolver *profile.Resolver) Service {
	return NewServiceWithParams(table, resolver, NewDefaultParams())
}

// NewServiceWithParams creates a new adequacy service with custom parameters
func NewServiceWithParams(table *reference.Table, resolver *profile.Resolver, params *Params) Service {
	if table == nil {
		panic("table cannot be nil")
	}
	if resolver == nil {
		resolver = profile.NewResolver(nil)
	}
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{table: table, resolver: resolver, params: params}
}

// Analyze implements the Service interface
func (s *defaultService) Analyze(
	intakes []domain.NutrientIntake,
	p domain.Profile,
	now time.Time,
) (*Report, error) {
	bucket, err := s.resolver.ResolveBucket(p, now)
	if err != nil {
		return nil, err
	}

	report := &Report{Bucket: bucket}

	totals := make(map[string]float64, len(intakes))
	unknown := make(map[string]struct{})
	for _, in := range intakes {
		amount, err := s.table.Normalize(in.NutrientID, in.Amount, in.Unit)
		if err != nil {
			var convErr *domain.UnitConversionError
			switch {
			case errors.As(err, &convErr):
				report.UnitErrors = append(report.UnitErrors, convErr)
			case errors.Is(err, domain.ErrMissingReferenceData):
				unknown[in.NutrientID] = struct{}{}
			}
			continue
		}
		totals[in.NutrientID] += amount
	}

	// Known nutrients with no row for this bucket are reported as unknown
	// when the caller supplied an intake for them.
	targets := s.table.TargetsFor(bucket)
	covered := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		covered[t.NutrientID] = struct{}{}
	}
	for id := range totals {
		if _, ok := covered[id]; !ok {
			unknown[id] = struct{}{}
		}
	}

	age := p.Age(now)
	report.Analyses = make([]domain.NutrientAnalysis, 0, len(targets))
	for _, t := range targets {
		report.Analyses = append(report.Analyses, analyzeTarget(t, totals[t.NutrientID], p, age, s.params))
	}
	sortAnalyses(report.Analyses)

	for id := range unknown {
		report.Unknown = append(report.Unknown, id)
	}
	sort.Strings(report.Unknown)

	return report, nil
}
