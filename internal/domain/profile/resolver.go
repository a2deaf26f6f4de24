// Package profile maps a user profile onto the demographic bucket that
// selects reference targets.
package profile

import (
	"log/slog"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// MaxAgeYears is the oldest age the resolver accepts without clamping.
const MaxAgeYears = 130

// Resolver resolves profiles to demographic buckets. It holds no state
// beyond its logger and is safe for concurrent use.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger falls back to slog.Default().
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger.With(slog.String("component", "profile_resolver"))}
}

// ResolveBucket returns the bucket for p at now.
//
// Pregnancy takes precedence over breastfeeding. Contradictory life-stage
// flags return an error wrapping domain.ErrInvalidProfile. An age outside
// [0, MaxAgeYears] is clamped to the nearest band and logged as a warning.
func (r *Resolver) ResolveBucket(p domain.Profile, now time.Time) (domain.DemographicBucket, error) {
	if err := p.Validate(); err != nil {
		return domain.DemographicBucket{}, err
	}

	months := p.AgeInMonths(now)
	switch {
	case months < 0:
		r.logger.Warn("birth date is in the future, clamping age",
			slog.Time("birth_date", p.BirthDate),
			slog.Time("now", now))
		months = 0
	case months > MaxAgeYears*12:
		r.logger.Warn("age exceeds supported range, clamping age",
			slog.Int("age_years", months/12),
			slog.Int("max_age_years", MaxAgeYears))
		months = MaxAgeYears * 12
	}

	bucket := domain.DemographicBucket{
		AgeBand:   BandForMonths(months),
		Sex:       p.Sex,
		LifeStage: domain.LifeStageStandard,
	}

	switch {
	case p.Pregnant:
		bucket.LifeStage = domain.LifeStagePregnancy
		bucket.Trimester = p.Trimester
	case p.Breastfeeding:
		bucket.LifeStage = domain.LifeStageLactation
	}

	return bucket, nil
}

// BandForMonths returns the age band containing an age given in whole
// months. Negative ages fall in the youngest band.
func BandForMonths(months int) domain.AgeBand {
	if months < 7 {
		return domain.AgeBandInfant0to6
	}
	if months < 12 {
		return domain.AgeBandInfant7to12
	}

	switch years := months / 12; {
	case years <= 3:
		return domain.AgeBandChild1to3
	case years <= 8:
		return domain.AgeBandChild4to8
	case years <= 13:
		return domain.AgeBandYouth9to13
	case years <= 18:
		return domain.AgeBandYouth14to18
	case years <= 30:
		return domain.AgeBandAdult19to30
	case years <= 50:
		return domain.AgeBandAdult31to50
	case years <= 70:
		return domain.AgeBandAdult51to70
	default:
		return domain.AgeBandAdult71Plus
	}
}
