// Package achievement detects one-shot celebratory events from a user's
// recent log entries.
package achievement

import (
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// Service defines the interface for achievement detection
type Service interface {
	// Detect runs every check once against entries and returns the events
	// that fired, at most one per kind. Detection never fails; a check
	// without the data it needs simply does not fire. Repeated calls on
	// the same day fire again, so callers de-duplicate at the sink.
	Detect(
		entries []domain.LogEntry,
		settings domain.Settings,
		now time.Time,
	) []domain.AchievementEvent
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new achievement service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new achievement service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	if params.Location == nil {
		p := *params
		p.Location = time.UTC
		params = &p
	}
	return &defaultService{
		params: params,
	}
}

// Detect implements the Service interface
func (s *defaultService) Detect(
	entries []domain.LogEntry,
	settings domain.Settings,
	now time.Time,
) []domain.AchievementEvent {
	local := now.In(s.params.Location)

	checks := []struct {
		kind domain.AchievementKind
		run  func() (domain.AchievementPayload, bool)
	}{
		{domain.AchievementWeightLoss, func() (domain.AchievementPayload, bool) {
			return checkWeightLoss(entries)
		}},
		{domain.AchievementExerciseGoalMet, func() (domain.AchievementPayload, bool) {
			return checkExercise(entries, local, s.params)
		}},
		{domain.AchievementCalorieTargetMet, func() (domain.AchievementPayload, bool) {
			return checkCalories(entries, settings.DailyCalorieTarget, local, s.params)
		}},
		{domain.AchievementLoggingStreak, func() (domain.AchievementPayload, bool) {
			return checkStreak(entries, local, s.params)
		}},
		{domain.AchievementStepGoalMet, func() (domain.AchievementPayload, bool) {
			return checkSteps(entries, settings.DailyStepGoal, local, s.params)
		}},
		{domain.AchievementWaterGoalMet, func() (domain.AchievementPayload, bool) {
			return checkWater(entries, settings.DailyWaterGoal, local, s.params)
		}},
	}

	var events []domain.AchievementEvent
	for _, c := range checks {
		if payload, ok := c.run(); ok {
			events = append(events, domain.NewAchievementEvent(c.kind, payload, local))
		}
	}
	return events
}
