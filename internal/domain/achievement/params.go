package achievement

import (
	"time"
)

// Params defines the thresholds used by the achievement checks.
type Params struct {
	// Location defines calendar days for "today" and for streaks.
	Location *time.Location

	// ExerciseGoalMinutes is the daily exercise total that fires the
	// exercise achievement.
	ExerciseGoalMinutes float64

	// CalorieTolerance is the allowed fractional deviation from the daily
	// calorie target, inclusive on both sides.
	CalorieTolerance float64

	// StreakLookbackDays caps how far back a logging streak is counted.
	StreakLookbackDays int

	// StreakMilestones are the streak lengths that fire an event.
	StreakMilestones []int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Location:            time.UTC,
		ExerciseGoalMinutes: 30,
		CalorieTolerance:    0.05,
		StreakLookbackDays:  30,
		StreakMilestones:    []int{2, 3, 7, 14, 21, 30},
	}
}
