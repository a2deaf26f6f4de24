package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind identifies the kind of record a LogEntry was built from.
type EntryKind string

// Log entry kinds.
const (
	EntryFood     EntryKind = "food"
	EntryExercise EntryKind = "exercise"
	EntryWeight   EntryKind = "weight"
	EntryWater    EntryKind = "water"
)

// LogEntry is a read-only view of one food, exercise, weight or water record
// owned by the external record store. Only the fields relevant to Kind are
// meaningful.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	Kind      EntryKind `json:"kind" validate:"required,oneof=food exercise weight water"`
	Timestamp time.Time `json:"timestamp" validate:"required"`

	// Food
	Calories float64 `json:"calories,omitempty" validate:"gte=0"`
	Protein  float64 `json:"protein,omitempty" validate:"gte=0"`
	Carbs    float64 `json:"carbs,omitempty" validate:"gte=0"`
	Fat      float64 `json:"fat,omitempty" validate:"gte=0"`

	// Exercise
	DurationMinutes float64 `json:"duration_minutes,omitempty" validate:"gte=0"`
	CaloriesBurned  float64 `json:"calories_burned,omitempty" validate:"gte=0"`
	Steps           float64 `json:"steps,omitempty" validate:"gte=0"`

	// Weight, in pounds
	Weight float64 `json:"weight,omitempty" validate:"gte=0"`

	// Water, in fluid ounces
	Volume float64 `json:"volume,omitempty" validate:"gte=0"`
}

// MetricValue returns the amount this entry contributes to metric, and false
// when the entry does not feed that metric.
func (e LogEntry) MetricValue(metric GoalMetric) (float64, bool) {
	switch metric {
	case MetricCalories:
		return e.Calories, e.Kind == EntryFood
	case MetricProtein:
		return e.Protein, e.Kind == EntryFood
	case MetricExerciseMinutes:
		return e.DurationMinutes, e.Kind == EntryExercise
	case MetricCaloriesBurned:
		return e.CaloriesBurned, e.Kind == EntryExercise
	case MetricSteps:
		return e.Steps, e.Kind == EntryExercise
	case MetricWorkouts:
		return 1, e.Kind == EntryExercise
	case MetricWater:
		return e.Volume, e.Kind == EntryWater
	case MetricWeight:
		return e.Weight, e.Kind == EntryWeight
	default:
		return 0, false
	}
}

// Settings holds the per-user daily targets consumed by achievement
// detection. A zero value means "unset".
type Settings struct {
	DailyCalorieTarget float64 `json:"daily_calorie_target" mapstructure:"daily_calorie_target" validate:"gte=0"`
	DailyStepGoal      float64 `json:"daily_step_goal" mapstructure:"daily_step_goal" validate:"gte=0"`
	DailyWaterGoal     float64 `json:"daily_water_goal" mapstructure:"daily_water_goal" validate:"gte=0"`
}
