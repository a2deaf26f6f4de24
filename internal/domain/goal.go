package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalCategory groups goals for display and statistics.
type GoalCategory string

// Goal categories.
const (
	CategoryWeightLoss  GoalCategory = "weight_loss"
	CategoryWeightGain  GoalCategory = "weight_gain"
	CategoryNutrition   GoalCategory = "nutrition"
	CategoryExercise    GoalCategory = "exercise"
	CategoryHydration   GoalCategory = "hydration"
	CategorySteps       GoalCategory = "steps"
	CategorySleep       GoalCategory = "sleep"
	CategoryMindfulness GoalCategory = "mindfulness"
	CategoryCustom      GoalCategory = "custom"
)

// GoalMetric names the log-entry quantity a goal is measured against.
type GoalMetric string

// Goal metrics.
const (
	MetricCalories        GoalMetric = "calories"
	MetricProtein         GoalMetric = "protein"
	MetricExerciseMinutes GoalMetric = "exercise_minutes"
	MetricCaloriesBurned  GoalMetric = "calories_burned"
	MetricSteps           GoalMetric = "steps"
	MetricWorkouts        GoalMetric = "workouts"
	MetricWater           GoalMetric = "water"
	MetricWeight          GoalMetric = "weight"
)

// GoalDirection states whether progress means the value going up or down.
type GoalDirection string

// Goal directions.
const (
	DirectionIncreasing GoalDirection = "increasing"
	DirectionDecreasing GoalDirection = "decreasing"
)

// GoalFrequency selects the window of entries a goal is measured over.
type GoalFrequency string

// Goal frequencies.
const (
	FrequencyDaily  GoalFrequency = "daily"
	FrequencyWeekly GoalFrequency = "weekly"
	FrequencyTotal  GoalFrequency = "total"
)

// GoalState is the lifecycle state of a goal.
type GoalState string

// Goal states.
const (
	GoalActive    GoalState = "active"
	GoalCompleted GoalState = "completed"
	GoalOverdue   GoalState = "overdue"
)

// DefaultMilestoneThresholds are attached to new goals when none are given.
var DefaultMilestoneThresholds = []float64{0.25, 0.5, 0.75, 1.0}

// Goal validation errors
var (
	ErrGoalIDEmpty           = errors.New("goal ID cannot be empty")
	ErrGoalTitleEmpty        = errors.New("goal title cannot be empty")
	ErrGoalInvalidFrequency  = errors.New("invalid goal frequency")
	ErrGoalInvalidDirection  = errors.New("invalid goal direction")
	ErrGoalInvalidMetric     = errors.New("invalid goal metric")
	ErrGoalDirectionMismatch = errors.New("goal direction does not match starting and target values")
	ErrGoalInvalidDates      = errors.New("goal target date is before start date")
	ErrGoalInvalidMilestone  = errors.New("milestone thresholds must be ascending and within (0, 1]")
)

// Milestone is a fractional progress threshold. Once reached it stays
// reached until the goal is explicitly edited.
type Milestone struct {
	Threshold float64    `json:"threshold"`
	IsReached bool       `json:"is_reached"`
	ReachedAt *time.Time `json:"reached_at,omitempty"`
}

// Goal is a user-defined target evaluated against logged entries.
// CurrentValue, Milestones and CompletedAt are owned by the goal evaluator.
type Goal struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Category      GoalCategory  `json:"category"`
	Metric        GoalMetric    `json:"metric"`
	Direction     GoalDirection `json:"direction"`
	TargetValue   float64       `json:"target_value"`
	TargetUnit    string        `json:"target_unit"`
	StartingValue float64       `json:"starting_value"`
	CurrentValue  float64       `json:"current_value"`
	StartDate     time.Time     `json:"start_date"`
	TargetDate    time.Time     `json:"target_date"`
	Frequency     GoalFrequency `json:"frequency"`
	Milestones    []Milestone   `json:"milestones"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// GoalParams holds the user-supplied fields of a new goal.
type GoalParams struct {
	Title         string        `json:"title" validate:"required"`
	Category      GoalCategory  `json:"category" validate:"required"`
	Metric        GoalMetric    `json:"metric,omitempty"`
	Direction     GoalDirection `json:"direction" validate:"required,oneof=increasing decreasing"`
	TargetValue   float64       `json:"target_value"`
	TargetUnit    string        `json:"target_unit"`
	StartingValue float64       `json:"starting_value"`
	StartDate     time.Time     `json:"start_date"`
	TargetDate    time.Time     `json:"target_date" validate:"required"`
	Frequency     GoalFrequency `json:"frequency" validate:"required,oneof=daily weekly total"`
	Milestones    []float64     `json:"milestones,omitempty"`
}

// DefaultMetric returns the metric a category is measured by when the goal
// does not name one. Categories without an obvious metric return "".
func DefaultMetric(c GoalCategory) GoalMetric {
	switch c {
	case CategoryWeightLoss, CategoryWeightGain:
		return MetricWeight
	case CategoryNutrition:
		return MetricCalories
	case CategoryExercise:
		return MetricExerciseMinutes
	case CategoryHydration:
		return MetricWater
	case CategorySteps:
		return MetricSteps
	default:
		return ""
	}
}

// NewGoal creates a goal with a fresh ID, default milestones when none are
// given, and CurrentValue initialized to StartingValue.
// Returns an error if validation fails.
func NewGoal(p GoalParams, now time.Time) (*Goal, error) {
	metric := p.Metric
	if metric == "" {
		metric = DefaultMetric(p.Category)
	}

	start := p.StartDate
	if start.IsZero() {
		start = now
	}

	thresholds := p.Milestones
	if len(thresholds) == 0 {
		thresholds = DefaultMilestoneThresholds
	}
	milestones := make([]Milestone, len(thresholds))
	for i, t := range thresholds {
		milestones[i] = Milestone{Threshold: t}
	}

	g := &Goal{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(p.Title),
		Category:      p.Category,
		Metric:        metric,
		Direction:     p.Direction,
		TargetValue:   p.TargetValue,
		TargetUnit:    p.TargetUnit,
		StartingValue: p.StartingValue,
		CurrentValue:  p.StartingValue,
		StartDate:     start,
		TargetDate:    p.TargetDate,
		Frequency:     p.Frequency,
		Milestones:    milestones,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks if the Goal has valid data.
// Returns an error if any field fails validation.
func (g *Goal) Validate() error {
	if g.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrGoalIDEmpty)
	}

	if strings.TrimSpace(g.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrGoalTitleEmpty)
	}

	switch g.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyTotal:
	default:
		return NewValidationError("frequency", "is invalid", ErrGoalInvalidFrequency)
	}

	switch g.Metric {
	case MetricCalories, MetricProtein, MetricExerciseMinutes, MetricCaloriesBurned,
		MetricSteps, MetricWorkouts, MetricWater, MetricWeight:
	default:
		return NewValidationError("metric", "is invalid", ErrGoalInvalidMetric)
	}

	switch g.Direction {
	case DirectionIncreasing:
		if g.TargetValue <= g.StartingValue {
			return NewValidationError("target_value", "must exceed starting_value", ErrGoalDirectionMismatch)
		}
	case DirectionDecreasing:
		if g.TargetValue >= g.StartingValue {
			return NewValidationError("target_value", "must be below starting_value", ErrGoalDirectionMismatch)
		}
	default:
		return NewValidationError("direction", "is invalid", ErrGoalInvalidDirection)
	}

	if g.TargetDate.Before(g.StartDate) {
		return NewValidationError("target_date", "is before start_date", ErrGoalInvalidDates)
	}

	prev := 0.0
	for _, m := range g.Milestones {
		if m.Threshold <= prev || m.Threshold > 1 {
			return NewValidationError("milestones", "are invalid", ErrGoalInvalidMilestone)
		}
		prev = m.Threshold
	}

	return nil
}

// Progress returns the fraction of the distance from StartingValue to
// TargetValue covered by CurrentValue, clamped to [0, 1].
func (g *Goal) Progress() float64 {
	span := g.TargetValue - g.StartingValue
	if span == 0 {
		return 0
	}

	p := (g.CurrentValue - g.StartingValue) / span
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// IsCompleted reports whether the goal has been completed. Completion is
// terminal: once CompletedAt is set the goal stays completed.
func (g *Goal) IsCompleted() bool {
	return g.CompletedAt != nil || g.Progress() >= 1
}

// IsOverdue reports whether the target date has passed without completion.
func (g *Goal) IsOverdue(now time.Time) bool {
	return now.After(g.TargetDate) && !g.IsCompleted()
}

// IsActive reports whether the goal is neither completed nor overdue.
func (g *Goal) IsActive(now time.Time) bool {
	return !g.IsCompleted() && !g.IsOverdue(now)
}

// DaysRemaining returns the whole days left until the target date, never
// negative.
func (g *Goal) DaysRemaining(now time.Time) int {
	days := int(g.TargetDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// State returns the lifecycle state at now.
func (g *Goal) State(now time.Time) GoalState {
	switch {
	case g.IsCompleted():
		return GoalCompleted
	case g.IsOverdue(now):
		return GoalOverdue
	default:
		return GoalActive
	}
}

// Clone returns a deep copy of the goal.
func (g *Goal) Clone() *Goal {
	c := *g
	c.Milestones = make([]Milestone, len(g.Milestones))
	copy(c.Milestones, g.Milestones)
	for i := range c.Milestones {
		if at := c.Milestones[i].ReachedAt; at != nil {
			t := *at
			c.Milestones[i].ReachedAt = &t
		}
	}
	if g.CompletedAt != nil {
		t := *g.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
