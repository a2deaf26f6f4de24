package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AchievementKind identifies which celebratory check fired.
type AchievementKind string

// Achievement kinds.
const (
	AchievementWeightLoss       AchievementKind = "weight_loss"
	AchievementExerciseGoalMet  AchievementKind = "exercise_goal_met"
	AchievementCalorieTargetMet AchievementKind = "calorie_target_met"
	AchievementLoggingStreak    AchievementKind = "logging_streak"
	AchievementStepGoalMet      AchievementKind = "step_goal_met"
	AchievementWaterGoalMet     AchievementKind = "water_goal_met"
)

// AchievementPayload carries the figures needed to render a message.
// Only the fields relevant to the event kind are set.
type AchievementPayload struct {
	PoundsLost     float64 `json:"pounds_lost,omitempty"`
	PreviousWeight float64 `json:"previous_weight,omitempty"`
	CurrentWeight  float64 `json:"current_weight,omitempty"`
	Minutes        float64 `json:"minutes,omitempty"`
	Calories       float64 `json:"calories,omitempty"`
	Steps          float64 `json:"steps,omitempty"`
	Volume         float64 `json:"volume,omitempty"`
	Target         float64 `json:"target,omitempty"`
	StreakDays     int     `json:"streak_days,omitempty"`
}

// AchievementEvent is a one-shot celebratory event. Day is the calendar day
// (YYYY-MM-DD) the detection ran for.
type AchievementEvent struct {
	ID      uuid.UUID          `json:"id"`
	Kind    AchievementKind    `json:"kind"`
	Payload AchievementPayload `json:"payload"`
	Day     string             `json:"day"`
	FiredAt time.Time          `json:"fired_at"`
}

// NewAchievementEvent creates an event with a fresh ID.
func NewAchievementEvent(
	kind AchievementKind,
	payload AchievementPayload,
	now time.Time,
) AchievementEvent {
	return AchievementEvent{
		ID:      uuid.New(),
		Kind:    kind,
		Payload: payload,
		Day:     now.Format(time.DateOnly),
		FiredAt: now,
	}
}

// Message renders a short user-facing description of the event.
func (e AchievementEvent) Message() string {
	p := e.Payload
	switch e.Kind {
	case AchievementWeightLoss:
		return fmt.Sprintf("You've lost %.1f lbs since your last weigh-in!", p.PoundsLost)
	case AchievementExerciseGoalMet:
		return fmt.Sprintf("%.0f minutes of exercise today. Daily goal reached!", p.Minutes)
	case AchievementCalorieTargetMet:
		return fmt.Sprintf("%.0f of %.0f calories. You hit your daily calorie target!", p.Calories, p.Target)
	case AchievementLoggingStreak:
		return fmt.Sprintf("%d-day logging streak!", p.StreakDays)
	case AchievementStepGoalMet:
		return fmt.Sprintf("%.0f steps today. Step goal reached!", p.Steps)
	case AchievementWaterGoalMet:
		return fmt.Sprintf("%.0f oz of water today. Hydration goal reached!", p.Volume)
	default:
		return string(e.Kind)
	}
}
