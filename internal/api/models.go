package api

import (
	"time"

	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/domain/goal"
)

// AnalyzeNutrientsRequest is the body of POST /api/nutrients/analyze.
type AnalyzeNutrientsRequest struct {
	Profile domain.Profile          `json:"profile"`
	Intakes []domain.NutrientIntake `json:"intakes" validate:"dive"`
	// Now pins the date ages are computed at.
	Now *time.Time `json:"now,omitempty"`
}

// RecomputeGoalRequest is the body of POST /api/goals/recompute.
type RecomputeGoalRequest struct {
	Goal    *domain.Goal      `json:"goal" validate:"required"`
	Entries []domain.LogEntry `json:"entries" validate:"dive"`
	Now     *time.Time        `json:"now,omitempty"`
}

// DetectAchievementsRequest is the body of POST /api/achievements/detect.
type DetectAchievementsRequest struct {
	Entries  []domain.LogEntry `json:"entries" validate:"dive"`
	Settings domain.Settings   `json:"settings"`
	Now      *time.Time        `json:"now,omitempty"`
}

// DetectAchievementsResponse lists the achievements that fired.
type DetectAchievementsResponse struct {
	Achievements []AchievementResponse `json:"achievements"`
}

// AchievementResponse is one fired achievement with its display message.
type AchievementResponse struct {
	domain.AchievementEvent
	Message string `json:"message"`
}

// GoalListResponse wraps the goals of one user.
type GoalListResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// GoalResponse is a goal with the fields derived at request time.
type GoalResponse struct {
	*domain.Goal
	Progress      float64          `json:"progress"`
	State         domain.GoalState `json:"state"`
	DaysRemaining int              `json:"days_remaining"`
}

// GoalStatsResponse mirrors goal.Statistics.
type GoalStatsResponse = goal.Statistics

func toAchievementResponses(events []domain.AchievementEvent) []AchievementResponse {
	out := make([]AchievementResponse, len(events))
	for i, e := range events {
		out[i] = AchievementResponse{AchievementEvent: e, Message: e.Message()}
	}
	return out
}

func toGoalResponse(g *domain.Goal, now time.Time) GoalResponse {
	return GoalResponse{
		Goal:          g,
		Progress:      g.Progress(),
		State:         g.State(now),
		DaysRemaining: g.DaysRemaining(now),
	}
}
