package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAchievementEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 2, 23, 30, 0, 0, time.UTC)
	e := NewAchievementEvent(AchievementLoggingStreak, AchievementPayload{StreakDays: 7}, now)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "2025-04-02", e.Day)
	assert.Equal(t, now, e.FiredAt)
	assert.Equal(t, "7-day logging streak!", e.Message())
}

func TestAchievementEventMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    AchievementKind
		payload AchievementPayload
		want    string
	}{
		{AchievementWeightLoss, AchievementPayload{PoundsLost: 1.5}, "You've lost 1.5 lbs since your last weigh-in!"},
		{AchievementExerciseGoalMet, AchievementPayload{Minutes: 45}, "45 minutes of exercise today. Daily goal reached!"},
		{
			AchievementCalorieTargetMet,
			AchievementPayload{Calories: 1980, Target: 2000},
			"1980 of 2000 calories. You hit your daily calorie target!",
		},
		{AchievementStepGoalMet, AchievementPayload{Steps: 12000}, "12000 steps today. Step goal reached!"},
		{AchievementWaterGoalMet, AchievementPayload{Volume: 70}, "70 oz of water today. Hydration goal reached!"},
		{"unknown", AchievementPayload{}, "unknown"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, AchievementEvent{Kind: tc.kind, Payload: tc.payload}.Message())
		})
	}
}

func TestLogEntryMetricValue(t *testing.T) {
	t.Parallel()

	food := LogEntry{Kind: EntryFood, Calories: 500, Protein: 30}
	exercise := LogEntry{Kind: EntryExercise, DurationMinutes: 40, CaloriesBurned: 300, Steps: 4000}
	weight := LogEntry{Kind: EntryWeight, Weight: 178.5}
	water := LogEntry{Kind: EntryWater, Volume: 16}

	tests := []struct {
		name   string
		entry  LogEntry
		metric GoalMetric
		want   float64
		ok     bool
	}{
		{"food calories", food, MetricCalories, 500, true},
		{"food protein", food, MetricProtein, 30, true},
		{"food has no steps", food, MetricSteps, 0, false},
		{"exercise minutes", exercise, MetricExerciseMinutes, 40, true},
		{"exercise burned", exercise, MetricCaloriesBurned, 300, true},
		{"exercise steps", exercise, MetricSteps, 4000, true},
		{"exercise counts as workout", exercise, MetricWorkouts, 1, true},
		{"weight", weight, MetricWeight, 178.5, true},
		{"water", water, MetricWater, 16, true},
		{"water is not calories", water, MetricCalories, 0, false},
		{"unknown metric", food, "sleep", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, ok := tc.entry.MetricValue(tc.metric)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, v)
			}
		})
	}
}
