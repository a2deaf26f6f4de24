package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goalNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func validGoal() *Goal {
	return &Goal{
		ID:            uuid.New(),
		Title:         "Walk more",
		Category:      CategorySteps,
		Metric:        MetricSteps,
		Direction:     DirectionIncreasing,
		TargetValue:   10000,
		StartingValue: 0,
		StartDate:     goalNow.AddDate(0, 0, -7),
		TargetDate:    goalNow.AddDate(0, 1, 0),
		Frequency:     FrequencyDaily,
		Milestones: []Milestone{
			{Threshold: 0.25}, {Threshold: 0.5}, {Threshold: 0.75}, {Threshold: 1},
		},
	}
}

func TestNewGoal(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		g, err := NewGoal(GoalParams{
			Title:         "  Lose weight  ",
			Category:      CategoryWeightLoss,
			Direction:     DirectionDecreasing,
			StartingValue: 180,
			TargetValue:   170,
			TargetDate:    goalNow.AddDate(0, 2, 0),
			Frequency:     FrequencyTotal,
		}, goalNow)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, g.ID)
		assert.Equal(t, "Lose weight", g.Title)
		assert.Equal(t, MetricWeight, g.Metric)
		assert.Equal(t, 180.0, g.CurrentValue)
		assert.Equal(t, goalNow, g.StartDate)
		assert.Equal(t, goalNow, g.CreatedAt)
		require.Len(t, g.Milestones, len(DefaultMilestoneThresholds))
		for i, m := range g.Milestones {
			assert.Equal(t, DefaultMilestoneThresholds[i], m.Threshold)
			assert.False(t, m.IsReached)
		}
	})

	t.Run("custom milestones", func(t *testing.T) {
		t.Parallel()
		g, err := NewGoal(GoalParams{
			Title:       "Hydrate",
			Category:    CategoryHydration,
			Direction:   DirectionIncreasing,
			TargetValue: 64,
			TargetDate:  goalNow,
			Frequency:   FrequencyDaily,
			Milestones:  []float64{0.5, 1},
		}, goalNow)
		require.NoError(t, err)
		assert.Len(t, g.Milestones, 2)
		assert.Equal(t, MetricWater, g.Metric)
	})

	t.Run("custom category needs a metric", func(t *testing.T) {
		t.Parallel()
		_, err := NewGoal(GoalParams{
			Title:       "Meditate",
			Category:    CategoryMindfulness,
			Direction:   DirectionIncreasing,
			TargetValue: 10,
			TargetDate:  goalNow,
			Frequency:   FrequencyDaily,
		}, goalNow)
		assert.ErrorIs(t, err, ErrGoalInvalidMetric)
	})
}

func TestGoalValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(g *Goal)
		wantErr error
	}{
		{name: "valid", mutate: func(g *Goal) {}},
		{name: "nil id", mutate: func(g *Goal) { g.ID = uuid.Nil }, wantErr: ErrGoalIDEmpty},
		{name: "blank title", mutate: func(g *Goal) { g.Title = "  " }, wantErr: ErrGoalTitleEmpty},
		{name: "bad frequency", mutate: func(g *Goal) { g.Frequency = "hourly" }, wantErr: ErrGoalInvalidFrequency},
		{name: "bad metric", mutate: func(g *Goal) { g.Metric = "sleep_hours" }, wantErr: ErrGoalInvalidMetric},
		{name: "bad direction", mutate: func(g *Goal) { g.Direction = "sideways" }, wantErr: ErrGoalInvalidDirection},
		{
			name:    "increasing with target below start",
			mutate:  func(g *Goal) { g.StartingValue = 20000 },
			wantErr: ErrGoalDirectionMismatch,
		},
		{
			name: "decreasing with target above start",
			mutate: func(g *Goal) {
				g.Direction = DirectionDecreasing
				g.StartingValue = 100
				g.TargetValue = 150
			},
			wantErr: ErrGoalDirectionMismatch,
		},
		{
			name:    "zero span",
			mutate:  func(g *Goal) { g.StartingValue = g.TargetValue },
			wantErr: ErrGoalDirectionMismatch,
		},
		{
			name:    "target date before start",
			mutate:  func(g *Goal) { g.TargetDate = g.StartDate.Add(-time.Hour) },
			wantErr: ErrGoalInvalidDates,
		},
		{
			name:    "milestones not ascending",
			mutate:  func(g *Goal) { g.Milestones = []Milestone{{Threshold: 0.5}, {Threshold: 0.25}} },
			wantErr: ErrGoalInvalidMilestone,
		},
		{
			name:    "milestone above one",
			mutate:  func(g *Goal) { g.Milestones = []Milestone{{Threshold: 1.5}} },
			wantErr: ErrGoalInvalidMilestone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := validGoal()
			tc.mutate(g)
			err := g.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestGoalProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		direction GoalDirection
		starting  float64
		target    float64
		current   float64
		want      float64
	}{
		{"increasing partial", DirectionIncreasing, 0, 10000, 6547, 0.6547},
		{"increasing overshoot clamps", DirectionIncreasing, 0, 100, 250, 1},
		{"increasing negative clamps", DirectionIncreasing, 50, 100, 10, 0},
		{"decreasing partial", DirectionDecreasing, 180, 170, 175, 0.5},
		{"decreasing gained weight clamps", DirectionDecreasing, 180, 170, 185, 0},
		{"decreasing overshoot clamps", DirectionDecreasing, 180, 170, 160, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := &Goal{
				Direction:     tc.direction,
				StartingValue: tc.starting,
				TargetValue:   tc.target,
				CurrentValue:  tc.current,
			}
			got := g.Progress()
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestGoalState(t *testing.T) {
	t.Parallel()

	t.Run("active", func(t *testing.T) {
		t.Parallel()
		g := validGoal()
		g.CurrentValue = 5000
		assert.Equal(t, GoalActive, g.State(goalNow))
		assert.True(t, g.IsActive(goalNow))
		assert.False(t, g.IsCompleted())
		assert.False(t, g.IsOverdue(goalNow))
		assert.Equal(t, 31, g.DaysRemaining(goalNow))
	})

	t.Run("overdue", func(t *testing.T) {
		t.Parallel()
		g := validGoal()
		g.TargetDate = goalNow.Add(-time.Hour)
		assert.Equal(t, GoalOverdue, g.State(goalNow))
		assert.False(t, g.IsActive(goalNow))
		assert.Equal(t, 0, g.DaysRemaining(goalNow))
	})

	t.Run("completed by progress", func(t *testing.T) {
		t.Parallel()
		g := validGoal()
		g.CurrentValue = 10000
		g.TargetDate = goalNow.Add(-time.Hour)
		assert.Equal(t, GoalCompleted, g.State(goalNow))
		assert.False(t, g.IsOverdue(goalNow))
	})

	t.Run("completion latch", func(t *testing.T) {
		t.Parallel()
		g := validGoal()
		at := goalNow.Add(-24 * time.Hour)
		g.CompletedAt = &at
		g.CurrentValue = 0
		assert.True(t, g.IsCompleted())
		assert.Equal(t, GoalCompleted, g.State(goalNow))
	})
}

func TestGoalClone(t *testing.T) {
	t.Parallel()

	g := validGoal()
	reached := goalNow
	g.Milestones[0].IsReached = true
	g.Milestones[0].ReachedAt = &reached
	g.CompletedAt = &reached

	c := g.Clone()
	require.Equal(t, g, c)

	c.Milestones[1].IsReached = true
	*c.Milestones[0].ReachedAt = goalNow.Add(time.Hour)
	*c.CompletedAt = goalNow.Add(time.Hour)

	assert.False(t, g.Milestones[1].IsReached)
	assert.Equal(t, goalNow, *g.Milestones[0].ReachedAt)
	assert.Equal(t, goalNow, *g.CompletedAt)
}
