package goal

import (
	"testing"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

func newGoal(t *testing.T, p domain.GoalParams) *domain.Goal {
	t.Helper()
	if p.Title == "" {
		p.Title = "test goal"
	}
	if p.TargetDate.IsZero() {
		p.TargetDate = now.AddDate(0, 1, 0)
	}
	g, err := domain.NewGoal(p, now.AddDate(0, 0, -14))
	require.NoError(t, err)
	return g
}

func stepGoal(t *testing.T) *domain.Goal {
	return newGoal(t, domain.GoalParams{
		Category:    domain.CategorySteps,
		Direction:   domain.DirectionIncreasing,
		TargetValue: 10000,
		Frequency:   domain.FrequencyDaily,
	})
}

func steps(at time.Time, n float64) domain.LogEntry {
	return domain.LogEntry{Kind: domain.EntryExercise, Timestamp: at, Steps: n}
}

func weighIn(at time.Time, lbs float64) domain.LogEntry {
	return domain.LogEntry{Kind: domain.EntryWeight, Timestamp: at, Weight: lbs}
}

func TestRecomputeDailySteps(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := stepGoal(t)

	entries := []domain.LogEntry{
		steps(now.Add(-10*time.Hour), 4000),
		steps(now.Add(-1*time.Hour), 2547),
		steps(now.AddDate(0, 0, -1), 9000),
		{Kind: domain.EntryFood, Timestamp: now, Calories: 500},
	}

	update, err := svc.Recompute(g, entries, now)
	require.NoError(t, err)

	assert.Equal(t, 6547.0, update.Goal.CurrentValue)
	assert.InDelta(t, 0.6547, update.Progress, 1e-9)
	assert.Equal(t, domain.GoalActive, update.State)
	assert.False(t, update.Goal.IsCompleted())
	assert.False(t, update.JustCompleted)
	assert.Nil(t, update.Goal.CompletedAt)
	assert.Equal(t, 31, update.DaysRemaining)

	require.Len(t, update.ReachedMilestones, 2)
	assert.Equal(t, 0.25, update.ReachedMilestones[0].Threshold)
	assert.Equal(t, 0.5, update.ReachedMilestones[1].Threshold)
	assert.False(t, update.Goal.Milestones[2].IsReached)
}

func TestRecomputeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := stepGoal(t)
	before := g.Clone()

	_, err := svc.Recompute(g, []domain.LogEntry{steps(now, 12000)}, now)
	require.NoError(t, err)

	assert.Equal(t, before, g)
}

func TestRecomputeWindows(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	t.Run("weekly is a rolling seven days", func(t *testing.T) {
		t.Parallel()
		g := newGoal(t, domain.GoalParams{
			Category:    domain.CategoryExercise,
			Direction:   domain.DirectionIncreasing,
			TargetValue: 150,
			Frequency:   domain.FrequencyWeekly,
		})
		entries := []domain.LogEntry{
			{Kind: domain.EntryExercise, Timestamp: now.Add(-7 * 24 * time.Hour), DurationMinutes: 60},
			{Kind: domain.EntryExercise, Timestamp: now.Add(-7*24*time.Hour + time.Second), DurationMinutes: 30},
			{Kind: domain.EntryExercise, Timestamp: now, DurationMinutes: 45},
			{Kind: domain.EntryExercise, Timestamp: now.Add(time.Minute), DurationMinutes: 90},
		}

		update, err := svc.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 75.0, update.Goal.CurrentValue)
		assert.InDelta(t, 0.5, update.Progress, 1e-9)
	})

	t.Run("total starts at the start date", func(t *testing.T) {
		t.Parallel()
		g := newGoal(t, domain.GoalParams{
			Category:    domain.CategoryHydration,
			Direction:   domain.DirectionIncreasing,
			TargetValue: 1000,
			Frequency:   domain.FrequencyTotal,
		})
		entries := []domain.LogEntry{
			{Kind: domain.EntryWater, Timestamp: g.StartDate.Add(-time.Hour), Volume: 500},
			{Kind: domain.EntryWater, Timestamp: g.StartDate, Volume: 100},
			{Kind: domain.EntryWater, Timestamp: now.AddDate(0, 0, -3), Volume: 150},
		}

		update, err := svc.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 250.0, update.Goal.CurrentValue)
	})

	t.Run("daily follows the configured location", func(t *testing.T) {
		t.Parallel()
		est := time.FixedZone("EST", -5*60*60)
		local := NewServiceWithParams(NewParamsWithLocation(est))
		g := stepGoal(t)

		// 03:00 UTC on the 10th is still the 9th in EST.
		early := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
		entries := []domain.LogEntry{steps(early, 3000), steps(now, 1000)}

		utcUpdate, err := svc.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 4000.0, utcUpdate.Goal.CurrentValue)

		estUpdate, err := local.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, estUpdate.Goal.CurrentValue)
	})

	t.Run("workouts count exercise entries", func(t *testing.T) {
		t.Parallel()
		g := newGoal(t, domain.GoalParams{
			Category:    domain.CategoryExercise,
			Metric:      domain.MetricWorkouts,
			Direction:   domain.DirectionIncreasing,
			TargetValue: 4,
			Frequency:   domain.FrequencyWeekly,
		})
		entries := []domain.LogEntry{
			{Kind: domain.EntryExercise, Timestamp: now.AddDate(0, 0, -1), DurationMinutes: 20},
			{Kind: domain.EntryExercise, Timestamp: now.AddDate(0, 0, -2), DurationMinutes: 40},
			{Kind: domain.EntryExercise, Timestamp: now.AddDate(0, 0, -4), DurationMinutes: 10},
			{Kind: domain.EntryFood, Timestamp: now, Calories: 300},
		}

		update, err := svc.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 3.0, update.Goal.CurrentValue)
		assert.InDelta(t, 0.75, update.Progress, 1e-9)
	})
}

func TestRecomputeWeightGoal(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := newGoal(t, domain.GoalParams{
		Category:      domain.CategoryWeightLoss,
		Direction:     domain.DirectionDecreasing,
		StartingValue: 200,
		TargetValue:   180,
		Frequency:     domain.FrequencyTotal,
	})

	t.Run("latest reading wins", func(t *testing.T) {
		t.Parallel()
		entries := []domain.LogEntry{
			weighIn(now.AddDate(0, 0, -1), 190),
			weighIn(now.AddDate(0, 0, -5), 195),
		}
		update, err := svc.Recompute(g, entries, now)
		require.NoError(t, err)
		assert.Equal(t, 190.0, update.Goal.CurrentValue)
		assert.InDelta(t, 0.5, update.Progress, 1e-9)
		assert.Len(t, update.ReachedMilestones, 2)
	})

	t.Run("no readings falls back to the starting value", func(t *testing.T) {
		t.Parallel()
		update, err := svc.Recompute(g, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 200.0, update.Goal.CurrentValue)
		assert.Equal(t, 0.0, update.Progress)
		assert.Empty(t, update.ReachedMilestones)
	})

	t.Run("moving away from target clamps to zero", func(t *testing.T) {
		t.Parallel()
		update, err := svc.Recompute(g, []domain.LogEntry{weighIn(now, 210)}, now)
		require.NoError(t, err)
		assert.Equal(t, 210.0, update.Goal.CurrentValue)
		assert.Equal(t, 0.0, update.Progress)
	})
}

func TestRecomputeCompletion(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := stepGoal(t)

	update, err := svc.Recompute(g, []domain.LogEntry{steps(now, 14000)}, now)
	require.NoError(t, err)

	assert.Equal(t, 14000.0, update.Goal.CurrentValue, "current value is not clamped")
	assert.Equal(t, 1.0, update.Progress)
	assert.True(t, update.JustCompleted)
	assert.Equal(t, domain.GoalCompleted, update.State)
	require.NotNil(t, update.Goal.CompletedAt)
	assert.Equal(t, now, *update.Goal.CompletedAt)
	assert.Len(t, update.ReachedMilestones, 4)

	// The next day's recompute sees no steps yet but completion is terminal.
	tomorrow := now.AddDate(0, 0, 1)
	next, err := svc.Recompute(update.Goal, nil, tomorrow)
	require.NoError(t, err)

	assert.Equal(t, 0.0, next.Progress)
	assert.False(t, next.JustCompleted)
	assert.Equal(t, domain.GoalCompleted, next.State)
	assert.Equal(t, now, *next.Goal.CompletedAt)
	assert.Empty(t, next.ReachedMilestones)
}

func TestRecomputeMilestonesAreMonotonic(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := stepGoal(t)

	totals := []float64{3000, 8000, 1000, 0, 7600, 500}
	reachedAt := make(map[float64]time.Time)

	at := now
	for _, total := range totals {
		update, err := svc.Recompute(g, []domain.LogEntry{steps(at, total)}, at)
		require.NoError(t, err)

		for _, m := range update.Goal.Milestones {
			if first, ok := reachedAt[m.Threshold]; ok {
				require.True(t, m.IsReached, "milestone %.2f was un-reached", m.Threshold)
				assert.Equal(t, first, *m.ReachedAt)
			} else if m.IsReached {
				reachedAt[m.Threshold] = *m.ReachedAt
			}
		}

		g = update.Goal
		at = at.AddDate(0, 0, 1)
	}

	assert.Len(t, reachedAt, 3)
	assert.Equal(t, now.AddDate(0, 0, 1), reachedAt[0.75])
}

func TestRecomputeOverdue(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := newGoal(t, domain.GoalParams{
		Category:    domain.CategorySteps,
		Direction:   domain.DirectionIncreasing,
		TargetValue: 10000,
		Frequency:   domain.FrequencyDaily,
		TargetDate:  now.AddDate(0, 0, -1),
	})

	update, err := svc.Recompute(g, []domain.LogEntry{steps(now, 5000)}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalOverdue, update.State)
	assert.Equal(t, 0, update.DaysRemaining)

	// Overdue goals can still complete.
	update, err = svc.Recompute(update.Goal, []domain.LogEntry{steps(now, 10000)}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, update.State)
	assert.True(t, update.JustCompleted)
}

func TestRecomputeErrors(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	_, err := svc.Recompute(nil, nil, now)
	assert.ErrorIs(t, err, ErrNilGoal)

	g := stepGoal(t)
	g.TargetValue = g.StartingValue
	_, err = svc.Recompute(g, nil, now)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrGoalDirectionMismatch)
}

func TestEdit(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := stepGoal(t)

	update, err := svc.Recompute(g, []domain.LogEntry{steps(now, 10000)}, now)
	require.NoError(t, err)
	require.NotNil(t, update.Goal.CompletedAt)

	later := now.Add(time.Hour)
	edited, err := svc.Edit(update.Goal, domain.GoalParams{
		Title:       "  Walk even more ",
		Category:    domain.CategorySteps,
		Direction:   domain.DirectionIncreasing,
		TargetValue: 15000,
		TargetDate:  now.AddDate(0, 2, 0),
		Frequency:   domain.FrequencyDaily,
	}, later)
	require.NoError(t, err)

	assert.Equal(t, g.ID, edited.ID)
	assert.Equal(t, "Walk even more", edited.Title)
	assert.Equal(t, 15000.0, edited.TargetValue)
	assert.Nil(t, edited.CompletedAt)
	assert.Equal(t, 0.0, edited.CurrentValue)
	assert.Equal(t, later, edited.UpdatedAt)
	assert.Equal(t, g.CreatedAt, edited.CreatedAt)
	require.Len(t, edited.Milestones, 4)
	for _, m := range edited.Milestones {
		assert.False(t, m.IsReached)
		assert.Nil(t, m.ReachedAt)
	}

	// The original is untouched.
	assert.NotNil(t, update.Goal.CompletedAt)
	assert.True(t, update.Goal.Milestones[0].IsReached)

	t.Run("category change re-derives the metric", func(t *testing.T) {
		t.Parallel()
		edited, err := svc.Edit(g, domain.GoalParams{
			Title:       "Hydrate",
			Category:    domain.CategoryHydration,
			Direction:   domain.DirectionIncreasing,
			TargetValue: 64,
			TargetDate:  now.AddDate(0, 1, 0),
			Frequency:   domain.FrequencyDaily,
			Milestones:  []float64{0.5, 1},
		}, later)
		require.NoError(t, err)
		assert.Equal(t, domain.MetricWater, edited.Metric)
		assert.Len(t, edited.Milestones, 2)
	})

	t.Run("invalid edit", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Edit(g, domain.GoalParams{
			Title:       "Backwards",
			Category:    domain.CategorySteps,
			Direction:   domain.DirectionDecreasing,
			TargetValue: 100,
			TargetDate:  now.AddDate(0, 1, 0),
			Frequency:   domain.FrequencyDaily,
		}, later)
		assert.ErrorIs(t, err, domain.ErrGoalDirectionMismatch)
	})

	t.Run("nil goal", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Edit(nil, domain.GoalParams{}, later)
		assert.ErrorIs(t, err, ErrNilGoal)
	})
}
