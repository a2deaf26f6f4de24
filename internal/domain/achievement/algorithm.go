package achievement

import (
	"math"
	"sort"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// dayKey identifies a calendar day in a location.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) dayKey {
	y, m, d := t.In(loc).Date()
	return dayKey{y, m, d}
}

// todayTotal sums metric over the entries logged on the same calendar day
// as now.
func todayTotal(entries []domain.LogEntry, metric domain.GoalMetric, now time.Time, loc *time.Location) float64 {
	today := dayOf(now, loc)
	total := 0.0
	for _, e := range entries {
		v, ok := e.MetricValue(metric)
		if !ok || dayOf(e.Timestamp, loc) != today {
			continue
		}
		total += v
	}
	return total
}

// checkWeightLoss compares the two most recent weigh-ins.
func checkWeightLoss(entries []domain.LogEntry) (domain.AchievementPayload, bool) {
	var weighIns []domain.LogEntry
	for _, e := range entries {
		if e.Kind == domain.EntryWeight {
			weighIns = append(weighIns, e)
		}
	}
	if len(weighIns) < 2 {
		return domain.AchievementPayload{}, false
	}

	sort.SliceStable(weighIns, func(i, j int) bool {
		return weighIns[i].Timestamp.After(weighIns[j].Timestamp)
	})

	current, previous := weighIns[0].Weight, weighIns[1].Weight
	if current >= previous {
		return domain.AchievementPayload{}, false
	}

	return domain.AchievementPayload{
		PoundsLost:     previous - current,
		PreviousWeight: previous,
		CurrentWeight:  current,
	}, true
}

func checkExercise(entries []domain.LogEntry, now time.Time, params *Params) (domain.AchievementPayload, bool) {
	minutes := todayTotal(entries, domain.MetricExerciseMinutes, now, params.Location)
	if minutes < params.ExerciseGoalMinutes {
		return domain.AchievementPayload{}, false
	}
	return domain.AchievementPayload{Minutes: minutes, Target: params.ExerciseGoalMinutes}, true
}

// checkCalories is skipped when no target is set.
func checkCalories(
	entries []domain.LogEntry,
	target float64,
	now time.Time,
	params *Params,
) (domain.AchievementPayload, bool) {
	if target <= 0 {
		return domain.AchievementPayload{}, false
	}
	calories := todayTotal(entries, domain.MetricCalories, now, params.Location)
	if math.Abs(calories-target) > target*params.CalorieTolerance {
		return domain.AchievementPayload{}, false
	}
	return domain.AchievementPayload{Calories: calories, Target: target}, true
}

// streakLength counts consecutive days with at least one food entry,
// walking back from today. A day without food today means no streak.
func streakLength(entries []domain.LogEntry, now time.Time, params *Params) int {
	logged := make(map[dayKey]struct{})
	for _, e := range entries {
		if e.Kind == domain.EntryFood {
			logged[dayOf(e.Timestamp, params.Location)] = struct{}{}
		}
	}

	local := now.In(params.Location)
	streak := 0
	for i := 0; i < params.StreakLookbackDays; i++ {
		if _, ok := logged[dayOf(local.AddDate(0, 0, -i), params.Location)]; !ok {
			break
		}
		streak++
	}
	return streak
}

func checkStreak(entries []domain.LogEntry, now time.Time, params *Params) (domain.AchievementPayload, bool) {
	streak := streakLength(entries, now, params)
	for _, m := range params.StreakMilestones {
		if streak == m {
			return domain.AchievementPayload{StreakDays: streak}, true
		}
	}
	return domain.AchievementPayload{}, false
}

func checkSteps(entries []domain.LogEntry, goal float64, now time.Time, params *Params) (domain.AchievementPayload, bool) {
	if goal <= 0 {
		return domain.AchievementPayload{}, false
	}
	steps := todayTotal(entries, domain.MetricSteps, now, params.Location)
	if steps < goal {
		return domain.AchievementPayload{}, false
	}
	return domain.AchievementPayload{Steps: steps, Target: goal}, true
}

func checkWater(entries []domain.LogEntry, goal float64, now time.Time, params *Params) (domain.AchievementPayload, bool) {
	if goal <= 0 {
		return domain.AchievementPayload{}, false
	}
	volume := todayTotal(entries, domain.MetricWater, now, params.Location)
	if volume < goal {
		return domain.AchievementPayload{}, false
	}
	return domain.AchievementPayload{Volume: volume, Target: goal}, true
}
