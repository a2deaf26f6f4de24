package goal

import (
	"strings"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// sameDay reports whether a and b fall on the same calendar day in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// inWindow reports whether an entry at ts counts toward the goal at now.
func inWindow(g *domain.Goal, ts, now time.Time, params *Params) bool {
	switch g.Frequency {
	case domain.FrequencyDaily:
		return sameDay(ts, now, params.Location)
	case domain.FrequencyWeekly:
		return ts.After(now.Add(-params.WeeklyWindow)) && !ts.After(now)
	case domain.FrequencyTotal:
		return !ts.Before(g.StartDate) && !ts.After(now)
	default:
		return false
	}
}

// reduce computes the goal's current value from entries. Weight goals use
// the latest reading in the window and fall back to StartingValue; every
// other metric is a sum.
func reduce(g *domain.Goal, entries []domain.LogEntry, now time.Time, params *Params) float64 {
	if g.Metric == domain.MetricWeight {
		var (
			latest time.Time
			value  = g.StartingValue
			found  bool
		)
		for _, e := range entries {
			v, ok := e.MetricValue(g.Metric)
			if !ok || !inWindow(g, e.Timestamp, now, params) {
				continue
			}
			if !found || !e.Timestamp.Before(latest) {
				latest, value, found = e.Timestamp, v, true
			}
		}
		return value
	}

	sum := 0.0
	for _, e := range entries {
		v, ok := e.MetricValue(g.Metric)
		if !ok || !inWindow(g, e.Timestamp, now, params) {
			continue
		}
		sum += v
	}
	return sum
}

// markMilestones sets IsReached on every milestone at or below progress and
// returns the ones newly reached by this call. Reached milestones are never
// cleared here.
func markMilestones(milestones []domain.Milestone, progress float64, now time.Time) []domain.Milestone {
	var reached []domain.Milestone
	for i := range milestones {
		m := &milestones[i]
		if m.IsReached || progress < m.Threshold {
			continue
		}
		at := now
		m.IsReached = true
		m.ReachedAt = &at
		reached = append(reached, *m)
	}
	return reached
}

// evaluate returns an updated copy of g reflecting entries at now.
func evaluate(g *domain.Goal, entries []domain.LogEntry, now time.Time, params *Params) *Update {
	updated := g.Clone()
	updated.CurrentValue = reduce(updated, entries, now, params)

	progress := updated.Progress()
	reached := markMilestones(updated.Milestones, progress, now)

	justCompleted := false
	if updated.CompletedAt == nil && progress >= 1 {
		at := now
		updated.CompletedAt = &at
		justCompleted = true
	}

	updated.UpdatedAt = now

	return &Update{
		Goal:              updated,
		Progress:          progress,
		State:             updated.State(now),
		ReachedMilestones: reached,
		JustCompleted:     justCompleted,
		DaysRemaining:     updated.DaysRemaining(now),
	}
}

// applyEdit copies the editable fields of p onto a copy of g and resets the
// evaluator-owned fields: milestones, completion and the current value.
func applyEdit(g *domain.Goal, p domain.GoalParams, now time.Time) *domain.Goal {
	edited := g.Clone()

	edited.Title = strings.TrimSpace(p.Title)
	edited.Category = p.Category
	edited.Direction = p.Direction
	edited.TargetValue = p.TargetValue
	edited.TargetUnit = p.TargetUnit
	edited.StartingValue = p.StartingValue
	edited.TargetDate = p.TargetDate
	edited.Frequency = p.Frequency

	if p.Metric != "" {
		edited.Metric = p.Metric
	} else if p.Category != g.Category {
		edited.Metric = domain.DefaultMetric(p.Category)
	}
	if !p.StartDate.IsZero() {
		edited.StartDate = p.StartDate
	}

	thresholds := p.Milestones
	if len(thresholds) == 0 {
		thresholds = make([]float64, len(g.Milestones))
		for i, m := range g.Milestones {
			thresholds[i] = m.Threshold
		}
	}
	edited.Milestones = make([]domain.Milestone, len(thresholds))
	for i, t := range thresholds {
		edited.Milestones[i] = domain.Milestone{Threshold: t}
	}

	edited.CompletedAt = nil
	edited.CurrentValue = edited.StartingValue
	edited.UpdatedAt = now

	return edited
}
