package goal

import (
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// Statistics summarizes a user's goals at a point in time. Active,
// Completed and Overdue partition Total.
type Statistics struct {
	Total          int                         `json:"total"`
	Active         int                         `json:"active"`
	Completed      int                         `json:"completed"`
	Overdue        int                         `json:"overdue"`
	CompletionRate float64                     `json:"completion_rate"`
	ByCategory     map[domain.GoalCategory]int `json:"by_category"`
}

// Summarize computes statistics over goals. Nil goals are skipped.
func Summarize(goals []*domain.Goal, now time.Time) Statistics {
	stats := Statistics{ByCategory: make(map[domain.GoalCategory]int)}

	for _, g := range goals {
		if g == nil {
			continue
		}
		stats.Total++
		stats.ByCategory[g.Category]++

		switch g.State(now) {
		case domain.GoalCompleted:
			stats.Completed++
		case domain.GoalOverdue:
			stats.Overdue++
		default:
			stats.Active++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	return stats
}
