// Package goal evaluates user goals against logged entries. It is pure: the
// caller supplies the entries and the clock, and receives updated copies.
package goal

import (
	"errors"
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// Common errors
var (
	ErrNilGoal = errors.New("goal cannot be nil")
)

// Update is the result of recomputing one goal.
type Update struct {
	// Goal is the updated copy. The goal passed in is never modified.
	Goal     *domain.Goal     `json:"goal"`
	Progress float64          `json:"progress"`
	State    domain.GoalState `json:"state"`
	// ReachedMilestones are the milestones first reached by this recompute.
	ReachedMilestones []domain.Milestone `json:"reached_milestones,omitempty"`
	// JustCompleted is true when this recompute latched CompletedAt.
	JustCompleted bool `json:"just_completed"`
	DaysRemaining int  `json:"days_remaining"`
}

// Service defines the interface for goal evaluation
type Service interface {
	// Recompute derives the goal's current value from entries and returns
	// the updated goal with its progress, state and newly reached milestones.
	Recompute(
		g *domain.Goal,
		entries []domain.LogEntry,
		now time.Time,
	) (*Update, error)

	// Edit applies a user edit to the goal. Milestones and the completion
	// latch are reset, which is the only way either is cleared.
	Edit(
		g *domain.Goal,
		p domain.GoalParams,
		now time.Time,
	) (*domain.Goal, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new goal service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new goal service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Recompute implements the Service interface
func (s *defaultService) Recompute(
	g *domain.Goal,
	entries []domain.LogEntry,
	now time.Time,
) (*Update, error) {
	if g == nil {
		return nil, ErrNilGoal
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return evaluate(g, entries, now, s.params), nil
}

// Edit implements the Service interface
func (s *defaultService) Edit(
	g *domain.Goal,
	p domain.GoalParams,
	now time.Time,
) (*domain.Goal, error) {
	if g == nil {
		return nil, ErrNilGoal
	}

	edited := applyEdit(g, p, now)
	if err := edited.Validate(); err != nil {
		return nil, err
	}

	return edited, nil
}
