package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
)

// GoalStore persists goals. Writes replace the whole record, so the last
// write wins.
type GoalStore interface {
	// CreateGoal stores a new goal for the user.
	// Returns ErrGoalExists if a goal with the same ID is already stored.
	// Returns ErrInvalidEntity if the goal fails validation.
	CreateGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error

	// GetGoal retrieves one goal.
	// Returns ErrGoalNotFound if the user has no goal with that ID.
	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error)

	// ListGoals returns every goal of the user ordered by creation time.
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error)

	// SaveGoal replaces a stored goal with g.
	// Returns ErrGoalNotFound if the goal was never created.
	SaveGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error
}
