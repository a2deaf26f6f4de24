package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockGoalStore mocks the store.GoalStore interface
type MockGoalStore struct {
	mock.Mock
}

func (m *MockGoalStore) CreateGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error {
	args := m.Called(ctx, userID, g)
	return args.Error(0)
}

func (m *MockGoalStore) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalStore) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalStore) SaveGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error {
	args := m.Called(ctx, userID, g)
	return args.Error(0)
}

// recordingHandler collects delivered events. Goals are recomputed
// concurrently, so it locks.
type recordingHandler struct {
	mu     sync.Mutex
	events []*events.Event
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) ofType(eventType string) []*events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*events.Event
	for _, e := range h.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
