package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/store"
)

type userData struct {
	entries  []domain.LogEntry
	goals    map[uuid.UUID]*domain.Goal
	settings *domain.Settings
}

// Store keeps entries, goals and settings per user in memory. It is safe
// for concurrent use. Values are copied on the way in and out.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*userData
	validate *validator.Validate
	logger   *slog.Logger
}

// Ensure Store implements the store interfaces
var (
	_ store.LogReader      = (*Store)(nil)
	_ store.LogWriter      = (*Store)(nil)
	_ store.GoalStore      = (*Store)(nil)
	_ store.SettingsReader = (*Store)(nil)
	_ store.SettingsWriter = (*Store)(nil)
)

// NewStore creates an empty Store.
// If logger is nil, a default logger will be used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		users:    make(map[uuid.UUID]*userData),
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "memory_store")),
	}
}

// user returns the user's data, creating it when create is true.
// Callers must hold the appropriate lock.
func (s *Store) user(id uuid.UUID, create bool) *userData {
	u, ok := s.users[id]
	if !ok && create {
		u = &userData{goals: make(map[uuid.UUID]*domain.Goal)}
		s.users[id] = u
	}
	return u
}

// AppendEntry implements store.LogWriter.AppendEntry
func (s *Store) AppendEntry(ctx context.Context, userID uuid.UUID, entry domain.LogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validate.Struct(entry); err != nil {
		log.Warn("entry validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("entry", "append", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	s.mu.Lock()
	u := s.user(userID, true)
	// keep entries ordered by timestamp; equal timestamps keep insertion order
	i := sort.Search(len(u.entries), func(i int) bool {
		return u.entries[i].Timestamp.After(entry.Timestamp)
	})
	u.entries = append(u.entries, domain.LogEntry{})
	copy(u.entries[i+1:], u.entries[i:])
	u.entries[i] = entry
	s.mu.Unlock()

	log.Debug("entry appended",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.String("kind", string(entry.Kind)))
	return nil
}

// ListEntries implements store.LogReader.ListEntries
func (s *Store) ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LogEntry, 0)
	u := s.user(userID, false)
	if u == nil {
		return out, nil
	}
	for _, e := range u.entries {
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// CreateGoal implements store.GoalStore.CreateGoal
func (s *Store) CreateGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if g == nil {
		return fmt.Errorf("%w: goal is nil", store.ErrInvalidEntity)
	}
	if err := g.Validate(); err != nil {
		log.Warn("goal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("goal_id", g.ID.String()))
		return store.NewStoreError("goal", "create", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, true)
	if _, exists := u.goals[g.ID]; exists {
		return store.ErrGoalExists
	}
	u.goals[g.ID] = g.Clone()

	log.Info("goal created",
		slog.String("user_id", userID.String()),
		slog.String("goal_id", g.ID.String()),
		slog.String("category", string(g.Category)))
	return nil
}

// GetGoal implements store.GoalStore.GetGoal
func (s *Store) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.user(userID, false)
	if u == nil {
		return nil, store.ErrGoalNotFound
	}
	g, ok := u.goals[goalID]
	if !ok {
		return nil, store.ErrGoalNotFound
	}
	return g.Clone(), nil
}

// ListGoals implements store.GoalStore.ListGoals
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]*domain.Goal, 0)
	u := s.user(userID, false)
	if u == nil {
		return goals, nil
	}
	for _, g := range u.goals {
		goals = append(goals, g.Clone())
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID.String() < goals[j].ID.String()
	})
	return goals, nil
}

// SaveGoal implements store.GoalStore.SaveGoal
func (s *Store) SaveGoal(ctx context.Context, userID uuid.UUID, g *domain.Goal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if g == nil {
		return fmt.Errorf("%w: goal is nil", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, false)
	if u == nil {
		return store.ErrGoalNotFound
	}
	if _, ok := u.goals[g.ID]; !ok {
		return store.ErrGoalNotFound
	}
	u.goals[g.ID] = g.Clone()

	log.Debug("goal saved",
		slog.String("user_id", userID.String()),
		slog.String("goal_id", g.ID.String()))
	return nil
}

// GetSettings implements store.SettingsReader.GetSettings
func (s *Store) GetSettings(ctx context.Context, userID uuid.UUID) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.user(userID, false)
	if u == nil || u.settings == nil {
		return domain.Settings{}, store.ErrSettingsNotFound
	}
	return *u.settings, nil
}

// SaveSettings implements store.SettingsWriter.SaveSettings
func (s *Store) SaveSettings(ctx context.Context, userID uuid.UUID, settings domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return store.NewStoreError("settings", "save", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, true)
	u.settings = &settings
	return nil
}
