package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/domain/goal"
)

// Event types
const (
	TypeAchievementFired = "achievement.fired"
	TypeGoalUpdated      = "goal.updated"
)

// ErrNilUpdate is returned when a goal event is built from a nil update.
var ErrNilUpdate = errors.New("goal update cannot be nil")

// Event is the envelope delivered to handlers.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID is the user the event belongs to
	UserID uuid.UUID `json:"user_id"`

	// Key and Day identify repeats: two events with the same user, type,
	// key and day are the same notification. An empty Key is never
	// considered a repeat.
	Key string `json:"key,omitempty"`
	Day string `json:"day,omitempty"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, userID uuid.UUID, payload interface{}, now time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payloadBytes,
		CreatedAt: now,
	}, nil
}

// AchievementPayload is the payload of an achievement.fired event.
type AchievementPayload struct {
	Achievement domain.AchievementEvent `json:"achievement"`
	Message     string                  `json:"message"`
}

// NewAchievementEvent wraps a detected achievement for delivery. Repeats
// are keyed by achievement kind and day. Weight loss is also keyed by the
// pair of weigh-ins, so each new lower reading is delivered while a
// re-detection of the same pair is not.
func NewAchievementEvent(userID uuid.UUID, a domain.AchievementEvent) (*Event, error) {
	event, err := NewEvent(TypeAchievementFired, userID, AchievementPayload{
		Achievement: a,
		Message:     a.Message(),
	}, a.FiredAt)
	if err != nil {
		return nil, err
	}
	event.Key = string(a.Kind)
	if a.Kind == domain.AchievementWeightLoss {
		event.Key = fmt.Sprintf("%s:%g:%g", a.Kind, a.Payload.PreviousWeight, a.Payload.CurrentWeight)
	}
	event.Day = a.Day
	return event, nil
}

// NewGoalUpdatedEvent wraps a goal recompute result for delivery.
func NewGoalUpdatedEvent(userID uuid.UUID, update *goal.Update, now time.Time) (*Event, error) {
	if update == nil {
		return nil, ErrNilUpdate
	}
	return NewEvent(TypeGoalUpdated, userID, update, now)
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
