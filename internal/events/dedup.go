package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/platform/logger"
)

type dedupKey struct {
	userID    uuid.UUID
	eventType string
	key       string
	day       string
}

// DailyDeduplicator forwards an event to the wrapped handler only the first
// time its (user, type, key, day) is seen. Events without a Key always pass.
// A failed delivery is forgotten so a later emit can retry it.
type DailyDeduplicator struct {
	next   EventHandler
	logger *slog.Logger

	mu   sync.Mutex
	seen map[dedupKey]struct{}
}

var _ EventHandler = (*DailyDeduplicator)(nil)

// NewDailyDeduplicator wraps next. It panics if next is nil.
func NewDailyDeduplicator(next EventHandler, log *slog.Logger) *DailyDeduplicator {
	if next == nil {
		panic("next handler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DailyDeduplicator{
		next:   next,
		logger: log.With(slog.String("component", "daily_deduplicator")),
		seen:   make(map[dedupKey]struct{}),
	}
}

// HandleEvent implements EventHandler.
func (d *DailyDeduplicator) HandleEvent(ctx context.Context, event *Event) error {
	if event.Key == "" {
		return d.next.HandleEvent(ctx, event)
	}

	k := dedupKey{userID: event.UserID, eventType: event.Type, key: event.Key, day: event.Day}

	d.mu.Lock()
	if _, dup := d.seen[k]; dup {
		d.mu.Unlock()
		logger.FromContextOrDefault(ctx, d.logger).Debug("dropping repeated event",
			slog.String("event_type", event.Type),
			slog.String("key", event.Key),
			slog.String("day", event.Day))
		return nil
	}
	d.seen[k] = struct{}{}
	d.mu.Unlock()

	if err := d.next.HandleEvent(ctx, event); err != nil {
		d.mu.Lock()
		delete(d.seen, k)
		d.mu.Unlock()
		return err
	}
	return nil
}

// Prune forgets every key recorded for a day before day (YYYY-MM-DD).
// It returns the number of keys removed.
func (d *DailyDeduplicator) Prune(day string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for k := range d.seen {
		if k.day < day {
			delete(d.seen, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of keys currently remembered.
func (d *DailyDeduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
