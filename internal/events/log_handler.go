package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/vitals/internal/platform/logger"
)

// LogHandler is the terminal sink used by the server: it records each
// delivered event as a structured log line.
type LogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*LogHandler)(nil)

// NewLogHandler creates a LogHandler. A nil logger falls back to slog.Default.
func NewLogHandler(log *slog.Logger) *LogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LogHandler{logger: log.With(slog.String("component", "event_log"))}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *Event) error {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("user_id", event.UserID.String()),
	}
	if event.Type == TypeAchievementFired {
		var p AchievementPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		attrs = append(attrs, slog.String("message", p.Message))
	}
	logger.FromContextOrDefault(ctx, h.logger).Info("event delivered", attrs...)
	return nil
}
