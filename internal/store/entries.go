package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
)

// LogReader is the read-only view of the external record store.
type LogReader interface {
	// ListEntries returns the user's entries with a timestamp in
	// [from, to], ordered by timestamp. A user with no entries yields an
	// empty slice, not an error.
	ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.LogEntry, error)
}

// LogWriter appends entries to the record store.
type LogWriter interface {
	// AppendEntry stores entry for the user. Entries are immutable once
	// stored. Returns ErrInvalidEntity if the entry fails validation.
	AppendEntry(ctx context.Context, userID uuid.UUID, entry domain.LogEntry) error
}
