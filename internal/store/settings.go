package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
)

// SettingsReader reads the per-user daily targets.
type SettingsReader interface {
	// GetSettings returns the user's settings.
	// Returns ErrSettingsNotFound if the user never saved any.
	GetSettings(ctx context.Context, userID uuid.UUID) (domain.Settings, error)
}

// SettingsWriter stores the per-user daily targets.
type SettingsWriter interface {
	// SaveSettings replaces the user's settings.
	SaveSettings(ctx context.Context, userID uuid.UUID, s domain.Settings) error
}
