package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/repository"
)

// bumpVersion writes the current epoch millis into the status marker after a
// successful mutation. The data write already committed, so a failure here is
// logged rather than returned: every client's cache simply stays stale until
// the next successful write from anyone. The marker is coarse on purpose:
// one write anywhere invalidates every collection's snapshot for every
// client.
func bumpVersion(ctx context.Context, settings repository.SettingsRepository, logger zerolog.Logger) {
	if settings == nil {
		return
	}
	if err := settings.Touch(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to bump version marker")
	}
}
