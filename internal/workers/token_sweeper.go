package workers

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/baselog-dev/baselog/internal/models"
)

// DefaultSweepSchedule purges revoked tokens once an hour.
const DefaultSweepSchedule = "@hourly"

// StartTokenSweeper purges expired revocations now and then on schedule.
// Stop the returned scheduler on shutdown.
func StartTokenSweeper(db *gorm.DB, schedule string, logger zerolog.Logger) (*cron.Cron, error) {
	sweep := func() {
		if _, err := PurgeRevokedTokens(db, time.Now().UTC(), logger); err != nil {
			logger.Error().Err(err).Msg("Failed to purge revoked tokens")
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	sweep()
	c.Start()

	logger.Debug().Str("schedule", schedule).Msg("Token sweeper started")
	return c, nil
}

// PurgeRevokedTokens deletes revocations of tokens that expired before now.
// Past that point the signature check rejects them on its own.
func PurgeRevokedTokens(db *gorm.DB, now time.Time, logger zerolog.Logger) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete revoked tokens: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		logger.Info().Int64("purged", result.RowsAffected).Msg("Purged expired token revocations")
	}
	return result.RowsAffected, nil
}
