package db

import (
	"context"
	"time"

	"github.com/smith3v/dove-bot/pkg/logger"
	"gorm.io/gorm"
)

const (
	OnboardingCleanupInterval = time.Hour
	OnboardingStateTTL        = 30 * 24 * time.Hour
)

// CleanupAbandonedOnboarding removes wizard state untouched since before cutoff.
func CleanupAbandonedOnboarding(gdb *gorm.DB, cutoff time.Time) (int64, error) {
	if gdb == nil {
		return 0, nil
	}
	res := gdb.Where("updated_at <= ?", cutoff).Delete(&OnboardingState{})
	return res.RowsAffected, res.Error
}

func StartOnboardingCleanup(ctx context.Context, gdb *gorm.DB) {
	ticker := time.NewTicker(OnboardingCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := CleanupAbandonedOnboarding(gdb, now.UTC().Add(-OnboardingStateTTL))
			if err != nil {
				logger.Error("failed to cleanup onboarding states", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("cleaned up abandoned onboarding states", "deleted", deleted)
			}
		}
	}
}
