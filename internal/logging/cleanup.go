package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than
// retentionDays.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeSystemLogs(db, time.Now().AddDate(0, 0, -retentionDays))
				if err != nil {
					slog.Error("log cleanup failed", "action", "log_cleanup", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "action", "log_cleanup", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}

func PurgeSystemLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
