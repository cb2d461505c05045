package workers

import (
	"context"
	"time"

	"anamny_backend/internal/logger"
	"anamny_backend/internal/repositories"

	"gorm.io/gorm"
)

// CleanupWorker периодически удаляет использованные и истёкшие
// токены сброса пароля.
type CleanupWorker struct {
	db        *gorm.DB
	resetRepo repositories.ResetTokenRepository
	interval  time.Duration
}

func NewCleanupWorker(db *gorm.DB, resetRepo repositories.ResetTokenRepository) *CleanupWorker {
	return &CleanupWorker{
		db:        db,
		resetRepo: resetRepo,
		interval:  1 * time.Hour,
	}
}

// Start запускает фоновую очистку токенов
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.cleanupExpiredTokens(ctx)
}

func (w *CleanupWorker) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("cleanup", "stop", nil)
			return
		case <-ticker.C:
			deleted, err := w.resetRepo.DeleteExpired(w.db)
			if err != nil {
				logger.WorkerLog("cleanup", "delete expired reset tokens", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Deleted stale reset tokens", "worker", "cleanup", "count", deleted)
			}
		}
	}
}
