package workers

import (
	"context"
	"time"

	"anamny_backend/internal/logger"
	"anamny_backend/internal/models"

	"gorm.io/gorm"
)

// ReminderWorker раз в сутки находит пользователей без активности в чате
// за последнюю неделю. Пока только логирует: push-доставка подключается позже.
type ReminderWorker struct {
	db *gorm.DB
}

func NewReminderWorker(db *gorm.DB) *ReminderWorker {
	return &ReminderWorker{db: db}
}

// Start запускает фоновые задачи напоминаний
func (w *ReminderWorker) Start(ctx context.Context) {
	go w.remindInactiveUsers(ctx)
}

func (w *ReminderWorker) remindInactiveUsers(ctx context.Context) {
	for {
		// Вычисляем время до следующей полуночи
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.WorkerLog("reminder", "stop", nil)
			return
		case <-timer.C:
		}

		cutoff := time.Now().AddDate(0, 0, -7)

		var count int64
		err := w.db.Model(&models.User{}).
			Where("is_active = ?", true).
			Where("id NOT IN (?)",
				w.db.Model(&models.ChatSession{}).
					Select("user_id").
					Where("updated_at > ?", cutoff),
			).
			Count(&count).Error
		if err != nil {
			logger.WorkerLog("reminder", "count inactive users", err)
			continue
		}

		logger.Info("Health check-in reminder candidates",
			"worker", "reminder",
			"inactive_users", count,
		)
	}
}
