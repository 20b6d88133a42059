package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReminderSender отправляет напоминания о ближайших уроках
type ReminderSender interface {
	SendReminders(ctx context.Context, lead time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reminders ReminderSender
	lead      time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewScheduler создаёт новый планировщик
func NewScheduler(reminders ReminderSender, lead, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		lead:      lead,
		interval:  interval,
		logger:    logger,
	}
}

// Run выполняет задачи до отмены ctx
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting background scheduler",
		zap.Duration("reminder_lead", s.lead),
		zap.Duration("interval", s.interval),
	)

	// Первый запуск сразу при старте
	s.sendReminders(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminders(ctx)
		case <-ctx.Done():
			s.logger.Info("Reminder task stopped")
			return nil
		}
	}
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	sent, err := s.reminders.SendReminders(ctx, s.lead)
	if err != nil {
		s.logger.Error("Failed to send lesson reminders", zap.Error(err), zap.Int("sent", sent))
		return
	}

	if sent > 0 {
		s.logger.Info("Lesson reminders sent", zap.Int("count", sent))
	}
}
