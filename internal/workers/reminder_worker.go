package workers

import (
	"context"
	"time"

	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/services"
)

// ReminderWorker drives the stale-application sweep on a ticker. The
// sweep itself is idempotent, so the worker and the HTTP trigger can
// coexist without coordination.
type ReminderWorker struct {
	reminderService services.ReminderService
	interval        time.Duration
}

func NewReminderWorker(reminderService services.ReminderService, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		reminderService: reminderService,
		interval:        interval,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ReminderWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Reminder worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			result, err := w.reminderService.SweepStaleApplications(ctx)
			if err != nil {
				logger.WorkerLog("reminder", "sweep", err)
				continue
			}
			logger.Info("Scheduled reminder sweep finished",
				"applications_processed", result.ApplicationsProcessed,
				"reminders_created", result.RemindersCreated,
				"reminders_sent", result.RemindersSent,
			)
		}
	}
}
