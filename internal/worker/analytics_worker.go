package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/weekboard/api/internal/service"
)

// AnalyticsWorker periodically recomputes the unfiltered completion
// analytics snapshot so the admin dashboard read path stays warm even
// between requests.
type AnalyticsWorker struct {
	taskService *service.TaskService
	interval    time.Duration
	logger      *slog.Logger
}

func NewAnalyticsWorker(taskService *service.TaskService, interval time.Duration, logger *slog.Logger) *AnalyticsWorker {
	return &AnalyticsWorker{
		taskService: taskService,
		interval:    interval,
		logger:      logger,
	}
}

func (w *AnalyticsWorker) Start(ctx context.Context) {
	w.logger.Info("Analytics worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Warm the snapshot shortly after startup, once the rest of the
	// services have had a moment to come up.
	go func() {
		time.Sleep(5 * time.Second)
		w.refresh(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Analytics worker stopping")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *AnalyticsWorker) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := w.taskService.RefreshSnapshot(refreshCtx); err != nil {
		w.logger.Error("Failed to refresh analytics snapshot", "error", err)
		return
	}

	w.logger.Debug("Analytics snapshot refreshed")
}
