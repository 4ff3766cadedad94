package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/pkg/logger"
)

// JobCleanupWorker removes delivered notification jobs past their retention.
// Failed jobs are kept for inspection.
type JobCleanupWorker struct {
	repo            repository.NotificationJobRepository
	retention       time.Duration
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewJobCleanupWorker(repo repository.NotificationJobRepository, retention, cleanupInterval time.Duration, log *logger.Logger) *JobCleanupWorker {
	return &JobCleanupWorker{
		repo:            repo,
		retention:       retention,
		cleanupInterval: cleanupInterval,
		logger:          log.With("job_cleanup"),
	}
}

func (w *JobCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Cleanup(ctx); err != nil {
				w.logger.Error(err, "Error cleaning up notification jobs")
			}
		}
	}
}

func (w *JobCleanupWorker) Cleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-w.retention)

	rows, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup notification jobs: %w", err)
	}

	if rows > 0 {
		w.logger.Info("Cleaned up processed notification jobs", "rows", rows, "cutoff", cutoff)
	}
	return nil
}
