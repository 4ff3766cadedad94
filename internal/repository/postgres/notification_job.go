package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
)

// result is NULL until the job is processed; scan it as an empty document.
const jobColumns = `id, kind, payload, status, attempts, last_error,
	COALESCE(result::text, '') AS result, run_at, created_at, updated_at, processed_at`

type notificationJobRepository struct {
	BaseRepository
}

func NewNotificationJobRepository(db *sqlx.DB) repository.NotificationJobRepository {
	return &notificationJobRepository{NewBaseRepository(db)}
}

func (r *notificationJobRepository) Create(ctx context.Context, job *model.NotificationJob) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	if len(job.Payload) == 0 {
		return fmt.Errorf("job payload cannot be empty")
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now().UTC()
	if job.RunAt.IsZero() {
		job.RunAt = now
	}
	job.Status = model.JobStatusPending
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO notification_jobs (id, kind, payload, status, attempts, run_at, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query,
		job.ID,
		job.Kind,
		string(job.Payload),
		job.Status,
		job.Attempts,
		job.RunAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification job: %w", err)
	}
	return nil
}

func (r *notificationJobRepository) Get(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error) {
	var job model.NotificationJob
	query := `SELECT ` + jobColumns + ` FROM notification_jobs WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &job, query, id); err != nil {
		return nil, fmt.Errorf("failed to get notification job: %w", notFound(err))
	}
	return &job, nil
}

func (r *notificationJobRepository) List(ctx context.Context, filter model.JobFilter) ([]*model.NotificationJob, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM notification_jobs`
	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	jobs := []*model.NotificationJob{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notification jobs: %w", err)
	}
	return jobs, nil
}

func (r *notificationJobRepository) ClaimDue(ctx context.Context, limit int, leaseUntil time.Time) ([]*model.NotificationJob, error) {
	query := `
		UPDATE notification_jobs
		SET run_at = $2, updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM notification_jobs
			WHERE status IN ('pending', 'retry')
			AND run_at <= NOW()
			ORDER BY run_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns
	jobs := []*model.NotificationJob{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &jobs, query, limit, leaseUntil.UTC()); err != nil {
		return nil, fmt.Errorf("failed to claim notification jobs: %w", err)
	}
	return jobs, nil
}

func (r *notificationJobRepository) MarkProcessed(ctx context.Context, id uuid.UUID, result []byte) error {
	var res interface{}
	if len(result) > 0 {
		res = string(result)
	}
	query := `
		UPDATE notification_jobs
		SET status = 'processed',
			attempts = attempts + 1,
			result = $2::jsonb,
			last_error = NULL,
			processed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.ext(ctx).ExecContext(ctx, query, id, res)
	if err != nil {
		return fmt.Errorf("failed to mark job processed: %w", err)
	}
	return nil
}

func (r *notificationJobRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time) error {
	query := `
		UPDATE notification_jobs
		SET status = 'retry', attempts = $2, last_error = $3, run_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.ext(ctx).ExecContext(ctx, query, id, attempts, lastErr, runAt)
	if err != nil {
		return fmt.Errorf("failed to reschedule job: %w", err)
	}
	return nil
}

func (r *notificationJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	query := `
		UPDATE notification_jobs
		SET status = 'failed', attempts = $2, last_error = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.ext(ctx).ExecContext(ctx, query, id, attempts, lastErr)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

func (r *notificationJobRepository) Requeue(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notification_jobs
		SET status = 'pending', attempts = 0, run_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('failed', 'retry')
	`
	res, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}
	return nil
}

func (r *notificationJobRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM notification_jobs
		WHERE status = 'processed'
		AND processed_at < $1
	`
	result, err := r.ext(ctx).ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed jobs: %w", err)
	}
	return result.RowsAffected()
}
