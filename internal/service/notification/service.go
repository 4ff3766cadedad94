package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
)

const defaultJobLimit = 100

// Service enqueues relay jobs after primary writes and exposes them for ops.
// Enqueue methods never return errors: a lost notification must not undo a
// committed write.
type Service interface {
	PatientCreated(ctx context.Context, p *model.Patient)
	// PatientAdmitted is PatientCreated for a patient coming from the queue,
	// plus mailing-list enrollment.
	PatientAdmitted(ctx context.Context, p *model.Patient)
	PatientDischarged(ctx context.Context, p *model.Patient)
	QueueConfirmed(ctx context.Context, entry *model.QueuePatient)

	ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.NotificationJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error)
	RetryJob(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error)
}

type service struct {
	jobs    repository.NotificationJobRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(jobs repository.NotificationJobRepository, log *logger.Logger, m *metrics.Metrics) Service {
	return &service{
		jobs:    jobs,
		logger:  log.With("notification"),
		metrics: m,
	}
}

// PatientCreated enqueues the clinic alert and, for package 3, the booking sync.
func (s *service) PatientCreated(ctx context.Context, p *model.Patient) {
	payload := model.PatientJobPayload{Patient: p}
	s.enqueue(ctx, model.JobPatientAlert, payload)
	if p.Package == model.Package3 {
		s.enqueue(ctx, model.JobPatientCRMSync, payload)
	}
}

func (s *service) PatientAdmitted(ctx context.Context, p *model.Patient) {
	s.PatientCreated(ctx, p)
	s.enqueue(ctx, model.JobPatientEnroll, model.PatientJobPayload{Patient: p})
}

func (s *service) PatientDischarged(ctx context.Context, p *model.Patient) {
	s.enqueue(ctx, model.JobPatientDischarged, model.PatientJobPayload{Patient: p})
}

func (s *service) QueueConfirmed(ctx context.Context, entry *model.QueuePatient) {
	s.enqueue(ctx, model.JobPatientConfirmed, model.QueueJobPayload{Entry: entry})
}

func (s *service) enqueue(ctx context.Context, kind model.JobKind, payload interface{}) {
	job, err := model.NewNotificationJob(kind, payload)
	if err == nil {
		err = s.jobs.Create(ctx, job)
	}
	if err != nil {
		s.logger.Error(err, "Failed to enqueue notification", "kind", string(kind))
		s.count(kind, "error")
		return
	}
	s.logger.Debug("Notification enqueued", "kind", string(kind), "job_id", job.ID.String())
	s.count(kind, "ok")
}

func (s *service) count(kind model.JobKind, status string) {
	if s.metrics != nil {
		s.metrics.JobsEnqueued.WithLabelValues(string(kind), status).Inc()
	}
}

func (s *service) ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.NotificationJob, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultJobLimit
	}
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *service) GetJob(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("job", err)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// RetryJob puts a failed or retrying job back on the queue with a fresh attempt count.
func (s *service) RetryJob(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusFailed && job.Status != model.JobStatusRetry {
		return nil, apperrors.Conflict(fmt.Sprintf("job is %s", job.Status), nil)
	}
	if err := s.jobs.Requeue(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to requeue job: %w", err)
	}
	s.logger.Info("Notification job requeued", "job_id", id.String(), "kind", string(job.Kind))
	return s.GetJob(ctx, id)
}
