package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
)

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.NotificationJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobRepo) Get(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*model.NotificationJob)
	return job, args.Error(1)
}

func (m *mockJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.NotificationJob, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]*model.NotificationJob)
	return jobs, args.Error(1)
}

func (m *mockJobRepo) ClaimDue(ctx context.Context, limit int, leaseUntil time.Time) ([]*model.NotificationJob, error) {
	args := m.Called(ctx, limit, leaseUntil)
	jobs, _ := args.Get(0).([]*model.NotificationJob)
	return jobs, args.Error(1)
}

func (m *mockJobRepo) MarkProcessed(ctx context.Context, id uuid.UUID, result []byte) error {
	return m.Called(ctx, id, result).Error(0)
}

func (m *mockJobRepo) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time) error {
	return m.Called(ctx, id, attempts, lastErr, runAt).Error(0)
}

func (m *mockJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return m.Called(ctx, id, attempts, lastErr).Error(0)
}

func (m *mockJobRepo) Requeue(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJobRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig() Config {
	return Config{
		BatchSize:    10,
		PollInterval: time.Second,
		MaxAttempts:  3,
		Lease:        time.Minute,
		Backoff: BackoffConfig{
			InitialInterval: time.Second,
			MaxInterval:     time.Minute,
			Multiplier:      2,
		},
	}
}

func newTestProcessor(t *testing.T, repo *mockJobRepo) *JobProcessor {
	t.Helper()
	p, err := NewJobProcessor(repo, testConfig(), logger.Nop(), metrics.New("test"))
	require.NoError(t, err)
	return p
}

func TestNewJobProcessor_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0
	_, err := NewJobProcessor(&mockJobRepo{}, cfg, logger.Nop(), metrics.New("test"))
	assert.Error(t, err)
}

func TestJobProcessor_DeliversAndRecordsResult(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	job := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientDischarged}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkProcessed", mock.Anything, job.ID, []byte(`{"success":true,"emailSent":true}`)).Return(nil)

	p.Handle(model.JobPatientDischarged, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		return []byte(`{"success":true,"emailSent":true}`), nil
	})

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	repo.AssertExpectations(t)
}

func TestJobProcessor_ReschedulesWithBackoff(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	job := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientAlert, Attempts: 1}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkRetry", mock.Anything, job.ID, 2, "upstream 502", now.Add(2*time.Second)).Return(nil)

	p.Handle(model.JobPatientAlert, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		return nil, errors.New("upstream 502")
	})

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestJobProcessor_FailsAfterMaxAttempts(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	job := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientCRMSync, Attempts: 2}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkFailed", mock.Anything, job.ID, 3, "timeout").Return(nil)

	p.Handle(model.JobPatientCRMSync, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		return nil, errors.New("timeout")
	})

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	repo.AssertNotCalled(t, "MarkRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestJobProcessor_PermanentErrorFailsImmediately(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	job := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientConfirmed}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkFailed", mock.Anything, job.ID, 1, mock.AnythingOfType("string")).Return(nil)

	p.Handle(model.JobPatientConfirmed, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		return nil, backoff.Permanent(errors.New("bad payload"))
	})

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestJobProcessor_UnknownKindFails(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	job := &model.NotificationJob{ID: uuid.New(), Kind: "patient.unknown"}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkFailed", mock.Anything, job.ID, 1, ErrNoHandler.Error()).Return(nil)

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestJobProcessor_ClaimError(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := p.ProcessBatch(context.Background())
	assert.ErrorContains(t, err, "failed to claim jobs")
}

func TestJobProcessor_NextDelay(t *testing.T) {
	p := newTestProcessor(t, &mockJobRepo{})

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, time.Minute, p.NextDelay(20))
}

func TestJobProcessor_LeasesClaimedJobs(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	repo.On("ClaimDue", mock.Anything, 10, now.Add(time.Minute)).Return([]*model.NotificationJob{}, nil)

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	repo.AssertExpectations(t)
}

func TestJobProcessor_SlowJobDoesNotBlockBatch(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	slow := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientConfirmed}
	fast := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientAlert}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{slow, fast}, nil)
	repo.On("MarkProcessed", mock.Anything, slow.ID, []byte(nil)).Return(nil)
	repo.On("MarkProcessed", mock.Anything, fast.ID, []byte(nil)).Return(nil)

	release := make(chan struct{})
	fastDone := make(chan struct{})
	p.Handle(model.JobPatientConfirmed, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		<-release
		return nil, nil
	})
	p.Handle(model.JobPatientAlert, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		close(fastDone)
		return nil, nil
	})

	done := make(chan int)
	go func() {
		n, err := p.ProcessBatch(context.Background())
		assert.NoError(t, err)
		done <- n
	}()

	select {
	case <-fastDone:
	case <-time.After(2 * time.Second):
		t.Fatal("alert job waited for the slow job")
	}
	close(release)
	assert.Equal(t, 2, <-done)
	repo.AssertExpectations(t)
}

func TestJobProcessor_MarkErrorIsReported(t *testing.T) {
	repo := &mockJobRepo{}
	p := newTestProcessor(t, repo)

	job := &model.NotificationJob{ID: uuid.New(), Kind: model.JobPatientAlert}
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]*model.NotificationJob{job}, nil)
	repo.On("MarkProcessed", mock.Anything, job.ID, []byte(nil)).Return(errors.New("connection reset"))
	p.Handle(model.JobPatientAlert, func(ctx context.Context, j *model.NotificationJob) ([]byte, error) {
		return nil, nil
	})

	n, err := p.ProcessBatch(context.Background())
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "failed to mark job")
}
