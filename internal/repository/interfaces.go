package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/myway/panel-api/internal/model"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	// Transactor runs fn in a database transaction. Repositories called with
	// the ctx passed to fn join that transaction.
	Transactor interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		// GetForUpdate locks the row until the surrounding transaction ends.
		GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		// List returns every patient ordered by last name, first name, id.
		List(ctx context.Context) ([]*model.Patient, error)
		Upsert(ctx context.Context, patient *model.Patient) error
	}

	QueueRepository interface {
		Create(ctx context.Context, entry *model.QueuePatient) error
		Get(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error)
		// GetForUpdate locks the row until the surrounding transaction ends.
		GetForUpdate(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error)
		Update(ctx context.Context, entry *model.QueuePatient) error
		Delete(ctx context.Context, id uuid.UUID) error
		// List returns every entry ordered by creation time.
		List(ctx context.Context) ([]*model.QueuePatient, error)
		Upsert(ctx context.Context, entry *model.QueuePatient) error
	}

	NotificationJobRepository interface {
		Create(ctx context.Context, job *model.NotificationJob) error
		Get(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error)
		List(ctx context.Context, filter model.JobFilter) ([]*model.NotificationJob, error)
		// ClaimDue leases up to limit due jobs by pushing their run_at to
		// leaseUntil, so no other worker picks them up meanwhile.
		ClaimDue(ctx context.Context, limit int, leaseUntil time.Time) ([]*model.NotificationJob, error)
		MarkProcessed(ctx context.Context, id uuid.UUID, result []byte) error
		MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
		// Requeue resets a job so the worker picks it up again.
		Requeue(ctx context.Context, id uuid.UUID) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	OperatorRepository interface {
		Create(ctx context.Context, op *model.Operator) error
		GetByEmail(ctx context.Context, email string) (*model.Operator, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Operator, error)
		UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	}
)
