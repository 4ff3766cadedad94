package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/internal/service/notification"
	"github.com/myway/panel-api/internal/service/store"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
)

const ConfirmationRequired = "confirmation required"

type QueueService interface {
	Create(ctx context.Context, entry *model.QueuePatient) (*model.QueuePatient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error)
	List(ctx context.Context, filter model.QueueFilter) ([]*model.QueuePatient, error)
	Stats(ctx context.Context) (model.QueueStats, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateQueuePatientRequest) (*model.QueuePatient, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	AdmissionDraft(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Admit(ctx context.Context, id uuid.UUID, draft *model.Patient) (*model.Patient, error)
}

type Service struct {
	tx        repository.Transactor
	queue     repository.QueueRepository
	patients  repository.PatientRepository
	publisher store.Publisher
	notifier  notification.Service
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(
	tx repository.Transactor,
	queue repository.QueueRepository,
	patients repository.PatientRepository,
	publisher store.Publisher,
	notifier notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		tx:        tx,
		queue:     queue,
		patients:  patients,
		publisher: publisher,
		notifier:  notifier,
		logger:    log.With("queue"),
		now:       time.Now,
	}
}

// Create adds a waiting entry stamped with the current time.
func (s *Service) Create(ctx context.Context, entry *model.QueuePatient) (*model.QueuePatient, error) {
	entry.ID = uuid.New()
	entry.Status = model.QueueStatusWaiting
	entry.CreatedAt = s.now().UTC()
	if err := entry.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	if err := s.queue.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create queue entry: %w", err)
	}
	s.publish(ctx, model.CollectionQueue, "create", entry.ID)
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error) {
	entry, err := s.queue.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return entry, nil
}

// List returns the filtered queue in display order.
func (s *Service) List(ctx context.Context, filter model.QueueFilter) ([]*model.QueuePatient, error) {
	entries, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return filter.Apply(entries), nil
}

func (s *Service) Stats(ctx context.Context) (model.QueueStats, error) {
	entries, err := s.queue.List(ctx)
	if err != nil {
		return model.QueueStats{}, fmt.Errorf("failed to list queue: %w", err)
	}
	return model.NewQueueStats(entries), nil
}

// Update applies a partial change. Any status may follow any other; moving
// into confirmed enqueues the welcome flow.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQueuePatientRequest) (*model.QueuePatient, error) {
	var (
		entry     *model.QueuePatient
		confirmed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.queue.GetForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		prev := current.Status

		req.Apply(current)
		if err := current.Validate(); err != nil {
			return apperrors.BadRequest(err.Error(), err)
		}
		if err := s.queue.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update queue entry: %w", err)
		}

		entry = current
		confirmed = prev != model.QueueStatusConfirmed && current.Status == model.QueueStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.CollectionQueue, "update", id)
	if confirmed {
		s.notifier.QueueConfirmed(ctx, entry)
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.PreconditionRequired(ConfirmationRequired)
	}
	if err := s.queue.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.publish(ctx, model.CollectionQueue, "delete", id)
	return nil
}

// AdmissionDraft prefills a patient from the entry for the admission form.
func (s *Service) AdmissionDraft(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry.AdmissionDraft(s.now().Format(model.DateLayout)), nil
}

// Admit turns a queue entry into a patient. The patient insert and the queue
// delete commit together or not at all. A nil draft admits the prefilled
// record unchanged.
func (s *Service) Admit(ctx context.Context, id uuid.UUID, draft *model.Patient) (*model.Patient, error) {
	var patient *model.Patient
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.queue.GetForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}

		patient = draft
		if patient == nil {
			patient = entry.AdmissionDraft(s.now().Format(model.DateLayout))
		}
		if patient.Status == "" {
			patient.Status = model.PatientStatusActive
		}
		if err := patient.Validate(); err != nil {
			return apperrors.BadRequest(err.Error(), err)
		}
		patient.ID = uuid.New()

		if err := s.patients.Create(ctx, patient); err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		if err := s.queue.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to remove queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Queue entry admitted", "entry_id", id.String(), "patient_id", patient.ID.String())
	s.publish(ctx, model.CollectionPatients, "create", patient.ID)
	s.publish(ctx, model.CollectionQueue, "delete", id)
	s.notifier.PatientAdmitted(ctx, patient)
	return patient, nil
}

func (s *Service) publish(ctx context.Context, c model.Collection, op string, id uuid.UUID) {
	if err := s.publisher.Publish(ctx, c, op, id.String()); err != nil {
		s.logger.Error(err, "Failed to publish change", "collection", string(c), "op", op, "id", id.String())
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("queue entry", err)
	}
	return err
}
