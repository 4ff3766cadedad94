package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/internal/service/notification"
	"github.com/myway/panel-api/internal/service/store"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
)

// ConfirmationRequired is returned by destructive calls made without confirm.
const ConfirmationRequired = "confirmation required"

type PatientService interface {
	Create(ctx context.Context, patient *model.Patient) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Discharge(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
}

type Service struct {
	tx        repository.Transactor
	repo      repository.PatientRepository
	publisher store.Publisher
	notifier  notification.Service
	logger    *logger.Logger
}

func NewService(
	tx repository.Transactor,
	repo repository.PatientRepository,
	publisher store.Publisher,
	notifier notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		tx:        tx,
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		logger:    log.With("patient"),
	}
}

// Create stores a new patient under a fresh id. Any id on the input is ignored.
func (s *Service) Create(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	if patient.Status == "" {
		patient.Status = model.PatientStatusActive
	}
	if err := patient.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	patient.ID = uuid.New()
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.publish(ctx, "create", patient.ID)
	s.notifier.PatientCreated(ctx, patient)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return patient, nil
}

// List returns patients ordered by last name with filter applied.
func (s *Service) List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return filter.Apply(patients), nil
}

// Update changes only the fields present in req. Moving a patient into
// discharged enqueues the farewell mail once; the row lock keeps two
// concurrent discharges from both seeing the old status. Discharged is final.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	var (
		patient    *model.Patient
		discharged bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		wasDischarged := current.IsDischarged()
		if wasDischarged && req.Status != nil && *req.Status != model.PatientStatusDischarged {
			return apperrors.Conflict("discharged patient cannot change status", nil)
		}

		req.Apply(current)
		if err := current.Validate(); err != nil {
			return apperrors.BadRequest(err.Error(), err)
		}
		if err := s.repo.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}

		patient = current
		discharged = !wasDischarged && current.IsDischarged()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "update", id)
	if discharged {
		s.logger.Info("Patient discharged", "patient_id", id.String())
		s.notifier.PatientDischarged(ctx, patient)
	}
	return patient, nil
}

func (s *Service) Discharge(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	status := model.PatientStatusDischarged
	return s.Update(ctx, id, &model.UpdatePatientRequest{Status: &status})
}

// Delete removes the patient. Without confirmation nothing happens.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.PreconditionRequired(ConfirmationRequired)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.publish(ctx, "delete", id)
	return nil
}

func (s *Service) publish(ctx context.Context, op string, id uuid.UUID) {
	if err := s.publisher.Publish(ctx, model.CollectionPatients, op, id.String()); err != nil {
		s.logger.Error(err, "Failed to publish patient change", "op", op, "patient_id", id.String())
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	return err
}
