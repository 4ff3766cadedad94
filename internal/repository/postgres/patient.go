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

const patientColumns = `id, first_name, last_name, pesel, birth_date, id_series, address, voivodeship,
	phone, email, application_date, treatment_start_date, treatment_end_date, package,
	total_amount, amount_paid, payment_deadline, is_week5, has_whatsapp,
	online_consultations, notes, status, created_at, updated_at`

const patientValues = `:id, :first_name, :last_name, :pesel, :birth_date, :id_series, :address, :voivodeship,
	:phone, :email, :application_date, :treatment_start_date, :treatment_end_date, :package,
	:total_amount, :amount_paid, :payment_deadline, :is_week5, :has_whatsapp,
	:online_consultations, :notes, :status, :created_at, :updated_at`

const patientAssignments = `first_name = :first_name, last_name = :last_name, pesel = :pesel,
	birth_date = :birth_date, id_series = :id_series, address = :address,
	voivodeship = :voivodeship, phone = :phone, email = :email,
	application_date = :application_date, treatment_start_date = :treatment_start_date,
	treatment_end_date = :treatment_end_date, package = :package,
	total_amount = :total_amount, amount_paid = :amount_paid,
	payment_deadline = :payment_deadline, is_week5 = :is_week5,
	has_whatsapp = :has_whatsapp, online_consultations = :online_consultations,
	notes = :notes, status = :status, updated_at = :updated_at`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	query := `INSERT INTO patients (` + patientColumns + `) VALUES (` + patientValues + `)`
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.get(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
}

func (r *patientRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.get(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1 FOR UPDATE`, id)
}

func (r *patientRepository) get(ctx context.Context, query string, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.ext(ctx), &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", notFound(err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()

	query := `UPDATE patients SET ` + patientAssignments + ` WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY last_name ASC, first_name ASC, id ASC`
	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// Upsert writes the patient exactly as given, keeping its id and timestamps.
func (r *patientRepository) Upsert(ctx context.Context, patient *model.Patient) error {
	now := time.Now().UTC()
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = now
	}
	if patient.UpdatedAt.IsZero() {
		patient.UpdatedAt = now
	}

	query := `INSERT INTO patients (` + patientColumns + `) VALUES (` + patientValues + `)
		ON CONFLICT (id) DO UPDATE SET ` + patientAssignments
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, patient); err != nil {
		return fmt.Errorf("failed to upsert patient: %w", err)
	}
	return nil
}
