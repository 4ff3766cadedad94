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

const queueColumns = `id, first_name, last_name, phone, email, package, deposit_amount,
	deposit_date, planned_start_date, planned_end_date, notes, status, created_at`

const queueValues = `:id, :first_name, :last_name, :phone, :email, :package, :deposit_amount,
	:deposit_date, :planned_start_date, :planned_end_date, :notes, :status, :created_at`

const queueAssignments = `first_name = :first_name, last_name = :last_name, phone = :phone,
	email = :email, package = :package, deposit_amount = :deposit_amount,
	deposit_date = :deposit_date, planned_start_date = :planned_start_date,
	planned_end_date = :planned_end_date, notes = :notes, status = :status`

type queueRepository struct {
	BaseRepository
}

func NewQueueRepository(db *sqlx.DB) repository.QueueRepository {
	return &queueRepository{NewBaseRepository(db)}
}

func (r *queueRepository) Create(ctx context.Context, entry *model.QueuePatient) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO queue (` + queueColumns + `) VALUES (` + queueValues + `)`
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, entry); err != nil {
		return fmt.Errorf("failed to create queue entry: %w", err)
	}
	return nil
}

func (r *queueRepository) Get(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error) {
	return r.get(ctx, `SELECT `+queueColumns+` FROM queue WHERE id = $1`, id)
}

func (r *queueRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error) {
	return r.get(ctx, `SELECT `+queueColumns+` FROM queue WHERE id = $1 FOR UPDATE`, id)
}

func (r *queueRepository) get(ctx context.Context, query string, id uuid.UUID) (*model.QueuePatient, error) {
	var entry model.QueuePatient
	if err := sqlx.GetContext(ctx, r.ext(ctx), &entry, query, id); err != nil {
		return nil, fmt.Errorf("failed to get queue entry: %w", notFound(err))
	}
	return &entry, nil
}

func (r *queueRepository) Update(ctx context.Context, entry *model.QueuePatient) error {
	query := `UPDATE queue SET ` + queueAssignments + ` WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, entry)
	if err != nil {
		return fmt.Errorf("failed to update queue entry: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update queue entry: %w", err)
	}
	return nil
}

func (r *queueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM queue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	return nil
}

func (r *queueRepository) List(ctx context.Context) ([]*model.QueuePatient, error) {
	query := `SELECT ` + queueColumns + ` FROM queue ORDER BY created_at ASC, id ASC`
	entries := []*model.QueuePatient{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return entries, nil
}

func (r *queueRepository) Upsert(ctx context.Context, entry *model.QueuePatient) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO queue (` + queueColumns + `) VALUES (` + queueValues + `)
		ON CONFLICT (id) DO UPDATE SET ` + queueAssignments + `, created_at = :created_at`
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, entry); err != nil {
		return fmt.Errorf("failed to upsert queue entry: %w", err)
	}
	return nil
}
