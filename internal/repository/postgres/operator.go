package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
)

// ErrDuplicateEmail is returned when an operator with the email already exists.
var ErrDuplicateEmail = fmt.Errorf("operator email already exists")

const operatorColumns = `id, email, display_name, password_hash, created_at, updated_at`

type operatorRepository struct {
	BaseRepository
}

func NewOperatorRepository(db *sqlx.DB) repository.OperatorRepository {
	return &operatorRepository{NewBaseRepository(db)}
}

func (r *operatorRepository) Create(ctx context.Context, op *model.Operator) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	now := time.Now().UTC()
	op.CreatedAt = now
	op.UpdatedAt = now
	op.Email = strings.TrimSpace(op.Email)

	query := `INSERT INTO operators (` + operatorColumns + `)
		VALUES (:id, :email, :display_name, :password_hash, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, op); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*model.Operator, error) {
	var op model.Operator
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE LOWER(email) = LOWER($1)`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &op, query, strings.TrimSpace(email)); err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", notFound(err))
	}
	return &op, nil
}

func (r *operatorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var op model.Operator
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &op, query, id); err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", notFound(err))
	}
	return &op, nil
}

func (r *operatorRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.ext(ctx).ExecContext(ctx,
		`UPDATE operators SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update operator password: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update operator password: %w", err)
	}
	return nil
}
