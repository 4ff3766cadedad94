package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var patientRowColumns = []string{
	"id", "first_name", "last_name", "pesel", "birth_date", "id_series", "address", "voivodeship",
	"phone", "email", "application_date", "treatment_start_date", "treatment_end_date", "package",
	"total_amount", "amount_paid", "payment_deadline", "is_week5", "has_whatsapp",
	"online_consultations", "notes", "status", "created_at", "updated_at",
}

func patientRow(id uuid.UUID, first, last string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id.String(), first, last, "90010112345", "1990-01-01", "ABC 123456", "ul. Leśna 1", "pomorskie",
		"600100200", "jan@example.com", "2024-05-01", "2024-05-10", "2024-06-07", "1",
		5000.0, 2500.0, "2024-05-20", false, true,
		2, "", "active", now, now,
	}
}

func TestPatientRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	p := &model.Patient{ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Package: model.Package1, Status: model.PatientStatusActive}
	mock.ExpectExec("INSERT INTO patients").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(patientRowColumns).AddRow(patientRow(id, "Jan", "Kowalski")...))

	p, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, model.Package1, p.Package)
	assert.Equal(t, 2500.0, p.AmountDue())
	assert.True(t, p.HasWhatsapp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM patients").WithArgs(id).WillReturnRows(sqlmock.NewRows(patientRowColumns))

	_, err := repo.Get(context.Background(), id)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestPatientRepository_ListOrderedByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	rows := sqlmock.NewRows(patientRowColumns).
		AddRow(patientRow(uuid.New(), "Anna", "Adamska")...).
		AddRow(patientRow(uuid.New(), "Jan", "Kowalski")...)
	mock.ExpectQuery("ORDER BY last_name ASC, first_name ASC, id ASC").WillReturnRows(rows)

	patients, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "Adamska", patients[0].LastName)
}

func TestPatientRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM patients WHERE id = \\$1").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestPatientRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectExec("INSERT INTO patients (.+) ON CONFLICT \\(id\\) DO UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), &model.Patient{ID: uuid.New(), FirstName: "A", LastName: "B", Package: model.Package2}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_CommitsAndJoins(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	queue := NewQueueRepository(db)
	patients := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO patients").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM queue").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		// a nested call joins the outer transaction
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := patients.Create(ctx, &model.Patient{ID: uuid.New(), FirstName: "A", LastName: "B", Package: model.Package1}); err != nil {
				return err
			}
			return queue.Delete(ctx, id)
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	patients := NewPatientRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO patients").WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return patients.Create(ctx, &model.Patient{ID: uuid.New(), FirstName: "A", LastName: "B", Package: model.Package1})
	})
	assert.ErrorContains(t, err, "unique violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

var queueRowColumns = []string{
	"id", "first_name", "last_name", "phone", "email", "package", "deposit_amount",
	"deposit_date", "planned_start_date", "planned_end_date", "notes", "status", "created_at",
}

func TestQueueRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM queue WHERE id = \\$1 FOR UPDATE").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(queueRowColumns).AddRow(
			id.String(), "Anna", "Nowak", "600100200", "", "2", 800.0,
			"2024-05-01", "2024-06-01", "2024-06-28", "", "confirmed", time.Now(),
		))

	entry, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusConfirmed, entry.Status)
	assert.Equal(t, 800.0, entry.DepositAmount)
}

func TestQueueRepository_ListOrderedByCreation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db)

	mock.ExpectQuery("FROM queue ORDER BY created_at ASC").WillReturnRows(sqlmock.NewRows(queueRowColumns))

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

var jobRowColumns = []string{
	"id", "kind", "payload", "status", "attempts", "last_error", "result",
	"run_at", "created_at", "updated_at", "processed_at",
}

func TestNotificationJobRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationJobRepository(db)

	job, err := model.NewNotificationJob(model.JobPatientAlert, model.PatientJobPayload{Patient: &model.Patient{FirstName: "Jan"}})
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO notification_jobs").
		WithArgs(job.ID, job.Kind, string(job.Payload), model.JobStatusPending, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationJobRepository_CreateRejectsEmptyPayload(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewNotificationJobRepository(db)

	err := repo.Create(context.Background(), &model.NotificationJob{Kind: model.JobPatientAlert})
	assert.Error(t, err)
}

func TestNotificationJobRepository_ClaimDue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationJobRepository(db)
	now := time.Now()
	leaseUntil := now.Add(5 * time.Minute)

	mock.ExpectQuery(`UPDATE notification_jobs\s+SET run_at = \$2(.|\s)+FOR UPDATE SKIP LOCKED(.|\s)+RETURNING`).
		WithArgs(5, leaseUntil.UTC()).
		WillReturnRows(sqlmock.NewRows(jobRowColumns).AddRow(
			uuid.New().String(), "patient.discharged", []byte(`{"patient":{}}`), "retry", 2, "timeout", []byte(""),
			now, now, now, nil,
		))

	jobs, err := repo.ClaimDue(context.Background(), 5, leaseUntil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, model.JobPatientDischarged, jobs[0].Kind)
	assert.Equal(t, 2, jobs[0].Attempts)
	require.NotNil(t, jobs[0].LastError)
	assert.Equal(t, "timeout", *jobs[0].LastError)
	assert.Empty(t, jobs[0].Result)
}

func TestNotificationJobRepository_RequeueOnlyFinishedJobs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationJobRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE notification_jobs").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Requeue(context.Background(), id)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestOperatorRepository_GetByEmailCaseInsensitive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOperatorRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
		WithArgs("Biuro@Osrodek-MyWay.pl").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "display_name", "password_hash", "created_at", "updated_at"}).
			AddRow(id.String(), "biuro@osrodek-myway.pl", "Biuro", "$2a$hash", now, now))

	op, err := repo.GetByEmail(context.Background(), " Biuro@Osrodek-MyWay.pl ")
	require.NoError(t, err)
	assert.Equal(t, id, op.ID)
}
