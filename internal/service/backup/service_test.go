package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPatients struct {
	repository.PatientRepository
	rows map[uuid.UUID]model.Patient
	err  error
}

func (m *memPatients) List(ctx context.Context) ([]*model.Patient, error) {
	out := []*model.Patient{}
	for _, p := range m.rows {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (m *memPatients) Upsert(ctx context.Context, p *model.Patient) error {
	if m.err != nil {
		return m.err
	}
	m.rows[p.ID] = *p
	return nil
}

type memQueue struct {
	repository.QueueRepository
	rows map[uuid.UUID]model.QueuePatient
}

func (m *memQueue) List(ctx context.Context) ([]*model.QueuePatient, error) {
	out := []*model.QueuePatient{}
	for _, q := range m.rows {
		q := q
		out = append(out, &q)
	}
	return out, nil
}

func (m *memQueue) Upsert(ctx context.Context, q *model.QueuePatient) error {
	m.rows[q.ID] = *q
	return nil
}

type countingPublisher struct {
	calls int
}

func (c *countingPublisher) Publish(ctx context.Context, col model.Collection, op, id string) error {
	c.calls++
	return nil
}

func newTestService() (*Service, *memPatients, *memQueue, *countingPublisher) {
	p := &memPatients{rows: map[uuid.UUID]model.Patient{}}
	q := &memQueue{rows: map[uuid.UUID]model.QueuePatient{}}
	pub := &countingPublisher{}
	svc := NewService(passthroughTx{}, p, q, pub, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return svc, p, q, pub
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, patients, queue, _ := newTestService()

	p := model.Patient{
		ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Pesel: "90010112345",
		Package: model.Package3, TotalAmount: 18000, AmountPaid: 2000,
		TreatmentStartDate: "2026-03-02", HasWhatsapp: true, OnlineConsultations: 4,
		Status: model.PatientStatusDischarged, Notes: "uwagi",
	}
	q := model.QueuePatient{
		ID: uuid.New(), FirstName: "Ola", LastName: "Nowak", Package: model.Package1,
		Status: model.QueueStatusNoShow, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	patients.rows[p.ID] = p
	queue.rows[q.ID] = q

	exported, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.BackupVersion, exported.Version)
	assert.Equal(t, "kopia_bazy_myway_2026-05-04.json", svc.Filename())

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(exported))

	restoreSvc, restoredPatients, restoredQueue, pub := newTestService()
	decoded, err := Decode(&buf)
	require.NoError(t, err)
	res, err := restoreSvc.Import(context.Background(), decoded)
	require.NoError(t, err)
	assert.Equal(t, &model.ImportResult{Patients: 1, Queue: 1}, res)
	assert.Equal(t, 2, pub.calls)

	assert.Equal(t, p, restoredPatients.rows[p.ID])
	got := restoredQueue.rows[q.ID]
	assert.True(t, q.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = q.CreatedAt
	assert.Equal(t, q, got)
}

func TestImportRejectsInvalidRecord(t *testing.T) {
	svc, patients, _, pub := newTestService()
	b := &model.Backup{
		Version: 1,
		Patients: []*model.Patient{
			{ID: uuid.New(), FirstName: "Jan", LastName: "K", Package: model.Package1},
			{ID: uuid.New(), FirstName: "", LastName: "X", Package: model.Package1},
		},
	}

	_, err := svc.Import(context.Background(), b)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Contains(t, err.Error(), "patients[1]")
	assert.Empty(t, patients.rows)
	assert.Zero(t, pub.calls)
}

func TestImportStoreFailure(t *testing.T) {
	svc, patients, _, pub := newTestService()
	patients.err = errors.New("deadlock")

	_, err := svc.Import(context.Background(), &model.Backup{Patients: []*model.Patient{
		{FirstName: "Jan", LastName: "K", Package: model.Package1},
	}})
	require.Error(t, err)
	assert.Zero(t, pub.calls)
}

func TestDecode(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version":2}`))
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = Decode(strings.NewReader(`not json`))
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	b, err := Decode(strings.NewReader(`{"patients":[],"queue":[]}`))
	require.NoError(t, err)
	assert.Empty(t, b.Patients)
}
