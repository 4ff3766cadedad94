package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/internal/service/notification"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
)

// memDB keeps both collections and rolls them back when a transaction fails.
type memDB struct {
	mu            sync.Mutex
	queue         map[uuid.UUID]model.QueuePatient
	patients      map[uuid.UUID]model.Patient
	failPatientIn error
}

func newMemDB() *memDB {
	return &memDB{queue: map[uuid.UUID]model.QueuePatient{}, patients: map[uuid.UUID]model.Patient{}}
}

func (d *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	d.mu.Lock()
	q := make(map[uuid.UUID]model.QueuePatient, len(d.queue))
	for k, v := range d.queue {
		q[k] = v
	}
	p := make(map[uuid.UUID]model.Patient, len(d.patients))
	for k, v := range d.patients {
		p[k] = v
	}
	d.mu.Unlock()

	if err := fn(ctx); err != nil {
		d.mu.Lock()
		d.queue, d.patients = q, p
		d.mu.Unlock()
		return err
	}
	return nil
}

type memQueue struct {
	repository.QueueRepository
	db *memDB
}

func (m memQueue) Create(ctx context.Context, e *model.QueuePatient) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.queue[e.ID] = *e
	return nil
}

func (m memQueue) Get(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.queue[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m memQueue) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.QueuePatient, error) {
	return m.Get(ctx, id)
}

func (m memQueue) Update(ctx context.Context, e *model.QueuePatient) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.queue[e.ID] = *e
	return nil
}

func (m memQueue) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.queue[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.queue, id)
	return nil
}

func (m memQueue) List(ctx context.Context) ([]*model.QueuePatient, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []*model.QueuePatient{}
	for _, e := range m.db.queue {
		e := e
		out = append(out, &e)
	}
	return out, nil
}

type memPatients struct {
	repository.PatientRepository
	db *memDB
}

func (m memPatients) Create(ctx context.Context, p *model.Patient) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failPatientIn != nil {
		return m.db.failPatientIn
	}
	m.db.patients[p.ID] = *p
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) Publish(ctx context.Context, c model.Collection, op, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, string(c)+":"+op)
	return nil
}

type mockNotifier struct {
	notification.Service
	mock.Mock
}

func (m *mockNotifier) PatientAdmitted(ctx context.Context, p *model.Patient) {
	m.Called(p.Package)
}

func (m *mockNotifier) QueueConfirmed(ctx context.Context, e *model.QueuePatient) {
	m.Called(e.ID)
}

func newTestService() (*Service, *memDB, *recordingPublisher, *mockNotifier) {
	db := newMemDB()
	pub := &recordingPublisher{}
	n := &mockNotifier{}
	svc := NewService(db, memQueue{db: db}, memPatients{db: db}, pub, n, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }
	return svc, db, pub, n
}

func newEntry() *model.QueuePatient {
	return &model.QueuePatient{
		FirstName:        "Ola",
		LastName:         "Nowak",
		Phone:            "600 100 200",
		Email:            "ola@example.com",
		Package:          model.Package3,
		DepositAmount:    1500,
		PlannedStartDate: "2026-03-02",
		PlannedEndDate:   "2026-04-27",
		Notes:            "alergia",
		Status:           model.QueueStatusConfirmed,
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _, pub, _ := newTestService()

	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusWaiting, entry.Status)
	assert.Equal(t, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), entry.CreatedAt)
	assert.Equal(t, []string{"queue:create"}, pub.events)
}

func TestUpdateConfirmEnqueuesOnce(t *testing.T) {
	svc, _, _, n := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)
	n.On("QueueConfirmed", entry.ID).Once()

	confirmed := model.QueueStatusConfirmed
	_, err = svc.Update(context.Background(), entry.ID, &model.UpdateQueuePatientRequest{Status: &confirmed})
	require.NoError(t, err)

	notes := "zadzwonić"
	_, err = svc.Update(context.Background(), entry.ID, &model.UpdateQueuePatientRequest{Notes: &notes})
	require.NoError(t, err)

	n.AssertNumberOfCalls(t, "QueueConfirmed", 1)
}

func TestUpdatePermissiveTransitions(t *testing.T) {
	svc, _, _, _ := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)

	for _, st := range []model.QueueStatus{model.QueueStatusNoShow, model.QueueStatusWaiting, model.QueueStatusCancelled} {
		st := st
		got, err := svc.Update(context.Background(), entry.ID, &model.UpdateQueuePatientRequest{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestListAndStats(t *testing.T) {
	svc, _, _, _ := newTestService()
	a, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)
	b := newEntry()
	b.LastName = "Zielińska"
	b.PlannedStartDate = "2026-02-20"
	_, err = svc.Create(context.Background(), b)
	require.NoError(t, err)

	cancelled := model.QueueStatusCancelled
	_, err = svc.Update(context.Background(), a.ID, &model.UpdateQueuePatientRequest{Status: &cancelled})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), model.QueueFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Zielińska", list[0].LastName)
	assert.Equal(t, model.QueueStatusCancelled, list[1].Status)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.QueueStats{Waiting: 1, Confirmed: 0, Total: 2}, stats)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, db, _, _ := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), entry.ID, false)
	assert.True(t, apperrors.Is(err, apperrors.ErrPreconditionRequired))
	assert.Len(t, db.queue, 1)

	require.NoError(t, svc.Delete(context.Background(), entry.ID, true))
	assert.Empty(t, db.queue)
}

func TestAdmissionDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)

	draft, err := svc.AdmissionDraft(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", draft.ApplicationDate)
	assert.Equal(t, 1500.0, draft.AmountPaid)
	assert.Equal(t, "2026-03-02", draft.TreatmentStartDate)
	assert.Equal(t, "alergia", draft.Notes)
}

func TestAdmit(t *testing.T) {
	svc, db, pub, n := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)
	n.On("PatientAdmitted", model.Package3).Once()

	draft, err := svc.AdmissionDraft(context.Background(), entry.ID)
	require.NoError(t, err)
	draft.TotalAmount = 18000
	draft.Pesel = "90010112345"

	patient, err := svc.Admit(context.Background(), entry.ID, draft)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, patient.ID)
	assert.Equal(t, model.PatientStatusActive, patient.Status)

	assert.Empty(t, db.queue)
	require.Len(t, db.patients, 1)
	assert.Equal(t, 18000.0, db.patients[patient.ID].TotalAmount)
	assert.Equal(t, []string{"queue:create", "patients:create", "queue:delete"}, pub.events)
	n.AssertExpectations(t)
}

func TestAdmitInsertFailureKeepsEntry(t *testing.T) {
	svc, db, pub, n := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)
	db.failPatientIn = errors.New("unique violation")

	_, err = svc.Admit(context.Background(), entry.ID, nil)
	require.Error(t, err)

	assert.Len(t, db.queue, 1)
	assert.Empty(t, db.patients)
	assert.Equal(t, []string{"queue:create"}, pub.events)
	n.AssertNotCalled(t, "PatientAdmitted", mock.Anything)
}

func TestAdmitInvalidDraft(t *testing.T) {
	svc, db, _, _ := newTestService()
	entry, err := svc.Create(context.Background(), newEntry())
	require.NoError(t, err)

	_, err = svc.Admit(context.Background(), entry.ID, &model.Patient{FirstName: "Ola"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Len(t, db.queue, 1)
}

func TestAdmitMissingEntry(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Admit(context.Background(), uuid.New(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
