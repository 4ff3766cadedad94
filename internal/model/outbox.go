package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobKind names a notification relay action.
type JobKind string

const (
	JobPatientAlert      JobKind = "patient.alert"
	JobPatientConfirmed  JobKind = "patient.confirmed"
	JobPatientCRMSync    JobKind = "patient.crm_sync"
	JobPatientDischarged JobKind = "patient.discharged"
	JobPatientEnroll     JobKind = "patient.enroll"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRetry     JobStatus = "retry"
	JobStatusProcessed JobStatus = "processed"
	JobStatusFailed    JobStatus = "failed"
)

// NotificationJob is an outbox row. It is written after the primary write
// commits and picked up by the worker.
type NotificationJob struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Kind        JobKind         `db:"kind" json:"kind"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      JobStatus       `db:"status" json:"status"`
	Attempts    int             `db:"attempts" json:"attempts"`
	LastError   *string         `db:"last_error" json:"lastError,omitempty"`
	Result      json.RawMessage `db:"result" json:"result,omitempty"`
	RunAt       time.Time       `db:"run_at" json:"runAt"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processedAt,omitempty"`
}

// NewNotificationJob marshals payload and returns a job due now.
func NewNotificationJob(kind JobKind, payload interface{}) (*NotificationJob, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &NotificationJob{
		ID:        uuid.New(),
		Kind:      kind,
		Payload:   raw,
		Status:    JobStatusPending,
		RunAt:     now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PatientJobPayload is carried by alert, crm sync, enroll and farewell jobs.
type PatientJobPayload struct {
	Patient *Patient `json:"patient"`
}

// QueueJobPayload is carried by the welcome (confirmed) job.
type QueueJobPayload struct {
	Entry *QueuePatient `json:"entry"`
}

// RelayResult is recorded on welcome, enroll and farewell jobs.
type RelayResult struct {
	Success   bool `json:"success"`
	EmailSent bool `json:"emailSent"`
}

type JobFilter struct {
	Status JobStatus `form:"status" binding:"omitempty,oneof=pending retry processed failed"`
	Limit  int       `form:"limit" binding:"omitempty,min=1,max=500"`
}
