package model

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusConfirmed QueueStatus = "confirmed"
	QueueStatusCancelled QueueStatus = "cancelled"
	QueueStatusNoShow    QueueStatus = "noshow"
)

func (s QueueStatus) Valid() bool {
	switch s {
	case QueueStatusWaiting, QueueStatusConfirmed, QueueStatusCancelled, QueueStatusNoShow:
		return true
	}
	return false
}

// Inactive entries sink to the bottom of the queue display.
func (s QueueStatus) Inactive() bool {
	return s == QueueStatusCancelled || s == QueueStatusNoShow
}

// QueuePatient is a prospective patient waiting for admission.
type QueuePatient struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	FirstName        string      `db:"first_name" json:"firstName"`
	LastName         string      `db:"last_name" json:"lastName"`
	Phone            string      `db:"phone" json:"phone"`
	Email            string      `db:"email" json:"email,omitempty"`
	Package          Package     `db:"package" json:"package"`
	DepositAmount    float64     `db:"deposit_amount" json:"depositAmount"`
	DepositDate      string      `db:"deposit_date" json:"depositDate"`
	PlannedStartDate string      `db:"planned_start_date" json:"plannedStartDate"`
	PlannedEndDate   string      `db:"planned_end_date" json:"plannedEndDate"`
	Notes            string      `db:"notes" json:"notes"`
	Status           QueueStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
}

func (q *QueuePatient) FullName() string {
	return strings.TrimSpace(q.FirstName + " " + q.LastName)
}

// AdmissionDraft prefills a patient record from the queue entry. today is
// formatted as YYYY-MM-DD.
func (q *QueuePatient) AdmissionDraft(today string) *Patient {
	return &Patient{
		FirstName:          q.FirstName,
		LastName:           q.LastName,
		Phone:              q.Phone,
		Email:              q.Email,
		Package:            q.Package,
		AmountPaid:         q.DepositAmount,
		TreatmentStartDate: q.PlannedStartDate,
		TreatmentEndDate:   q.PlannedEndDate,
		Notes:              q.Notes,
		ApplicationDate:    today,
		Status:             PatientStatusActive,
	}
}

type CreateQueuePatientRequest struct {
	FirstName        string  `json:"firstName" binding:"required"`
	LastName         string  `json:"lastName" binding:"required"`
	Phone            string  `json:"phone" binding:"required"`
	Email            string  `json:"email" binding:"omitempty,email"`
	Package          Package `json:"package" binding:"required,package"`
	DepositAmount    float64 `json:"depositAmount" binding:"gte=0"`
	DepositDate      string  `json:"depositDate" binding:"omitempty,datetime=2006-01-02"`
	PlannedStartDate string  `json:"plannedStartDate" binding:"omitempty,datetime=2006-01-02"`
	PlannedEndDate   string  `json:"plannedEndDate" binding:"omitempty,datetime=2006-01-02"`
	Notes            string  `json:"notes"`
}

func (r *CreateQueuePatientRequest) ToQueuePatient() *QueuePatient {
	return &QueuePatient{
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Phone:            strings.TrimSpace(r.Phone),
		Email:            strings.TrimSpace(r.Email),
		Package:          r.Package,
		DepositAmount:    r.DepositAmount,
		DepositDate:      r.DepositDate,
		PlannedStartDate: r.PlannedStartDate,
		PlannedEndDate:   r.PlannedEndDate,
		Notes:            r.Notes,
	}
}

type UpdateQueuePatientRequest struct {
	FirstName        *string      `json:"firstName" binding:"omitempty,min=1"`
	LastName         *string      `json:"lastName" binding:"omitempty,min=1"`
	Phone            *string      `json:"phone"`
	Email            *string      `json:"email" binding:"omitempty,email"`
	Package          *Package     `json:"package" binding:"omitempty,package"`
	DepositAmount    *float64     `json:"depositAmount" binding:"omitempty,gte=0"`
	DepositDate      *string      `json:"depositDate" binding:"omitempty,datetime=2006-01-02"`
	PlannedStartDate *string      `json:"plannedStartDate" binding:"omitempty,datetime=2006-01-02"`
	PlannedEndDate   *string      `json:"plannedEndDate" binding:"omitempty,datetime=2006-01-02"`
	Notes            *string      `json:"notes"`
	Status           *QueueStatus `json:"status" binding:"omitempty,queuestatus"`
}

func (r *UpdateQueuePatientRequest) Apply(q *QueuePatient) {
	setString(&q.FirstName, r.FirstName)
	setString(&q.LastName, r.LastName)
	setString(&q.Phone, r.Phone)
	setString(&q.Email, r.Email)
	setString(&q.DepositDate, r.DepositDate)
	setString(&q.PlannedStartDate, r.PlannedStartDate)
	setString(&q.PlannedEndDate, r.PlannedEndDate)
	setString(&q.Notes, r.Notes)
	if r.Package != nil {
		q.Package = *r.Package
	}
	if r.DepositAmount != nil {
		q.DepositAmount = *r.DepositAmount
	}
	if r.Status != nil {
		q.Status = *r.Status
	}
}

// QueueFilter narrows the queue view. An empty Status means all.
type QueueFilter struct {
	Status QueueStatus `form:"status"`
	Search string      `form:"search"`
}

func (f QueueFilter) Matches(q *QueuePatient) bool {
	if f.Status != "" && f.Status != "all" && q.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(q.FirstName), term) ||
		strings.Contains(strings.ToLower(q.LastName), term) ||
		strings.Contains(strings.ToLower(q.Phone), term)
}

// Apply filters entries and returns them in display order.
func (f QueueFilter) Apply(entries []*QueuePatient) []*QueuePatient {
	out := make([]*QueuePatient, 0, len(entries))
	for _, q := range entries {
		if f.Matches(q) {
			out = append(out, q)
		}
	}
	SortQueueForDisplay(out)
	return out
}

// SortQueueForDisplay puts cancelled and no-show entries last, then orders by
// planned start date. Entries without a start date go after dated ones.
func SortQueueForDisplay(entries []*QueuePatient) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Status.Inactive() != b.Status.Inactive() {
			return !a.Status.Inactive()
		}
		if (a.PlannedStartDate == "") != (b.PlannedStartDate == "") {
			return a.PlannedStartDate != ""
		}
		return a.PlannedStartDate < b.PlannedStartDate
	})
}

type QueueStats struct {
	Waiting   int `json:"waiting"`
	Confirmed int `json:"confirmed"`
	Total     int `json:"total"`
}

func NewQueueStats(entries []*QueuePatient) QueueStats {
	stats := QueueStats{Total: len(entries)}
	for _, q := range entries {
		switch q.Status {
		case QueueStatusWaiting:
			stats.Waiting++
		case QueueStatusConfirmed:
			stats.Confirmed++
		}
	}
	return stats
}
