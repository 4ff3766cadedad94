package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusDischarged PatientStatus = "discharged"
)

// Package is the treatment program tier.
type Package string

const (
	Package1 Package = "1"
	Package2 Package = "2"
	Package3 Package = "3"
)

func (p Package) Valid() bool {
	return p == Package1 || p == Package2 || p == Package3
}

// Patient is a registered clinic patient. Money is kept in PLN.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Pesel       string    `db:"pesel" json:"pesel"`
	BirthDate   string    `db:"birth_date" json:"birthDate"`
	IDSeries    string    `db:"id_series" json:"idSeries"`
	Address     string    `db:"address" json:"address"`
	Voivodeship string    `db:"voivodeship" json:"voivodeship"`
	Phone       string    `db:"phone" json:"phone"`
	Email       string    `db:"email" json:"email"`

	ApplicationDate    string `db:"application_date" json:"applicationDate"`
	TreatmentStartDate string `db:"treatment_start_date" json:"treatmentStartDate"`
	TreatmentEndDate   string `db:"treatment_end_date" json:"treatmentEndDate"`

	Package         Package `db:"package" json:"package"`
	TotalAmount     float64 `db:"total_amount" json:"totalAmount"`
	AmountPaid      float64 `db:"amount_paid" json:"amountPaid"`
	PaymentDeadline string  `db:"payment_deadline" json:"paymentDeadline"`

	IsWeek5             bool   `db:"is_week5" json:"isWeek5"`
	HasWhatsapp         bool   `db:"has_whatsapp" json:"hasWhatsapp"`
	OnlineConsultations int    `db:"online_consultations" json:"onlineConsultations"`
	Notes               string `db:"notes" json:"notes"`

	Status PatientStatus `db:"status" json:"status,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AmountDue is always derived, never stored. Over-payment yields a negative value.
func (p *Patient) AmountDue() float64 {
	return p.TotalAmount - p.AmountPaid
}

// EffectiveStatus treats an unset status as active.
func (p *Patient) EffectiveStatus() PatientStatus {
	if p.Status == "" {
		return PatientStatusActive
	}
	return p.Status
}

func (p *Patient) IsDischarged() bool {
	return p.EffectiveStatus() == PatientStatusDischarged
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// WhatsAppLink returns a wa.me link for Polish numbers, empty when not applicable.
func (p *Patient) WhatsAppLink() string {
	if !p.HasWhatsapp {
		return ""
	}
	return WhatsAppLink(p.Phone)
}

// WhatsAppLink builds https://wa.me/48<digits> from a free-form phone number.
func WhatsAppLink(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	return "https://wa.me/48" + digits
}

// PatientView is the API representation with derived values attached.
type PatientView struct {
	*Patient
	AmountDue          float64 `json:"amountDue"`
	AmountDueFormatted string  `json:"amountDueFormatted"`
	WhatsappLink       string  `json:"whatsappLink,omitempty"`
}

func NewPatientView(p *Patient) *PatientView {
	due := p.AmountDue()
	return &PatientView{
		Patient:            p,
		AmountDue:          due,
		AmountDueFormatted: FormatPLN(due),
		WhatsappLink:       p.WhatsAppLink(),
	}
}

func NewPatientViews(patients []*Patient) []*PatientView {
	views := make([]*PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, NewPatientView(p))
	}
	return views
}

type CreatePatientRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Pesel       string `json:"pesel" binding:"omitempty,pesel"`
	BirthDate   string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	IDSeries    string `json:"idSeries"`
	Address     string `json:"address"`
	Voivodeship string `json:"voivodeship"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`

	ApplicationDate    string `json:"applicationDate" binding:"omitempty,datetime=2006-01-02"`
	TreatmentStartDate string `json:"treatmentStartDate" binding:"omitempty,datetime=2006-01-02"`
	TreatmentEndDate   string `json:"treatmentEndDate" binding:"omitempty,datetime=2006-01-02"`

	Package         Package `json:"package" binding:"required,package"`
	TotalAmount     float64 `json:"totalAmount" binding:"gte=0"`
	AmountPaid      float64 `json:"amountPaid" binding:"gte=0"`
	PaymentDeadline string  `json:"paymentDeadline" binding:"omitempty,datetime=2006-01-02"`

	IsWeek5             bool   `json:"isWeek5"`
	HasWhatsapp         bool   `json:"hasWhatsapp"`
	OnlineConsultations int    `json:"onlineConsultations" binding:"gte=0"`
	Notes               string `json:"notes"`

	Status PatientStatus `json:"status" binding:"omitempty,oneof=active discharged"`
}

// ToPatient builds a patient without an id; the store assigns one.
func (r *CreatePatientRequest) ToPatient() *Patient {
	return &Patient{
		FirstName:           strings.TrimSpace(r.FirstName),
		LastName:            strings.TrimSpace(r.LastName),
		Pesel:               strings.TrimSpace(r.Pesel),
		BirthDate:           r.BirthDate,
		IDSeries:            r.IDSeries,
		Address:             r.Address,
		Voivodeship:         r.Voivodeship,
		Phone:               r.Phone,
		Email:               strings.TrimSpace(r.Email),
		ApplicationDate:     r.ApplicationDate,
		TreatmentStartDate:  r.TreatmentStartDate,
		TreatmentEndDate:    r.TreatmentEndDate,
		Package:             r.Package,
		TotalAmount:         r.TotalAmount,
		AmountPaid:          r.AmountPaid,
		PaymentDeadline:     r.PaymentDeadline,
		IsWeek5:             r.IsWeek5,
		HasWhatsapp:         r.HasWhatsapp,
		OnlineConsultations: r.OnlineConsultations,
		Notes:               r.Notes,
		Status:              r.Status,
	}
}

// UpdatePatientRequest is a partial update: nil fields are left untouched.
type UpdatePatientRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,min=1"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1"`
	Pesel       *string `json:"pesel" binding:"omitempty,pesel"`
	BirthDate   *string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	IDSeries    *string `json:"idSeries"`
	Address     *string `json:"address"`
	Voivodeship *string `json:"voivodeship"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`

	ApplicationDate    *string `json:"applicationDate" binding:"omitempty,datetime=2006-01-02"`
	TreatmentStartDate *string `json:"treatmentStartDate" binding:"omitempty,datetime=2006-01-02"`
	TreatmentEndDate   *string `json:"treatmentEndDate" binding:"omitempty,datetime=2006-01-02"`

	Package         *Package `json:"package" binding:"omitempty,package"`
	TotalAmount     *float64 `json:"totalAmount" binding:"omitempty,gte=0"`
	AmountPaid      *float64 `json:"amountPaid" binding:"omitempty,gte=0"`
	PaymentDeadline *string  `json:"paymentDeadline" binding:"omitempty,datetime=2006-01-02"`

	IsWeek5             *bool   `json:"isWeek5"`
	HasWhatsapp         *bool   `json:"hasWhatsapp"`
	OnlineConsultations *int    `json:"onlineConsultations" binding:"omitempty,gte=0"`
	Notes               *string `json:"notes"`

	Status *PatientStatus `json:"status" binding:"omitempty,oneof=active discharged"`
}

// Apply copies the set fields onto p.
func (r *UpdatePatientRequest) Apply(p *Patient) {
	setString(&p.FirstName, r.FirstName)
	setString(&p.LastName, r.LastName)
	setString(&p.Pesel, r.Pesel)
	setString(&p.BirthDate, r.BirthDate)
	setString(&p.IDSeries, r.IDSeries)
	setString(&p.Address, r.Address)
	setString(&p.Voivodeship, r.Voivodeship)
	setString(&p.Phone, r.Phone)
	setString(&p.Email, r.Email)
	setString(&p.ApplicationDate, r.ApplicationDate)
	setString(&p.TreatmentStartDate, r.TreatmentStartDate)
	setString(&p.TreatmentEndDate, r.TreatmentEndDate)
	setString(&p.PaymentDeadline, r.PaymentDeadline)
	setString(&p.Notes, r.Notes)
	if r.Package != nil {
		p.Package = *r.Package
	}
	if r.TotalAmount != nil {
		p.TotalAmount = *r.TotalAmount
	}
	if r.AmountPaid != nil {
		p.AmountPaid = *r.AmountPaid
	}
	if r.IsWeek5 != nil {
		p.IsWeek5 = *r.IsWeek5
	}
	if r.HasWhatsapp != nil {
		p.HasWhatsapp = *r.HasWhatsapp
	}
	if r.OnlineConsultations != nil {
		p.OnlineConsultations = *r.OnlineConsultations
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
