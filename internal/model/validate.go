package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ValidPesel reports whether s looks like a PESEL number: exactly 11 digits.
func ValidPesel(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidDate accepts an empty string or a YYYY-MM-DD date.
func ValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func checkDates(fields map[string]string) error {
	for name, v := range fields {
		if !ValidDate(v) {
			return fmt.Errorf("%s must be YYYY-MM-DD", name)
		}
	}
	return nil
}

// Validate checks a patient record independently of how it arrived
// (HTTP, admission, backup import).
func (p *Patient) Validate() error {
	switch {
	case strings.TrimSpace(p.FirstName) == "":
		return errors.New("firstName is required")
	case strings.TrimSpace(p.LastName) == "":
		return errors.New("lastName is required")
	case !p.Package.Valid():
		return fmt.Errorf("invalid package %q", p.Package)
	case p.Pesel != "" && !ValidPesel(p.Pesel):
		return errors.New("pesel must be 11 digits")
	case p.TotalAmount < 0 || p.AmountPaid < 0:
		return errors.New("amounts must not be negative")
	case p.OnlineConsultations < 0:
		return errors.New("onlineConsultations must not be negative")
	case p.Status != "" && p.Status != PatientStatusActive && p.Status != PatientStatusDischarged:
		return fmt.Errorf("invalid status %q", p.Status)
	}
	return checkDates(map[string]string{
		"birthDate":          p.BirthDate,
		"applicationDate":    p.ApplicationDate,
		"treatmentStartDate": p.TreatmentStartDate,
		"treatmentEndDate":   p.TreatmentEndDate,
		"paymentDeadline":    p.PaymentDeadline,
	})
}

func (q *QueuePatient) Validate() error {
	switch {
	case strings.TrimSpace(q.FirstName) == "":
		return errors.New("firstName is required")
	case strings.TrimSpace(q.LastName) == "":
		return errors.New("lastName is required")
	case !q.Package.Valid():
		return fmt.Errorf("invalid package %q", q.Package)
	case q.DepositAmount < 0:
		return errors.New("depositAmount must not be negative")
	case q.Status != "" && !q.Status.Valid():
		return fmt.Errorf("invalid status %q", q.Status)
	}
	return checkDates(map[string]string{
		"depositDate":      q.DepositDate,
		"plannedStartDate": q.PlannedStartDate,
		"plannedEndDate":   q.PlannedEndDate,
	})
}
