package model

const (
	PaymentStatusAll    = "all"
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// PatientFilter combines every set criterion with AND. Empty or "all" values
// are inactive.
type PatientFilter struct {
	Package       Package `form:"package"`
	Region        string  `form:"region"`
	DateFrom      string  `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo        string  `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	PaymentStatus string  `form:"paymentStatus" binding:"omitempty,oneof=all paid unpaid"`
	Status        string  `form:"status" binding:"omitempty,oneof=all active discharged"`
}

func active(v string) bool {
	return v != "" && v != "all"
}

// Matches reports whether p passes the filter. Dates are compared as
// YYYY-MM-DD strings against the treatment start date, both bounds inclusive.
func (f PatientFilter) Matches(p *Patient) bool {
	if active(string(f.Package)) && p.Package != f.Package {
		return false
	}
	if active(f.Region) && p.Voivodeship != f.Region {
		return false
	}
	if f.DateFrom != "" && (p.TreatmentStartDate == "" || p.TreatmentStartDate < f.DateFrom) {
		return false
	}
	if f.DateTo != "" && (p.TreatmentStartDate == "" || p.TreatmentStartDate > f.DateTo) {
		return false
	}
	switch f.PaymentStatus {
	case PaymentStatusUnpaid:
		if p.AmountDue() <= 0 {
			return false
		}
	case PaymentStatusPaid:
		if p.AmountDue() > 0 {
			return false
		}
	}
	if active(f.Status) && string(p.EffectiveStatus()) != f.Status {
		return false
	}
	return true
}

func (f PatientFilter) Apply(patients []*Patient) []*Patient {
	out := make([]*Patient, 0, len(patients))
	for _, p := range patients {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
