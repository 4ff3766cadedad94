package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatient_AmountDue(t *testing.T) {
	p := &Patient{TotalAmount: 5000, AmountPaid: 2500}
	assert.Equal(t, 2500.0, p.AmountDue())

	p.AmountPaid = 5500
	assert.Equal(t, -500.0, p.AmountDue())
}

func TestNewPatientView(t *testing.T) {
	p := &Patient{TotalAmount: 5000, AmountPaid: 2500, Phone: "600 100-200", HasWhatsapp: true}
	v := NewPatientView(p)

	assert.Equal(t, 2500.0, v.AmountDue)
	assert.Equal(t, "2 500,00 zł", v.AmountDueFormatted)
	assert.Equal(t, "https://wa.me/48600100200", v.WhatsappLink)

	p.HasWhatsapp = false
	assert.Empty(t, NewPatientView(p).WhatsappLink)
}

func TestPatient_EffectiveStatus(t *testing.T) {
	p := &Patient{}
	assert.Equal(t, PatientStatusActive, p.EffectiveStatus())
	assert.False(t, p.IsDischarged())

	p.Status = PatientStatusDischarged
	assert.True(t, p.IsDischarged())
}

func TestUpdatePatientRequest_Apply(t *testing.T) {
	p := &Patient{FirstName: "Jan", LastName: "Kowalski", AmountPaid: 100, Package: Package1}
	paid := 300.0
	pkg := Package3
	req := &UpdatePatientRequest{AmountPaid: &paid, Package: &pkg}

	req.Apply(p)

	assert.Equal(t, "Jan", p.FirstName)
	assert.Equal(t, "Kowalski", p.LastName)
	assert.Equal(t, 300.0, p.AmountPaid)
	assert.Equal(t, Package3, p.Package)
}

func TestPatientFilter(t *testing.T) {
	patients := []*Patient{
		{FirstName: "A", Package: Package1, Voivodeship: "mazowieckie", TreatmentStartDate: "2024-03-01", TotalAmount: 5000, AmountPaid: 5000},
		{FirstName: "B", Package: Package1, Voivodeship: "mazowieckie", TreatmentStartDate: "2024-03-15", TotalAmount: 5000, AmountPaid: 1000},
		{FirstName: "C", Package: Package2, Voivodeship: "mazowieckie", TreatmentStartDate: "2024-03-20", TotalAmount: 3000, AmountPaid: 0},
		{FirstName: "D", Package: Package1, Voivodeship: "śląskie", TreatmentStartDate: "2024-03-10", TotalAmount: 2000, AmountPaid: 0},
		{FirstName: "E", Package: Package1, Voivodeship: "mazowieckie", TotalAmount: 2000, AmountPaid: 0},
		{FirstName: "F", Package: Package1, Voivodeship: "mazowieckie", TreatmentStartDate: "2024-03-31", TotalAmount: 2000, AmountPaid: 0, Status: PatientStatusDischarged},
	}

	names := func(ps []*Patient) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.FirstName)
		}
		return out
	}

	t.Run("empty filter keeps everything", func(t *testing.T) {
		assert.Len(t, PatientFilter{}.Apply(patients), len(patients))
	})

	t.Run("all criteria combine with AND", func(t *testing.T) {
		f := PatientFilter{
			Package:       Package1,
			Region:        "mazowieckie",
			DateFrom:      "2024-03-01",
			DateTo:        "2024-03-31",
			PaymentStatus: PaymentStatusUnpaid,
		}
		assert.Equal(t, []string{"B", "F"}, names(f.Apply(patients)))

		f.Status = string(PatientStatusActive)
		assert.Equal(t, []string{"B"}, names(f.Apply(patients)))
	})

	t.Run("date bounds are inclusive and require a start date", func(t *testing.T) {
		f := PatientFilter{DateFrom: "2024-03-01", DateTo: "2024-03-01"}
		assert.Equal(t, []string{"A"}, names(f.Apply(patients)))
	})

	t.Run("paid means nothing due", func(t *testing.T) {
		f := PatientFilter{PaymentStatus: PaymentStatusPaid}
		assert.Equal(t, []string{"A"}, names(f.Apply(patients)))
	})

	t.Run("all is inactive", func(t *testing.T) {
		f := PatientFilter{PaymentStatus: PaymentStatusAll, Status: "all", Region: "all"}
		require.Len(t, f.Apply(patients), len(patients))
	})
}
