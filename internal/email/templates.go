package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/myway/panel-api/internal/model"
)

// Message is a rendered email with HTML and plain variants.
type Message struct {
	Subject string
	HTML    string
	Plain   string
}

var packageNames = map[model.Package]string{
	model.Package1: "Pakiet 1 — Podstawowy (28 dni)",
	model.Package2: "Pakiet 2 — Rozszerzony",
	model.Package3: "Pakiet 3 — Stacjonarny (8 tygodni)",
}

// PackageName is the long display name used in patient-facing mail.
func PackageName(pkg model.Package) string {
	if name, ok := packageNames[pkg]; ok {
		return name
	}
	return "Pakiet " + string(pkg)
}

// FormatDatePL turns 2006-01-02 into 02.01.2006. Other input is returned as is.
func FormatDatePL(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}

type WelcomeData struct {
	FirstName string
	Package   model.Package
	StartDate string
	EndDate   string
}

type farewellData struct {
	FirstName string
	Package3  bool
}

var (
	welcomeHTML  = htmltemplate.Must(htmltemplate.New("welcome").Parse(welcomeHTMLSource))
	welcomePlain = texttemplate.Must(texttemplate.New("welcome").Parse(welcomePlainSource))

	farewellHTML  = htmltemplate.Must(htmltemplate.New("farewell").Parse(farewellHTMLSource))
	farewellPlain = texttemplate.Must(texttemplate.New("farewell").Parse(farewellPlainSource))

	alertHTML  = htmltemplate.Must(htmltemplate.New("alert").Parse(alertHTMLSource))
	alertPlain = texttemplate.Must(texttemplate.New("alert").Parse(alertPlainSource))
)

func render(html *htmltemplate.Template, plain *texttemplate.Template, data interface{}) (string, string, error) {
	var h, p bytes.Buffer
	if err := html.Execute(&h, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", html.Name(), err)
	}
	if err := plain.Execute(&p, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s plain: %w", plain.Name(), err)
	}
	return h.String(), p.String(), nil
}

// Welcome is sent when a queue entry is confirmed.
func Welcome(data WelcomeData) (*Message, error) {
	view := struct {
		WelcomeData
		PackageName string
	}{data, PackageName(data.Package)}
	view.StartDate = FormatDatePL(data.StartDate)
	view.EndDate = FormatDatePL(data.EndDate)

	h, p, err := render(welcomeHTML, welcomePlain, view)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("Cześć %s! Potwierdzamy Twój termin w My Way 🏡", data.FirstName),
		HTML:    h,
		Plain:   p,
	}, nil
}

// Farewell is sent when a patient is discharged.
func Farewell(firstName string, pkg model.Package) (*Message, error) {
	h, p, err := render(farewellHTML, farewellPlain, farewellData{FirstName: firstName, Package3: pkg == model.Package3})
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("Gratulacje %s! To początek Twojej nowej drogi 👊", firstName),
		HTML:    h,
		Plain:   p,
	}, nil
}

// PatientAlert tells the clinic inbox about a newly created patient.
func PatientAlert(p *model.Patient) (*Message, error) {
	view := struct {
		Name, Package, Phone, Email, Region, Start, End, Total, Paid, Due, Notes string
	}{
		Name:    p.FullName(),
		Package: PackageName(p.Package),
		Phone:   p.Phone,
		Email:   p.Email,
		Region:  p.Voivodeship,
		Start:   FormatDatePL(p.TreatmentStartDate),
		End:     FormatDatePL(p.TreatmentEndDate),
		Total:   model.FormatPLN(p.TotalAmount),
		Paid:    model.FormatPLN(p.AmountPaid),
		Due:     model.FormatPLN(p.AmountDue()),
		Notes:   p.Notes,
	}
	h, plain, err := render(alertHTML, alertPlain, view)
	if err != nil {
		return nil, err
	}
	return &Message{
		Subject: fmt.Sprintf("Nowy pacjent - %s (%s)", view.Name, view.Package),
		HTML:    h,
		Plain:   plain,
	}, nil
}
