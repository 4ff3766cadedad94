package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/myway/panel-api/internal/email"
	"github.com/myway/panel-api/internal/integration"
	"github.com/myway/panel-api/internal/integration/getresponse"
	"github.com/myway/panel-api/internal/integration/mywaypoint"
	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/worker"
)

// Marketing is the mailing-list side of the relay.
type Marketing interface {
	CampaignFor(pkg model.Package) string
	AllContactsCampaign() string
	AddContact(ctx context.Context, campaignID string, contact getresponse.Contact) error
	FindContactID(ctx context.Context, email string) (string, error)
	SendNewsletter(ctx context.Context, n getresponse.Newsletter) error
}

// Booking is the session-booking system that mirrors package 3 patients.
type Booking interface {
	CreatePatient(ctx context.Context, req mywaypoint.CreatePatientRequest) (*mywaypoint.CreatePatientResponse, error)
}

type RelayConfig struct {
	AlertRecipient string
	// ContactDelay is how long to wait after enrollment before looking the
	// contact up. GetResponse indexes new contacts asynchronously.
	ContactDelay  time.Duration
	TotalSessions int
}

// Relay executes notification jobs against the outside world.
type Relay struct {
	cfg       RelayConfig
	marketing Marketing
	mailer    email.Sender
	booking   Booking
	logger    *logger.Logger
}

func NewRelay(cfg RelayConfig, marketing Marketing, mailer email.Sender, booking Booking, log *logger.Logger) *Relay {
	if cfg.TotalSessions <= 0 {
		cfg.TotalSessions = 20
	}
	return &Relay{
		cfg:       cfg,
		marketing: marketing,
		mailer:    mailer,
		booking:   booking,
		logger:    log.With("relay"),
	}
}

// Register wires every job kind into the processor.
func (r *Relay) Register(p *worker.JobProcessor) {
	p.Handle(model.JobPatientAlert, r.HandleAlert)
	p.Handle(model.JobPatientConfirmed, r.HandleConfirmed)
	p.Handle(model.JobPatientCRMSync, r.HandleCRMSync)
	p.Handle(model.JobPatientDischarged, r.HandleDischarged)
	p.Handle(model.JobPatientEnroll, r.HandleEnroll)
}

// classify turns remote rejections into permanent errors so the processor
// stops retrying them.
func classify(err error) error {
	var apiErr *integration.APIError
	if errors.As(err, &apiErr) && !apiErr.Temporary() {
		return backoff.Permanent(err)
	}
	return err
}

func isPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

func decodePatient(job *model.NotificationJob) (*model.Patient, error) {
	var payload model.PatientJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	if payload.Patient == nil {
		return nil, backoff.Permanent(errors.New("payload has no patient"))
	}
	return payload.Patient, nil
}

func marshalResult(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return raw, nil
}

// HandleAlert mails the clinic inbox about a new patient.
func (r *Relay) HandleAlert(ctx context.Context, job *model.NotificationJob) ([]byte, error) {
	p, err := decodePatient(job)
	if err != nil {
		return nil, err
	}
	msg, err := email.PatientAlert(p)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if err := r.mailer.Send(ctx, []string{r.cfg.AlertRecipient}, msg); err != nil {
		return nil, classify(err)
	}
	return marshalResult(model.RelayResult{Success: true, EmailSent: true})
}

// HandleCRMSync creates the patient in the booking system.
func (r *Relay) HandleCRMSync(ctx context.Context, job *model.NotificationJob) ([]byte, error) {
	p, err := decodePatient(job)
	if err != nil {
		return nil, err
	}
	if p.Email == "" {
		r.logger.Warn("Skipping booking sync, patient has no email", "patient_id", p.ID.String())
		return marshalResult(mywaypoint.CreatePatientResponse{Success: false, Message: "no email"})
	}

	resp, err := r.booking.CreatePatient(ctx, mywaypoint.CreatePatientRequest{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Phone:         p.Phone,
		TotalSessions: r.cfg.TotalSessions,
		CRMPatientID:  p.ID.String(),
	})
	if err != nil {
		return nil, classify(err)
	}
	r.logger.Info("Patient synced to booking system", "patient_id", p.ID.String(), "booking_id", resp.PatientID)
	return marshalResult(resp)
}

// HandleConfirmed enrolls the contact on its package list and the all-contacts
// list, then schedules the welcome newsletter.
func (r *Relay) HandleConfirmed(ctx context.Context, job *model.NotificationJob) ([]byte, error) {
	var payload model.QueueJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil || payload.Entry == nil {
		return nil, backoff.Permanent(fmt.Errorf("invalid payload: %v", err))
	}
	entry := payload.Entry
	if entry.Email == "" || entry.FirstName == "" {
		r.logger.Warn("Skipping welcome mail, entry has no email", "entry_id", entry.ID.String())
		return marshalResult(model.RelayResult{Success: true, EmailSent: false})
	}

	if err := r.enroll(ctx, getresponse.Contact{
		Email:   entry.Email,
		Name:    entry.FullName(),
		Package: entry.Package,
		Phone:   entry.Phone,
	}); err != nil {
		return nil, err
	}

	if err := sleep(ctx, r.cfg.ContactDelay); err != nil {
		return nil, err
	}

	msg, err := email.Welcome(email.WelcomeData{
		FirstName: entry.FirstName,
		Package:   entry.Package,
		StartDate: entry.PlannedStartDate,
		EndDate:   entry.PlannedEndDate,
	})
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return r.sendNewsletter(ctx, entry.Email, msg)
}

// HandleDischarged schedules the farewell newsletter.
func (r *Relay) HandleDischarged(ctx context.Context, job *model.NotificationJob) ([]byte, error) {
	p, err := decodePatient(job)
	if err != nil {
		return nil, err
	}
	if p.Email == "" || p.FirstName == "" {
		r.logger.Warn("Skipping farewell mail, patient has no email", "patient_id", p.ID.String())
		return marshalResult(model.RelayResult{Success: true, EmailSent: false})
	}

	msg, err := email.Farewell(p.FirstName, p.Package)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return r.sendNewsletter(ctx, p.Email, msg)
}

// HandleEnroll puts an admitted patient on its package list and the
// all-contacts list without mailing anything.
func (r *Relay) HandleEnroll(ctx context.Context, job *model.NotificationJob) ([]byte, error) {
	p, err := decodePatient(job)
	if err != nil {
		return nil, err
	}
	if p.Email == "" {
		r.logger.Warn("Skipping enrollment, patient has no email", "patient_id", p.ID.String())
		return marshalResult(model.RelayResult{Success: true, EmailSent: false})
	}

	err = r.enroll(ctx, getresponse.Contact{
		Email:   p.Email,
		Name:    p.FullName(),
		Package: p.Package,
		Phone:   p.Phone,
	})
	if err != nil {
		return nil, err
	}
	return marshalResult(model.RelayResult{Success: true, EmailSent: false})
}

// enroll adds contact to its package campaign and the all-contacts campaign.
// Rejections are logged and skipped; only outages are returned.
func (r *Relay) enroll(ctx context.Context, contact getresponse.Contact) error {
	for _, campaign := range []string{r.marketing.CampaignFor(contact.Package), r.marketing.AllContactsCampaign()} {
		if err := classify(r.marketing.AddContact(ctx, campaign, contact)); err != nil {
			if !isPermanent(err) {
				return err
			}
			r.logger.Warn("Contact enrollment rejected", "campaign", campaign, "error", err.Error())
		}
	}
	return nil
}

// sendNewsletter looks the contact up and sends msg to it. A missing contact or
// a rejected newsletter is a successful job with emailSent=false.
func (r *Relay) sendNewsletter(ctx context.Context, address string, msg *email.Message) ([]byte, error) {
	contactID, err := r.marketing.FindContactID(ctx, address)
	if err != nil {
		if err = classify(err); !isPermanent(err) {
			return nil, err
		}
		r.logger.Warn("Contact lookup rejected", "error", err.Error())
	}
	if contactID == "" {
		r.logger.Warn("Contact not found in mailing system", "email", address)
		return marshalResult(model.RelayResult{Success: true, EmailSent: false})
	}

	err = classify(r.marketing.SendNewsletter(ctx, getresponse.Newsletter{
		ContactID: contactID,
		Subject:   msg.Subject,
		HTML:      msg.HTML,
		Plain:     msg.Plain,
	}))
	if err != nil {
		if !isPermanent(err) {
			return nil, err
		}
		r.logger.Warn("Newsletter rejected", "contact_id", contactID, "error", err.Error())
		return marshalResult(model.RelayResult{Success: true, EmailSent: false})
	}
	return marshalResult(model.RelayResult{Success: true, EmailSent: true})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
