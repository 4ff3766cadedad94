// Package email renders patient and clinic mail and delivers clinic alerts.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/myway/panel-api/internal/integration/resend"
	"github.com/myway/panel-api/pkg/circuitbreaker"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, to []string, msg *Message) error
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(client *resend.Client, from string) *ResendSender {
	return &ResendSender{client: client, from: from}
}

func (s *ResendSender) Send(ctx context.Context, to []string, msg *Message) error {
	_, err := s.client.Send(ctx, resend.Email{
		From:    s.from,
		To:      to,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Plain,
	})
	return err
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer is the part of gomail.Dialer used for delivery.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer  Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

func NewSMTPSender(cfg SMTPConfig, from string) *SMTPSender {
	return NewSMTPSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), from)
}

func NewSMTPSenderWithDialer(d Dialer, from string) *SMTPSender {
	return &SMTPSender{
		dialer:  d,
		from:    from,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultSettings("smtp")),
	}
}

// NewMessage builds a multipart message with the plain body first.
func NewMessage(from string, to []string, msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Plain)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

func (s *SMTPSender) Send(ctx context.Context, to []string, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := NewMessage(s.from, to, msg)
	if err := s.breaker.Execute(func() error { return s.dialer.DialAndSend(m) }); err != nil {
		return fmt.Errorf("failed to send mail via smtp: %w", err)
	}
	return nil
}
