// Package mywaypoint creates patients in the session-booking system.
package mywaypoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/myway/panel-api/internal/integration"
)

type Client struct {
	url    string
	caller *integration.Caller
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		caller: integration.NewCaller("mywaypoint", timeout),
	}
}

type CreatePatientRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	TotalSessions int    `json:"totalSessions"`
	CRMPatientID  string `json:"crmPatientId"`
}

type CreatePatientResponse struct {
	Success   bool   `json:"success"`
	PatientID string `json:"patientId"`
	Message   string `json:"message,omitempty"`
}

// CreatePatient creates or updates the patient on the booking side.
func (c *Client) CreatePatient(ctx context.Context, req CreatePatientRequest) (*CreatePatientResponse, error) {
	var out CreatePatientResponse
	if _, err := c.caller.Do(ctx, http.MethodPost, c.url, nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to create booking patient: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("booking system refused patient: %s", out.Message)
	}
	return &out, nil
}
