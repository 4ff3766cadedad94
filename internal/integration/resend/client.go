// Package resend sends transactional mail through the Resend HTTP API.
package resend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/myway/panel-api/internal/integration"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	caller  *integration.Caller
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		caller:  integration.NewCaller("resend", cfg.Timeout),
	}
}

type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Send posts the email and returns the id Resend assigned to it.
func (c *Client) Send(ctx context.Context, email Email) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if _, err := c.caller.Do(ctx, http.MethodPost, c.baseURL+"/emails", headers, email, &out); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return out.ID, nil
}
