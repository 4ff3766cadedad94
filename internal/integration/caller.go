// Package integration holds the outbound HTTP clients used by the notification relay.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/myway/panel-api/pkg/circuitbreaker"
)

// APIError is a non-2xx answer from a remote service.
type APIError struct {
	Service string
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d (code %d): %s", e.Service, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Service, e.Status)
}

// Temporary reports whether the same request may succeed later.
func (e *APIError) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// Caller sends JSON requests to one remote service through a circuit breaker.
// Only transport errors and temporary answers count against the breaker.
type Caller struct {
	service string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewCaller(service string, timeout time.Duration) *Caller {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Caller{
		service: service,
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultSettings(service)),
	}
}

// Do sends in as JSON (nil sends no body) and decodes a 2xx body into out when
// out is non-nil. It returns the response status.
func (c *Caller) Do(ctx context.Context, method, url string, headers map[string]string, in, out interface{}) (int, error) {
	var (
		status    int
		permanent error
	)
	err := c.breaker.Execute(func() error {
		var body io.Reader
		if in != nil {
			payload, err := json.Marshal(in)
			if err != nil {
				permanent = fmt.Errorf("failed to encode %s request: %w", c.service, err)
				return nil
			}
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			permanent = fmt.Errorf("failed to build %s request: %w", c.service, err)
			return nil
		}
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s request failed: %w", c.service, err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("failed to read %s response: %w", c.service, err)
		}

		if status < 200 || status >= 300 {
			apiErr := &APIError{Service: c.service, Status: status}
			_ = json.Unmarshal(raw, apiErr)
			apiErr.Service, apiErr.Status = c.service, status
			if apiErr.Temporary() {
				return apiErr
			}
			permanent = apiErr
			return nil
		}

		if out != nil && len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				permanent = fmt.Errorf("failed to decode %s response: %w", c.service, err)
			}
		}
		return nil
	})
	if err != nil {
		return status, err
	}
	return status, permanent
}

// BreakerState exposes the breaker state for health reporting.
func (c *Caller) BreakerState() string {
	return c.breaker.State()
}
