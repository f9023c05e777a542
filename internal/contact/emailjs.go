package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSSender delivers through the hosted EmailJS REST API using a
// service id, template id and public key.
type EmailJSSender struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func NewEmailJSSender(serviceID, templateID, publicKey string) *EmailJSSender {
	return &EmailJSSender{
		endpoint:   DefaultEmailJSEndpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoint points the sender at a different API base, mostly for tests.
func (e *EmailJSSender) WithEndpoint(endpoint string) *EmailJSSender {
	e.endpoint = endpoint
	return e
}

func (e *EmailJSSender) Deliver(ctx context.Context, m Message) error {
	if e.serviceID == "" || e.templateID == "" || e.publicKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:  e.serviceID,
		TemplateID: e.templateID,
		UserID:     e.publicKey,
		TemplateParams: map[string]string{
			"name":    m.Name,
			"email":   m.Email,
			"phone":   m.Phone,
			"company": m.Company,
			"message": m.Message,
		},
	})
	if err != nil {
		return errors.Wrap(err, "encode emailjs request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build emailjs request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &httpx.FetchError{Err: err}
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpx.FetchError{
			Status: resp.StatusCode,
			Err:    errors.Errorf("emailjs: %s", strings.TrimSpace(string(text))),
		}
	}
	return nil
}
