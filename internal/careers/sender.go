package careers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

// ApplicationSender delivers one submission. A nil error means the endpoint
// acknowledged it.
type ApplicationSender interface {
	Send(ctx context.Context, s Submission) error
}

// ScriptSender posts submissions to the hosted application script.
type ScriptSender struct {
	endpoint   string
	httpClient *http.Client
	opaque     bool
}

func NewScriptSender(endpoint string, client *http.Client) *ScriptSender {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ScriptSender{
		endpoint:   endpoint,
		httpClient: client,
	}
}

// WithOpaque makes Send treat any completed request as success and ignore the
// response status, matching a one-way endpoint that cannot be read.
func (s *ScriptSender) WithOpaque(opaque bool) *ScriptSender {
	s.opaque = opaque
	return s
}

func (s *ScriptSender) Send(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrap(err, "encode submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build submission request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &httpx.FetchError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if s.opaque {
		return nil
	}
	if resp.StatusCode >= 400 {
		return &httpx.FetchError{Status: resp.StatusCode}
	}
	return nil
}
