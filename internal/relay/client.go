package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/DukeRupert/localguys/internal/domain"
)

// StatusError is returned when the relay or webhook answers with a non-2xx
// status.
type StatusError struct {
	Target     Target
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Target, e.StatusCode, e.Body)
}

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs a single outbound delivery.
type Client struct {
	http      Doer
	userAgent string
}

// NewClient creates a relay client. A nil doer gets an http.Client with the
// given timeout.
func NewClient(doer Doer, timeout time.Duration) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{http: doer, userAgent: "localguys-site/1.0"}
}

// Send delivers req and returns an error for transport failures and non-2xx
// answers.
func (c *Client) Send(ctx context.Context, req Request) error {
	const op = "relay.send"

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return domain.Internal(err, op, "failed to build outbound request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Unavailable(err, op, fmt.Sprintf("%s request failed", req.Target))
	}
	defer resp.Body.Close()

	// Read a little of the body for logs, drain the rest so the connection
	// can be reused
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Target: req.Target, StatusCode: resp.StatusCode, Body: string(snippet)}
		return domain.Unavailable(statusErr, op, statusErr.Error())
	}

	return nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	var (
		body        bytes.Buffer
		contentType string
	)

	switch req.Target {
	case TargetWebhook:
		if err := json.NewEncoder(&body).Encode(req.Payload); err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		contentType = "application/json"
	case TargetRelay:
		mw := multipart.NewWriter(&body)
		for _, key := range domain.SortedKeys(req.Fields) {
			for _, value := range req.Fields[key] {
				if err := mw.WriteField(key, value); err != nil {
					return nil, fmt.Errorf("write field %s: %w", key, err)
				}
			}
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("close multipart: %w", err)
		}
		contentType = mw.FormDataContentType()
	default:
		return nil, fmt.Errorf("no delivery target")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	if req.Target == TargetRelay {
		// Formspree answers JSON instead of redirecting to its thank-you page
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	return httpReq, nil
}
