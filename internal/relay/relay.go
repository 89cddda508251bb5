// Package relay sends order-interest submissions to a third-party form relay
// (Formspree) or a directly configured webhook (Zapier/Make).
//
// Delivery is best effort. Requests run in the background through a
// Dispatcher, failures are logged and counted, and nothing is retried.
package relay

import (
	"net/url"

	"github.com/DukeRupert/localguys/internal/domain"
	"github.com/google/uuid"
)

// Target identifies where a submission is delivered.
type Target string

const (
	// TargetNone means neither a webhook nor a relay ID is configured.
	TargetNone Target = "none"
	// TargetWebhook posts the payload as JSON.
	TargetWebhook Target = "webhook"
	// TargetRelay posts the raw fields as multipart/form-data.
	TargetRelay Target = "relay"
)

// Endpoints are the configured destinations. A webhook takes precedence over
// the relay.
type Endpoints struct {
	WebhookURL string
	RelayURL   string
}

// Route picks the target for a submission.
func (e Endpoints) Route() Target {
	switch {
	case e.WebhookURL != "":
		return TargetWebhook
	case e.RelayURL != "":
		return TargetRelay
	default:
		return TargetNone
	}
}

// Request is one outbound delivery.
type Request struct {
	ID     uuid.UUID
	Target Target
	URL    string

	// Payload is the JSON body for TargetWebhook.
	Payload domain.Payload

	// Fields are the raw form fields for TargetRelay.
	Fields url.Values
}

// NewRequest builds the delivery for fields according to e.Route(). The
// honeypot is dropped from the JSON payload but kept in the raw relay
// fields, which mirror what the browser posted. ok is false for TargetNone.
func (e Endpoints) NewRequest(fields url.Values) (req Request, ok bool) {
	req = Request{ID: uuid.New(), Target: e.Route()}

	switch req.Target {
	case TargetWebhook:
		req.URL = e.WebhookURL
		req.Payload = domain.BuildPayload(fields, domain.FieldHoneypot)
	case TargetRelay:
		req.URL = e.RelayURL
		req.Fields = domain.Without(fields)
	default:
		return req, false
	}

	return req, true
}
