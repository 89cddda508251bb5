// Package site holds the immutable site configuration and the static copy
// rendered on the landing page.
package site

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Social links shown in the contact section.
type Social struct {
	Instagram string
	Facebook  string
}

// Config is built once at startup and handed out by value.
type Config struct {
	Brand   string
	Tagline string

	// ContactEnabled gates both lead-capture forms.
	ContactEnabled bool

	// RelayID identifies the form-relay (Formspree) endpoint.
	RelayID string
	// RelayBaseURL is the relay service origin, e.g. https://formspree.io.
	RelayBaseURL string
	// OrderWebhookURL receives order submissions as JSON when set.
	OrderWebhookURL string

	Social Social

	// ConfirmDelay is the pause between the "Sent!" banner and the
	// thank-you view.
	ConfirmDelay time.Duration
}

// RelayEndpoint returns the relay URL for the configured ID, or empty when
// no ID is set.
func (c Config) RelayEndpoint() string {
	if c.RelayID == "" {
		return ""
	}
	return fmt.Sprintf("%s/f/%s", strings.TrimRight(c.RelayBaseURL, "/"), url.PathEscape(c.RelayID))
}

// ContactAction is the native action of the contact form. It points at the
// relay even when no ID is configured, matching /f/ with an empty ID.
func (c Config) ContactAction() string {
	return fmt.Sprintf("%s/f/%s", strings.TrimRight(c.RelayBaseURL, "/"), url.PathEscape(c.RelayID))
}

// RelayOrigin is the scheme://host of the relay service, used for the
// form-action CSP directive.
func (c Config) RelayOrigin() string {
	u, err := url.Parse(c.RelayBaseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ConfirmDelayMillis is ConfirmDelay in whole milliseconds for htmx triggers.
func (c Config) ConfirmDelayMillis() int64 {
	return c.ConfirmDelay.Milliseconds()
}

// ConfirmDelaySeconds rounds ConfirmDelay up to whole seconds, the
// granularity of a meta refresh.
func (c Config) ConfirmDelaySeconds() int {
	secs := int(c.ConfirmDelay / time.Second)
	if c.ConfirmDelay%time.Second != 0 {
		secs++
	}
	return secs
}
