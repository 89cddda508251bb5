// Package session keeps the per-visitor view flags in cookies. The
// submitted flag and the appearance cookie carry no Max-Age, so they last
// until the browser session ends.
package session

import (
	"net/http"

	"github.com/DukeRupert/localguys/internal/csrf"
	"github.com/DukeRupert/localguys/internal/domain"
)

const (
	// SubmittedCookie records that an order submission completed.
	SubmittedCookie = "order_submitted"

	// PendingCookie holds the one-time token that completes a submission
	// after the acknowledgment delay.
	PendingCookie = "order_pending"

	// AppearanceCookie stores the light/dark choice.
	AppearanceCookie = "appearance"

	// CookiePath ensures the cookies are sent with all requests.
	CookiePath = "/"

	// PendingMaxAge bounds how long a submission can wait for completion.
	PendingMaxAge = 120

	submittedValue = "1"
)

// Cookies reads and writes the session flags.
type Cookies struct {
	secure bool
}

// New creates a cookie helper. secure sets the Secure attribute.
func New(secure bool) Cookies {
	return Cookies{secure: secure}
}

func (c Cookies) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) clear(w http.ResponseWriter, name string) {
	c.set(w, name, "", -1)
}

// Submitted reports whether the submission flag is set.
func (c Cookies) Submitted(r *http.Request) bool {
	cookie, err := r.Cookie(SubmittedCookie)
	return err == nil && cookie.Value == submittedValue
}

// MarkSubmitted sets the submission flag for the rest of the browser session.
func (c Cookies) MarkSubmitted(w http.ResponseWriter) {
	c.set(w, SubmittedCookie, submittedValue, 0)
}

// ClearSubmitted removes the submission flag.
func (c Cookies) ClearSubmitted(w http.ResponseWriter) {
	c.clear(w, SubmittedCookie)
}

// BeginPending issues a fresh completion token, stores it in the pending
// cookie and returns it for the completion link.
func (c Cookies) BeginPending(w http.ResponseWriter) string {
	token, err := csrf.GenerateToken()
	if err != nil {
		token = csrf.MustGenerateToken()
	}
	c.set(w, PendingCookie, token, PendingMaxAge)
	return token
}

// CompletePending validates token against the pending cookie and consumes
// the cookie. It returns false when there is nothing to complete.
func (c Cookies) CompletePending(w http.ResponseWriter, r *http.Request, token string) bool {
	cookie, err := r.Cookie(PendingCookie)
	if err != nil {
		return false
	}
	if !csrf.ValidateToken(cookie.Value, token) {
		return false
	}
	c.clear(w, PendingCookie)
	return true
}

// Appearance returns the visitor's color scheme.
func (c Cookies) Appearance(r *http.Request) domain.Appearance {
	cookie, err := r.Cookie(AppearanceCookie)
	if err != nil {
		return domain.AppearanceLight
	}
	return domain.ParseAppearance(cookie.Value)
}

// SetAppearance stores the color scheme for the browser session.
func (c Cookies) SetAppearance(w http.ResponseWriter, a domain.Appearance) {
	c.set(w, AppearanceCookie, string(a), 0)
}
