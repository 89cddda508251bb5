// Package csrf protects the site's own POST endpoints with the
// double-submit cookie pattern: a random token lives in a cookie and is
// echoed in a hidden form field, and unsafe requests must present both.
//
// The contact form is not covered; it posts straight to the form relay.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
)

const (
	// CookieName is the name of the CSRF token cookie.
	CookieName = "csrf_token"

	// FormFieldName is the name of the CSRF token form field.
	FormFieldName = "csrf_token"

	// HeaderName lets htmx requests send the token without a form field.
	HeaderName = "X-CSRF-Token"

	tokenBytes   = 32
	cookieMaxAge = 3600
)

// GenerateToken returns 32 random bytes, base64 URL-encoded (43 characters).
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MustGenerateToken is GenerateToken for callers with no error path.
func MustGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		panic("csrf: failed to generate token: " + err.Error())
	}
	return token
}

// ValidateToken compares two tokens in constant time. Empty tokens never match.
func ValidateToken(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// EnsureToken returns the request's token, issuing one when there is none.
// The cookie is re-sent every time so a freshly rendered form always has a
// full hour before its token expires. Call it on every GET that renders a
// protected form.
func EnsureToken(w http.ResponseWriter, r *http.Request, isSecure bool) string {
	token := ""
	if c, err := r.Cookie(CookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		token = MustGenerateToken()
	}

	// Not HttpOnly: htmx reads it into HeaderName.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// check reports why r fails protection, or "" when it passes.
func check(r *http.Request) string {
	// Browsers that send Fetch Metadata tell us outright.
	if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
		return "cross-site"
	}

	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "missing cookie"
	}

	submitted := r.Header.Get(HeaderName)
	if submitted == "" {
		submitted = r.PostFormValue(FormFieldName)
	}
	if submitted == "" {
		return "missing token"
	}
	if !ValidateToken(c.Value, submitted) {
		return "token mismatch"
	}
	return ""
}

// Protect rejects unsafe requests that are cross-site or whose token does
// not match. onFail writes the rejection; when nil a plain 403 is sent.
func Protect(logger *slog.Logger, onFail http.HandlerFunc) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if reason := check(r); reason != "" {
				logger.Warn("csrf check failed",
					"reason", reason,
					"path", r.URL.Path,
					"method", r.Method,
				)
				onFail(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
