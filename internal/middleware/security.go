package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeadersMiddleware adds HTTP security headers to all responses.
type SecurityHeadersMiddleware struct {
	isSecure bool // Whether to enable HTTPS-specific headers (true in production)
	csp      string
}

// NewSecurityHeadersMiddleware creates a new security headers middleware.
// Set isSecure to true in production to enable HSTS. formActions lists the
// extra origins forms may post to (the form relay).
func NewSecurityHeadersMiddleware(isSecure bool, formActions ...string) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{
		isSecure: isSecure,
		csp:      buildCSP(formActions),
	}
}

// Handler returns middleware that sets security headers on all responses.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Prevent clickjacking - deny all framing
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// HSTS - only in production with HTTPS (1 year)
		if m.isSecure {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		h.Set("Content-Security-Policy", m.csp)
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// buildCSP constructs the Content-Security-Policy header value for the
// landing page stack:
// - htmx from unpkg, Tailwind from its CDN
// - Tailwind injects <style> tags at runtime
// - the hero image is remote
// - the contact form posts straight to the relay
func buildCSP(formActions []string) string {
	formAction := []string{"'self'"}
	for _, origin := range formActions {
		if origin != "" {
			formAction = append(formAction, origin)
		}
	}

	return "default-src 'self'; " +
		"script-src 'self' https://unpkg.com https://cdn.tailwindcss.com; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"font-src 'self'; " +
		// htmx requests stay on this origin
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action " + strings.Join(formAction, " ")
}
