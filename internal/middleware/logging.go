package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// RequestLoggingMiddleware logs HTTP requests with timing and status information.
type RequestLoggingMiddleware struct {
	logger    *slog.Logger
	skipPaths []string
}

// defaultSkipPaths are too noisy to log.
var defaultSkipPaths = []string{"/health", "/metrics", "/static/"}

// NewRequestLoggingMiddleware creates a new request logging middleware.
// Requests whose path starts with one of skip are not logged; with no skip
// list the health, metrics and static routes are skipped.
func NewRequestLoggingMiddleware(logger *slog.Logger, skip ...string) *RequestLoggingMiddleware {
	if len(skip) == 0 {
		skip = defaultSkipPaths
	}
	return &RequestLoggingMiddleware{
		logger:    logger,
		skipPaths: skip,
	}
}

// Handler returns middleware that logs all HTTP requests.
func (m *RequestLoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"method", r.Method,
			"path", sanitizePath(r.URL.Path, r.URL.RawQuery),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", getClientIP(r),
			"user_agent", r.UserAgent(),
		}
		if r.Header.Get("HX-Request") == "true" {
			attrs = append(attrs, "htmx", true)
		}

		// Log at appropriate level based on status code
		if wrapped.statusCode >= 500 {
			m.logger.Warn("request", attrs...)
		} else {
			m.logger.Info("request", attrs...)
		}
	})
}

func (m *RequestLoggingMiddleware) shouldSkip(path string) bool {
	for _, skip := range m.skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// redactedParams are query parameters never written to logs: the order
// completion token plus the contact details the no-JS order form carries
// in its query string.
var redactedParams = map[string]bool{
	"token":      true,
	"csrf_token": true,
	"name":       true,
	"business":   true,
	"location":   true,
	"phone":      true,
	"email":      true,
	"message":    true,
}

// sanitizePath redacts sensitive query parameters from the path for logging.
// Parameters are emitted in sorted order; unparseable queries are dropped.
func sanitizePath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil || len(values) == 0 {
		return path
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if redactedParams[strings.ToLower(k)] {
			parts = append(parts, url.QueryEscape(k)+"=[REDACTED]")
			continue
		}
		for _, v := range values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}

	return path + "?" + strings.Join(parts, "&")
}
