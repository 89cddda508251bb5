package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/localguys/internal/domain"
)

// statusByCode maps domain error codes to HTTP statuses. Unknown codes are 500.
var statusByCode = map[string]int{
	domain.EINVALID:     http.StatusBadRequest,
	domain.EFORBIDDEN:   http.StatusForbidden,
	domain.ENOTFOUND:    http.StatusNotFound,
	domain.ERATELIMIT:   http.StatusTooManyRequests,
	domain.EUNAVAILABLE: http.StatusBadGateway,
	domain.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status code.
func ErrorCodeToHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorPage does not use the site layout, so it still renders when the
// template sets failed to load.
var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Status}} {{.Title}}</title>
  <link rel="stylesheet" href="/static/css/site.css">
</head>
<body style="font-family: system-ui, sans-serif; max-width: 36rem; margin: 4rem auto; padding: 0 1rem;">
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
  <p><a href="/#home">Back to home</a></p>
</body>
</html>
`))

type errorView struct {
	Status  int
	Code    string
	Title   string
	Message string
}

// ErrorResponse writes err to the client. The body is JSON when the client
// asks for it, a short text message for htmx requests, and a small HTML page
// otherwise. Internal and upstream details never reach the body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	view := errorView{
		Status:  ErrorCodeToHTTPStatus(code),
		Code:    code,
		Message: domain.ErrorMessage(err),
	}
	view.Title = http.StatusText(view.Status)

	logError(logger, r, err, view)

	switch {
	case acceptsJSON(r):
		writeJSONError(w, view)
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(view.Status)
		_, _ = w.Write([]byte(view.Message))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(view.Status)
		if execErr := errorPage.Execute(w, view); execErr != nil {
			logger.Error("error page render failed", "error", execErr)
		}
	}
}

// NotFoundResponse answers an unknown path.
func NotFoundResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ErrorResponse(w, r, logger, domain.Errorf(domain.ENOTFOUND, "", "There is nothing at %s.", r.URL.Path))
}

// ForbiddenResponse answers a request whose CSRF token did not match,
// usually a form left open past the token lifetime.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ErrorResponse(w, r, logger, domain.Forbidden("csrf", "Your session expired. Reload the page and try again."))
}

// RateLimitResponse answers a request rejected by the rate limiter.
func RateLimitResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ErrorResponse(w, r, logger, domain.RateLimit("ratelimit"))
}

// logError logs 5xx at error and 4xx at info.
func logError(logger *slog.Logger, r *http.Request, err error, view errorView) {
	attrs := []any{
		"error", err.Error(),
		"code", view.Code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", view.Status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if view.Status >= 500 {
		logger.Error("server error", attrs...)
		return
	}
	logger.Info("client error", attrs...)
}

// acceptsJSON reports whether the client wants a JSON body. htmx requests
// always get text.
func acceptsJSON(r *http.Request) bool {
	if isHTMX(r) {
		return false
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}

func writeJSONError(w http.ResponseWriter, view errorView) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(view.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    view.Code,
			"message": view.Message,
		},
	})
}
