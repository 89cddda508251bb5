// Package handler contains HTTP handlers for the landing site.
//
// This file implements the page routes: the landing page, the gated
// thank-you view, the appearance toggle and the order-form field swap.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/DukeRupert/localguys/internal/csrf"
	"github.com/DukeRupert/localguys/internal/domain"
	"github.com/DukeRupert/localguys/internal/metrics"
	"github.com/DukeRupert/localguys/internal/service"
	"github.com/DukeRupert/localguys/internal/session"
	"github.com/DukeRupert/localguys/internal/site"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// TemplateRenderer is the interface for rendering HTML templates.
// This interface allows for mocking in tests.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
	RenderPartial(w http.ResponseWriter, name string, data interface{})
}

// LandingHandler serves the single-page site and its form endpoints.
//
// Routes handled:
// - GET  /{$}               -> Home
// - GET  /thank-you         -> ThankYou
// - POST /thank-you/dismiss -> DismissThankYou
// - POST /appearance        -> ToggleAppearance
// - GET  /order/fields      -> OrderFields
// - POST /order             -> SubmitOrder (order.go)
// - GET  /order/complete    -> CompleteOrder (order.go)
// - GET  /                  -> NotFound (any other path)
type LandingHandler struct {
	site     site.Config
	content  site.Content
	orders   service.OrderService
	cookies  session.Cookies
	renderer TemplateRenderer
	logger   *slog.Logger
	isSecure bool
}

// NewLandingHandler creates a new LandingHandler with the required dependencies.
func NewLandingHandler(
	cfg site.Config,
	content site.Content,
	orders service.OrderService,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
) *LandingHandler {
	return &LandingHandler{
		site:     cfg,
		content:  content,
		orders:   orders,
		cookies:  session.New(isSecure),
		renderer: renderer,
		logger:   logger,
		isSecure: isSecure,
	}
}

// =============================================================================
// Template Data Types
// =============================================================================

// PageData is the view model for public/home and its partials.
type PageData struct {
	CurrentPath string
	// ReturnTo is where the appearance toggle sends the visitor back to.
	ReturnTo      string
	CSRFToken     string
	Site          site.Config
	Content       site.Content
	UI            domain.UIState
	CustomerTypes []domain.CustomerType
	// Form re-populates the order form after a field swap or a submit.
	Form url.Values
	// ShowThanks renders the thank-you section.
	ShowThanks bool
	// PendingToken completes the submission after the confirmation delay.
	PendingToken string
}

func (h *LandingHandler) pageData(w http.ResponseWriter, r *http.Request) PageData {
	return PageData{
		CurrentPath: r.URL.Path,
		ReturnTo:    "/",
		CSRFToken:   csrf.EnsureToken(w, r, h.isSecure),
		Site:        h.site,
		Content:     h.content,
		UI: domain.UIState{
			Appearance: h.cookies.Appearance(r),
		},
		CustomerTypes: domain.CustomerTypes,
		Form:          url.Values{},
	}
}

// =============================================================================
// GET / - Landing Page
// =============================================================================

// Home renders the landing page. A customer_type query parameter preselects
// the order-form category, which is how the form updates without JavaScript.
func (h *LandingHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)
	data.Form = r.URL.Query()
	data.UI.CustomerType = domain.ParseCustomerType(data.Form.Get(domain.FieldCustomerType))

	h.renderer.RenderHTTP(w, "public/home", data)
}

// =============================================================================
// GET /thank-you - Confirmation View
// =============================================================================

// ThankYou renders the confirmation view when a submission completed in
// this browser session. Otherwise the visitor is sent back to #home.
func (h *LandingHandler) ThankYou(w http.ResponseWriter, r *http.Request) {
	guard := domain.GuardConfirmation(domain.FragmentThankYou, h.cookies.Submitted(r))
	if !guard.Visible {
		h.logger.Debug("thank-you view without submission, redirecting", "rewrite", guard.Rewrite)
		http.Redirect(w, r, "/#"+guard.Rewrite, http.StatusSeeOther)
		return
	}

	data := h.pageData(w, r)
	data.ShowThanks = true
	data.ReturnTo = "/thank-you#" + domain.FragmentThankYou

	h.renderer.RenderHTTP(w, "public/home", data)
}

// DismissThankYou clears the submission flag ("Back to Home").
func (h *LandingHandler) DismissThankYou(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSubmitted(w)
	http.Redirect(w, r, "/#"+domain.FragmentHome, http.StatusSeeOther)
}

// =============================================================================
// POST /appearance - Light/Dark Toggle
// =============================================================================

// ToggleAppearance flips the color scheme and returns the visitor to the
// page they came from.
func (h *LandingHandler) ToggleAppearance(w http.ResponseWriter, r *http.Request) {
	next := h.cookies.Appearance(r).Toggle()
	h.cookies.SetAppearance(w, next)
	metrics.AppearanceToggled(string(next))

	returnTo := r.FormValue("return_to")
	if !isSafeRedirectURL(returnTo) {
		returnTo = "/#" + domain.FragmentHome
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// =============================================================================
// GET /order/fields - Conditional Fields Partial
// =============================================================================

// OrderFields renders the category-dependent order fields for htmx.
func (h *LandingHandler) OrderFields(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)
	data.Form = r.URL.Query()
	data.UI.CustomerType = domain.ParseCustomerType(data.Form.Get(domain.FieldCustomerType))

	h.renderer.RenderPartial(w, "order_fields", data)
}

// =============================================================================
// Helpers
// =============================================================================

// isSafeRedirectURL checks that a redirect target stays on this site.
//
// Examples:
// - "/#faq"             -> true
// - "/thank-you"        -> true
// - "//evil.com"        -> false (protocol-relative)
// - "https://evil.com"  -> false (absolute URL)
func isSafeRedirectURL(rawURL string) bool {
	if !strings.HasPrefix(rawURL, "/") || strings.HasPrefix(rawURL, "//") {
		return false
	}
	if strings.Contains(rawURL, `\`) {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return parsed.Scheme == "" && parsed.Host == ""
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// =============================================================================
// Route Registration Helper
// =============================================================================

// RegisterRoutes registers the landing routes on the provided ServeMux.
// protect wraps the state-changing routes (CSRF); limit wraps POST /order.
//
// Usage in main.go:
//
//	landing := handler.NewLandingHandler(siteCfg, content, orders, renderer, logger, isSecure)
//	landing.RegisterRoutes(mux, csrfProtect, orderLimiter)
func (h *LandingHandler) RegisterRoutes(mux *http.ServeMux, protect, limit func(http.Handler) http.Handler) {
	if protect == nil {
		protect = passthrough
	}
	if limit == nil {
		limit = passthrough
	}

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /thank-you", h.ThankYou)
	mux.Handle("POST /thank-you/dismiss", protect(http.HandlerFunc(h.DismissThankYou)))
	mux.Handle("POST /appearance", protect(http.HandlerFunc(h.ToggleAppearance)))

	mux.HandleFunc("GET /order/fields", h.OrderFields)
	mux.Handle("POST /order", limit(protect(http.HandlerFunc(h.SubmitOrder))))
	mux.HandleFunc("GET /order/complete", h.CompleteOrder)

	mux.HandleFunc("GET /", h.NotFound)
}

// NotFound answers any unknown path.
func (h *LandingHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundResponse(w, r, h.logger)
}

func passthrough(next http.Handler) http.Handler { return next }
