package handler

import (
	"net/http"

	"github.com/DukeRupert/localguys/internal/domain"
)

// =============================================================================
// POST /order - Submit Order Interest
// =============================================================================

// SubmitOrder hands the order form to the order service and starts the
// confirmation flow.
//
// Flow:
// 1. Parse the form (CSRF and rate limiting run before this handler)
// 2. Submit: honeypot check, payload, background dispatch (not awaited)
// 3. Spam or disabled: no UI change, back to #order
// 4. Otherwise: issue a pending token and render the "Sent!" banner, which
//    requests /order/complete after the confirmation delay
//
// htmx requests get the order_ack partial instead of the full page.
func (h *LandingHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.SubmitOrder", "Could not read the form."))
		return
	}

	result, err := h.orders.Submit(r.Context(), r.PostForm)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := h.pageData(w, r)
	data.ReturnTo = "/#" + domain.FragmentOrder
	data.Form = r.PostForm
	data.UI.CustomerType = domain.ParseCustomerType(r.PostForm.Get(domain.FieldCustomerType))

	if !result.Acknowledge() {
		if isHTMX(r) {
			h.renderer.RenderPartial(w, "order_ack", data)
			return
		}
		http.Redirect(w, r, "/#"+domain.FragmentOrder, http.StatusSeeOther)
		return
	}

	data.UI.ShowAck = true
	data.PendingToken = h.cookies.BeginPending(w)

	if isHTMX(r) {
		h.renderer.RenderPartial(w, "order_ack", data)
		return
	}
	h.renderer.RenderHTTP(w, "public/home", data)
}

// =============================================================================
// GET /order/complete - Delayed Confirmation Step
// =============================================================================

// CompleteOrder runs once the confirmation delay has passed: it sets the
// submission flag and navigates to the thank-you view. A token that does
// not match the pending cookie leaves the flag untouched and goes home.
func (h *LandingHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	target := "/#" + domain.FragmentHome

	if h.cookies.CompletePending(w, r, r.URL.Query().Get("token")) {
		h.cookies.MarkSubmitted(w)
		target = "/thank-you#" + domain.FragmentThankYou
	} else {
		h.logger.Info("order completion without a pending submission")
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
