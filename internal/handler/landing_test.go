package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DukeRupert/localguys/internal/csrf"
	"github.com/DukeRupert/localguys/internal/domain"
	"github.com/DukeRupert/localguys/internal/relay"
	"github.com/DukeRupert/localguys/internal/service"
	"github.com/DukeRupert/localguys/internal/session"
	"github.com/DukeRupert/localguys/internal/site"
	"github.com/DukeRupert/localguys/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Harness
// =============================================================================

// upstream records the outbound relay/webhook requests.
type upstream struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	server   *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, r)
		u.bodies = append(u.bodies, string(body))
		u.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *upstream) at(i int) (*http.Request, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[i], u.bodies[i]
}

type harness struct {
	mux        *http.ServeMux
	dispatcher *relay.Dispatcher
}

func newHarness(t *testing.T, cfg site.Config, endpoints relay.Endpoints) *harness {
	t.Helper()

	logger := discardLogger()
	renderer, err := NewRendererFromFS(web.Templates(), logger)
	require.NoError(t, err)

	dispatcher := relay.NewDispatcher(relay.NewClient(http.DefaultClient, time.Second), time.Second, logger)
	orders := service.NewOrderService(service.OrderConfig{
		Enabled:   cfg.ContactEnabled,
		Endpoints: endpoints,
	}, dispatcher, logger)

	h := NewLandingHandler(cfg, site.DefaultContent(), orders, renderer, logger, false)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, csrf.Protect(logger, func(w http.ResponseWriter, r *http.Request) {
		ForbiddenResponse(w, r, logger)
	}), nil)

	return &harness{mux: mux, dispatcher: dispatcher}
}

func testSite() site.Config {
	return site.Config{
		Brand:          "The Local Guys' Organics",
		Tagline:        "Ultra-fresh organic vegetables",
		ContactEnabled: true,
		RelayID:        "xyz",
		RelayBaseURL:   "https://formspree.io",
		Social:         site.Social{Instagram: "#", Facebook: "#"},
		ConfirmDelay:   900 * time.Millisecond,
	}
}

// browser keeps cookies between requests the way a browser session would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest("GET", target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if _, ok := b.cookies[csrf.CookieName]; !ok {
		b.get("/")
	}
	form.Set(csrf.FormFieldName, b.cookies[csrf.CookieName].Value)

	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func janeOrder() url.Values {
	return url.Values{
		domain.FieldHoneypot:     {""},
		domain.FieldCustomerType: {"Household"},
		domain.FieldName:         {"Jane"},
		domain.FieldLocation:     {"Elm St"},
		domain.FieldPhone:        {"555-1234"},
		domain.FieldEmail:        {"jane@example.com"},
	}
}

var completeLink = regexp.MustCompile(`hx-get="/order/complete\?token=([A-Za-z0-9_-]+)"`)

// =============================================================================
// View Rendering
// =============================================================================

func TestHome_RendersAllSections(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	rec := newBrowser(t, h.mux).get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	for _, id := range []string{"home", "benefits", "for", "about", "faq", "cta", "order", "contact"} {
		assert.Contains(t, body, `id="`+id+`"`, "section %s", id)
	}
	assert.NotContains(t, body, `id="thank-you"`)
	assert.NotContains(t, body, "Sent!")
	assert.Contains(t, body, `<html lang="en" class="">`)
	assert.Contains(t, body, `aria-label="Order interest form"`)
	assert.Contains(t, body, `action="https://formspree.io/f/xyz"`)
	assert.Contains(t, body, `name="website"`)
	assert.Contains(t, body, "What is terraponics?")
}

func TestHome_ContactDisabledShowsPlaceholder(t *testing.T) {
	cfg := testSite()
	cfg.ContactEnabled = false
	h := newHarness(t, cfg, relay.Endpoints{})

	body := newBrowser(t, h.mux).get("/").Body.String()

	assert.NotContains(t, body, `aria-label="Order interest form"`)
	assert.NotContains(t, body, `aria-label="Contact form"`)
	assert.Equal(t, 2, strings.Count(body, "Add a Formspree ID in CONFIG.contact to enable the form."))
}

func TestHome_UnknownPath(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	rec := newBrowser(t, h.mux).get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderFields_Visibility(t *testing.T) {
	tests := []struct {
		customerType string
		business     bool
		delivery     bool
	}{
		{"Restaurant", true, false},
		{"Household", false, true},
		{"", false, false},
		{"Alien", false, false},
	}

	h := newHarness(t, testSite(), relay.Endpoints{})

	for _, tt := range tests {
		t.Run("type="+tt.customerType, func(t *testing.T) {
			rec := newBrowser(t, h.mux).get("/order/fields?customer_type=" + url.QueryEscape(tt.customerType))
			require.Equal(t, http.StatusOK, rec.Code)

			body := rec.Body.String()
			assert.NotContains(t, body, "<html")
			assert.Contains(t, body, `id="order-fields"`)
			assert.Equal(t, tt.business, strings.Contains(body, `name="business"`))
			assert.Equal(t, tt.delivery, strings.Contains(body, `name="delivery"`))
		})
	}
}

func TestHome_CustomerTypeQueryPreselects(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	body := newBrowser(t, h.mux).get("/?customer_type=Restaurant&name=Bo").Body.String()

	assert.Contains(t, body, `name="business"`)
	assert.NotContains(t, body, `name="delivery"`)
	assert.Regexp(t, `value="Restaurant" required checked`, body)
	assert.Contains(t, body, `value="Bo"`)
}

// =============================================================================
// Appearance
// =============================================================================

func TestAppearance_ToggleTwiceRestores(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	b := newBrowser(t, h.mux)

	assert.Contains(t, b.get("/").Body.String(), `<html lang="en" class="">`)

	rec := b.post("/appearance", url.Values{"return_to": {"/#faq"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#faq", rec.Header().Get("Location"))
	assert.Contains(t, b.get("/").Body.String(), `<html lang="en" class="dark">`)

	b.post("/appearance", url.Values{})
	assert.Contains(t, b.get("/").Body.String(), `<html lang="en" class="">`)
}

func TestAppearance_RejectsOffsiteReturn(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	rec := newBrowser(t, h.mux).post("/appearance", url.Values{"return_to": {"//evil.example"}})

	assert.Equal(t, "/#home", rec.Header().Get("Location"))
}

func TestAppearance_RequiresCSRF(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})

	req := httptest.NewRequest("POST", "/appearance", nil)
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// =============================================================================
// Confirmation Guard
// =============================================================================

func TestThankYou_WithoutFlagRedirectsHome(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	rec := newBrowser(t, h.mux).get("/thank-you")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#home", rec.Header().Get("Location"))
}

func TestThankYou_ForgedFlagValueRejected(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	req := httptest.NewRequest("GET", "/thank-you", nil)
	req.AddCookie(&http.Cookie{Name: session.SubmittedCookie, Value: "yes"})
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestThankYou_DismissClearsFlag(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	b := newBrowser(t, h.mux)
	b.cookies[session.SubmittedCookie] = &http.Cookie{Name: session.SubmittedCookie, Value: "1"}

	rec := b.get("/thank-you")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="thank-you"`)
	assert.Contains(t, rec.Body.String(), "Back to Home")

	rec = b.post("/thank-you/dismiss", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#home", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusSeeOther, b.get("/thank-you").Code)
}

// =============================================================================
// Order Submission
// =============================================================================

func TestSubmitOrder_EndToEnd(t *testing.T) {
	hook := newUpstream(t)
	h := newHarness(t, testSite(), relay.Endpoints{WebhookURL: hook.server.URL})
	b := newBrowser(t, h.mux)

	rec := b.post("/order", janeOrder())
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "✅ Sent!", "banner shows immediately")
	assert.Contains(t, body, `hx-trigger="load delay:900ms"`)
	assert.Contains(t, body, `content="1; url=/order/complete?token=`)

	match := completeLink.FindStringSubmatch(body)
	require.Len(t, match, 2)
	token := match[1]

	// The flag is not set until the delayed step runs.
	_, submitted := b.cookies[session.SubmittedCookie]
	assert.False(t, submitted)

	h.dispatcher.Wait()
	require.Equal(t, 1, hook.count())
	sent, sentBody := hook.at(0)
	assert.Equal(t, "application/json", sent.Header.Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(sentBody), &payload))
	assert.Equal(t, "Jane", payload["name"])
	assert.Equal(t, "Household", payload["customer_type"])
	assert.NotContains(t, payload, "website")
	assert.NotContains(t, payload, "csrf_token")

	rec = b.get("/order/complete?token=" + token)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/thank-you#thank-you", rec.Header().Get("Location"))
	assert.Equal(t, "1", b.cookies[session.SubmittedCookie].Value)
	assert.NotContains(t, b.cookies, session.PendingCookie)

	rec = b.get("/thank-you")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="thank-you"`)
}

func TestSubmitOrder_RelayMultipart(t *testing.T) {
	relaySrv := newUpstream(t)
	h := newHarness(t, testSite(), relay.Endpoints{RelayURL: relaySrv.server.URL + "/f/xyz"})

	rec := newBrowser(t, h.mux).post("/order", janeOrder())
	require.Equal(t, http.StatusOK, rec.Code)

	h.dispatcher.Wait()
	require.Equal(t, 1, relaySrv.count())
	req, body := relaySrv.at(0)
	assert.Equal(t, "/f/xyz", req.URL.Path)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
	assert.Contains(t, body, `name="website"`)
	assert.NotContains(t, body, `name="csrf_token"`)
}

func TestSubmitOrder_NoTargetStillConfirms(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	rec := newBrowser(t, h.mux).post("/order", janeOrder())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "✅ Sent!")
}

func TestSubmitOrder_HoneypotNoRequestNoUIChange(t *testing.T) {
	hook := newUpstream(t)
	h := newHarness(t, testSite(), relay.Endpoints{WebhookURL: hook.server.URL})
	b := newBrowser(t, h.mux)

	form := janeOrder()
	form.Set(domain.FieldHoneypot, "http://spam.example")
	rec := b.post("/order", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#order", rec.Header().Get("Location"))
	assert.NotContains(t, b.cookies, session.PendingCookie)

	h.dispatcher.Wait()
	assert.Equal(t, 0, hook.count())
}

func TestSubmitOrder_DisabledIsNoop(t *testing.T) {
	cfg := testSite()
	cfg.ContactEnabled = false
	hook := newUpstream(t)
	h := newHarness(t, cfg, relay.Endpoints{WebhookURL: hook.server.URL})

	rec := newBrowser(t, h.mux).post("/order", janeOrder())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#order", rec.Header().Get("Location"))
	h.dispatcher.Wait()
	assert.Equal(t, 0, hook.count())
}

func TestSubmitOrder_RequiresCSRF(t *testing.T) {
	hook := newUpstream(t)
	h := newHarness(t, testSite(), relay.Endpoints{WebhookURL: hook.server.URL})

	req := httptest.NewRequest("POST", "/order", strings.NewReader(janeOrder().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	h.dispatcher.Wait()
	assert.Equal(t, 0, hook.count())
}

func TestSubmitOrder_HTMX(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	b := newBrowser(t, h.mux)
	b.get("/")

	form := janeOrder()
	form.Set(csrf.FormFieldName, b.cookies[csrf.CookieName].Value)
	req := httptest.NewRequest("POST", "/order", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := b.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `id="order-ack"`)
	assert.Contains(t, body, "✅ Sent!")

	match := completeLink.FindStringSubmatch(body)
	require.Len(t, match, 2)

	req = httptest.NewRequest("GET", "/order/complete?token="+match[1], nil)
	req.Header.Set("HX-Request", "true")
	rec = b.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/thank-you#thank-you", rec.Header().Get("HX-Redirect"))
	assert.Contains(t, b.cookies, session.SubmittedCookie)
}

func TestCompleteOrder_MismatchedToken(t *testing.T) {
	h := newHarness(t, testSite(), relay.Endpoints{})
	b := newBrowser(t, h.mux)

	require.Equal(t, http.StatusOK, b.post("/order", janeOrder()).Code)

	rec := b.get("/order/complete?token=forged")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#home", rec.Header().Get("Location"))
	assert.NotContains(t, b.cookies, session.SubmittedCookie)
}

// =============================================================================
// Helpers
// =============================================================================

func TestIsSafeRedirectURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"/", true},
		{"/#faq", true},
		{"/thank-you#thank-you", true},
		{"", false},
		{"//evil.com", false},
		{"https://evil.com", false},
		{"javascript:alert(1)", false},
		{`/\evil.com`, false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, isSafeRedirectURL(tt.url))
		})
	}
}
