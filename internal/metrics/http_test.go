package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", normalizePath("/"))
	assert.Equal(t, "/order/complete", normalizePath("/order/complete"))
	assert.Equal(t, "/static/*", normalizePath("/static/app.css"))
	assert.Equal(t, "other", normalizePath("/wp-login.php"))
}

func TestMiddleware_CountsRequests(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/order/fields", "404", "false"))

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/order/fields", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/order/fields", "404", "false"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "other", "200", "false"))

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, before, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "other", "200", "false")))
}

func TestMiddleware_LabelsHTMX(t *testing.T) {
	labels := []string{"GET", "/order/fields", "200", "true"}
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(labels...))

	req := httptest.NewRequest("GET", "/order/fields?customer_type=Restaurant", nil)
	req.Header.Set("HX-Request", "true")
	Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(labels...)))
}

func TestRequestRateLimited(t *testing.T) {
	before := testutil.ToFloat64(RateLimited.WithLabelValues("/order"))
	RequestRateLimited("/order")
	RequestRateLimited("/order")
	assert.Equal(t, before+2, testutil.ToFloat64(RateLimited.WithLabelValues("/order")))
}

func TestRelayRecorders(t *testing.T) {
	before := testutil.ToFloat64(RelayRequests.WithLabelValues("webhook", "error"))

	RelayStarted()
	RelayFailed("webhook", 0)

	assert.Equal(t, before+1, testutil.ToFloat64(RelayRequests.WithLabelValues("webhook", "error")))
}
