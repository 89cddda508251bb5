package metrics

import "time"

// RelayStarted should be called when an outbound request is issued.
func RelayStarted() {
	RelayInFlight.Inc()
}

// RelaySucceeded records a 2xx answer from the relay or webhook
func RelaySucceeded(target string, duration time.Duration) {
	RelayInFlight.Dec()
	RelayRequests.WithLabelValues(target, "ok").Inc()
	RelayRequestDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// RelayFailed records a transport error or non-2xx status
func RelayFailed(target string, duration time.Duration) {
	RelayInFlight.Dec()
	RelayRequests.WithLabelValues(target, "error").Inc()
	RelayRequestDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// OrderSubmitted records the outcome of an order-interest submission
func OrderSubmitted(outcome string) {
	OrderSubmissions.WithLabelValues(outcome).Inc()
}

// AppearanceToggled records a color-scheme switch
func AppearanceToggled(to string) {
	AppearanceToggles.WithLabelValues(to).Inc()
}

// RequestRateLimited records a request rejected by the rate limiter
func RequestRateLimited(path string) {
	RateLimited.WithLabelValues(normalizePath(path)).Inc()
}
