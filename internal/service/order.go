// Package service contains the business logic layer.
//
// This file implements the order-interest submitter: spam filtering,
// payload shaping and fire-and-forget delivery to the relay or webhook.
package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/DukeRupert/localguys/internal/domain"
	"github.com/DukeRupert/localguys/internal/metrics"
	"github.com/DukeRupert/localguys/internal/relay"
	"github.com/google/uuid"
)

// Submission outcomes, also used as metric labels.
const (
	OutcomeSpam       = "spam"
	OutcomeDispatched = "dispatched"
	OutcomeNoTarget   = "no_target"
	OutcomeDisabled   = "disabled"
)

// =============================================================================
// Interface Definition
// =============================================================================

// OrderService defines the order-interest submission contract.
type OrderService interface {
	// Submit filters spam, builds the outbound request and hands it to the
	// dispatcher without waiting for it. A returned Result with Spam or
	// Disabled set means the caller must not change any UI state.
	Submit(ctx context.Context, fields url.Values) (Result, error)
}

// Dispatcher starts a delivery and returns immediately.
// *relay.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(req relay.Request)
}

// Result describes what Submit did.
type Result struct {
	// ID is set when a request was built (even for TargetNone).
	ID uuid.UUID
	// Target is where the submission was sent.
	Target relay.Target
	// Spam is true when the honeypot was filled; nothing was sent.
	Spam bool
	// Disabled is true when lead capture is turned off; nothing was sent.
	Disabled bool
}

// Outcome returns the metric label for r.
func (r Result) Outcome() string {
	switch {
	case r.Disabled:
		return OutcomeDisabled
	case r.Spam:
		return OutcomeSpam
	case r.Target == relay.TargetNone:
		return OutcomeNoTarget
	default:
		return OutcomeDispatched
	}
}

// Acknowledge reports whether the caller should run the confirmation flow
// (banner, then thank-you view). Delivery failures do not affect it.
func (r Result) Acknowledge() bool {
	return !r.Spam && !r.Disabled
}

// =============================================================================
// Implementation
// =============================================================================

// OrderConfig carries the submitter's settings.
type OrderConfig struct {
	Enabled   bool
	Endpoints relay.Endpoints
}

type orderService struct {
	cfg        OrderConfig
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(cfg OrderConfig, dispatcher Dispatcher, logger *slog.Logger) OrderService {
	return &orderService{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// csrfField is owned by the HTTP layer and never forwarded.
const csrfField = "csrf_token"

func (s *orderService) Submit(ctx context.Context, fields url.Values) (Result, error) {
	var res Result
	defer func() { metrics.OrderSubmitted(res.Outcome()) }()

	if !s.cfg.Enabled {
		res.Disabled = true
		s.logger.WarnContext(ctx, "order submission while lead capture is disabled")
		return res, nil
	}

	if domain.IsSpam(fields) {
		res.Spam = true
		s.logger.InfoContext(ctx, "order submission dropped by honeypot")
		return res, nil
	}

	req, ok := s.cfg.Endpoints.NewRequest(domain.Without(fields, csrfField))
	res.ID = req.ID
	res.Target = req.Target

	if !ok {
		s.logger.WarnContext(ctx, "order submission not sent: no webhook or relay configured",
			"submission_id", res.ID)
		return res, nil
	}

	s.logger.InfoContext(ctx, "order submission accepted",
		"submission_id", res.ID,
		"target", string(res.Target),
		"customer_type", fields.Get(domain.FieldCustomerType),
	)
	s.dispatcher.Dispatch(req)

	return res, nil
}
