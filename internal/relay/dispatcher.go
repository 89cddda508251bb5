package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DukeRupert/localguys/internal/domain"
	"github.com/DukeRupert/localguys/internal/metrics"
)

// Sender delivers one request. *Client implements it.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// Dispatcher runs deliveries in the background so the caller never waits on
// the network. Each delivery gets its own timeout, independent of the
// request that triggered it.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch starts delivering req and returns immediately. The outcome is
// only logged.
func (d *Dispatcher) Dispatch(req Request) {
	d.wg.Add(1)
	go d.run(req)
}

func (d *Dispatcher) run(req Request) {
	defer d.wg.Done()

	logger := d.logger.With("submission_id", req.ID, "target", string(req.Target))

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	metrics.RelayStarted()
	start := time.Now()

	if err := d.sender.Send(ctx, req); err != nil {
		metrics.RelayFailed(string(req.Target), time.Since(start))
		attrs := []any{"error", err, "duration_ms", time.Since(start).Milliseconds()}
		// Relay outages log at warn, build failures at error
		if domain.IsCode(err, domain.EUNAVAILABLE) {
			logger.Warn("order delivery failed", attrs...)
		} else {
			logger.Error("order delivery failed", attrs...)
		}
		return
	}

	metrics.RelaySucceeded(string(req.Target), time.Since(start))
	logger.Info("order delivered", "duration_ms", time.Since(start).Milliseconds())
}

// Wait blocks until every dispatched delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits for in-flight deliveries, giving up after timeout.
func (d *Dispatcher) Shutdown(timeout time.Duration) {
	d.logger.Info("Draining relay deliveries...")

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Relay deliveries drained")
	case <-time.After(timeout):
		d.logger.Warn("Relay drain timeout exceeded, some deliveries may be lost")
	}
}
