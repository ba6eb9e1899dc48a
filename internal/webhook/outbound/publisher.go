package outbound

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/metrics"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

// SubscriptionResolver returns the active subscriptions for an event with usable secrets.
type SubscriptionResolver interface {
	ListActiveByEvent(ctx context.Context, event string) ([]*subscriptionDomain.Subscription, error)
}

// Broadcaster fans a payload out to subscriptions.
type Broadcaster interface {
	Broadcast(
		ctx context.Context,
		subscriptions []*subscriptionDomain.Subscription,
		payload domain.OutboundPayload,
	) []DeliveryResult
}

// ErrPublisherClosed is returned by PublishSync after Wait has been called.
var ErrPublisherClosed = apperrors.Wrap(apperrors.ErrUnavailable, "publisher closed")

// Publisher turns committed domain changes into outbound broadcasts.
//
// Publish is fire-and-forget: it never blocks or fails the business operation that
// called it. Each call runs on its own goroutine, detached from the caller's
// cancellation, and Wait drains them on shutdown.
type Publisher struct {
	resolver    SubscriptionResolver
	broadcaster Broadcaster
	metrics     metrics.BusinessMetrics
	logger      *slog.Logger
	now         func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPublisher creates a Publisher.
func NewPublisher(
	resolver SubscriptionResolver,
	broadcaster Broadcaster,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Publisher {
	return &Publisher{
		resolver:    resolver,
		broadcaster: broadcaster,
		metrics:     businessMetrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Publish broadcasts event in the background. Events published after Wait are dropped.
func (p *Publisher) Publish(ctx context.Context, event string, data any) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("outbound event dropped, publisher closed", slog.String("event", event))
		return
	}

	p.wg.Add(1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer p.wg.Done()
		_, _ = p.publish(detached, event, data)
	}()
}

// PublishSync broadcasts event and returns the per-subscription results.
func (p *Publisher) PublishSync(ctx context.Context, event string, data any) ([]DeliveryResult, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPublisherClosed
	}
	p.wg.Add(1)
	p.mu.RUnlock()
	defer p.wg.Done()

	return p.publish(ctx, event, data)
}

func (p *Publisher) publish(ctx context.Context, event string, data any) ([]DeliveryResult, error) {
	start := time.Now()
	p.metrics.AddInFlight(ctx, "outbound", 1)
	defer p.metrics.AddInFlight(ctx, "outbound", -1)

	subscriptions, err := p.resolver.ListActiveByEvent(ctx, event)
	if err != nil {
		p.logger.Error("failed to resolve subscriptions", slog.String("event", event), slog.Any("error", err))
		p.record(ctx, "error", start)
		return nil, err
	}

	if len(subscriptions) == 0 {
		p.logger.Debug("no subscriptions for outbound event", slog.String("event", event))
		p.record(ctx, "no_subscribers", start)
		return nil, nil
	}

	payload := domain.OutboundPayload{
		Event:     event,
		Data:      data,
		Timestamp: p.now().UTC(),
	}
	results := p.broadcaster.Broadcast(ctx, subscriptions, payload)

	failed := 0
	for _, result := range results {
		outcome := deliveryOutcome(result)
		if outcome != metrics.DeliveryDelivered {
			failed++
		}
		p.metrics.RecordDelivery(ctx, event, outcome)
	}

	status := "success"
	if failed > 0 {
		status = "partial_failure"
	}
	p.record(ctx, status, start)

	p.logger.Info("outbound event broadcast",
		slog.String("event", event),
		slog.Int("subscriptions", len(subscriptions)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func deliveryOutcome(result DeliveryResult) string {
	switch {
	case result.Err == nil:
		return metrics.DeliveryDelivered
	case result.StatusCode > 0:
		return metrics.DeliveryRejected
	default:
		return metrics.DeliveryFailed
	}
}

func (p *Publisher) record(ctx context.Context, status string, start time.Time) {
	p.metrics.RecordOperation(ctx, "outbound", "outbound_broadcast", status)
	p.metrics.RecordDuration(ctx, "outbound", "outbound_broadcast", time.Since(start), status)
}

// Wait stops accepting events and blocks until in-flight broadcasts finish or ctx is done.
func (p *Publisher) Wait(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
