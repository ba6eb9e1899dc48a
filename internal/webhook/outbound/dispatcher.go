// Package outbound delivers domain events to subscriber endpoints.
//
// Deliveries are signed with the subscription's secret using the split header scheme:
// X-Webhook-Signature carries "v1=<hex>" over "<timestamp>.<body>" and X-Webhook-Timestamp
// carries the unix timestamp, so receivers verify with the same HMAC family used inbound.
package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/signature"
)

// Headers set on every outbound delivery besides the signature headers.
const (
	EventHeader      = "X-Webhook-Event"
	DeliveryIDHeader = "X-Webhook-Id"
)

const userAgent = "webhooks-dispatcher/1.0"

// Config holds dispatcher configuration.
type Config struct {
	// Concurrency caps the parallel deliveries of a single broadcast.
	Concurrency int
	// Timeout bounds one delivery, connection and response included.
	Timeout time.Duration
	// MaxResponseBytes caps how much of a response body is drained.
	MaxResponseBytes int64
}

// DeliveryResult is the outcome of one delivery within a broadcast.
// Err is nil on success and a *domain.DeliveryError otherwise.
type DeliveryResult struct {
	SubscriptionID uuid.UUID
	DeliveryID     string
	StatusCode     int
	Duration       time.Duration
	Err            error
}

// Dispatcher posts signed payloads to subscriptions.
type Dispatcher struct {
	client *http.Client
	scheme *signature.SplitScheme
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher. A nil client uses a dedicated http.Client.
func NewDispatcher(client *http.Client, config Config, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = 64 << 10
	}
	return &Dispatcher{
		client: client,
		scheme: signature.NewSplitScheme(0),
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Send delivers payload to one subscription. Any non-2xx status is a failure.
func (d *Dispatcher) Send(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
	payload domain.OutboundPayload,
) error {
	_, _, err := d.send(ctx, subscription, payload)
	return err
}

// Broadcast delivers payload to every subscription and waits for all of them.
// A failing subscriber never cancels or delays its siblings beyond the concurrency cap;
// failures are logged and reported in the results, which follow the input order.
func (d *Dispatcher) Broadcast(
	ctx context.Context,
	subscriptions []*subscriptionDomain.Subscription,
	payload domain.OutboundPayload,
) []DeliveryResult {
	results := make([]DeliveryResult, len(subscriptions))

	var g errgroup.Group
	g.SetLimit(d.config.Concurrency)

	for i, subscription := range subscriptions {
		g.Go(func() error {
			start := time.Now()
			deliveryID, statusCode, err := d.send(ctx, subscription, payload)
			results[i] = DeliveryResult{
				SubscriptionID: subscription.ID,
				DeliveryID:     deliveryID,
				StatusCode:     statusCode,
				Duration:       time.Since(start),
				Err:            err,
			}

			if err != nil {
				d.logger.Warn("outbound delivery failed",
					slog.String("subscription_id", subscription.ID.String()),
					slog.String("url", RedactURL(subscription.URL)),
					slog.String("event", payload.Event),
					slog.String("delivery_id", deliveryID),
					slog.Int("status_code", statusCode),
					slog.Any("error", err),
				)
				return nil
			}

			d.logger.Debug("outbound delivery succeeded",
				slog.String("subscription_id", subscription.ID.String()),
				slog.String("event", payload.Event),
				slog.String("delivery_id", deliveryID),
				slog.Int("status_code", statusCode),
			)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (d *Dispatcher) send(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
	payload domain.OutboundPayload,
) (string, int, error) {
	deliveryID := uuid.Must(uuid.NewV7()).String()

	fail := func(statusCode int, err error) (string, int, error) {
		return deliveryID, statusCode, &domain.DeliveryError{
			SubscriptionID: subscription.ID.String(),
			URL:            RedactURL(subscription.URL),
			Event:          payload.Event,
			StatusCode:     statusCode,
			Err:            err,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fail(0, fmt.Errorf("failed to marshal payload: %w", err))
	}

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, subscription.URL, bytes.NewReader(body))
	if err != nil {
		return fail(0, unwrapURLError(err))
	}

	for key, values := range d.scheme.Sign(body, subscription.Secret, d.now()) {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(EventHeader, payload.Event)
	req.Header.Set(DeliveryIDHeader, deliveryID)

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(0, unwrapURLError(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, d.config.MaxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return deliveryID, resp.StatusCode, nil
}
