package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/metrics"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// subscriptionUseCaseWithMetrics decorates SubscriptionUseCase with metrics instrumentation.
type subscriptionUseCaseWithMetrics struct {
	next    SubscriptionUseCase
	metrics metrics.BusinessMetrics
}

// NewSubscriptionUseCaseWithMetrics wraps a SubscriptionUseCase with metrics recording.
func NewSubscriptionUseCaseWithMetrics(useCase SubscriptionUseCase, m metrics.BusinessMetrics) SubscriptionUseCase {
	return &subscriptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *subscriptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "subscription", operation, status)
	s.metrics.RecordDuration(ctx, "subscription", operation, time.Since(start), status)
}

// Create records metrics for subscription creation.
func (s *subscriptionUseCaseWithMetrics) Create(
	ctx context.Context,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscription, err := s.next.Create(ctx, input)
	s.record(ctx, "subscription_create", start, err)
	return subscription, err
}

// Get records metrics for subscription retrieval.
func (s *subscriptionUseCaseWithMetrics) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscription, err := s.next.Get(ctx, subscriptionID)
	s.record(ctx, "subscription_get", start, err)
	return subscription, err
}

// List records metrics for subscription listing.
func (s *subscriptionUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscriptions, err := s.next.List(ctx, offset, limit)
	s.record(ctx, "subscription_list", start, err)
	return subscriptions, err
}

// Deactivate records metrics for subscription deactivation.
func (s *subscriptionUseCaseWithMetrics) Deactivate(ctx context.Context, subscriptionID uuid.UUID) error {
	start := time.Now()
	err := s.next.Deactivate(ctx, subscriptionID)
	s.record(ctx, "subscription_deactivate", start, err)
	return err
}

// ListActiveByEvent records metrics for subscription resolution.
func (s *subscriptionUseCaseWithMetrics) ListActiveByEvent(
	ctx context.Context,
	event string,
) ([]*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscriptions, err := s.next.ListActiveByEvent(ctx, event)
	s.record(ctx, "subscription_resolve", start, err)
	return subscriptions, err
}
