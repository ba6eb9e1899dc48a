package outbound

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/metrics"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ListActiveByEvent(
	ctx context.Context,
	event string,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(
	ctx context.Context,
	subscriptions []*subscriptionDomain.Subscription,
	payload domain.OutboundPayload,
) []DeliveryResult {
	args := m.Called(ctx, subscriptions, payload)
	return args.Get(0).([]DeliveryResult)
}

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDelivery(ctx context.Context, event, outcome string) {
	m.Called(ctx, event, outcome)
}

func (m *mockBusinessMetrics) AddInFlight(ctx context.Context, domain string, delta int64) {
	m.Called(ctx, domain, delta)
}

func newTestPublisher(
	resolver *mockResolver,
	broadcaster *mockBroadcaster,
	m metrics.BusinessMetrics,
) *Publisher {
	p := NewPublisher(resolver, broadcaster, m, slog.New(slog.DiscardHandler))
	p.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	return p
}

func TestPublisher_PublishSync(t *testing.T) {
	ctx := context.Background()
	subs := []*subscriptionDomain.Subscription{{ID: uuid.New()}, {ID: uuid.New()}}

	t.Run("Success_PartialFailureReported", func(t *testing.T) {
		resolver := &mockResolver{}
		broadcaster := &mockBroadcaster{}
		m := &mockBusinessMetrics{}

		resolver.On("ListActiveByEvent", ctx, "payment.recorded").Return(subs, nil).Once()
		broadcaster.On("Broadcast", ctx, subs, mock.MatchedBy(func(p domain.OutboundPayload) bool {
			return p.Event == "payment.recorded" && p.Timestamp.Equal(time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC))
		})).Return([]DeliveryResult{
			{SubscriptionID: subs[0].ID},
			{SubscriptionID: subs[1].ID, StatusCode: 500, Err: errors.New("boom")},
		}).Once()
		m.On("AddInFlight", ctx, "outbound", int64(1)).Return().Once()
		m.On("AddInFlight", ctx, "outbound", int64(-1)).Return().Once()
		m.On("RecordDelivery", ctx, "payment.recorded", metrics.DeliveryDelivered).Return().Once()
		m.On("RecordDelivery", ctx, "payment.recorded", metrics.DeliveryRejected).Return().Once()
		m.On("RecordOperation", ctx, "outbound", "outbound_broadcast", "partial_failure").Return().Once()
		m.On("RecordDuration", ctx, "outbound", "outbound_broadcast", mock.Anything, "partial_failure").Return().Once()

		results, err := newTestPublisher(resolver, broadcaster, m).PublishSync(ctx, "payment.recorded", map[string]string{})

		require.NoError(t, err)
		assert.Len(t, results, 2)
		broadcaster.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Success_NoSubscribers", func(t *testing.T) {
		resolver := &mockResolver{}
		broadcaster := &mockBroadcaster{}

		resolver.On("ListActiveByEvent", ctx, "account.provisioned").
			Return([]*subscriptionDomain.Subscription{}, nil).Once()

		results, err := newTestPublisher(resolver, broadcaster, metrics.NewNoOpBusinessMetrics()).
			PublishSync(ctx, "account.provisioned", nil)

		require.NoError(t, err)
		assert.Empty(t, results)
		broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_ResolverFailure", func(t *testing.T) {
		resolver := &mockResolver{}
		resolver.On("ListActiveByEvent", ctx, "payment.recorded").Return(nil, errors.New("db down")).Once()

		_, err := newTestPublisher(resolver, &mockBroadcaster{}, metrics.NewNoOpBusinessMetrics()).
			PublishSync(ctx, "payment.recorded", nil)

		assert.Error(t, err)
	})
}

func TestPublisher_PublishAndWait(t *testing.T) {
	t.Run("Success_DetachedFromCallerCancellation", func(t *testing.T) {
		resolver := &mockResolver{}
		broadcaster := &mockBroadcaster{}
		subs := []*subscriptionDomain.Subscription{{ID: uuid.New()}}

		resolver.On("ListActiveByEvent", mock.Anything, "payment.recorded").
			Run(func(args mock.Arguments) {
				assert.NoError(t, args.Get(0).(context.Context).Err())
			}).
			Return(subs, nil).Once()
		broadcaster.On("Broadcast", mock.Anything, subs, mock.Anything).
			Return([]DeliveryResult{{SubscriptionID: subs[0].ID}}).Once()

		p := newTestPublisher(resolver, broadcaster, metrics.NewNoOpBusinessMetrics())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p.Publish(ctx, "payment.recorded", map[string]string{"id": "pay_1"})

		waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
		defer waitCancel()
		require.NoError(t, p.Wait(waitCtx))

		resolver.AssertExpectations(t)
		broadcaster.AssertExpectations(t)
	})

	t.Run("Success_ClosedPublisherDropsEvents", func(t *testing.T) {
		resolver := &mockResolver{}
		p := newTestPublisher(resolver, &mockBroadcaster{}, metrics.NewNoOpBusinessMetrics())

		require.NoError(t, p.Wait(context.Background()))
		p.Publish(context.Background(), "payment.recorded", nil)

		_, err := p.PublishSync(context.Background(), "payment.recorded", nil)
		assert.ErrorIs(t, err, ErrPublisherClosed)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		resolver.AssertNotCalled(t, "ListActiveByEvent", mock.Anything, mock.Anything)
	})

	t.Run("Error_WaitDeadline", func(t *testing.T) {
		release := make(chan struct{})
		resolver := &mockResolver{}
		resolver.On("ListActiveByEvent", mock.Anything, "payment.recorded").
			Run(func(mock.Arguments) { <-release }).
			Return([]*subscriptionDomain.Subscription{}, nil).Once()

		p := newTestPublisher(resolver, &mockBroadcaster{}, metrics.NewNoOpBusinessMetrics())
		p.Publish(context.Background(), "payment.recorded", nil)

		waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.Wait(waitCtx), context.DeadlineExceeded)

		close(release)
		require.NoError(t, p.Wait(context.Background()))
	})
}
