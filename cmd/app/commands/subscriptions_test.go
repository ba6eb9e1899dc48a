package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	subscriptionMocks "github.com/allisson/webhooks/internal/subscription/usecase/mocks"
)

func newTestSubscription() *subscriptionDomain.Subscription {
	return &subscriptionDomain.Subscription{
		ID:        uuid.Must(uuid.NewV7()),
		URL:       "https://example.com/hooks",
		Events:    []string{"payment.recorded"},
		Secret:    "whsec_0123456789abcdef",
		IsActive:  true,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestParseEvents(t *testing.T) {
	assert.Equal(t, []string{"payment.recorded", "account.provisioned"},
		parseEvents(" payment.recorded, ,account.provisioned "))
	assert.Empty(t, parseEvents(""))
}

func TestRunCreateSubscription(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("text", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		subscription := newTestSubscription()

		useCase.On("Create", ctx, &subscriptionDomain.CreateSubscriptionInput{
			URL:         "https://example.com/hooks",
			Events:      []string{"payment.recorded", "account.provisioned"},
			Description: "billing",
		}).Return(subscription, nil).Once()

		var out bytes.Buffer
		err := RunCreateSubscription(ctx, useCase, logger, &out,
			"https://example.com/hooks", "payment.recorded,account.provisioned", "billing", "", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), subscription.ID.String())
		assert.Contains(t, out.String(), subscription.Secret)
		useCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		subscription := newTestSubscription()
		useCase.On("Create", ctx, mock.Anything).Return(subscription, nil).Once()

		var out bytes.Buffer
		err := RunCreateSubscription(ctx, useCase, logger, &out,
			"https://example.com/hooks", "payment.recorded", "", "", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, subscription.ID.String(), result["id"])
		assert.Equal(t, subscription.Secret, result["secret"])
	})

	t.Run("use case error", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		useCase.On("Create", ctx, mock.Anything).Return(nil, assert.AnError).Once()

		var out bytes.Buffer
		err := RunCreateSubscription(ctx, useCase, logger, &out, "ftp://x", "", "", "", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create subscription")
		assert.Empty(t, out.String())
	})
}

func TestRunListSubscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		subscription := newTestSubscription()
		useCase.On("List", ctx, 0, 50).Return([]*subscriptionDomain.Subscription{subscription}, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunListSubscriptions(ctx, useCase, &out, 0, 50, "text"))

		assert.Contains(t, out.String(), subscription.ID.String())
		assert.Contains(t, out.String(), "active")
		assert.NotContains(t, out.String(), subscription.Secret)
	})

	t.Run("json never includes secrets", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		subscription := newTestSubscription()
		useCase.On("List", ctx, 10, 5).Return([]*subscriptionDomain.Subscription{subscription}, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunListSubscriptions(ctx, useCase, &out, 10, 5, "json"))

		assert.Contains(t, out.String(), subscription.URL)
		assert.NotContains(t, out.String(), "secret")
	})

	t.Run("empty", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		useCase.On("List", ctx, 0, 50).Return([]*subscriptionDomain.Subscription{}, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunListSubscriptions(ctx, useCase, &out, 0, 50, "text"))
		assert.Contains(t, out.String(), "No subscriptions found")
	})

	t.Run("invalid pagination", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		var out bytes.Buffer
		assert.Error(t, RunListSubscriptions(ctx, useCase, &out, -1, 50, "text"))
		assert.Error(t, RunListSubscriptions(ctx, useCase, &out, 0, 101, "text"))
		useCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunDeactivateSubscription(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("success", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		id := uuid.Must(uuid.NewV7())
		useCase.On("Deactivate", ctx, id).Return(nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunDeactivateSubscription(ctx, useCase, logger, &out, id.String(), "text"))
		assert.Contains(t, out.String(), "deactivated")
		useCase.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		var out bytes.Buffer
		err := RunDeactivateSubscription(ctx, useCase, logger, &out, "not-a-uuid", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid subscription ID format")
	})

	t.Run("use case error", func(t *testing.T) {
		useCase := &subscriptionMocks.MockSubscriptionUseCase{}
		id := uuid.Must(uuid.NewV7())
		useCase.On("Deactivate", ctx, id).Return(subscriptionDomain.ErrSubscriptionNotFound).Once()

		var out bytes.Buffer
		err := RunDeactivateSubscription(ctx, useCase, logger, &out, id.String(), "json")
		require.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})
}
