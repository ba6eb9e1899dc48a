// Package usecase implements subscription management and resolution for outbound dispatch.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// SubscriptionRepository defines subscription persistence.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *subscriptionDomain.Subscription) error
	Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error)
	List(ctx context.Context, offset, limit int) ([]*subscriptionDomain.Subscription, error)
	ListActive(ctx context.Context) ([]*subscriptionDomain.Subscription, error)
	Deactivate(ctx context.Context, subscriptionID uuid.UUID, now time.Time) error
}

// SubscriptionUseCase defines subscription business operations.
type SubscriptionUseCase interface {
	// Create stores a new subscription. The returned value carries the plaintext
	// secret; it is the only time the secret leaves the service.
	Create(
		ctx context.Context,
		input *subscriptionDomain.CreateSubscriptionInput,
	) (*subscriptionDomain.Subscription, error)

	// Get retrieves a subscription without its secret.
	Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error)

	// List retrieves subscriptions without their secrets.
	List(ctx context.Context, offset, limit int) ([]*subscriptionDomain.Subscription, error)

	// Deactivate stops deliveries to a subscription.
	Deactivate(ctx context.Context, subscriptionID uuid.UUID) error

	// ListActiveByEvent resolves the active subscriptions for an event with decrypted secrets.
	ListActiveByEvent(ctx context.Context, event string) ([]*subscriptionDomain.Subscription, error)
}
