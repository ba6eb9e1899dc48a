package dto

import (
	"time"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// SubscriptionResponse represents a subscription in API responses. The secret is never included.
type SubscriptionResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Events      []string  `json:"events"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSubscriptionResponse is returned once, on creation, with the plaintext signing secret.
type CreateSubscriptionResponse struct {
	SubscriptionResponse
	Secret string `json:"secret"`
}

// ListSubscriptionsResponse wraps a page of subscriptions.
type ListSubscriptionsResponse struct {
	Data []SubscriptionResponse `json:"data"`
}

// MapSubscriptionToResponse converts a domain subscription to an API response.
func MapSubscriptionToResponse(subscription *subscriptionDomain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          subscription.ID.String(),
		URL:         subscription.URL,
		Events:      subscription.Events,
		Description: subscription.Description,
		IsActive:    subscription.IsActive,
		CreatedAt:   subscription.CreatedAt,
		UpdatedAt:   subscription.UpdatedAt,
	}
}

// MapSubscriptionToCreateResponse converts a freshly created subscription to an API response.
func MapSubscriptionToCreateResponse(subscription *subscriptionDomain.Subscription) CreateSubscriptionResponse {
	return CreateSubscriptionResponse{
		SubscriptionResponse: MapSubscriptionToResponse(subscription),
		Secret:               subscription.Secret,
	}
}

// MapSubscriptionsToListResponse converts a page of subscriptions to an API response.
func MapSubscriptionsToListResponse(subscriptions []*subscriptionDomain.Subscription) ListSubscriptionsResponse {
	data := make([]SubscriptionResponse, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		data = append(data, MapSubscriptionToResponse(subscription))
	}
	return ListSubscriptionsResponse{Data: data}
}
