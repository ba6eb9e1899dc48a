package domain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/allisson/webhooks/internal/errors"
)

var (
	// ErrVerificationFailed is the only error a caller ever sees for a rejected signature.
	// Missing headers, malformed headers, stale timestamps and digest mismatches all map to it.
	ErrVerificationFailed = apperrors.Wrap(apperrors.ErrUnauthorized, "webhook verification failed")

	// ErrProviderNotFound indicates the delivery names a provider that is not configured.
	ErrProviderNotFound = apperrors.Wrap(apperrors.ErrNotFound, "webhook provider not found")

	// ErrHandlerNotFound indicates the registry claims an event type but holds no factory for it.
	ErrHandlerNotFound = apperrors.New("webhook handler not found")

	// ErrPayloadTooLarge indicates the delivery body exceeded the configured limit.
	ErrPayloadTooLarge = apperrors.Wrap(apperrors.ErrInvalidInput, "webhook payload too large")
)

// PayloadError reports an envelope or event body that does not match its schema.
// Issues maps JSON paths (e.g. "object.amount") to human readable problems.
type PayloadError struct {
	EventType string
	Issues    map[string]string
}

// NewPayloadError builds a PayloadError for the given event type.
func NewPayloadError(eventType string, issues map[string]string) *PayloadError {
	return &PayloadError{EventType: eventType, Issues: issues}
}

func (e *PayloadError) Error() string {
	keys := make([]string, 0, len(e.Issues))
	for k := range e.Issues {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Issues[k]))
	}

	subject := "webhook payload"
	if e.EventType != "" {
		subject = e.EventType + " payload"
	}
	return fmt.Sprintf("invalid %s: %s", subject, strings.Join(parts, "; "))
}

// Unwrap lets callers match the error against apperrors.ErrInvalidInput.
func (e *PayloadError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// DeliveryError reports a failed outbound delivery to a single subscription.
// It is logged and returned in broadcast results, never propagated to the publisher's caller.
type DeliveryError struct {
	SubscriptionID string
	URL            string
	Event          string
	StatusCode     int
	Err            error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf(
			"delivery of %s to subscription %s (%s) failed with status %d",
			e.Event, e.SubscriptionID, e.URL, e.StatusCode,
		)
	}
	return fmt.Sprintf(
		"delivery of %s to subscription %s (%s) failed: %v",
		e.Event, e.SubscriptionID, e.URL, e.Err,
	)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
