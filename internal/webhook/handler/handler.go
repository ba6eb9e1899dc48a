// Package handler contains the event handlers wired into the webhook registry.
//
// Every handler follows the same sequence: decode data.object into the event's schema
// and validate it, look up the entity keyed by the provider's external id, and only
// when nothing is found call the use case that creates or changes it. A conflict
// raised by the use case means a concurrent delivery won the race, which is reported
// as a skip rather than an error.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
	customValidation "github.com/allisson/webhooks/internal/validation"
	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/registry"
)

// Event types handled by this package.
const (
	EventInvoicePaid     = "invoice.paid"
	EventCustomerCreated = "customer.created"
	EventCustomerDeleted = "customer.deleted"
)

// Skip reasons besides domain.ReasonAlreadyProcessed.
const (
	ReasonAccountNotFound = "account not found"
	ReasonStaleEvent      = "stale event"
)

// IssueRejectedByDomain is reported when a use case rejects an object the event
// schema accepted.
const IssueRejectedByDomain = "rejected by domain validation"

// PaymentService is the slice of the payment use case the invoice handler needs.
type PaymentService interface {
	FindByExternalID(ctx context.Context, provider, externalInvoiceID string) (*paymentDomain.Payment, error)
	RecordPayment(ctx context.Context, input *paymentDomain.RecordPaymentInput) (*paymentDomain.Payment, error)
}

// AccountService is the slice of the account use case the customer handlers need.
type AccountService interface {
	FindByExternalID(ctx context.Context, provider, externalCustomerID string) (*accountDomain.Account, error)
	ProvisionAccount(ctx context.Context, input *accountDomain.ProvisionAccountInput) (*accountDomain.Account, error)
	DeactivateAccount(ctx context.Context, input *accountDomain.DeactivateAccountInput) (*accountDomain.Account, error)
	RecordDeletion(ctx context.Context, input *accountDomain.DeactivateAccountInput) (*accountDomain.Account, error)
}

// Entries returns the registry entries for one provider.
func Entries(provider string, payments PaymentService, accounts AccountService) []registry.Entry {
	return []registry.Entry{
		{
			EventType: EventInvoicePaid,
			Factory:   func() registry.EventHandler { return NewInvoicePaidHandler(provider, payments) },
		},
		{
			EventType: EventCustomerCreated,
			Factory:   func() registry.EventHandler { return NewCustomerCreatedHandler(provider, accounts) },
		},
		{
			EventType: EventCustomerDeleted,
			Factory:   func() registry.EventHandler { return NewCustomerDeletedHandler(provider, accounts) },
		},
	}
}

type validatable interface {
	Validate() error
}

// decodeObject unmarshals event.Data as {"object": T} and validates the object.
// Issue keys are JSON paths rooted at "data".
func decodeObject[T any, PT interface {
	*T
	validatable
}](event domain.BaseEvent) (*T, error) {
	var data struct {
		Object *T `json:"object"`
	}
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return nil, domain.NewPayloadError(event.Type, decodeIssues(err))
	}
	if data.Object == nil {
		return nil, domain.NewPayloadError(event.Type, map[string]string{"data.object": "cannot be blank"})
	}
	if err := PT(data.Object).Validate(); err != nil {
		return nil, domain.NewPayloadError(event.Type, customValidation.Issues(err, "data.object"))
	}
	return data.Object, nil
}

func decodeIssues(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{"data." + typeErr.Field: "has the wrong type"}
	}
	return map[string]string{"data": "must be a valid JSON object"}
}

// applyOnce runs the idempotency guard. find must return nil when the entity already
// exists and an ErrNotFound error when it does not; apply performs the side effect.
func applyOnce(
	eventType string,
	logger *slog.Logger,
	find func() error,
	apply func() error,
) (domain.HandlerOutcome, error) {
	err := find()
	switch {
	case err == nil:
		return domain.Skipped(domain.ReasonAlreadyProcessed), nil
	case !apperrors.Is(err, apperrors.ErrNotFound):
		return domain.HandlerOutcome{}, err
	}

	if err := apply(); err != nil {
		return useCaseOutcome(eventType, logger, err)
	}
	return domain.Processed(), nil
}

// useCaseOutcome classifies an error returned by a use case. Domain validation
// messages name Go fields, so they are logged and replaced by a fixed issue.
func useCaseOutcome(eventType string, logger *slog.Logger, err error) (domain.HandlerOutcome, error) {
	switch {
	case apperrors.Is(err, apperrors.ErrConflict):
		return domain.Skipped(domain.ReasonAlreadyProcessed), nil
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		logger.Warn("use case rejected event", slog.String("event_type", eventType), slog.Any("error", err))
		return domain.HandlerOutcome{}, domain.NewPayloadError(
			eventType,
			map[string]string{"data.object": IssueRejectedByDomain},
		)
	default:
		return domain.HandlerOutcome{}, err
	}
}
