package handler

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
	customValidation "github.com/allisson/webhooks/internal/validation"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

// CustomerDeletedObject is data.object of a customer.deleted event.
type CustomerDeletedObject struct {
	ID string `json:"id"`
}

// Validate checks the customer fields.
func (o *CustomerDeletedObject) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required, customValidation.NotBlank),
	)
}

// CustomerDeletedHandler deactivates the account of a deleted customer.
//
// Deletion changes an existing entity instead of creating one, so the guard inverts:
// an inactive account means the deletion was already applied, and an event created
// before the account's last applied event is stale. An unknown account gets an
// inactive placeholder so a customer.created delivered later cannot revive it.
type CustomerDeletedHandler struct {
	provider string
	accounts AccountService
}

// NewCustomerDeletedHandler creates a CustomerDeletedHandler for provider.
func NewCustomerDeletedHandler(provider string, accounts AccountService) *CustomerDeletedHandler {
	return &CustomerDeletedHandler{provider: provider, accounts: accounts}
}

// Handle deactivates the account when it is active and the event is current.
func (h *CustomerDeletedHandler) Handle(
	ctx context.Context,
	event domain.BaseEvent,
	logger *slog.Logger,
) (domain.HandlerOutcome, error) {
	customer, err := decodeObject[CustomerDeletedObject](event)
	if err != nil {
		return domain.HandlerOutcome{}, err
	}

	account, err := h.accounts.FindByExternalID(ctx, h.provider, customer.ID)
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return h.recordDeletion(ctx, event, customer.ID, logger)
	case err != nil:
		return domain.HandlerOutcome{}, err
	case !account.IsActive:
		return domain.Skipped(domain.ReasonAlreadyProcessed), nil
	case !event.Created.IsZero() && account.IsStale(event.Created):
		logger.Debug("stale customer.deleted ignored",
			slog.Time("event_created", event.Created),
			slog.Time("last_event_at", account.LastEventAt),
		)
		return domain.Skipped(ReasonStaleEvent), nil
	}

	_, err = h.accounts.DeactivateAccount(ctx, &accountDomain.DeactivateAccountInput{
		Provider:           h.provider,
		ExternalCustomerID: customer.ID,
		EventCreatedAt:     event.Created,
	})
	if err != nil {
		return useCaseOutcome(event.Type, logger, err)
	}

	logger.Debug("account deactivated", slog.String("account_id", account.ID.String()))
	return domain.Processed(), nil
}

// recordDeletion stores the deletion of a customer that was never provisioned. A
// conflict means customer.created landed in between. It is returned unwrapped so it
// surfaces as an internal error; the provider redelivers and the retry deactivates
// the new account.
func (h *CustomerDeletedHandler) recordDeletion(
	ctx context.Context,
	event domain.BaseEvent,
	customerID string,
	logger *slog.Logger,
) (domain.HandlerOutcome, error) {
	_, err := h.accounts.RecordDeletion(ctx, &accountDomain.DeactivateAccountInput{
		Provider:           h.provider,
		ExternalCustomerID: customerID,
		EventCreatedAt:     event.Created,
	})
	switch {
	case apperrors.Is(err, apperrors.ErrConflict):
		return domain.HandlerOutcome{}, fmt.Errorf("customer %s provisioned during deletion: %s", customerID, err)
	case err != nil:
		return useCaseOutcome(event.Type, logger, err)
	}

	logger.Debug("deletion recorded for unknown customer", slog.String("customer_id", customerID))
	return domain.Skipped(ReasonAccountNotFound), nil
}
