package handler

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
	customValidation "github.com/allisson/webhooks/internal/validation"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

// CustomerCreatedObject is data.object of a customer.created event.
type CustomerCreatedObject struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate checks the customer fields.
func (o *CustomerCreatedObject) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&o.Email, validation.Length(0, 320)),
		validation.Field(&o.Name, validation.Length(0, 255)),
	)
}

// CustomerCreatedHandler provisions an account for a new customer.
//
// Any existing row wins, including the inactive placeholder stored when the deletion
// was delivered first; a creation older than that placeholder is reported as stale.
type CustomerCreatedHandler struct {
	provider string
	accounts AccountService
}

// NewCustomerCreatedHandler creates a CustomerCreatedHandler for provider.
func NewCustomerCreatedHandler(provider string, accounts AccountService) *CustomerCreatedHandler {
	return &CustomerCreatedHandler{provider: provider, accounts: accounts}
}

// Handle provisions the account unless it exists already.
func (h *CustomerCreatedHandler) Handle(
	ctx context.Context,
	event domain.BaseEvent,
	logger *slog.Logger,
) (domain.HandlerOutcome, error) {
	customer, err := decodeObject[CustomerCreatedObject](event)
	if err != nil {
		return domain.HandlerOutcome{}, err
	}

	existing, err := h.accounts.FindByExternalID(ctx, h.provider, customer.ID)
	switch {
	case err == nil && !existing.IsActive && !event.Created.IsZero() && existing.IsStale(event.Created):
		logger.Debug("customer.created older than recorded deletion",
			slog.Time("event_created", event.Created),
			slog.Time("last_event_at", existing.LastEventAt),
		)
		return domain.Skipped(ReasonStaleEvent), nil
	case err == nil:
		return domain.Skipped(domain.ReasonAlreadyProcessed), nil
	case !apperrors.Is(err, apperrors.ErrNotFound):
		return domain.HandlerOutcome{}, err
	}

	account, err := h.accounts.ProvisionAccount(ctx, &accountDomain.ProvisionAccountInput{
		Provider:           h.provider,
		ExternalCustomerID: customer.ID,
		Email:              customer.Email,
		Name:               customer.Name,
		EventCreatedAt:     event.Created,
	})
	if err != nil {
		return useCaseOutcome(event.Type, logger, err)
	}

	logger.Debug("account provisioned", slog.String("account_id", account.ID.String()))
	return domain.Processed(), nil
}
