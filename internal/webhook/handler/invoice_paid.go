package handler

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
	customValidation "github.com/allisson/webhooks/internal/validation"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

// InvoicePaidObject is data.object of an invoice.paid event.
type InvoicePaidObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status,omitempty"`
}

// Validate checks the invoice fields. Amount is a pointer so that a missing
// amount is rejected while an explicit zero is accepted.
func (o *InvoicePaidObject) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&o.Customer, validation.Required, customValidation.NotBlank),
		validation.Field(&o.Amount, validation.NotNil, validation.Min(int64(0))),
		validation.Field(&o.Currency, validation.Required, customValidation.Currency),
	)
}

// InvoicePaidHandler records a payment for a paid invoice.
type InvoicePaidHandler struct {
	provider string
	payments PaymentService
}

// NewInvoicePaidHandler creates an InvoicePaidHandler for provider.
func NewInvoicePaidHandler(provider string, payments PaymentService) *InvoicePaidHandler {
	return &InvoicePaidHandler{provider: provider, payments: payments}
}

// Handle records the payment unless the invoice was recorded before.
func (h *InvoicePaidHandler) Handle(
	ctx context.Context,
	event domain.BaseEvent,
	logger *slog.Logger,
) (domain.HandlerOutcome, error) {
	invoice, err := decodeObject[InvoicePaidObject](event)
	if err != nil {
		return domain.HandlerOutcome{}, err
	}

	outcome, err := applyOnce(
		event.Type,
		logger,
		func() error {
			_, err := h.payments.FindByExternalID(ctx, h.provider, invoice.ID)
			return err
		},
		func() error {
			payment, err := h.payments.RecordPayment(ctx, &paymentDomain.RecordPaymentInput{
				Provider:           h.provider,
				ExternalInvoiceID:  invoice.ID,
				ExternalCustomerID: invoice.Customer,
				Amount:             *invoice.Amount,
				Currency:           strings.ToLower(invoice.Currency),
				SourceEventID:      event.ID,
				PaidAt:             event.Created,
			})
			if err == nil {
				logger.Debug("payment recorded", slog.String("payment_id", payment.ID.String()))
			}
			return err
		},
	)
	if err == nil && outcome.Skipped {
		logger.Debug("invoice already recorded", slog.String("invoice_id", invoice.ID))
	}
	return outcome, err
}
