// Package domain defines the payment model created from paid provider invoices.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
)

// Payment is a settled invoice. The pair (Provider, ExternalInvoiceID) is unique, which
// makes the payments table the idempotency record for invoice.paid deliveries.
type Payment struct {
	ID                 uuid.UUID
	Provider           string
	ExternalInvoiceID  string
	ExternalCustomerID string
	Amount             int64 // minor units
	Currency           string
	SourceEventID      string
	PaidAt             time.Time
	CreatedAt          time.Time
}

// RecordPaymentInput carries what is needed to record a payment.
type RecordPaymentInput struct {
	Provider           string
	ExternalInvoiceID  string
	ExternalCustomerID string
	Amount             int64
	Currency           string
	SourceEventID      string
	PaidAt             time.Time
}

// Validate checks the input fields.
func (i *RecordPaymentInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Provider, validation.Required, customValidation.NotBlank),
		validation.Field(&i.ExternalInvoiceID, validation.Required, customValidation.NotBlank),
		validation.Field(&i.ExternalCustomerID, validation.Required, customValidation.NotBlank),
		validation.Field(&i.Amount, validation.Min(int64(0))),
		validation.Field(&i.Currency, validation.Required, customValidation.Currency),
	)
}

// NewPayment builds a Payment from validated input. Currency is stored lowercase.
func NewPayment(input *RecordPaymentInput, now time.Time) *Payment {
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	return &Payment{
		ID:                 uuid.Must(uuid.NewV7()),
		Provider:           input.Provider,
		ExternalInvoiceID:  input.ExternalInvoiceID,
		ExternalCustomerID: input.ExternalCustomerID,
		Amount:             input.Amount,
		Currency:           strings.ToLower(input.Currency),
		SourceEventID:      input.SourceEventID,
		PaidAt:             paidAt.UTC(),
		CreatedAt:          now.UTC(),
	}
}
