// Package usecase implements payment business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// EventPaymentRecorded is published after a payment is committed.
const EventPaymentRecorded = "payment.recorded"

// paymentEventData is the outbound representation of a recorded payment.
type paymentEventData struct {
	ID                 string    `json:"id"`
	Provider           string    `json:"provider"`
	ExternalInvoiceID  string    `json:"external_invoice_id"`
	ExternalCustomerID string    `json:"external_customer_id"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	PaidAt             time.Time `json:"paid_at"`
}

type paymentUseCase struct {
	txManager   database.TxManager
	paymentRepo PaymentRepository
	publisher   EventPublisher
	now         func() time.Time
}

// RecordPayment validates the input, inserts the payment in a transaction and
// publishes payment.recorded once the transaction has committed.
func (p *paymentUseCase) RecordPayment(
	ctx context.Context,
	input *paymentDomain.RecordPaymentInput,
) (*paymentDomain.Payment, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	payment := paymentDomain.NewPayment(input, p.now())

	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return p.paymentRepo.Create(txCtx, payment)
	})
	if err != nil {
		return nil, err
	}

	if p.publisher != nil {
		p.publisher.Publish(ctx, EventPaymentRecorded, paymentEventData{
			ID:                 payment.ID.String(),
			Provider:           payment.Provider,
			ExternalInvoiceID:  payment.ExternalInvoiceID,
			ExternalCustomerID: payment.ExternalCustomerID,
			Amount:             payment.Amount,
			Currency:           payment.Currency,
			PaidAt:             payment.PaidAt,
		})
	}

	return payment, nil
}

// FindByExternalID returns the payment recorded for a provider invoice.
func (p *paymentUseCase) FindByExternalID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	return p.paymentRepo.GetByExternalInvoiceID(ctx, provider, externalInvoiceID)
}

// Get returns a payment by ID.
func (p *paymentUseCase) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	return p.paymentRepo.Get(ctx, paymentID)
}

// List returns payments with pagination.
func (p *paymentUseCase) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	return p.paymentRepo.List(ctx, offset, limit)
}

// NewPaymentUseCase creates a new PaymentUseCase. publisher may be nil.
func NewPaymentUseCase(
	txManager database.TxManager,
	paymentRepo PaymentRepository,
	publisher EventPublisher,
) PaymentUseCase {
	return &paymentUseCase{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}
