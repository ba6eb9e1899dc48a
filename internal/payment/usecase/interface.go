package usecase

import (
	"context"

	"github.com/google/uuid"

	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
)

// PaymentRepository defines the interface for payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *paymentDomain.Payment) error
	Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error)
	GetByExternalInvoiceID(ctx context.Context, provider, externalInvoiceID string) (*paymentDomain.Payment, error)
	List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error)
}

// EventPublisher broadcasts committed domain events to outbound subscriptions.
type EventPublisher interface {
	Publish(ctx context.Context, event string, data any)
}

// PaymentUseCase defines the interface for payment operations.
type PaymentUseCase interface {
	// RecordPayment persists a payment and publishes payment.recorded after commit.
	// It returns ErrPaymentAlreadyRecorded when the invoice was recorded before.
	RecordPayment(ctx context.Context, input *paymentDomain.RecordPaymentInput) (*paymentDomain.Payment, error)
	FindByExternalID(ctx context.Context, provider, externalInvoiceID string) (*paymentDomain.Payment, error)
	Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error)
	List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error)
}
