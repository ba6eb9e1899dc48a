package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/metrics"
	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
)

// paymentUseCaseWithMetrics decorates PaymentUseCase with metrics instrumentation.
type paymentUseCaseWithMetrics struct {
	next    PaymentUseCase
	metrics metrics.BusinessMetrics
}

// NewPaymentUseCaseWithMetrics wraps a PaymentUseCase with metrics recording.
func NewPaymentUseCaseWithMetrics(useCase PaymentUseCase, m metrics.BusinessMetrics) PaymentUseCase {
	return &paymentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *paymentUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "payment", operation, status)
	p.metrics.RecordDuration(ctx, "payment", operation, time.Since(start), status)
}

// RecordPayment records metrics for payment recording.
func (p *paymentUseCaseWithMetrics) RecordPayment(
	ctx context.Context,
	input *paymentDomain.RecordPaymentInput,
) (*paymentDomain.Payment, error) {
	start := time.Now()
	payment, err := p.next.RecordPayment(ctx, input)
	p.record(ctx, "payment_record", start, err)
	return payment, err
}

// FindByExternalID records metrics for idempotency lookups. A miss is not an error.
func (p *paymentUseCaseWithMetrics) FindByExternalID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	start := time.Now()
	payment, err := p.next.FindByExternalID(ctx, provider, externalInvoiceID)

	recorded := err
	if apperrors.Is(err, apperrors.ErrNotFound) {
		recorded = nil
	}
	p.record(ctx, "payment_find_by_external_id", start, recorded)
	return payment, err
}

// Get records metrics for payment retrieval.
func (p *paymentUseCaseWithMetrics) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	start := time.Now()
	payment, err := p.next.Get(ctx, paymentID)
	p.record(ctx, "payment_get", start, err)
	return payment, err
}

// List records metrics for payment listing.
func (p *paymentUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	start := time.Now()
	payments, err := p.next.List(ctx, offset, limit)
	p.record(ctx, "payment_list", start, err)
	return payments, err
}
