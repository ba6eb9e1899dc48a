package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/allisson/webhooks/internal/metrics"
	"github.com/allisson/webhooks/internal/webhook/domain"
)

// ingestUseCaseWithMetrics decorates IngestUseCase with metrics instrumentation.
type ingestUseCaseWithMetrics struct {
	next    IngestUseCase
	metrics metrics.BusinessMetrics
}

// NewIngestUseCaseWithMetrics wraps an IngestUseCase with metrics recording.
func NewIngestUseCaseWithMetrics(useCase IngestUseCase, m metrics.BusinessMetrics) IngestUseCase {
	return &ingestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Ingest records one operation per delivery, labelled with its terminal state.
func (i *ingestUseCaseWithMetrics) Ingest(
	ctx context.Context,
	delivery domain.RawDelivery,
	requestID string,
) (*domain.IngestResult, error) {
	start := time.Now()
	result, err := i.next.Ingest(ctx, delivery, requestID)

	status := ingestStatus(result, err)
	i.metrics.RecordOperation(ctx, "webhook", "webhook_ingest", status)
	i.metrics.RecordDuration(ctx, "webhook", "webhook_ingest", time.Since(start), status)

	return result, err
}

// Providers delegates to the wrapped use case.
func (i *ingestUseCaseWithMetrics) Providers() []string {
	return i.next.Providers()
}

func ingestStatus(result *domain.IngestResult, err error) string {
	var payloadErr *domain.PayloadError
	switch {
	case errors.Is(err, domain.ErrVerificationFailed):
		return "verification_failed"
	case errors.Is(err, domain.ErrProviderNotFound):
		return "provider_not_found"
	case errors.As(err, &payloadErr):
		return "payload_invalid"
	case err != nil:
		return "error"
	}
	return string(result.State)
}
