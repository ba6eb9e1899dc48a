package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDelivery(ctx context.Context, event, outcome string) {
	m.Called(ctx, event, outcome)
}

func (m *mockBusinessMetrics) AddInFlight(ctx context.Context, domain string, delta int64) {
	m.Called(ctx, domain, delta)
}

func TestIngestUseCaseWithMetrics_Ingest(t *testing.T) {
	ctx := context.Background()
	delivery := domain.RawDelivery{Provider: "stripe", Body: []byte(`{}`)}

	tests := []struct {
		name   string
		result *domain.IngestResult
		err    error
		status string
	}{
		{name: "processed", result: &domain.IngestResult{State: domain.StateProcessed}, status: "processed"},
		{name: "skipped", result: &domain.IngestResult{State: domain.StateSkipped}, status: "skipped"},
		{name: "unhandled", result: &domain.IngestResult{State: domain.StateUnhandled}, status: "unhandled"},
		{name: "verification failed", err: domain.ErrVerificationFailed, status: "verification_failed"},
		{name: "provider not found", err: domain.ErrProviderNotFound, status: "provider_not_found"},
		{
			name:   "payload invalid",
			err:    domain.NewPayloadError("invoice.paid", map[string]string{"id": "required"}),
			status: "payload_invalid",
		},
		{name: "internal error", err: errors.New("boom"), status: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &mocks.MockIngestUseCase{}
			m := &mockBusinessMetrics{}
			uc := NewIngestUseCaseWithMetrics(next, m)

			if tt.result != nil {
				next.On("Ingest", ctx, delivery, "req-1").Return(tt.result, nil).Once()
			} else {
				next.On("Ingest", ctx, delivery, "req-1").Return(nil, tt.err).Once()
			}
			m.On("RecordOperation", ctx, "webhook", "webhook_ingest", tt.status).Return().Once()
			m.On("RecordDuration", ctx, "webhook", "webhook_ingest", mock.AnythingOfType("time.Duration"), tt.status).
				Return().Once()

			result, err := uc.Ingest(ctx, delivery, "req-1")

			assert.Equal(t, tt.result, result)
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
			} else {
				assert.NoError(t, err)
			}
			next.AssertExpectations(t)
			m.AssertExpectations(t)
		})
	}
}

func TestIngestUseCaseWithMetrics_Providers(t *testing.T) {
	next := &mocks.MockIngestUseCase{}
	next.On("Providers").Return([]string{"stripe"}).Once()

	uc := NewIngestUseCaseWithMetrics(next, &mockBusinessMetrics{})

	assert.Equal(t, []string{"stripe"}, uc.Providers())
}
