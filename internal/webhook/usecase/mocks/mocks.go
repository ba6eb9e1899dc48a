// Package mocks provides mock implementations of the webhook ingestion use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/webhooks/internal/webhook/domain"
)

// MockIngestUseCase is a mock implementation of IngestUseCase.
type MockIngestUseCase struct {
	mock.Mock
}

// Ingest mocks the Ingest method.
func (m *MockIngestUseCase) Ingest(
	ctx context.Context,
	delivery domain.RawDelivery,
	requestID string,
) (*domain.IngestResult, error) {
	args := m.Called(ctx, delivery, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestResult), args.Error(1)
}

// Providers mocks the Providers method.
func (m *MockIngestUseCase) Providers() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
