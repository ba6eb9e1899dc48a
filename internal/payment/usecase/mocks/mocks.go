// Package mocks provides mock implementations of the payment use case dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
)

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// GetByExternalInvoiceID mocks the GetByExternalInvoiceID method.
func (m *MockPaymentRepository) GetByExternalInvoiceID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, provider, externalInvoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// List mocks the List method.
func (m *MockPaymentRepository) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.Payment), args.Error(1)
}

// MockPaymentUseCase is a mock implementation of PaymentUseCase.
type MockPaymentUseCase struct {
	mock.Mock
}

// RecordPayment mocks the RecordPayment method.
func (m *MockPaymentUseCase) RecordPayment(
	ctx context.Context,
	input *paymentDomain.RecordPaymentInput,
) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// FindByExternalID mocks the FindByExternalID method.
func (m *MockPaymentUseCase) FindByExternalID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, provider, externalInvoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// Get mocks the Get method.
func (m *MockPaymentUseCase) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// List mocks the List method.
func (m *MockPaymentUseCase) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.Payment), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method.
func (m *MockEventPublisher) Publish(ctx context.Context, event string, data any) {
	m.Called(ctx, event, data)
}
