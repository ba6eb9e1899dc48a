// Package mocks provides mock implementations of the account use case dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// GetByExternalCustomerID mocks the GetByExternalCustomerID method.
func (m *MockAccountRepository) GetByExternalCustomerID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, provider, externalCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// Deactivate mocks the Deactivate method.
func (m *MockAccountRepository) Deactivate(
	ctx context.Context,
	provider, externalCustomerID string,
	eventAt, now time.Time,
) error {
	args := m.Called(ctx, provider, externalCustomerID, eventAt, now)
	return args.Error(0)
}

// MockAccountUseCase is a mock implementation of AccountUseCase.
type MockAccountUseCase struct {
	mock.Mock
}

// ProvisionAccount mocks the ProvisionAccount method.
func (m *MockAccountUseCase) ProvisionAccount(
	ctx context.Context,
	input *accountDomain.ProvisionAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// DeactivateAccount mocks the DeactivateAccount method.
func (m *MockAccountUseCase) DeactivateAccount(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// RecordDeletion mocks the RecordDeletion method.
func (m *MockAccountUseCase) RecordDeletion(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// FindByExternalID mocks the FindByExternalID method.
func (m *MockAccountUseCase) FindByExternalID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, provider, externalCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// Get mocks the Get method.
func (m *MockAccountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method.
func (m *MockEventPublisher) Publish(ctx context.Context, event string, data any) {
	m.Called(ctx, event, data)
}
