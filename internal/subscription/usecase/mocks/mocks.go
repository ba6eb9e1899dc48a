// Package mocks provides mock implementations of the subscription use case dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *subscriptionDomain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// List mocks the List method.
func (m *MockSubscriptionRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// ListActive mocks the ListActive method.
func (m *MockSubscriptionRepository) ListActive(ctx context.Context) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// Deactivate mocks the Deactivate method.
func (m *MockSubscriptionRepository) Deactivate(ctx context.Context, subscriptionID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, subscriptionID, now)
	return args.Error(0)
}

// MockSubscriptionUseCase is a mock implementation of SubscriptionUseCase.
type MockSubscriptionUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSubscriptionUseCase) Create(
	ctx context.Context,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// Get mocks the Get method.
func (m *MockSubscriptionUseCase) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// List mocks the List method.
func (m *MockSubscriptionUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// Deactivate mocks the Deactivate method.
func (m *MockSubscriptionUseCase) Deactivate(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

// ListActiveByEvent mocks the ListActiveByEvent method.
func (m *MockSubscriptionUseCase) ListActiveByEvent(
	ctx context.Context,
	event string,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// MockSecretKeeper is a mock implementation of domain.SecretKeeper.
type MockSecretKeeper struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockSecretKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockSecretKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method.
func (m *MockSecretKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}
