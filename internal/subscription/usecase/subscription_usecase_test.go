package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/subscription/usecase/mocks"
)

// MockTxManager runs the transactional function inline unless told to fail.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestUseCase(
	txManager *MockTxManager,
	repo *mocks.MockSubscriptionRepository,
	keeper *mocks.MockSecretKeeper,
) *subscriptionUseCase {
	uc := NewSubscriptionUseCase(txManager, repo, keeper, slog.New(slog.DiscardHandler)).(*subscriptionUseCase)
	uc.now = func() time.Time { return fixedNow }
	uc.generateSecret = func() (string, error) { return "whsec_generated_secret", nil }
	return uc
}

func TestSubscriptionUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_GeneratesAndEncryptsSecret", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mocks.MockSubscriptionRepository{}
		keeper := &mocks.MockSecretKeeper{}

		keeper.On("Encrypt", ctx, []byte("whsec_generated_secret")).Return([]byte("sealed"), nil).Once()
		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(s *subscriptionDomain.Subscription) bool {
			return string(s.EncryptedSecret) == "sealed" && s.IsActive && s.CreatedAt.Equal(fixedNow)
		})).Return(nil).Once()

		sub, err := newTestUseCase(txManager, repo, keeper).Create(ctx, &subscriptionDomain.CreateSubscriptionInput{
			URL:    "https://hooks.example.com",
			Events: []string{"payment.recorded"},
		})

		require.NoError(t, err)
		assert.Equal(t, "whsec_generated_secret", sub.Secret)
		repo.AssertExpectations(t)
		keeper.AssertExpectations(t)
	})

	t.Run("Success_ProvidedSecretKept", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mocks.MockSubscriptionRepository{}
		keeper := &mocks.MockSecretKeeper{}

		keeper.On("Encrypt", ctx, []byte("whsec_operator_chosen")).Return([]byte("sealed"), nil).Once()
		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		sub, err := newTestUseCase(txManager, repo, keeper).Create(ctx, &subscriptionDomain.CreateSubscriptionInput{
			URL:    "https://hooks.example.com",
			Events: []string{"*"},
			Secret: "whsec_operator_chosen",
		})

		require.NoError(t, err)
		assert.Equal(t, "whsec_operator_chosen", sub.Secret)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		uc := newTestUseCase(&MockTxManager{}, &mocks.MockSubscriptionRepository{}, &mocks.MockSecretKeeper{})

		_, err := uc.Create(ctx, &subscriptionDomain.CreateSubscriptionInput{URL: "not a url"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_EncryptFailure", func(t *testing.T) {
		repo := &mocks.MockSubscriptionRepository{}
		keeper := &mocks.MockSecretKeeper{}
		keeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("kms unreachable")).Once()

		_, err := newTestUseCase(&MockTxManager{}, repo, keeper).Create(ctx, &subscriptionDomain.CreateSubscriptionInput{
			URL:    "https://hooks.example.com",
			Events: []string{"payment.recorded"},
		})

		assert.ErrorContains(t, err, "failed to encrypt subscription secret")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSubscriptionUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mocks.MockSubscriptionRepository{}
		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Deactivate", ctx, id, fixedNow).Return(nil).Once()

		require.NoError(t, newTestUseCase(txManager, repo, &mocks.MockSecretKeeper{}).Deactivate(ctx, id))
		repo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		txManager := &MockTxManager{}
		repo := &mocks.MockSubscriptionRepository{}
		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Deactivate", ctx, id, fixedNow).Return(subscriptionDomain.ErrSubscriptionNotFound).Once()

		err := newTestUseCase(txManager, repo, &mocks.MockSecretKeeper{}).Deactivate(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSubscriptionUseCase_ListActiveByEvent(t *testing.T) {
	ctx := context.Background()

	payments := &subscriptionDomain.Subscription{
		ID: uuid.New(), Events: []string{"payment.recorded"}, EncryptedSecret: []byte("a"), IsActive: true,
	}
	everything := &subscriptionDomain.Subscription{
		ID: uuid.New(), Events: []string{"*"}, EncryptedSecret: []byte("b"), IsActive: true,
	}
	accounts := &subscriptionDomain.Subscription{
		ID: uuid.New(), Events: []string{"account.provisioned"}, EncryptedSecret: []byte("c"), IsActive: true,
	}
	broken := &subscriptionDomain.Subscription{
		ID: uuid.New(), Events: []string{"payment.recorded"}, EncryptedSecret: []byte("d"), IsActive: true,
	}

	t.Run("Success_FiltersAndDecrypts", func(t *testing.T) {
		repo := &mocks.MockSubscriptionRepository{}
		keeper := &mocks.MockSecretKeeper{}

		active := []*subscriptionDomain.Subscription{payments, everything, accounts, broken}
		repo.On("ListActive", ctx).Return(active, nil).Once()
		keeper.On("Decrypt", ctx, []byte("a")).Return([]byte("whsec_a"), nil).Once()
		keeper.On("Decrypt", ctx, []byte("b")).Return([]byte("whsec_b"), nil).Once()
		keeper.On("Decrypt", ctx, []byte("d")).Return(nil, errors.New("bad ciphertext")).Once()

		subs, err := newTestUseCase(&MockTxManager{}, repo, keeper).ListActiveByEvent(ctx, "payment.recorded")

		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "whsec_a", subs[0].Secret)
		assert.Equal(t, "whsec_b", subs[1].Secret)
		keeper.AssertNotCalled(t, "Decrypt", ctx, []byte("c"))
	})

	t.Run("Error_Repository", func(t *testing.T) {
		repo := &mocks.MockSubscriptionRepository{}
		repo.On("ListActive", ctx).Return(nil, errors.New("db down")).Once()

		_, err := newTestUseCase(&MockTxManager{}, repo, &mocks.MockSecretKeeper{}).ListActiveByEvent(ctx, "x")
		assert.Error(t, err)
	})
}
