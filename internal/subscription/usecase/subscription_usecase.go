package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/subscription/service"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

type subscriptionUseCase struct {
	txManager        database.TxManager
	subscriptionRepo SubscriptionRepository
	keeper           subscriptionDomain.SecretKeeper
	logger           *slog.Logger
	generateSecret   func() (string, error)
	now              func() time.Time
}

// Create validates the input, resolves the signing secret and stores it encrypted.
func (s *subscriptionUseCase) Create(
	ctx context.Context,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	secret := input.Secret
	if secret == "" {
		generated, err := s.generateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}

	subscription := subscriptionDomain.NewSubscription(input, secret, s.now())

	encrypted, err := s.keeper.Encrypt(ctx, []byte(secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt subscription secret")
	}
	subscription.EncryptedSecret = encrypted

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.subscriptionRepo.Create(txCtx, subscription)
	})
	if err != nil {
		return nil, err
	}

	return subscription, nil
}

// Get retrieves a subscription by ID.
func (s *subscriptionUseCase) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	return s.subscriptionRepo.Get(ctx, subscriptionID)
}

// List retrieves subscriptions with pagination.
func (s *subscriptionUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	return s.subscriptionRepo.List(ctx, offset, limit)
}

// Deactivate marks the subscription inactive.
func (s *subscriptionUseCase) Deactivate(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.subscriptionRepo.Deactivate(txCtx, subscriptionID, s.now().UTC())
	})
}

// ListActiveByEvent returns the active subscriptions matching event with their secrets
// decrypted. A subscription whose secret cannot be decrypted is logged and left out so
// that one broken record does not stop delivery to the others.
func (s *subscriptionUseCase) ListActiveByEvent(
	ctx context.Context,
	event string,
) ([]*subscriptionDomain.Subscription, error) {
	active, err := s.subscriptionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*subscriptionDomain.Subscription, 0, len(active))
	for _, subscription := range active {
		if !subscription.Matches(event) {
			continue
		}

		plaintext, err := s.keeper.Decrypt(ctx, subscription.EncryptedSecret)
		if err != nil {
			s.logger.Error("failed to decrypt subscription secret",
				slog.String("subscription_id", subscription.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		subscription.Secret = string(plaintext)
		matched = append(matched, subscription)
	}

	return matched, nil
}

// NewSubscriptionUseCase creates a new SubscriptionUseCase.
func NewSubscriptionUseCase(
	txManager database.TxManager,
	subscriptionRepo SubscriptionRepository,
	keeper subscriptionDomain.SecretKeeper,
	logger *slog.Logger,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		txManager:        txManager,
		subscriptionRepo: subscriptionRepo,
		keeper:           keeper,
		logger:           logger,
		generateSecret:   service.GenerateSecret,
		now:              time.Now,
	}
}
