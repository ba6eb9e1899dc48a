// Package usecase implements account business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	"github.com/allisson/webhooks/internal/database"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// Events published after an account transaction commits.
const (
	EventAccountProvisioned = "account.provisioned"
	EventAccountDeactivated = "account.deactivated"
)

// accountEventData is the outbound representation of an account.
type accountEventData struct {
	ID                 string    `json:"id"`
	Provider           string    `json:"provider"`
	ExternalCustomerID string    `json:"external_customer_id"`
	Email              string    `json:"email,omitempty"`
	Name               string    `json:"name,omitempty"`
	IsActive           bool      `json:"is_active"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newAccountEventData(account *accountDomain.Account) accountEventData {
	return accountEventData{
		ID:                 account.ID.String(),
		Provider:           account.Provider,
		ExternalCustomerID: account.ExternalCustomerID,
		Email:              account.Email,
		Name:               account.Name,
		IsActive:           account.IsActive,
		UpdatedAt:          account.UpdatedAt,
	}
}

type accountUseCase struct {
	txManager   database.TxManager
	accountRepo AccountRepository
	publisher   EventPublisher
	now         func() time.Time
}

func (a *accountUseCase) publish(ctx context.Context, event string, account *accountDomain.Account) {
	if a.publisher == nil {
		return
	}
	a.publisher.Publish(ctx, event, newAccountEventData(account))
}

// ProvisionAccount validates the input, inserts the account and publishes account.provisioned.
func (a *accountUseCase) ProvisionAccount(
	ctx context.Context,
	input *accountDomain.ProvisionAccountInput,
) (*accountDomain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	account := accountDomain.NewAccount(input, a.now())

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return a.accountRepo.Create(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	a.publish(ctx, EventAccountProvisioned, account)

	return account, nil
}

// DeactivateAccount locks the account, checks it is active and that the event is not
// stale, then applies the conditional update. The update re-checks both conditions,
// so concurrent deliveries of the same deletion resolve to one winner.
func (a *accountUseCase) DeactivateAccount(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	now := a.now().UTC()
	eventAt := input.EventCreatedAt
	if eventAt.IsZero() {
		eventAt = now
	}
	eventAt = eventAt.UTC()

	var account *accountDomain.Account
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := a.accountRepo.GetByExternalCustomerID(txCtx, input.Provider, input.ExternalCustomerID)
		if err != nil {
			return err
		}
		if !current.IsActive || current.IsStale(eventAt) {
			return accountDomain.ErrAccountNotDeactivated
		}

		if err := a.accountRepo.Deactivate(txCtx, input.Provider, input.ExternalCustomerID, eventAt, now); err != nil {
			return err
		}

		current.IsActive = false
		current.LastEventAt = eventAt
		current.UpdatedAt = now
		account = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.publish(ctx, EventAccountDeactivated, account)

	return account, nil
}

// RecordDeletion stores an inactive account for a customer deleted before it was
// provisioned. Nothing is published since subscribers never saw the account.
// ErrAccountAlreadyExists means the account was created in the meantime.
func (a *accountUseCase) RecordDeletion(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	account := accountDomain.NewDeletedAccount(input, a.now())

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return a.accountRepo.Create(txCtx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// FindByExternalID returns the account for a provider customer.
func (a *accountUseCase) FindByExternalID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	return a.accountRepo.GetByExternalCustomerID(ctx, provider, externalCustomerID)
}

// Get returns an account by ID.
func (a *accountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	return a.accountRepo.Get(ctx, accountID)
}

// NewAccountUseCase creates a new AccountUseCase. publisher may be nil.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	publisher EventPublisher,
) AccountUseCase {
	return &accountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}
