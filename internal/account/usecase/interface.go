package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
)

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *accountDomain.Account) error
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
	GetByExternalCustomerID(ctx context.Context, provider, externalCustomerID string) (*accountDomain.Account, error)
	Deactivate(ctx context.Context, provider, externalCustomerID string, eventAt, now time.Time) error
}

// EventPublisher broadcasts committed domain events to outbound subscriptions.
type EventPublisher interface {
	Publish(ctx context.Context, event string, data any)
}

// AccountUseCase defines the interface for account operations.
type AccountUseCase interface {
	// ProvisionAccount creates an active account and publishes account.provisioned.
	// It returns ErrAccountAlreadyExists when the customer was provisioned before.
	ProvisionAccount(ctx context.Context, input *accountDomain.ProvisionAccountInput) (*accountDomain.Account, error)
	// DeactivateAccount deactivates an account and publishes account.deactivated. It returns
	// ErrAccountNotDeactivated when the account is inactive or a newer event was applied.
	DeactivateAccount(ctx context.Context, input *accountDomain.DeactivateAccountInput) (*accountDomain.Account, error)
	// RecordDeletion stores an inactive account for a customer whose deletion arrived
	// before its creation. It returns ErrAccountAlreadyExists when the account exists.
	RecordDeletion(ctx context.Context, input *accountDomain.DeactivateAccountInput) (*accountDomain.Account, error)
	FindByExternalID(ctx context.Context, provider, externalCustomerID string) (*accountDomain.Account, error)
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
}
