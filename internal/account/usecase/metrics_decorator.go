package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/metrics"
)

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accountUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "account", operation, status)
	a.metrics.RecordDuration(ctx, "account", operation, time.Since(start), status)
}

// ProvisionAccount records metrics for account provisioning.
func (a *accountUseCaseWithMetrics) ProvisionAccount(
	ctx context.Context,
	input *accountDomain.ProvisionAccountInput,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.ProvisionAccount(ctx, input)
	a.record(ctx, "account_provision", start, err)
	return account, err
}

// DeactivateAccount records metrics for account deactivation.
func (a *accountUseCaseWithMetrics) DeactivateAccount(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.DeactivateAccount(ctx, input)
	a.record(ctx, "account_deactivate", start, err)
	return account, err
}

// RecordDeletion records metrics for out-of-order deletions.
func (a *accountUseCaseWithMetrics) RecordDeletion(
	ctx context.Context,
	input *accountDomain.DeactivateAccountInput,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.RecordDeletion(ctx, input)
	a.record(ctx, "account_record_deletion", start, err)
	return account, err
}

// FindByExternalID records metrics for idempotency lookups. A miss is not an error.
func (a *accountUseCaseWithMetrics) FindByExternalID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.FindByExternalID(ctx, provider, externalCustomerID)

	recorded := err
	if apperrors.Is(err, apperrors.ErrNotFound) {
		recorded = nil
	}
	a.record(ctx, "account_find_by_external_id", start, recorded)
	return account, err
}

// Get records metrics for account retrieval.
func (a *accountUseCaseWithMetrics) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, accountID)
	a.record(ctx, "account_get", start, err)
	return account, err
}
