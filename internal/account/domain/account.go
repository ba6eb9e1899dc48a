// Package domain defines the account model provisioned from provider customers.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
)

// Account mirrors a provider customer. The pair (Provider, ExternalCustomerID) is unique,
// which makes the accounts table the idempotency record for customer.created deliveries.
//
// LastEventAt holds the creation time of the newest provider event applied to the
// account. Events created before it are stale and must not change the account.
type Account struct {
	ID                 uuid.UUID
	Provider           string
	ExternalCustomerID string
	Email              string
	Name               string
	IsActive           bool
	LastEventAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsStale reports whether an event created at eventAt predates the last applied event.
func (a *Account) IsStale(eventAt time.Time) bool {
	return eventAt.Before(a.LastEventAt)
}

// ProvisionAccountInput carries what is needed to provision an account.
type ProvisionAccountInput struct {
	Provider           string
	ExternalCustomerID string
	Email              string
	Name               string
	EventCreatedAt     time.Time
}

// Validate checks the input fields.
func (i *ProvisionAccountInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Provider, validation.Required, customValidation.NotBlank),
		validation.Field(&i.ExternalCustomerID, validation.Required, customValidation.NotBlank),
		validation.Field(&i.Email, validation.Length(0, 320)),
		validation.Field(&i.Name, validation.Length(0, 255)),
	)
}

// DeactivateAccountInput carries what is needed to deactivate an account.
type DeactivateAccountInput struct {
	Provider           string
	ExternalCustomerID string
	EventCreatedAt     time.Time
}

// Validate checks the input fields.
func (i *DeactivateAccountInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Provider, validation.Required, customValidation.NotBlank),
		validation.Field(&i.ExternalCustomerID, validation.Required, customValidation.NotBlank),
	)
}

// NewDeletedAccount builds the inactive placeholder stored when a customer is deleted
// before its creation event arrived. LastEventAt is the deletion time, so an older
// customer.created for the same customer is stale against it.
func NewDeletedAccount(input *DeactivateAccountInput, now time.Time) *Account {
	eventAt := input.EventCreatedAt
	if eventAt.IsZero() {
		eventAt = now
	}
	return &Account{
		ID:                 uuid.Must(uuid.NewV7()),
		Provider:           input.Provider,
		ExternalCustomerID: input.ExternalCustomerID,
		IsActive:           false,
		LastEventAt:        eventAt.UTC(),
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}
}

// NewAccount builds an active Account from validated input.
func NewAccount(input *ProvisionAccountInput, now time.Time) *Account {
	lastEventAt := input.EventCreatedAt
	if lastEventAt.IsZero() {
		lastEventAt = now
	}
	return &Account{
		ID:                 uuid.Must(uuid.NewV7()),
		Provider:           input.Provider,
		ExternalCustomerID: input.ExternalCustomerID,
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Name:               strings.TrimSpace(input.Name),
		IsActive:           true,
		LastEventAt:        lastEventAt.UTC(),
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}
}
