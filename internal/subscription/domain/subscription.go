// Package domain defines outbound webhook subscriptions.
package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
)

// WildcardEvent subscribes to every outbound event.
const WildcardEvent = "*"

// SecretPrefix marks generated subscription signing secrets.
const SecretPrefix = "whsec_"

// Subscription is a receiver of outbound events.
//
// EncryptedSecret is what the repositories persist. Secret holds the plaintext signing
// secret and is only populated by the use case after decryption; it never reaches storage.
type Subscription struct {
	ID              uuid.UUID
	URL             string
	Events          []string
	Description     string
	Secret          string
	EncryptedSecret []byte
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Matches reports whether the subscription wants the given event.
func (s *Subscription) Matches(event string) bool {
	return s.IsActive && (slices.Contains(s.Events, WildcardEvent) || slices.Contains(s.Events, event))
}

// CreateSubscriptionInput carries what is needed to create a subscription.
// A blank Secret asks the use case to generate one.
type CreateSubscriptionInput struct {
	URL         string
	Events      []string
	Description string
	Secret      string
}

// Validate checks the input fields.
func (i *CreateSubscriptionInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.URL, validation.Required, customValidation.HTTPURL, validation.Length(1, 2048)),
		validation.Field(&i.Events,
			validation.Required,
			validation.Length(1, 64),
			validation.Each(validation.Required, customValidation.EventName),
		),
		validation.Field(&i.Description, validation.Length(0, 255)),
		validation.Field(&i.Secret, customValidation.NoWhitespace, validation.Length(16, 255)),
	)
}

// NewSubscription builds an active Subscription from validated input and a resolved secret.
// Duplicate event names are collapsed.
func NewSubscription(input *CreateSubscriptionInput, secret string, now time.Time) *Subscription {
	events := slices.Clone(input.Events)
	slices.Sort(events)
	events = slices.Compact(events)

	return &Subscription{
		ID:          uuid.Must(uuid.NewV7()),
		URL:         input.URL,
		Events:      events,
		Description: input.Description,
		Secret:      secret,
		IsActive:    true,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}

// SecretKeeper encrypts and decrypts subscription secrets at rest.
// *gocloud.dev/secrets.Keeper satisfies it.
type SecretKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
