package signature

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allisson/webhooks/internal/webhook/domain"
)

// VerifiedEvent is a delivery whose body has been authenticated. Its fields are
// unexported so the only way to obtain one is through Verifier.Verify.
type VerifiedEvent struct {
	provider   string
	body       []byte
	receivedAt time.Time
}

// Provider returns the provider the delivery was verified for.
func (e VerifiedEvent) Provider() string {
	return e.provider
}

// Body returns the authenticated raw body.
func (e VerifiedEvent) Body() []byte {
	return e.body
}

// ReceivedAt returns when the delivery reached the server.
func (e VerifiedEvent) ReceivedAt() time.Time {
	return e.receivedAt
}

// verificationError hides the failure reason behind the generic sentinel.
type verificationError struct {
	reason error
}

func (e *verificationError) Error() string {
	return domain.ErrVerificationFailed.Error()
}

func (e *verificationError) Unwrap() error {
	return domain.ErrVerificationFailed
}

// FailureReason extracts the server-side reason from a verification error.
// It returns "" for any other error and must only be used for logging.
func FailureReason(err error) string {
	var ve *verificationError
	if errors.As(err, &ve) {
		return ve.reason.Error()
	}
	return ""
}

// Verifier binds a scheme to a provider secret.
type Verifier struct {
	scheme Scheme
	secret string
	now    func() time.Time
}

// NewVerifier creates a Verifier. An empty secret yields a verifier that rejects everything.
func NewVerifier(scheme Scheme, secret string) *Verifier {
	return &Verifier{scheme: scheme, secret: secret, now: time.Now}
}

// WithClock overrides the clock used for the replay window.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Scheme returns the scheme the verifier uses.
func (v *Verifier) Scheme() Scheme {
	return v.scheme
}

// Verify authenticates delivery. On failure it returns an error matching
// domain.ErrVerificationFailed whose message never reveals which check failed.
func (v *Verifier) Verify(delivery domain.RawDelivery) (VerifiedEvent, error) {
	if strings.TrimSpace(v.secret) == "" {
		return VerifiedEvent{}, &verificationError{reason: errMissingSecret}
	}

	if err := v.scheme.Verify(delivery.Body, delivery.Headers, v.secret, v.now()); err != nil {
		return VerifiedEvent{}, &verificationError{reason: fmt.Errorf("%s: %w", v.scheme.Name(), err)}
	}

	return VerifiedEvent{
		provider:   delivery.Provider,
		body:       delivery.Body,
		receivedAt: delivery.ReceivedAt,
	}, nil
}
