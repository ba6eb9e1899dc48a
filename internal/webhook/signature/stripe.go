package signature

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StripeSignatureHeader carries "t=<unix>,v1=<hex>[,v1=<hex>...]".
const StripeSignatureHeader = "Stripe-Signature"

// StripeScheme verifies deliveries signed the way Stripe signs them. Several v1
// entries may be present while the provider rolls a secret; any match is accepted.
type StripeScheme struct {
	tolerance time.Duration
}

// NewStripeScheme creates a StripeScheme with the given replay window.
func NewStripeScheme(tolerance time.Duration) *StripeScheme {
	return &StripeScheme{tolerance: toleranceOrDefault(tolerance)}
}

// Name returns "stripe".
func (s *StripeScheme) Name() string {
	return "stripe"
}

// Verify checks the Stripe-Signature header against body.
func (s *StripeScheme) Verify(body []byte, headers http.Header, secret string, now time.Time) error {
	header := headers.Get(StripeSignatureHeader)
	if header == "" {
		return errMissingHeader
	}

	var rawTimestamp string
	var signatures []string
	for _, item := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			rawTimestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if rawTimestamp == "" || len(signatures) == 0 {
		return errMissingHeader
	}

	ts, err := parseTimestamp(rawTimestamp)
	if err != nil {
		return err
	}
	if !withinTolerance(ts, now, s.tolerance) {
		return errTimestampSkew
	}

	if !matchesAny(Compute(secret, ts, body), signatures) {
		return errSignatureInvalid
	}
	return nil
}

// Sign produces a Stripe-Signature header for body.
func (s *StripeScheme) Sign(body []byte, secret string, now time.Time) http.Header {
	ts := now.Unix()
	headers := http.Header{}
	headers.Set(StripeSignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, ComputeHex(secret, ts, body)))
	return headers
}
