package signature

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

// DefaultTolerance is the replay window applied when a scheme is built without one.
const DefaultTolerance = 5 * time.Minute

// Failure reasons. They stay inside the server: callers only ever observe
// domain.ErrVerificationFailed.
var (
	errMissingSecret    = errors.New("no signing secret configured")
	errMissingHeader    = errors.New("signature header missing")
	errMalformedHeader  = errors.New("signature header malformed")
	errTimestampSkew    = errors.New("timestamp outside tolerance")
	errSignatureInvalid = errors.New("no signature matched")
)

// Scheme is one provider's way of carrying the HMAC in request headers.
type Scheme interface {
	// Name identifies the scheme in configuration and logs.
	Name() string
	// Verify authenticates body against headers, returning a failure reason on rejection.
	Verify(body []byte, headers http.Header, secret string, now time.Time) error
	// Sign returns the headers that make body verifiable under secret at time now.
	Sign(body []byte, secret string, now time.Time) http.Header
}

func parseTimestamp(raw string) (int64, error) {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, errMalformedHeader
	}
	return ts, nil
}

func withinTolerance(ts int64, now time.Time, tolerance time.Duration) bool {
	skew := now.Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	return skew <= tolerance
}

func toleranceOrDefault(tolerance time.Duration) time.Duration {
	if tolerance <= 0 {
		return DefaultTolerance
	}
	return tolerance
}
