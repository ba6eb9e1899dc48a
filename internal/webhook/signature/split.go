package signature

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureHeader carries "v1=<hex>", optionally several separated by spaces or commas.
	SignatureHeader = "X-Webhook-Signature"
	// TimestampHeader carries the unix timestamp that was signed.
	TimestampHeader = "X-Webhook-Timestamp"
)

// SplitScheme carries the timestamp and the digest in separate headers. Outbound
// deliveries are signed with it and subscribers verify with the same rules.
type SplitScheme struct {
	tolerance time.Duration
}

// NewSplitScheme creates a SplitScheme with the given replay window.
func NewSplitScheme(tolerance time.Duration) *SplitScheme {
	return &SplitScheme{tolerance: toleranceOrDefault(tolerance)}
}

// Name returns "split".
func (s *SplitScheme) Name() string {
	return "split"
}

// Verify checks X-Webhook-Signature and X-Webhook-Timestamp against body.
func (s *SplitScheme) Verify(body []byte, headers http.Header, secret string, now time.Time) error {
	rawSignature := headers.Get(SignatureHeader)
	rawTimestamp := headers.Get(TimestampHeader)
	if rawSignature == "" || rawTimestamp == "" {
		return errMissingHeader
	}

	var signatures []string
	for _, item := range strings.FieldsFunc(rawSignature, func(r rune) bool { return r == ',' || r == ' ' }) {
		if value, ok := strings.CutPrefix(item, "v1="); ok {
			signatures = append(signatures, value)
		}
	}
	if len(signatures) == 0 {
		return errMalformedHeader
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

// Sign produces the X-Webhook-Signature and X-Webhook-Timestamp headers for body.
func (s *SplitScheme) Sign(body []byte, secret string, now time.Time) http.Header {
	ts := now.Unix()
	headers := http.Header{}
	headers.Set(TimestampHeader, strconv.FormatInt(ts, 10))
	headers.Set(SignatureHeader, "v1="+ComputeHex(secret, ts, body))
	return headers
}
