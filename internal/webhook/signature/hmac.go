// Package signature authenticates inbound webhook deliveries and signs outbound ones.
//
// Every scheme shares one primitive: HMAC-SHA256 keyed with the shared secret over
// "<unix timestamp>.<raw body>". Schemes differ only in how the timestamp and digest
// travel in headers.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Compute returns HMAC-SHA256(secret, "<timestamp>.<body>").
func Compute(secret string, timestamp int64, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return mac.Sum(nil)
}

// ComputeHex is Compute encoded as lowercase hex.
func ComputeHex(secret string, timestamp int64, body []byte) string {
	return hex.EncodeToString(Compute(secret, timestamp, body))
}

// matchesAny compares the expected digest with each hex candidate in constant time.
// Candidates that are not valid hex never match.
func matchesAny(expected []byte, candidates []string) bool {
	matched := false
	for _, candidate := range candidates {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			matched = true
		}
	}
	return matched
}
