package commands

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/allisson/webhooks/internal/webhook/signature"
)

// RunSignPayload signs body with secret and prints the headers a provider would send.
// scheme is "stripe" (Stripe-Signature) or "split" (X-Webhook-Signature and
// X-Webhook-Timestamp). A zero timestamp signs at the current time.
func RunSignPayload(
	body io.Reader,
	writer io.Writer,
	secret string,
	scheme string,
	timestamp int64,
	format string,
) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("secret is required")
	}

	var signer signature.Scheme
	switch scheme {
	case "stripe":
		signer = signature.NewStripeScheme(0)
	case "split":
		signer = signature.NewSplitScheme(0)
	default:
		return fmt.Errorf("invalid scheme: %s (valid options: stripe, split)", scheme)
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	now := time.Now()
	if timestamp > 0 {
		now = time.Unix(timestamp, 0)
	}

	headers := signer.Sign(payload, secret, now)

	if format == "json" {
		return writeJSON(writer, flattenHeaders(headers))
	}

	for _, name := range sortedHeaderNames(headers) {
		_, _ = fmt.Fprintf(writer, "%s: %s\n", name, headers.Get(name))
	}
	return nil
}

func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for name := range headers {
		flat[name] = headers.Get(name)
	}
	return flat
}

func sortedHeaderNames(headers http.Header) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
