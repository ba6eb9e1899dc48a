package outbound

import (
	"errors"
	"net/url"
)

// RedactURL reduces a subscriber URL to scheme, host and path for logs and errors.
// Credentials, query strings and fragments often carry tokens and are dropped.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[invalid url]"
	}

	redacted := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   u.Path,
	}
	return redacted.String()
}

// unwrapURLError strips the *url.Error wrapper the HTTP client adds, which
// embeds the full request URL in its message.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
