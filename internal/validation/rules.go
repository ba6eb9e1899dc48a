// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/webhooks/internal/errors"
)

var (
	// eventNameRegex matches dotted event names such as "invoice.paid" or "*".
	eventNameRegex = regexp.MustCompile(`^(\*|[a-z0-9_]+(\.[a-z0-9_]+)*)$`)

	// currencyRegex matches ISO 4217 style three letter codes in either case.
	currencyRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// EventName validates a dotted lowercase event name, or the "*" wildcard.
var EventName = validation.NewStringRuleWithError(
	func(s string) bool {
		return eventNameRegex.MatchString(s)
	},
	validation.NewError("validation_event_name", "must be a dotted lowercase event name or '*'"),
)

// Currency validates a three letter currency code.
var Currency = validation.NewStringRuleWithError(
	func(s string) bool {
		return currencyRegex.MatchString(s)
	},
	validation.NewError("validation_currency", "must be a three letter currency code"),
)

// HTTPURL validates an absolute http or https URL with a host.
// Userinfo is rejected so credentials never end up in delivery logs.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false
		}
		return u.Host != "" && u.User == nil
	},
	validation.NewError("validation_http_url", "must be an absolute http(s) URL without credentials"),
)

// Issues flattens a validation error tree into "path": "message" pairs.
// Nested validation.Errors keys are joined with dots, e.g. "object.amount".
// Errors that are not validation.Errors are reported under the given root key.
func Issues(err error, root string) map[string]string {
	issues := make(map[string]string)
	collectIssues(err, root, issues)
	return issues
}

func collectIssues(err error, prefix string, issues map[string]string) {
	if err == nil {
		return
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		key := prefix
		if key == "" {
			key = "payload"
		}
		issues[key] = err.Error()
		return
	}

	for field, fieldErr := range errs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		collectIssues(fieldErr, key, issues)
	}
}
