package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

// ErrSubscriptionNotFound indicates the subscription was not found or is already inactive.
var ErrSubscriptionNotFound = errors.Wrap(errors.ErrNotFound, "subscription not found")
