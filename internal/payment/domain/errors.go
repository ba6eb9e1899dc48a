package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

var (
	// ErrPaymentNotFound indicates the payment was not found.
	ErrPaymentNotFound = errors.Wrap(errors.ErrNotFound, "payment not found")

	// ErrPaymentAlreadyRecorded indicates a payment for the same provider invoice exists.
	ErrPaymentAlreadyRecorded = errors.Wrap(errors.ErrConflict, "payment already recorded")
)
