package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

var (
	// ErrAccountNotFound indicates the account was not found.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates an account for the same provider customer exists.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrAccountNotDeactivated indicates the account is already inactive or a newer
	// event has been applied to it.
	ErrAccountNotDeactivated = errors.Wrap(errors.ErrConflict, "account already inactive or changed by a newer event")
)
