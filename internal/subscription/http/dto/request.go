// Package dto provides data transfer objects for subscription HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
)

// CreateSubscriptionRequest contains the parameters for creating a subscription.
// Secret is optional; one is generated when omitted.
type CreateSubscriptionRequest struct {
	URL         string   `json:"url"`
	Events      []string `json:"events"`
	Description string   `json:"description"`
	Secret      string   `json:"secret"`
}

// Validate checks if the create subscription request is valid.
func (r *CreateSubscriptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required, customValidation.HTTPURL),
		validation.Field(&r.Events,
			validation.Required,
			validation.Each(validation.Required, customValidation.EventName),
		),
		validation.Field(&r.Description, validation.Length(0, 255)),
		validation.Field(&r.Secret, customValidation.NoWhitespace, validation.Length(16, 255)),
	)
}
