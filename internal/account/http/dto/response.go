// Package dto provides data transfer objects for account HTTP responses.
package dto

import (
	"time"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                 string    `json:"id"`
	Provider           string    `json:"provider"`
	ExternalCustomerID string    `json:"external_customer_id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	IsActive           bool      `json:"is_active"`
	LastEventAt        time.Time `json:"last_event_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *accountDomain.Account) AccountResponse {
	return AccountResponse{
		ID:                 account.ID.String(),
		Provider:           account.Provider,
		ExternalCustomerID: account.ExternalCustomerID,
		Email:              account.Email,
		Name:               account.Name,
		IsActive:           account.IsActive,
		LastEventAt:        account.LastEventAt,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}
