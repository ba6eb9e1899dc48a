// Package dto provides data transfer objects for payment HTTP responses.
package dto

import (
	"time"

	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
)

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID                 string    `json:"id"`
	Provider           string    `json:"provider"`
	ExternalInvoiceID  string    `json:"external_invoice_id"`
	ExternalCustomerID string    `json:"external_customer_id"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	SourceEventID      string    `json:"source_event_id"`
	PaidAt             time.Time `json:"paid_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Data []PaymentResponse `json:"data"`
}

// MapPaymentToResponse converts a domain payment to an API response.
func MapPaymentToResponse(payment *paymentDomain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 payment.ID.String(),
		Provider:           payment.Provider,
		ExternalInvoiceID:  payment.ExternalInvoiceID,
		ExternalCustomerID: payment.ExternalCustomerID,
		Amount:             payment.Amount,
		Currency:           payment.Currency,
		SourceEventID:      payment.SourceEventID,
		PaidAt:             payment.PaidAt,
		CreatedAt:          payment.CreatedAt,
	}
}

// MapPaymentsToListResponse converts a page of payments to an API response.
func MapPaymentsToListResponse(payments []*paymentDomain.Payment) ListPaymentsResponse {
	data := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		data = append(data, MapPaymentToResponse(payment))
	}
	return ListPaymentsResponse{Data: data}
}
