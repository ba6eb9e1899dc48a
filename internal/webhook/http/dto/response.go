// Package dto provides data transfer objects for webhook HTTP responses.
package dto

import "github.com/allisson/webhooks/internal/webhook/domain"

// Error codes returned to webhook providers.
const (
	CodeVerificationFailed = "WEBHOOK_VERIFICATION_FAILED"
	CodePayloadInvalid     = "WEBHOOK_PAYLOAD_INVALID"
	CodeProviderNotFound   = "WEBHOOK_PROVIDER_NOT_FOUND"
	CodePayloadTooLarge    = "WEBHOOK_PAYLOAD_TOO_LARGE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ReceiptResponse acknowledges an accepted delivery.
// Processed is false when the event type is unhandled or the event was already applied.
type ReceiptResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"eventId"`
	Processed bool   `json:"processed"`
}

// MapResultToReceipt converts an ingestion result into the acknowledgement body.
func MapResultToReceipt(result *domain.IngestResult) ReceiptResponse {
	return ReceiptResponse{
		Received:  true,
		EventID:   result.EventID,
		Processed: result.Processed(),
	}
}
