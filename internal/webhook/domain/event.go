// Package domain defines the inbound webhook delivery and event models shared by the
// signature verifier, envelope parser, handler registry and ingestion orchestrator.
package domain

import (
	"encoding/json"
	"net/http"
	"time"
)

// RawDelivery is an inbound webhook request exactly as it arrived over HTTP.
// Body holds the raw bytes because signatures are computed over them; nothing may
// decode it before verification succeeds.
type RawDelivery struct {
	Provider   string
	Body       []byte
	Headers    http.Header
	ReceivedAt time.Time
}

// BaseEvent is the provider-agnostic envelope shared by every event type.
// Data stays raw until the handler for Type decodes it into its own schema.
type BaseEvent struct {
	ID      string
	Type    string
	Created time.Time
	Data    json.RawMessage
}

// ReasonAlreadyProcessed is reported when the idempotency guard finds the entity
// an event would create, or when the insert loses a race on the unique constraint.
const ReasonAlreadyProcessed = "already processed"

// HandlerOutcome is the result of a handler that completed without error.
type HandlerOutcome struct {
	Skipped bool
	Reason  string
}

// Processed returns the outcome of a handler that applied its side effect.
func Processed() HandlerOutcome {
	return HandlerOutcome{}
}

// Skipped returns the outcome of a handler that deliberately did nothing.
func Skipped(reason string) HandlerOutcome {
	return HandlerOutcome{Skipped: true, Reason: reason}
}

// IngestState is the terminal success state of an ingested delivery.
type IngestState string

const (
	// StateUnhandled means the envelope was valid but no handler is registered for its type.
	StateUnhandled IngestState = "unhandled"
	// StateSkipped means the handler ran and chose not to apply a side effect.
	StateSkipped IngestState = "skipped"
	// StateProcessed means the handler applied its side effect.
	StateProcessed IngestState = "processed"
)

// IngestResult describes a delivery that was accepted.
type IngestResult struct {
	EventID   string
	EventType string
	State     IngestState
	Reason    string
}

// Processed reports whether the delivery produced a side effect.
func (r *IngestResult) Processed() bool {
	return r.State == StateProcessed
}

// OutboundPayload is the body posted to subscribers, serialized as
// {"event": ..., "data": ..., "timestamp": RFC 3339}.
type OutboundPayload struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
