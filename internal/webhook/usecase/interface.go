// Package usecase implements the inbound webhook ingestion pipeline.
package usecase

import (
	"context"

	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/registry"
	"github.com/allisson/webhooks/internal/webhook/signature"
)

// DeliveryVerifier authenticates a raw delivery.
type DeliveryVerifier interface {
	Verify(delivery domain.RawDelivery) (signature.VerifiedEvent, error)
}

// EnvelopeParser decodes a verified body into the shared base envelope.
type EnvelopeParser interface {
	Parse(event signature.VerifiedEvent) (domain.BaseEvent, error)
}

// HandlerRegistry resolves the handler for an event type.
type HandlerRegistry interface {
	IsHandled(eventType string) bool
	Lookup(eventType string) (registry.HandlerFactory, bool)
}

// Provider binds a provider name to its verifier and its handler table.
type Provider struct {
	Name     string
	Verifier DeliveryVerifier
	Registry HandlerRegistry
}

// IngestUseCase runs a delivery through verification, parsing and dispatch.
type IngestUseCase interface {
	// Ingest processes a single delivery. The returned error is one of
	// domain.ErrProviderNotFound, domain.ErrVerificationFailed, a *domain.PayloadError,
	// or an internal error that the caller must report without detail.
	Ingest(ctx context.Context, delivery domain.RawDelivery, requestID string) (*domain.IngestResult, error)

	// Providers returns the configured provider names in sorted order.
	Providers() []string
}
