// Package registry maps event types to the handlers that process them.
//
// A Registry is built once at startup and is read-only afterwards, so lookups from
// concurrent deliveries need no locking.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/allisson/webhooks/internal/webhook/domain"
)

// EventHandler processes one event type. Implementations validate the event data
// against their own schema and enforce idempotency before applying side effects.
type EventHandler interface {
	Handle(ctx context.Context, event domain.BaseEvent, logger *slog.Logger) (domain.HandlerOutcome, error)
}

// HandlerFactory builds the handler for a delivery.
type HandlerFactory func() EventHandler

// Entry binds an event type to its handler factory.
type Entry struct {
	EventType string
	Factory   HandlerFactory
}

// Registry is an immutable event type to handler table.
type Registry struct {
	factories map[string]HandlerFactory
}

// New builds a Registry. Empty or duplicate event types and nil factories are rejected.
func New(entries ...Entry) (*Registry, error) {
	factories := make(map[string]HandlerFactory, len(entries))
	for _, entry := range entries {
		eventType := strings.TrimSpace(entry.EventType)
		if eventType == "" {
			return nil, errors.New("registry entry with empty event type")
		}
		if entry.Factory == nil {
			return nil, fmt.Errorf("registry entry %q has no handler factory", eventType)
		}
		if _, exists := factories[eventType]; exists {
			return nil, fmt.Errorf("event type %q registered twice", eventType)
		}
		factories[eventType] = entry.Factory
	}
	return &Registry{factories: factories}, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// IsHandled reports whether eventType has a registered handler.
func (r *Registry) IsHandled(eventType string) bool {
	_, ok := r.factories[eventType]
	return ok
}

// Lookup returns the factory registered for eventType.
func (r *Registry) Lookup(eventType string) (HandlerFactory, bool) {
	factory, ok := r.factories[eventType]
	return factory, ok
}

// EventTypes returns the registered event types in sorted order.
func (r *Registry) EventTypes() []string {
	types := make([]string, 0, len(r.factories))
	for eventType := range r.factories {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}
