package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/httputil"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	subscriptionUseCase "github.com/allisson/webhooks/internal/subscription/usecase"
)

// subscriptionOutput is the JSON shape printed by the subscription commands.
type subscriptionOutput struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Events      []string  `json:"events"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	Secret      string    `json:"secret,omitempty"`
}

func toSubscriptionOutput(subscription *subscriptionDomain.Subscription, withSecret bool) subscriptionOutput {
	output := subscriptionOutput{
		ID:          subscription.ID.String(),
		URL:         subscription.URL,
		Events:      subscription.Events,
		Description: subscription.Description,
		IsActive:    subscription.IsActive,
		CreatedAt:   subscription.CreatedAt,
	}
	if withSecret {
		output.Secret = subscription.Secret
	}
	return output
}

// parseEvents splits a comma-separated event list, dropping blanks.
func parseEvents(raw string) []string {
	parts := strings.Split(raw, ",")
	events := make([]string, 0, len(parts))
	for _, part := range parts {
		if event := strings.TrimSpace(part); event != "" {
			events = append(events, event)
		}
	}
	return events
}

// RunCreateSubscription registers an outbound subscription and prints its signing secret.
// A blank secret asks the service to generate one.
//
// Requirements: Database must be migrated and SUBSCRIPTION_SECRETS_KEY_URI configured.
func RunCreateSubscription(
	ctx context.Context,
	useCase subscriptionUseCase.SubscriptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	url string,
	events string,
	description string,
	secret string,
	format string,
) error {
	input := &subscriptionDomain.CreateSubscriptionInput{
		URL:         url,
		Events:      parseEvents(events),
		Description: description,
		Secret:      secret,
	}

	subscription, err := useCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, toSubscriptionOutput(subscription, true)); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "\nSubscription created successfully!")
		_, _ = fmt.Fprintf(writer, "Subscription ID: %s\n", subscription.ID)
		_, _ = fmt.Fprintf(writer, "URL: %s\n", subscription.URL)
		_, _ = fmt.Fprintf(writer, "Events: %s\n", strings.Join(subscription.Events, ", "))
		_, _ = fmt.Fprintf(writer, "Secret: %s\n", subscription.Secret)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
	}

	logger.Info("subscription created",
		slog.String("subscription_id", subscription.ID.String()),
		slog.Any("events", subscription.Events),
	)

	return nil
}

// RunListSubscriptions prints subscriptions, newest first. Secrets are never printed.
func RunListSubscriptions(
	ctx context.Context,
	useCase subscriptionUseCase.SubscriptionUseCase,
	writer io.Writer,
	offset int,
	limit int,
	format string,
) error {
	if err := httputil.ValidatePagination(offset, limit); err != nil {
		return err
	}

	subscriptions, err := useCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	if format == "json" {
		outputs := make([]subscriptionOutput, 0, len(subscriptions))
		for _, subscription := range subscriptions {
			outputs = append(outputs, toSubscriptionOutput(subscription, false))
		}
		return writeJSON(writer, map[string]any{"data": outputs})
	}

	if len(subscriptions) == 0 {
		_, _ = fmt.Fprintln(writer, "No subscriptions found")
		return nil
	}

	for _, subscription := range subscriptions {
		status := "active"
		if !subscription.IsActive {
			status = "inactive"
		}
		_, _ = fmt.Fprintf(writer, "%s  %-8s  %s  [%s]\n",
			subscription.ID, status, subscription.URL, strings.Join(subscription.Events, ","))
	}
	return nil
}

// RunDeactivateSubscription stops deliveries to a subscription.
func RunDeactivateSubscription(
	ctx context.Context,
	useCase subscriptionUseCase.SubscriptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id string,
	format string,
) error {
	subscriptionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid subscription ID format: %w", err)
	}

	if err := useCase.Deactivate(ctx, subscriptionID); err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"id": subscriptionID.String(), "is_active": false}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Subscription %s deactivated\n", subscriptionID)
	}

	logger.Info("subscription deactivated", slog.String("subscription_id", subscriptionID.String()))
	return nil
}
