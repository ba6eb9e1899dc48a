package app

import (
	"fmt"
	"net/http"

	"github.com/allisson/webhooks/internal/webhook/envelope"
	"github.com/allisson/webhooks/internal/webhook/handler"
	webhookHTTP "github.com/allisson/webhooks/internal/webhook/http"
	"github.com/allisson/webhooks/internal/webhook/outbound"
	"github.com/allisson/webhooks/internal/webhook/registry"
	"github.com/allisson/webhooks/internal/webhook/signature"
	webhookUsecase "github.com/allisson/webhooks/internal/webhook/usecase"
)

// ProviderStripe is the path segment deliveries signed by Stripe are posted to.
const ProviderStripe = "stripe"

// EventPublisher returns the outbound publisher.
// Returns nil without error when outbound delivery is disabled or no
// subscription keeper is configured.
func (c *Container) EventPublisher() (*outbound.Publisher, error) {
	var err error
	c.eventPublisherInit.Do(func() {
		c.eventPublisher, err = c.initEventPublisher()
		if err != nil {
			c.initErrors["eventPublisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventPublisher"]; exists {
		return nil, storedErr
	}
	return c.eventPublisher, nil
}

// IngestUseCase returns the webhook ingestion use case.
func (c *Container) IngestUseCase() (webhookUsecase.IngestUseCase, error) {
	var err error
	c.ingestUseCaseInit.Do(func() {
		c.ingestUseCase, err = c.initIngestUseCase()
		if err != nil {
			c.initErrors["ingestUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ingestUseCase"]; exists {
		return nil, storedErr
	}
	return c.ingestUseCase, nil
}

// WebhookHandler returns the HTTP handler that receives provider deliveries.
func (c *Container) WebhookHandler() (*webhookHTTP.WebhookHandler, error) {
	var err error
	c.webhookHandlerInit.Do(func() {
		c.webhookHandler, err = c.initWebhookHandler()
		if err != nil {
			c.initErrors["webhookHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["webhookHandler"]; exists {
		return nil, storedErr
	}
	return c.webhookHandler, nil
}

// initEventPublisher creates the outbound publisher and its dispatcher.
func (c *Container) initEventPublisher() (*outbound.Publisher, error) {
	logger := c.Logger()

	if !c.config.OutboundEnabled {
		logger.Info("outbound delivery disabled")
		return nil, nil
	}
	if c.config.SubscriptionSecretsKeyURI == "" {
		logger.Warn("subscription secrets key uri not configured - outbound delivery disabled")
		return nil, nil
	}

	subscriptionUseCase, err := c.SubscriptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription use case for event publisher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for event publisher: %w", err)
	}

	dispatcher := outbound.NewDispatcher(
		&http.Client{},
		outbound.Config{
			Concurrency:      c.config.OutboundConcurrency,
			Timeout:          c.config.OutboundTimeout,
			MaxResponseBytes: c.config.OutboundMaxResponseBytes,
		},
		logger,
	)

	return outbound.NewPublisher(subscriptionUseCase, dispatcher, businessMetrics, logger), nil
}

// initProviders builds one provider per configured signing secret.
func (c *Container) initProviders() ([]webhookUsecase.Provider, error) {
	var providers []webhookUsecase.Provider

	if c.config.WebhookStripeSecret == "" {
		c.Logger().Warn("stripe signing secret not configured - stripe deliveries will be rejected")
		return providers, nil
	}

	paymentUseCase, err := c.PaymentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment use case for stripe provider: %w", err)
	}

	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for stripe provider: %w", err)
	}

	handlers, err := registry.New(handler.Entries(ProviderStripe, paymentUseCase, accountUseCase)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build stripe handler registry: %w", err)
	}

	providers = append(providers, webhookUsecase.Provider{
		Name: ProviderStripe,
		Verifier: signature.NewVerifier(
			signature.NewStripeScheme(c.config.WebhookSignatureTolerance),
			c.config.WebhookStripeSecret,
		),
		Registry: handlers,
	})

	return providers, nil
}

// initIngestUseCase creates the ingestion use case with every configured provider.
func (c *Container) initIngestUseCase() (webhookUsecase.IngestUseCase, error) {
	providers, err := c.initProviders()
	if err != nil {
		return nil, err
	}

	baseUseCase, err := webhookUsecase.NewIngestUseCase(
		providers,
		envelope.NewParser(),
		c.Logger(),
		c.config.WebhookProcessingTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest use case: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ingest use case: %w", err)
		}
		return webhookUsecase.NewIngestUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initWebhookHandler creates the webhook HTTP handler.
func (c *Container) initWebhookHandler() (*webhookHTTP.WebhookHandler, error) {
	useCase, err := c.IngestUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest use case for webhook handler: %w", err)
	}
	return webhookHTTP.NewWebhookHandler(useCase, c.config.WebhookMaxBodyBytes, c.Logger()), nil
}
