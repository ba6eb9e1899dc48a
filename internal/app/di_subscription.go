package app

import (
	"context"
	"fmt"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	subscriptionHTTP "github.com/allisson/webhooks/internal/subscription/http"
	subscriptionRepository "github.com/allisson/webhooks/internal/subscription/repository"
	subscriptionService "github.com/allisson/webhooks/internal/subscription/service"
	subscriptionUsecase "github.com/allisson/webhooks/internal/subscription/usecase"
)

// SubscriptionKeeper returns the keeper that encrypts subscription secrets at rest.
func (c *Container) SubscriptionKeeper() (subscriptionDomain.SecretKeeper, error) {
	var err error
	c.subscriptionKeeperInit.Do(func() {
		c.subscriptionKeeper, err = c.initSubscriptionKeeper()
		if err != nil {
			c.initErrors["subscriptionKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionKeeper"]; exists {
		return nil, storedErr
	}
	return c.subscriptionKeeper, nil
}

// SubscriptionRepository returns the subscription repository based on database driver.
func (c *Container) SubscriptionRepository() (subscriptionUsecase.SubscriptionRepository, error) {
	var err error
	c.subscriptionRepoInit.Do(func() {
		c.subscriptionRepository, err = c.initSubscriptionRepository()
		if err != nil {
			c.initErrors["subscriptionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionRepository"]; exists {
		return nil, storedErr
	}
	return c.subscriptionRepository, nil
}

// SubscriptionUseCase returns the subscription use case.
func (c *Container) SubscriptionUseCase() (subscriptionUsecase.SubscriptionUseCase, error) {
	var err error
	c.subscriptionUseCaseInit.Do(func() {
		c.subscriptionUseCase, err = c.initSubscriptionUseCase()
		if err != nil {
			c.initErrors["subscriptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.subscriptionUseCase, nil
}

// SubscriptionHandler returns the HTTP handler for subscription management.
func (c *Container) SubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	var err error
	c.subscriptionHandlerInit.Do(func() {
		c.subscriptionHandler, err = c.initSubscriptionHandler()
		if err != nil {
			c.initErrors["subscriptionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionHandler"]; exists {
		return nil, storedErr
	}
	return c.subscriptionHandler, nil
}

// initSubscriptionKeeper opens the gocloud.dev/secrets keeper named by the configuration.
func (c *Container) initSubscriptionKeeper() (subscriptionDomain.SecretKeeper, error) {
	if c.config.SubscriptionSecretsKeyURI == "" {
		return nil, fmt.Errorf("SUBSCRIPTION_SECRETS_KEY_URI is required to manage subscriptions")
	}

	keeper, err := subscriptionService.NewKeeperService().OpenKeeper(
		context.Background(),
		c.config.SubscriptionSecretsKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open subscription keeper: %w", err)
	}
	return keeper, nil
}

// initSubscriptionRepository creates the subscription repository for the configured driver.
func (c *Container) initSubscriptionRepository() (subscriptionUsecase.SubscriptionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for subscription repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return subscriptionRepository.NewMySQLSubscriptionRepository(db), nil
	case "postgres":
		return subscriptionRepository.NewPostgreSQLSubscriptionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSubscriptionUseCase creates the subscription use case with all its dependencies.
func (c *Container) initSubscriptionUseCase() (subscriptionUsecase.SubscriptionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for subscription use case: %w", err)
	}

	repository, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for subscription use case: %w", err)
	}

	keeper, err := c.SubscriptionKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get keeper for subscription use case: %w", err)
	}

	baseUseCase := subscriptionUsecase.NewSubscriptionUseCase(txManager, repository, keeper, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for subscription use case: %w", err)
		}
		return subscriptionUsecase.NewSubscriptionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSubscriptionHandler creates the subscription HTTP handler.
func (c *Container) initSubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	useCase, err := c.SubscriptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription use case for subscription handler: %w", err)
	}
	return subscriptionHTTP.NewSubscriptionHandler(useCase, c.Logger()), nil
}
