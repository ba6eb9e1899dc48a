package app

import (
	"fmt"

	paymentHTTP "github.com/allisson/webhooks/internal/payment/http"
	paymentRepository "github.com/allisson/webhooks/internal/payment/repository"
	paymentUsecase "github.com/allisson/webhooks/internal/payment/usecase"
)

// PaymentRepository returns the payment repository based on database driver.
func (c *Container) PaymentRepository() (paymentUsecase.PaymentRepository, error) {
	var err error
	c.paymentRepositoryInit.Do(func() {
		c.paymentRepository, err = c.initPaymentRepository()
		if err != nil {
			c.initErrors["paymentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRepository"]; exists {
		return nil, storedErr
	}
	return c.paymentRepository, nil
}

// PaymentUseCase returns the payment use case.
func (c *Container) PaymentUseCase() (paymentUsecase.PaymentUseCase, error) {
	var err error
	c.paymentUseCaseInit.Do(func() {
		c.paymentUseCase, err = c.initPaymentUseCase()
		if err != nil {
			c.initErrors["paymentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentUseCase"]; exists {
		return nil, storedErr
	}
	return c.paymentUseCase, nil
}

// PaymentHandler returns the HTTP handler for payment inspection.
func (c *Container) PaymentHandler() (*paymentHTTP.PaymentHandler, error) {
	var err error
	c.paymentHandlerInit.Do(func() {
		c.paymentHandler, err = c.initPaymentHandler()
		if err != nil {
			c.initErrors["paymentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentHandler"]; exists {
		return nil, storedErr
	}
	return c.paymentHandler, nil
}

// initPaymentRepository creates the payment repository for the configured driver.
func (c *Container) initPaymentRepository() (paymentUsecase.PaymentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return paymentRepository.NewMySQLPaymentRepository(db), nil
	case "postgres":
		return paymentRepository.NewPostgreSQLPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPaymentUseCase creates the payment use case with all its dependencies.
func (c *Container) initPaymentUseCase() (paymentUsecase.PaymentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment use case: %w", err)
	}

	repository, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for payment use case: %w", err)
	}

	publisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for payment use case: %w", err)
	}

	var eventPublisher paymentUsecase.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	baseUseCase := paymentUsecase.NewPaymentUseCase(txManager, repository, eventPublisher)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for payment use case: %w", err)
		}
		return paymentUsecase.NewPaymentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initPaymentHandler creates the payment HTTP handler.
func (c *Container) initPaymentHandler() (*paymentHTTP.PaymentHandler, error) {
	useCase, err := c.PaymentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment use case for payment handler: %w", err)
	}
	return paymentHTTP.NewPaymentHandler(useCase, c.Logger()), nil
}
