// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountHTTP "github.com/allisson/webhooks/internal/account/http"
	"github.com/allisson/webhooks/internal/config"
	"github.com/allisson/webhooks/internal/metrics"
	paymentHTTP "github.com/allisson/webhooks/internal/payment/http"
	subscriptionHTTP "github.com/allisson/webhooks/internal/subscription/http"
	webhookHTTP "github.com/allisson/webhooks/internal/webhook/http"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// Handlers groups the HTTP handlers mounted by SetupRouter.
// AdminAuth guards the payment, account and subscription routes; when nil those
// routes are not mounted and only webhook ingestion is served.
type Handlers struct {
	Webhook      *webhookHTTP.WebhookHandler
	Payment      *paymentHTTP.PaymentHandler
	Account      *accountHTTP.AccountHandler
	Subscription *subscriptionHTTP.SubscriptionHandler
	AdminAuth    gin.HandlerFunc
}

// NewServer creates a new HTTP server.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with all routes and middleware.
func (s *Server) SetupRouter(cfg *config.Config, handlers Handlers, metricsProvider *metrics.Provider) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	if handlers.Webhook != nil {
		webhooks := v1.Group("/webhooks")
		webhooks.Use(WebhookRecoveryMiddleware(s.logger))
		if cfg.RateLimitWebhookEnabled {
			webhooks.Use(RateLimitMiddleware(cfg.RateLimitWebhookRequestsPerSec, cfg.RateLimitWebhookBurst, s.logger))
		}
		webhooks.POST("/:provider", handlers.Webhook.ReceiveHandler)
	}

	if handlers.AdminAuth != nil {
		admin := v1.Group("")
		if cfg.RateLimitEnabled {
			admin.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
		}
		admin.Use(handlers.AdminAuth)

		if handlers.Payment != nil {
			payments := admin.Group("/payments")
			payments.GET("", handlers.Payment.ListHandler)
			payments.GET("/:id", handlers.Payment.GetHandler)
		}

		if handlers.Account != nil {
			admin.GET("/accounts/:id", handlers.Account.GetHandler)
		}

		if handlers.Subscription != nil {
			subscriptions := admin.Group("/subscriptions")
			subscriptions.POST("", handlers.Subscription.CreateHandler)
			subscriptions.GET("", handlers.Subscription.ListHandler)
			subscriptions.GET("/:id", handlers.Subscription.GetHandler)
			subscriptions.DELETE("/:id", handlers.Subscription.DeleteHandler)
		}
	} else {
		s.logger.Warn("admin token hash not configured - admin API disabled")
	}

	s.router = router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
