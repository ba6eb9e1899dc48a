// Package http provides HTTP handlers for managing outbound webhook subscriptions.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/httputil"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/subscription/http/dto"
	subscriptionUseCase "github.com/allisson/webhooks/internal/subscription/usecase"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// SubscriptionHandler handles HTTP requests for subscription management.
type SubscriptionHandler struct {
	subscriptionUseCase subscriptionUseCase.SubscriptionUseCase
	logger              *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(
	subscriptionUseCase subscriptionUseCase.SubscriptionUseCase,
	logger *slog.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
		logger:              logger,
	}
}

// CreateHandler creates a subscription.
// POST /v1/subscriptions - Returns 201 Created with the plaintext secret, shown only once.
func (h *SubscriptionHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateSubscriptionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	subscription, err := h.subscriptionUseCase.Create(c.Request.Context(), &subscriptionDomain.CreateSubscriptionInput{
		URL:         req.URL,
		Events:      req.Events,
		Description: req.Description,
		Secret:      req.Secret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSubscriptionToCreateResponse(subscription))
}

// GetHandler returns a subscription by ID.
// GET /v1/subscriptions/:id - Returns 200 OK without the secret.
func (h *SubscriptionHandler) GetHandler(c *gin.Context) {
	subscriptionID, ok := h.parseID(c)
	if !ok {
		return
	}

	subscription, err := h.subscriptionUseCase.Get(c.Request.Context(), subscriptionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionToResponse(subscription))
}

// ListHandler returns subscriptions, newest first.
// GET /v1/subscriptions?offset=0&limit=50 - Returns 200 OK with {"data": [...]}.
func (h *SubscriptionHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	subscriptions, err := h.subscriptionUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionsToListResponse(subscriptions))
}

// DeleteHandler deactivates a subscription.
// DELETE /v1/subscriptions/:id - Returns 204 No Content.
func (h *SubscriptionHandler) DeleteHandler(c *gin.Context) {
	subscriptionID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.subscriptionUseCase.Deactivate(c.Request.Context(), subscriptionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *SubscriptionHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c,
			fmt.Errorf("invalid subscription ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return subscriptionID, true
}
