// Package http provides HTTP handlers for inspecting recorded payments.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/httputil"
	"github.com/allisson/webhooks/internal/payment/http/dto"
	paymentUseCase "github.com/allisson/webhooks/internal/payment/usecase"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentUseCase paymentUseCase.PaymentUseCase
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentUseCase paymentUseCase.PaymentUseCase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

// GetHandler returns a payment by ID.
// GET /v1/payments/:id - Returns 200 OK with the payment.
func (h *PaymentHandler) GetHandler(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c,
			fmt.Errorf("invalid payment ID format: must be a valid UUID"),
			h.logger)
		return
	}

	payment, err := h.paymentUseCase.Get(c.Request.Context(), paymentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentToResponse(payment))
}

// ListHandler returns recorded payments, newest first.
// GET /v1/payments?offset=0&limit=50 - Returns 200 OK with {"data": [...]}.
func (h *PaymentHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	payments, err := h.paymentUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentsToListResponse(payments))
}
