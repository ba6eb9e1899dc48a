// Package http provides the HTTP endpoint that receives provider webhook deliveries.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/httputil"
	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/http/dto"
	webhookUseCase "github.com/allisson/webhooks/internal/webhook/usecase"
)

// WebhookHandler receives signed deliveries and hands them to the ingestion use case.
type WebhookHandler struct {
	ingestUseCase webhookUseCase.IngestUseCase
	maxBodyBytes  int64
	logger        *slog.Logger
}

// NewWebhookHandler creates a new webhook handler.
// A non-positive maxBodyBytes disables the body limit.
func NewWebhookHandler(
	ingestUseCase webhookUseCase.IngestUseCase,
	maxBodyBytes int64,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		ingestUseCase: ingestUseCase,
		maxBodyBytes:  maxBodyBytes,
		logger:        logger,
	}
}

// ReceiveHandler accepts a delivery for the provider named in the path.
// POST /v1/webhooks/:provider - Returns 200 OK with {"data": {"received": true, ...}}.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	requestID := requestid.Get(c)
	provider := c.Param("provider")

	body, err := h.readBody(c)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.Warn("webhook payload too large",
				slog.String("request_id", requestID),
				slog.String("provider", provider),
				slog.Int64("limit", maxBytesErr.Limit),
			)
			httputil.WriteWebhookError(c, http.StatusRequestEntityTooLarge,
				dto.CodePayloadTooLarge, domain.ErrPayloadTooLarge.Error(), requestID, nil)
			return
		}
		h.logger.Error("failed to read webhook body",
			slog.String("request_id", requestID),
			slog.String("provider", provider),
			slog.Any("error", err),
		)
		httputil.WriteWebhookError(c, http.StatusInternalServerError,
			dto.CodeInternalError, "An internal error occurred", requestID, nil)
		return
	}

	delivery := domain.RawDelivery{
		Provider:   provider,
		Body:       body,
		Headers:    c.Request.Header.Clone(),
		ReceivedAt: time.Now().UTC(),
	}

	result, err := h.ingestUseCase.Ingest(c.Request.Context(), delivery, requestID)
	if err != nil {
		h.writeError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, httputil.DataResponse{Data: dto.MapResultToReceipt(result)})
}

func (h *WebhookHandler) readBody(c *gin.Context) ([]byte, error) {
	reader := c.Request.Body
	if h.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	return io.ReadAll(reader)
}

// writeError maps ingestion errors to the webhook error envelope.
// The use case has already logged them with full context.
func (h *WebhookHandler) writeError(c *gin.Context, err error, requestID string) {
	var payloadErr *domain.PayloadError

	switch {
	case errors.Is(err, domain.ErrVerificationFailed):
		httputil.WriteWebhookError(c, http.StatusUnauthorized,
			dto.CodeVerificationFailed, "Webhook signature verification failed", requestID, nil)
	case errors.Is(err, domain.ErrProviderNotFound):
		httputil.WriteWebhookError(c, http.StatusNotFound,
			dto.CodeProviderNotFound, "Webhook provider not found", requestID, nil)
	case errors.As(err, &payloadErr):
		var details any
		if len(payloadErr.Issues) > 0 {
			details = payloadErr.Issues
		}
		httputil.WriteWebhookError(c, http.StatusBadRequest,
			dto.CodePayloadInvalid, "Webhook payload is invalid", requestID, details)
	case apperrors.Is(err, domain.ErrPayloadTooLarge):
		httputil.WriteWebhookError(c, http.StatusRequestEntityTooLarge,
			dto.CodePayloadTooLarge, domain.ErrPayloadTooLarge.Error(), requestID, nil)
	default:
		httputil.WriteWebhookError(c, http.StatusInternalServerError,
			dto.CodeInternalError, "An internal error occurred", requestID, nil)
	}
}
