// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/webhooks/internal/errors"
)

// ErrorResponse represents a structured error response for the admin and read APIs.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// WebhookErrorResponse is the error body returned to webhook providers.
// RequestID is always present so a provider's support ticket can be matched to server logs.
type WebhookErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
	Details   any    `json:"details,omitempty"`
}

// DataResponse wraps successful webhook acknowledgements as {"data": ...}.
type DataResponse struct {
	Data any `json:"data"`
}

// errorMapping is the public face of a domain error kind.
type errorMapping struct {
	status  int
	code    string
	message string
}

// errorMappings maps domain sentinels to responses. An empty message means the
// error text itself is safe to return.
var errorMappings = map[error]errorMapping{
	apperrors.ErrNotFound:     {http.StatusNotFound, "not_found", "The requested resource was not found"},
	apperrors.ErrConflict:     {http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	apperrors.ErrInvalidInput: {http.StatusUnprocessableEntity, "invalid_input", ""},
	apperrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	apperrors.ErrForbidden: {
		http.StatusForbidden, "forbidden", "You don't have permission to access this resource",
	},
	apperrors.ErrUnavailable: {
		http.StatusServiceUnavailable, "unavailable", "The service is temporarily unavailable",
	},
}

var internalErrorMapping = errorMapping{http.StatusInternalServerError, "internal_error", "An internal error occurred"}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response using Gin.
// Errors without a domain kind become 500 with a generic message; the cause is only logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	mapping, ok := errorMappings[apperrors.Kind(err)]
	if !ok {
		mapping = internalErrorMapping
	}
	message := mapping.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if mapping.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", mapping.code),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, ErrorResponse{Error: mapping.code, Message: message})
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	c.JSON(http.StatusUnprocessableEntity, errorResponse)
}

// WriteWebhookError aborts the request with a webhook error envelope.
// Logging is left to the caller, which already holds the request scoped logger.
func WriteWebhookError(c *gin.Context, statusCode int, code, message, requestID string, details any) {
	c.AbortWithStatusJSON(statusCode, WebhookErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	})
}
