// Package http provides HTTP handlers for inspecting provisioned accounts.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/account/http/dto"
	accountUseCase "github.com/allisson/webhooks/internal/account/usecase"
	"github.com/allisson/webhooks/internal/httputil"
)

// AccountHandler handles HTTP requests for accounts.
type AccountHandler struct {
	accountUseCase accountUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountUseCase accountUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// GetHandler returns an account by ID.
// GET /v1/accounts/:id - Returns 200 OK with the account.
func (h *AccountHandler) GetHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c,
			fmt.Errorf("invalid account ID format: must be a valid UUID"),
			h.logger)
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}
