package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
	"github.com/allisson/webhooks/internal/payment/http/dto"
	"github.com/allisson/webhooks/internal/payment/usecase/mocks"
)

func setupTestHandler(t *testing.T) (*PaymentHandler, *mocks.MockPaymentUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockPaymentUseCase{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewPaymentHandler(useCase, logger), useCase
}

func createTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func TestPaymentHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		payment := &paymentDomain.Payment{
			ID:                uuid.Must(uuid.NewV7()),
			Provider:          "stripe",
			ExternalInvoiceID: "in_123",
			Amount:            4200,
			Currency:          "usd",
			PaidAt:            time.Now().UTC(),
			CreatedAt:         time.Now().UTC(),
		}
		useCase.On("Get", mock.Anything, payment.ID).Return(payment, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/payments/"+payment.ID.String())
		c.Params = gin.Params{{Key: "id", Value: payment.ID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.PaymentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, payment.ID.String(), response.ID)
		assert.Equal(t, int64(4200), response.Amount)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/payments/nope")
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		id := uuid.Must(uuid.NewV7())
		useCase.On("Get", mock.Anything, id).Return(nil, paymentDomain.ErrPaymentNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/payments/"+id.String())
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaymentHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		useCase.On("List", mock.Anything, 10, 5).Return([]*paymentDomain.Payment{
			{ID: uuid.Must(uuid.NewV7()), ExternalInvoiceID: "in_1"},
			{ID: uuid.Must(uuid.NewV7()), ExternalInvoiceID: "in_2"},
		}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/payments?offset=10&limit=5")

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListPaymentsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 2)
		assert.Equal(t, "in_2", response.Data[1].ExternalInvoiceID)
	})

	t.Run("Success_EmptyIsArray", func(t *testing.T) {
		handler, useCase := setupTestHandler(t)

		useCase.On("List", mock.Anything, 0, 50).Return([]*paymentDomain.Payment{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/payments")

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/payments?limit=1000")

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
