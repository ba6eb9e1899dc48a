package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/http/dto"
	"github.com/allisson/webhooks/internal/webhook/usecase/mocks"
)

const testRequestID = "req-123"

type receiptBody struct {
	Data dto.ReceiptResponse `json:"data"`
}

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"requestId"`
	Details   map[string]string `json:"details"`
}

func newTestRouter(useCase *mocks.MockIngestUseCase, maxBodyBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(useCase, maxBodyBytes, slog.New(slog.DiscardHandler))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return testRequestID })))
	router.POST("/v1/webhooks/:provider", handler.ReceiveHandler)
	return router
}

func post(router *gin.Engine, provider string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/"+provider, bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWebhookHandler_ReceiveHandler(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)

	matchDelivery := mock.MatchedBy(func(d domain.RawDelivery) bool {
		return d.Provider == "stripe" &&
			bytes.Equal(d.Body, payload) &&
			d.Headers.Get("Stripe-Signature") == "t=1,v1=abc" &&
			!d.ReceivedAt.IsZero()
	})

	t.Run("Success_Processed", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, matchDelivery, testRequestID).
			Return(&domain.IngestResult{EventID: "evt_1", EventType: "invoice.paid", State: domain.StateProcessed}, nil).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		var body receiptBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.Received)
		assert.Equal(t, "evt_1", body.Data.EventID)
		assert.True(t, body.Data.Processed)
		useCase.AssertExpectations(t)
	})

	t.Run("Success_SkippedIsNotProcessed", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, matchDelivery, testRequestID).
			Return(&domain.IngestResult{
				EventID: "evt_1",
				State:   domain.StateSkipped,
				Reason:  domain.ReasonAlreadyProcessed,
			}, nil).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		var body receiptBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.Received)
		assert.False(t, body.Data.Processed)
	})

	t.Run("Success_Unhandled", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(&domain.IngestResult{EventID: "evt_2", EventType: "charge.refunded", State: domain.StateUnhandled}, nil).
			Once()

		w := post(newTestRouter(useCase, 0), "stripe", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		var body receiptBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "evt_2", body.Data.EventID)
		assert.False(t, body.Data.Processed)
	})

	t.Run("Error_VerificationFailed", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(nil, domain.ErrVerificationFailed).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, dto.CodeVerificationFailed, body.Code)
		assert.Equal(t, testRequestID, body.RequestID)
		assert.NotEmpty(t, body.Message)
		assert.Nil(t, body.Details)
	})

	t.Run("Error_PayloadInvalid", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		issues := map[string]string{"data.object.amount": "is required"}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(nil, domain.NewPayloadError("invoice.paid", issues)).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, dto.CodePayloadInvalid, body.Code)
		assert.Equal(t, testRequestID, body.RequestID)
		assert.Equal(t, issues, body.Details)
	})

	t.Run("Error_PayloadInvalidWithoutIssues", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(nil, domain.NewPayloadError("", nil)).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "details")
	})

	t.Run("Error_ProviderNotFound", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(nil, domain.ErrProviderNotFound).
			Once()

		w := post(newTestRouter(useCase, 1024), "paypal", payload)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.CodeProviderNotFound, decodeError(t, w).Code)
	})

	t.Run("Error_PayloadTooLarge", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}

		w := post(newTestRouter(useCase, 8), "stripe", payload)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, dto.CodePayloadTooLarge, body.Code)
		assert.Equal(t, testRequestID, body.RequestID)
		useCase.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_Internal", func(t *testing.T) {
		useCase := &mocks.MockIngestUseCase{}
		useCase.On("Ingest", mock.Anything, mock.Anything, testRequestID).
			Return(nil, fmt.Errorf("failed to record payment: %w", assert.AnError)).
			Once()

		w := post(newTestRouter(useCase, 1024), "stripe", payload)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, dto.CodeInternalError, body.Code)
		assert.NotContains(t, body.Message, assert.AnError.Error())
	})
}
