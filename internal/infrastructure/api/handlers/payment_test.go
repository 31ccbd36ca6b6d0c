package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	outcome   *dtos.ReconcileOutcomeDTO
	err       error
	reference string
}

func (s *stubReconciler) Reconcile(_ context.Context, reference string) (*dtos.ReconcileOutcomeDTO, error) {
	s.reference = reference
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

type stubPaymentService struct {
	breakdown *dtos.BreakdownDTO
	result    *dtos.InitializeResultDTO
	err       error
}

func (s *stubPaymentService) Create(_ context.Context, _ interactor.Customer, _ *dtos.CreateTransactionDTO) (*dtos.BreakdownDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.breakdown, nil
}

func (s *stubPaymentService) Initialize(_ context.Context, _ *dtos.InitializeTransactionDTO) (*dtos.InitializeResultDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func successOutcome() *dtos.ReconcileOutcomeDTO {
	return &dtos.ReconcileOutcomeDTO{
		PaymentReference: "PC-1700000000000-abcd1234",
		Status:           "successful",
		RedirectURL:      "https://app.example.com/dashboard?transaction_reference=PC-1700000000000-abcd1234&status=success",
	}
}

func TestCallbackRedirectsToDashboard(t *testing.T) {
	reconciler := &stubReconciler{outcome: successOutcome()}
	handler := NewPaymentHandler(&stubPaymentService{}, reconciler)

	for _, param := range []string{"paymentReference", "payment_reference", "reference"} {
		t.Run(param, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?"+param+"=PC-1700000000000-abcd1234", nil)
			recorder := httptest.NewRecorder()

			handler.Callback(recorder, request)

			assert.Equal(t, http.StatusSeeOther, recorder.Code)
			assert.Equal(t, successOutcome().RedirectURL, recorder.Header().Get("Location"))
			assert.Equal(t, "PC-1700000000000-abcd1234", reconciler.reference)
		})
	}
}

func TestCallbackMissingReference(t *testing.T) {
	handler := NewPaymentHandler(&stubPaymentService{}, &stubReconciler{})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback", nil)
	recorder := httptest.NewRecorder()

	handler.Callback(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCallbackUnknownTransaction(t *testing.T) {
	reconciler := &stubReconciler{err: apperrors.NewNotFoundError("transaction")}
	handler := NewPaymentHandler(&stubPaymentService{}, reconciler)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?paymentReference=PC-x", nil)
	recorder := httptest.NewRecorder()

	handler.Callback(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCallbackProviderOutage(t *testing.T) {
	reconciler := &stubReconciler{err: apperrors.NewProviderUnavailableError("query-transaction", assert.AnError)}
	handler := NewPaymentHandler(&stubPaymentService{}, reconciler)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?reference=PC-x", nil)
	recorder := httptest.NewRecorder()

	handler.Callback(recorder, request)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestWebhookExtractsReference(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top level camel", `{"paymentReference": "PC-1"}`, "PC-1"},
		{"top level snake", `{"payment_reference": "PC-2"}`, "PC-2"},
		{"bare reference", `{"reference": "PC-3"}`, "PC-3"},
		{"provider reference", `{"transactionReference": "MNFY|2026|000123"}`, "MNFY|2026|000123"},
		{"nested event data", `{"eventType": "SUCCESSFUL_TRANSACTION", "eventData": {"paymentReference": "PC-4"}}`, "PC-4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reconciler := &stubReconciler{outcome: successOutcome()}
			handler := NewPaymentHandler(&stubPaymentService{}, reconciler)

			request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(tc.body))
			recorder := httptest.NewRecorder()

			handler.Webhook(recorder, request)

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tc.want, reconciler.reference)
			assert.Contains(t, recorder.Body.String(), `"status":"successful"`)
		})
	}
}

func TestWebhookMissingReference(t *testing.T) {
	handler := NewPaymentHandler(&stubPaymentService{}, &stubReconciler{})

	request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{"eventType": "SUCCESSFUL_TRANSACTION"}`))
	recorder := httptest.NewRecorder()

	handler.Webhook(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestInitializeDeclinedSurfacesProviderMessage(t *testing.T) {
	payments := &stubPaymentService{err: apperrors.NewProviderDeclinedError("99", "Duplicate payment reference")}
	handler := NewPaymentHandler(payments, &stubReconciler{})

	request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize",
		strings.NewReader(`{"payment_reference": "PC-1700000000000-abcd1234"}`))
	recorder := httptest.NewRecorder()

	handler.InitializeTransaction(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Duplicate payment reference")
}

func TestInitializeRejectsBadBody(t *testing.T) {
	handler := NewPaymentHandler(&stubPaymentService{}, &stubReconciler{})

	request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()

	handler.InitializeTransaction(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
