package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/partycurrency/payment-service/internal/errors"
	http2 "github.com/partycurrency/payment-service/internal/infrastructure/api/http"
	"github.com/partycurrency/payment-service/internal/infrastructure/api/middlewares"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

type paymentService interface {
	Create(ctx context.Context, customer interactor.Customer, dto *dtos.CreateTransactionDTO) (*dtos.BreakdownDTO, error)
	Initialize(ctx context.Context, dto *dtos.InitializeTransactionDTO) (*dtos.InitializeResultDTO, error)
}

type reconcileService interface {
	Reconcile(ctx context.Context, reference string) (*dtos.ReconcileOutcomeDTO, error)
}

type PaymentHandler struct {
	payments  paymentService
	reconcile reconcileService
	validate  *validator.Validate
	logger    *zerolog.Logger
}

func NewPaymentHandler(payments paymentService, reconcile reconcileService) *PaymentHandler {
	logger := log.GetLogger()
	return &PaymentHandler{
		payments:  payments,
		reconcile: reconcile,
		validate:  validator.New(),
		logger:    &logger,
	}
}

func (h *PaymentHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		errors.HandleHTTPError(w, errors.NewValidationError(err.Error()))
		return
	}

	claims := middlewares.ClaimsFromContext(r.Context())
	customer := interactor.Customer{Name: claims.FullName(), Email: claims.Email}

	breakdown, err := h.payments.Create(r.Context(), customer, &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedCreateTransaction)
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(breakdown)
}

func (h *PaymentHandler) InitializeTransaction(w http.ResponseWriter, r *http.Request) {
	var dto dtos.InitializeTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		errors.HandleHTTPError(w, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.payments.Initialize(r.Context(), &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedInitializeTransaction)
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// callbackReference pulls the payment identifier out of the redirect query
// string, whichever of the accepted parameter names it arrived under.
func callbackReference(r *http.Request) string {
	for _, param := range http2.CallbackReferenceParams {
		if ref := r.URL.Query().Get(param); ref != "" {
			return ref
		}
	}
	return ""
}

// Callback handles the provider's browser redirect after hosted checkout.
// The end user is sent on to the frontend dashboard with the reconciled
// outcome.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	reference := callbackReference(r)
	if reference == "" {
		h.logger.Warn().Msg(errors.ErrMissingPaymentReference)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrMissingPaymentReference))
		return
	}

	outcome, err := h.reconcile.Reconcile(r.Context(), reference)
	if err != nil {
		h.logger.Error().Err(err).Str("reference", reference).Msg(errors.ErrFailedReconcileTransaction)
		errors.HandleHTTPError(w, err)
		return
	}

	http.Redirect(w, r, outcome.RedirectURL, http.StatusSeeOther)
}

// webhookNotification is the subset of the provider's webhook payload we
// read: just enough keys to find a reference to re-query. The reported
// status is deliberately ignored.
type webhookNotification struct {
	PaymentReference     string `json:"paymentReference"`
	PaymentReferenceAlt  string `json:"payment_reference"`
	Reference            string `json:"reference"`
	TransactionReference string `json:"transactionReference"`
	EventData            struct {
		PaymentReference     string `json:"paymentReference"`
		TransactionReference string `json:"transactionReference"`
	} `json:"eventData"`
}

func (n *webhookNotification) reference() string {
	for _, ref := range []string{
		n.PaymentReference, n.PaymentReferenceAlt, n.Reference,
		n.TransactionReference, n.EventData.PaymentReference, n.EventData.TransactionReference,
	} {
		if ref != "" {
			return ref
		}
	}
	return ""
}

// Webhook handles server-to-server notifications. Unlike the redirect
// callback it answers with a status instead of redirecting, so the provider
// can retry pending deliveries.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var notification webhookNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}

	reference := notification.reference()
	if reference == "" {
		h.logger.Warn().Msg(errors.ErrMissingPaymentReference)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrMissingPaymentReference))
		return
	}

	outcome, err := h.reconcile.Reconcile(r.Context(), reference)
	if err != nil {
		h.logger.Error().Err(err).Str("reference", reference).Msg(errors.ErrFailedReconcileTransaction)
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		PaymentReference string `json:"payment_reference"`
		Status           string `json:"status"`
	}{
		PaymentReference: outcome.PaymentReference,
		Status:           outcome.Status,
	})
}
