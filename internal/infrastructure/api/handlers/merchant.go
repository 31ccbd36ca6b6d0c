package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/partycurrency/payment-service/internal/errors"
	http2 "github.com/partycurrency/payment-service/internal/infrastructure/api/http"
	"github.com/partycurrency/payment-service/internal/infrastructure/monnify"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

type MerchantHandler struct {
	interactor *interactor.MerchantInteractor
	validate   *validator.Validate
	logger     *zerolog.Logger
}

func NewMerchantHandler(interactor *interactor.MerchantInteractor) *MerchantHandler {
	logger := log.GetLogger()
	return &MerchantHandler{
		interactor: interactor,
		validate:   validator.New(),
		logger:     &logger,
	}
}

func (h *MerchantHandler) CreateReservedAccount(w http.ResponseWriter, r *http.Request) {
	var dto dtos.ReservedAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		errors.HandleHTTPError(w, errors.NewValidationError(err.Error()))
		return
	}

	account, err := h.interactor.CreateReservedAccount(r.Context(), &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create reserved account")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (h *MerchantHandler) DeleteReservedAccount(w http.ResponseWriter, r *http.Request) {
	accountReference := chi.URLParam(r, http2.AccountReferenceParam)
	if accountReference == "" {
		errors.HandleHTTPError(w, errors.NewValidationError("account reference is required"))
		return
	}

	if err := h.interactor.DeleteReservedAccount(r.Context(), accountReference); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete reserved account")
		errors.HandleHTTPError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MerchantHandler) ListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	accountReference := r.URL.Query().Get("account_reference")
	if accountReference == "" {
		errors.HandleHTTPError(w, errors.NewValidationError("account_reference is required"))
		return
	}

	transactions, err := h.interactor.ListAccountTransactions(r.Context(), accountReference)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list account transactions")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Transactions []monnify.AccountTransaction `json:"transactions"`
	}{Transactions: transactions})
}
