package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/partycurrency/payment-service/internal/errors"
	http2 "github.com/partycurrency/payment-service/internal/infrastructure/api/http"
	"github.com/partycurrency/payment-service/internal/infrastructure/api/middlewares"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

type EventHandler struct {
	interactor *interactor.EventInteractor
	validate   *validator.Validate
	logger     *zerolog.Logger
}

func NewEventHandler(interactor *interactor.EventInteractor) *EventHandler {
	logger := log.GetLogger()
	return &EventHandler{
		interactor: interactor,
		validate:   validator.New(),
		logger:     &logger,
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateEventDTO
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
	event, err := h.interactor.Create(r.Context(), claims.Email, &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create event")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.ClaimsFromContext(r.Context())
	events, err := h.interactor.ListByAuthor(r.Context(), claims.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list events")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, http2.EventIDParam)
	event, err := h.interactor.Get(r.Context(), id)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(event)
}
