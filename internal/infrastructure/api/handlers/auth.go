package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	interactor *interactor.UserInteractor
	validate   *validator.Validate
	logger     *zerolog.Logger
}

func NewAuthHandler(interactor *interactor.UserInteractor) *AuthHandler {
	logger := log.GetLogger()
	return &AuthHandler{
		interactor: interactor,
		validate:   validator.New(),
		logger:     &logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto dtos.SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		errors.HandleHTTPError(w, errors.NewValidationError(err.Error()))
		return
	}

	response, err := h.interactor.Signup(r.Context(), &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg("signup failed")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var dto dtos.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		errors.HandleHTTPError(w, errors.NewValidationError(err.Error()))
		return
	}

	response, err := h.interactor.Login(r.Context(), &dto)
	if err != nil {
		h.logger.Warn().Err(err).Msg("login failed")
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
