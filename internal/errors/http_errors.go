package errors

import (
	"encoding/json"
	"net/http"
)

type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleHTTPError maps application errors onto HTTP responses. Unknown errors
// get a generic 500 with a safe message; the detail only goes to the logs.
func HandleHTTPError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	switch e := err.(type) {
	case *ValidationError:
		httpErr = &HTTPError{
			Code:    http.StatusBadRequest,
			Message: e.Error(),
		}
	case *UnauthorizedError:
		httpErr = &HTTPError{
			Code:    http.StatusUnauthorized,
			Message: e.Error(),
		}
	case *NotFoundError:
		httpErr = &HTTPError{
			Code:    http.StatusNotFound,
			Message: e.Error(),
		}
	case *InvalidTransitionError:
		httpErr = &HTTPError{
			Code:    http.StatusConflict,
			Message: e.Error(),
		}
	case *ProviderDeclinedError:
		httpErr = &HTTPError{
			Code:    http.StatusBadRequest,
			Message: e.Error(),
		}
	case *ProviderUnavailableError:
		httpErr = &HTTPError{
			Code:    http.StatusBadGateway,
			Message: "payment provider unavailable",
		}
	default:
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	json.NewEncoder(w).Encode(httpErr)
}
