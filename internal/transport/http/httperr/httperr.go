package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skyquest/booking/internal/service/models/booking"
)

// Status maps the service error taxonomy to HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSignatureMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrAlreadyFinalized):
		return http.StatusConflict
	case errors.Is(err, booking.ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, booking.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write sends the error as a JSON body with the mapped status code.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
