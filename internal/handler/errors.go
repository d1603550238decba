package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/bookshelf/internal/domain"
)

// writeServiceError maps a service error onto a status code. Unrecognised
// errors are logged under op and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "An account with that email already exists.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

// RejectUnauthenticated is the guard's rejection response for the HTTP API.
func RejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, "authorize request", err)
}
