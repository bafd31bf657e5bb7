package handler

import (
	"errors"
	"net/http"

	"github.com/mkravets/nutrilog-server/internal/model"
)

// handleError maps domain errors to HTTP responses. Anything unrecognized
// is an internal error; details stay in the server log.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmailTaken):
		errorJSON(w, http.StatusConflict, "User already exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		errorJSON(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, model.ErrNoSession):
		errorJSON(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, model.ErrVersionConflict):
		errorJSON(w, http.StatusConflict, "Record was modified concurrently")
	case errors.Is(err, model.ErrNotFound):
		errorJSON(w, http.StatusNotFound, "Not found")
	default:
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
	}
}
