package handlers

import (
	"errors"
	"net/http"

	"github.com/MAAF1/Task-System/errs"
	"github.com/MAAF1/Task-System/logging"
)

// writeError translates the engine's typed errors to transport responses.
// Conflicts map to 400, matching what the clients expect.
func writeError(w http.ResponseWriter, err error) {
	var validation *errs.ValidationError
	var notFound *errs.NotFoundError
	var conflict *errs.ConflictError
	var authorization *errs.AuthorizationError

	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Message, http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Message, http.StatusNotFound)
	case errors.As(err, &conflict):
		http.Error(w, conflict.Message, http.StatusBadRequest)
	case errors.As(err, &authorization):
		http.Error(w, authorization.Message, http.StatusUnauthorized)
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: Unhandled error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
