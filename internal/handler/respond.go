package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hungerhelp/hungerhelp/internal/service"
	"github.com/hungerhelp/hungerhelp/internal/validate"
)

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeServiceError maps service-layer errors to their HTTP responses.
// Storage and other unexpected faults become a generic 500; they are never
// silently ignored.
func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErrs validate.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, "Email address already exists", http.StatusConflict)
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, "post not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, "user not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotPostOwner):
		writeError(w, "access denied", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidOrder):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}
