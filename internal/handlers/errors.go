package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteError maps err through the apperr taxonomy and reports it. Internal
// failures are logged with context and surfaced as the generic message.
func WriteError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSONError(w, ErrMessageInternal, status)
		return
	}
	// Client-facing kinds report only the taxonomy message, never the cause.
	var e *apperr.Error
	if errors.As(err, &e) {
		JSONError(w, e.Message, status)
		return
	}
	JSONError(w, err.Error(), status)
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
