package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/locus/internal/validation"
)

// Error codes returned in the error envelope.
const (
	ErrCodeValidation       = "validation_error"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

// ErrorResponse is the body of every error reply: {"error": {"code": "...", "message": "..."}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds the machine-readable code, a message and, for validation errors,
// every violated constraint.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type envelope map[string]any

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.ErrorContext(r.Context(), "failed to marshal response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err = w.Write(append(body, '\n')); err != nil {
		log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, detail ErrorDetail) {
	writeJSON(w, r, log, status, ErrorResponse{Error: detail})
}

// writeServiceError maps an error from the school service to a reply. Validation errors
// are echoed back in full; anything else is reported as a generic failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		writeError(w, r, log, http.StatusBadRequest, ErrorDetail{
			Code:    ErrCodeValidation,
			Message: "request validation failed",
			Details: vErr.Violations,
		})
		return
	}

	writeError(w, r, log, http.StatusInternalServerError, ErrorDetail{
		Code:    ErrCodeInternal,
		Message: "internal server error",
	})
}
