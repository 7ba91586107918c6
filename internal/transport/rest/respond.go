package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error          string               `json:"error"`
	Message        string               `json:"message"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
	Details        []fieldErrorResponse `json:"details,omitempty"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// handleError maps domain errors to HTTP responses. Unknown errors are
// logged and reported as a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		verr *domain.ValidationError
		cerr *domain.IdempotencyConflictError
	)

	switch {
	case errors.As(err, &verr):
		details := make([]fieldErrorResponse, len(verr.Errors))
		for i, fe := range verr.Errors {
			details[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Details: details,
		})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:          "idempotency_conflict",
			Message:        cerr.Error(),
			IdempotencyKey: cerr.Key,
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
	case errors.Is(err, domain.ErrMissingTenantContext):
		writeError(w, http.StatusForbidden, "missing_tenant_context", "missing tenant context")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, "invalid_cursor", err.Error())
	case errors.Is(err, domain.ErrInvalidEntityReference):
		writeError(w, http.StatusBadRequest, "invalid_entity_reference", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", "already exists")
	case errors.Is(err, context.DeadlineExceeded):
		log.WarnContext(r.Context(), "request timed out", slog.String("path", r.URL.Path))
		writeError(w, http.StatusServiceUnavailable, "timeout", "request timed out")
	default:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
