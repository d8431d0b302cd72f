package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// errorBody is the uniform error payload. Code is machine-readable; the
// optional fields carry per-error detail (validation fields, the transition
// pair).
type errorBody struct {
	Error  string           `json:"error"`
	Code   string           `json:"code,omitempty"`
	Fields []fieldErrorBody `json:"fields,omitempty"`
	From   string           `json:"from_state,omitempty"`
	To     string           `json:"to_state,omitempty"`
}

type fieldErrorBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// respondError maps domain errors to HTTP responses. Unrecognized errors are
// logged and surfaced as opaque 500s.
func respondError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fields := make([]fieldErrorBody, len(ve.Errors))
		for i, fe := range ve.Errors {
			fields[i] = fieldErrorBody{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "validation failed",
			Code:   "validation",
			Fields: fields,
		})
		return
	}

	var ite *domain.InvalidTransitionError
	if errors.As(err, &ite) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error: ite.Error(),
			Code:  "invalid_transition",
			From:  ite.From.String(),
			To:    ite.To.String(),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "validation"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Code: "unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "not_found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "invalid_transition"})
	case errors.Is(err, domain.ErrRollbackExpired):
		writeJSON(w, http.StatusGone, errorBody{Error: "rollback window has expired", Code: "rollback_expired"})
	case errors.Is(err, domain.ErrRollbackExecuted):
		writeJSON(w, http.StatusConflict, errorBody{Error: "rollback was already executed", Code: "rollback_executed"})
	case errors.Is(err, domain.ErrUndoNotSupported):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "this action cannot be undone", Code: "undo_not_supported"})
	case errors.Is(err, domain.ErrUnsupportedAction):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "unsupported_action"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflicting concurrent update", Code: "conflict"})
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error", Code: "internal"})
	}
}

// pathUUID parses the {id} path segment as a UUID.
func pathUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
