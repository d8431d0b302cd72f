package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
)

type auditReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error)
}

// AuditHandler serves the audit trail endpoint.
type AuditHandler struct {
	audit auditReader
	log   *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audit auditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		audit: audit,
		log:   logger.With("handler", "audit"),
	}
}

type auditRecordResponse struct {
	ID           string         `json:"id"`
	ActionKind   string         `json:"action_kind"`
	SheetID      *string        `json:"sheet_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Success      bool           `json:"success"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	CreatedAt    time.Time      `json:"created_at"`
}

const defaultAuditPageSize = 50

// List handles GET /api/v1/audit. Supports ?limit and ?offset.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		respondError(h.log, w, r, domain.ErrUnauthorized)
		return
	}

	limit, offset, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.audit.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]auditRecordResponse, len(records))
	for i, rec := range records {
		out[i] = auditRecordResponse{
			ID:           rec.ID.String(),
			ActionKind:   rec.ActionKind.String(),
			SheetID:      rec.SheetID,
			Details:      rec.Details,
			Success:      rec.Success,
			ErrorMessage: rec.ErrorMessage,
			DurationMs:   rec.DurationMs,
			CreatedAt:    rec.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func pageParams(r *http.Request) (limit, offset int, err error) {
	limit = defaultAuditPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 || n > 500 {
			return 0, 0, domain.NewValidationError("limit", "must be between 1 and 500")
		}
		limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return 0, 0, domain.NewValidationError("offset", "must be a non-negative integer")
		}
		offset = n
	}
	return limit, offset, nil
}
