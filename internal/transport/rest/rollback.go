package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
)

type rollbackService interface {
	ExecuteUndo(ctx context.Context, rollbackID uuid.UUID) (rollback.UndoResult, error)
	UndoHistory(ctx context.Context, limit int) ([]domain.RollbackAction, error)
}

// RollbackHandler serves the undo endpoints.
type RollbackHandler struct {
	rollbacks rollbackService
	log       *slog.Logger
}

// NewRollbackHandler creates a RollbackHandler.
func NewRollbackHandler(rollbacks rollbackService, logger *slog.Logger) *RollbackHandler {
	return &RollbackHandler{
		rollbacks: rollbacks,
		log:       logger.With("handler", "rollback"),
	}
}

type undoResultResponse struct {
	Status     string `json:"status"`
	RollbackID string `json:"rollback_id"`
	UndoKind   string `json:"undo_kind"`
	Message    string `json:"message"`
}

type rollbackResponse struct {
	ID        string    `json:"id"`
	ActionID  string    `json:"action_id"`
	SheetID   string    `json:"sheet_id"`
	UndoKind  string    `json:"undo_kind"`
	Executed  bool      `json:"executed"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ExecuteUndo handles POST /api/v1/rollback/{id}/execute.
func (h *RollbackHandler) ExecuteUndo(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rollback id")
		return
	}

	res, err := h.rollbacks.ExecuteUndo(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, undoResultResponse{
		Status:     "undone",
		RollbackID: res.RollbackID.String(),
		UndoKind:   res.UndoKind.String(),
		Message:    res.Message,
	})
}

// History handles GET /api/v1/rollback. Accepts an optional ?limit query
// parameter.
func (h *RollbackHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.rollbacks.UndoHistory(r.Context(), limit)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]rollbackResponse, len(records))
	for i, rb := range records {
		out[i] = rollbackResponse{
			ID:        rb.ID.String(),
			ActionID:  rb.ActionID.String(),
			SheetID:   rb.SheetID,
			UndoKind:  rb.UndoKind.String(),
			Executed:  rb.Executed,
			ExpiresAt: rb.ExpiresAt,
			CreatedAt: rb.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, out)
}
