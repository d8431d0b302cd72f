package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/executor"
)

type actionExecutor interface {
	Execute(ctx context.Context, input executor.ExecuteInput) (executor.ExecuteResult, error)
}

// ActionHandler serves the action execution endpoint.
type ActionHandler struct {
	exec actionExecutor
	log  *slog.Logger
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(exec actionExecutor, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		exec: exec,
		log:  logger.With("handler", "action"),
	}
}

type executeActionRequest struct {
	ConversationID *uuid.UUID          `json:"conversation_id"`
	SheetID        string              `json:"sheet_id"`
	Kind           string              `json:"kind"`
	Params         domain.ActionParams `json:"params"`
	Confirmed      bool                `json:"confirmed"`
}

type executeActionResponse struct {
	Status     string              `json:"status"`
	ActionID   string              `json:"action_id,omitempty"`
	Kind       string              `json:"kind"`
	Message    string              `json:"message"`
	SheetID    string              `json:"sheet_id,omitempty"`
	Report     domain.DryRunReport `json:"report"`
	RollbackID *string             `json:"rollback_id,omitempty"`
}

// Execute handles POST /api/v1/actions/execute. A gated action is not an
// error at the HTTP layer: the client gets the dry-run report back and is
// expected to retry with confirmed=true.
func (h *ActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := executor.ExecuteInput{
		ConversationID: req.ConversationID,
		SheetID:        req.SheetID,
		Intent: domain.ActionIntent{
			Kind:   domain.ActionKind(req.Kind),
			Params: req.Params,
		},
		Confirmed:  req.Confirmed,
		RemoteAddr: remoteAddr(r),
		UserAgent:  userAgent(r),
	}

	result, err := h.exec.Execute(r.Context(), input)
	if errors.Is(err, domain.ErrConfirmationRequired) {
		writeJSON(w, http.StatusOK, executeActionResponse{
			Status:  "confirmation_required",
			Kind:    result.Kind.String(),
			Message: result.Message,
			SheetID: result.SheetID,
			Report:  result.Report,
		})
		return
	}
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	resp := executeActionResponse{
		Status:   "executed",
		ActionID: result.ActionID.String(),
		Kind:     result.Kind.String(),
		Message:  result.Message,
		SheetID:  result.SheetID,
		Report:   result.Report,
	}
	if result.RollbackID != nil {
		s := result.RollbackID.String()
		resp.RollbackID = &s
	}

	writeJSON(w, http.StatusOK, resp)
}

func remoteAddr(r *http.Request) *string {
	if r.RemoteAddr == "" {
		return nil
	}
	addr := r.RemoteAddr
	return &addr
}

func userAgent(r *http.Request) *string {
	ua := r.UserAgent()
	if ua == "" {
		return nil
	}
	return &ua
}
