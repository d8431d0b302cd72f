package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/conversation"
)

type conversationService interface {
	Start(ctx context.Context, input conversation.StartInput) (domain.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	End(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID) ([]domain.StateTransition, error)
	Transition(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error)
	Dispatch(ctx context.Context, id uuid.UUID, intent domain.ActionIntent, report domain.DryRunReport) (domain.Conversation, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
}

type intentClassifier interface {
	Classify(ctx context.Context, transcript, sheetID string) (domain.ActionIntent, error)
}

type riskSimulator interface {
	Simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error)
}

// ConversationHandler serves the conversation endpoints, including the
// transcript pipeline (classify, simulate, dispatch).
type ConversationHandler struct {
	convs      conversationService
	classifier intentClassifier
	sim        riskSimulator
	log        *slog.Logger
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(convs conversationService, classifier intentClassifier, sim riskSimulator, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		convs:      convs,
		classifier: classifier,
		sim:        sim,
		log:        logger.With("handler", "conversation"),
	}
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type startConversationRequest struct {
	SheetID *string `json:"sheet_id"`
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

type conversationResponse struct {
	ID        string     `json:"id"`
	SheetID   *string    `json:"sheet_id,omitempty"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type transitionResponse struct {
	FromState string    `json:"from_state"`
	ToState   string    `json:"to_state"`
	Reason    string    `json:"reason,omitempty"`
	Forced    bool      `json:"forced"`
	CreatedAt time.Time `json:"created_at"`
}

type intentResponse struct {
	Kind                 string              `json:"kind"`
	Params               domain.ActionParams `json:"params"`
	Confidence           float64             `json:"confidence"`
	ConfirmationRequired bool                `json:"confirmation_required"`
	Clarification        string              `json:"clarification,omitempty"`
}

type transcriptResponse struct {
	Conversation conversationResponse `json:"conversation"`
	Intent       intentResponse       `json:"intent"`
	Report       domain.DryRunReport  `json:"report"`
}

func toConversationResponse(c domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:        c.ID.String(),
		SheetID:   c.SheetID,
		State:     c.State.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		EndedAt:   c.EndedAt,
	}
}

func toIntentResponse(in domain.ActionIntent) intentResponse {
	return intentResponse{
		Kind:                 in.Kind.String(),
		Params:               in.Params,
		Confidence:           in.Confidence,
		ConfirmationRequired: in.ConfirmationRequired,
		Clarification:        in.Clarification,
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Start handles POST /api/v1/conversations.
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.convs.Start(r.Context(), conversation.StartInput{SheetID: req.SheetID})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// Get handles GET /api/v1/conversations/{id}.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conv, err := h.convs.Get(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// End handles DELETE /api/v1/conversations/{id}.
func (h *ConversationHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	if err := h.convs.End(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// History handles GET /api/v1/conversations/{id}/transitions.
func (h *ConversationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	transitions, err := h.convs.History(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]transitionResponse, len(transitions))
	for i, tr := range transitions {
		out[i] = transitionResponse{
			FromState: tr.FromState.String(),
			ToState:   tr.ToState.String(),
			Reason:    tr.Reason,
			Forced:    tr.Forced,
			CreatedAt: tr.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// Transcript handles POST /api/v1/conversations/{id}/transcript: the
// classify, simulate, dispatch pipeline for one utterance. The conversation
// ends up in CLARIFICATION_REQUIRED, CONFIRMATION_REQUIRED or
// READY_TO_EXECUTE; nothing is executed here.
func (h *ConversationHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		respondError(h.log, w, r, domain.NewValidationError("transcript", "must not be blank"))
		return
	}

	ctx := r.Context()

	conv, err := h.convs.Get(ctx, id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	// IDLE, CLARIFICATION_REQUIRED and ERROR all re-enter via LISTENING.
	if conv.State != domain.StateListening {
		if conv, err = h.convs.Transition(ctx, id, domain.StateListening, "transcript received"); err != nil {
			respondError(h.log, w, r, err)
			return
		}
	}
	if _, err = h.convs.Transition(ctx, id, domain.StateTranscribing, "transcript accepted"); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	sheetID := ""
	if conv.SheetID != nil {
		sheetID = *conv.SheetID
	}

	intent, err := h.classifier.Classify(ctx, req.Transcript, sheetID)
	if err != nil {
		h.failPipeline(ctx, id, "classification failed")
		h.log.ErrorContext(ctx, "classify transcript", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "intent classification unavailable", Code: "classifier_unavailable"})
		return
	}

	if _, err = h.convs.Transition(ctx, id, domain.StateIntentClassified, "intent: "+intent.Kind.String()); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	report, err := h.sim.Simulate(intent.Kind, intent.Params)
	if err != nil {
		h.failPipeline(ctx, id, "simulation refused: "+intent.Kind.String())
		respondError(h.log, w, r, err)
		return
	}

	conv, err = h.convs.Dispatch(ctx, id, intent, report)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transcriptResponse{
		Conversation: toConversationResponse(conv),
		Intent:       toIntentResponse(intent),
		Report:       report,
	})
}

// Confirm handles POST /api/v1/conversations/{id}/confirm.
func (h *ConversationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conv, err := h.convs.Confirm(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// failPipeline moves the conversation to ERROR after a mid-pipeline failure.
// Best effort: the original failure is what the client sees.
func (h *ConversationHandler) failPipeline(ctx context.Context, id uuid.UUID, reason string) {
	if _, err := h.convs.Transition(ctx, id, domain.StateError, reason); err != nil {
		h.log.WarnContext(ctx, "error transition failed",
			slog.String("conversation_id", id.String()),
			slog.String("error", err.Error()),
		)
	}
}
