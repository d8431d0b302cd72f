package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// ExecuteInput carries one classified intent to run against a sheet.
type ExecuteInput struct {
	// ConversationID binds the execution to a conversation's state machine.
	// Nil runs the action standalone, with no state transitions.
	ConversationID *uuid.UUID

	SheetID string
	Intent  domain.ActionIntent

	// Confirmed is the caller's explicit approval. It is never inferred:
	// actions that need confirmation fail closed without it.
	Confirmed bool

	RemoteAddr *string
	UserAgent  *string
}

// Validate checks the input and collects all field errors.
func (in ExecuteInput) Validate() error {
	var fieldErrors []domain.FieldError

	if !in.Intent.Kind.IsValid() {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "intent.kind", Message: "unknown action kind"})
	}
	if in.SheetID == "" && requiresSheet(in.Intent.Kind) {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "sheet_id", Message: "is required"})
	}

	if len(fieldErrors) > 0 {
		return domain.NewValidationErrors(fieldErrors)
	}
	return nil
}

// requiresSheet reports whether the kind mutates an existing sheet. Creation
// kinds mint their own sheet ID.
func requiresSheet(kind domain.ActionKind) bool {
	switch kind {
	case domain.ActionCreateSpreadsheet, domain.ActionCreateTallySheet:
		return false
	}
	return true
}

// ExecuteResult describes one completed (or gated) execution.
type ExecuteResult struct {
	// ActionID is the audit record of the forward mutation. Zero when the
	// confirmation gate stopped the request.
	ActionID uuid.UUID

	Kind    domain.ActionKind
	Message string

	// SheetID is the sheet the action ran against; for creation kinds it is
	// the newly minted sheet.
	SheetID string

	// Report is the dry-run recomputed for this request.
	Report domain.DryRunReport

	// RollbackID points at the persisted undo plan, when one was created.
	RollbackID *uuid.UUID
}

// Execute runs one action end to end. The dry-run is recomputed here and the
// confirmation gate applied server-side, so a stale or forged client report
// can never skip a confirmation.
//
// The returned error is domain.ErrConfirmationRequired when the action needs
// explicit approval and input.Confirmed is false; the result still carries
// the report so the caller can show what would happen. Nothing was mutated
// and no conversation state changed in that case.
func (s *Service) Execute(ctx context.Context, input ExecuteInput) (ExecuteResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return ExecuteResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return ExecuteResult{}, err
	}

	kind := input.Intent.Kind

	report, err := s.sim.Simulate(kind, input.Intent.Params)
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("execute %q: %w", kind, err)
	}

	if (input.Intent.ConfirmationRequired || report.RequiresConfirmation()) && !input.Confirmed {
		return ExecuteResult{
			Kind:    kind,
			SheetID: input.SheetID,
			Report:  report,
			Message: "confirmation required: " + report.Preview,
		}, domain.ErrConfirmationRequired
	}

	if input.ConversationID != nil {
		if _, err := s.convs.Transition(ctx, *input.ConversationID, domain.StateExecuting, "execute: "+kind.String()); err != nil {
			return ExecuteResult{}, fmt.Errorf("enter executing state: %w", err)
		}
	}

	started := s.now()
	outcome, execErr := s.dispatch(ctx, input.SheetID, input.Intent)
	durationMs := s.now().Sub(started).Milliseconds()

	if execErr != nil {
		s.recordFailure(ctx, userID, input, execErr, durationMs)
		metrics.RecordAction(kind.String(), "failure", float64(durationMs)/1000)
		return ExecuteResult{}, fmt.Errorf("execute %q: %w", kind, execErr)
	}

	rec, err := s.audit.Create(ctx, domain.AuditRecord{
		UserID:     userID,
		ActionKind: kind,
		SheetID:    strPtr(outcome.sheetID),
		Details:    outcome.details,
		Success:    true,
		DurationMs: durationMs,
		RemoteAddr: input.RemoteAddr,
		UserAgent:  input.UserAgent,
	})
	if err != nil {
		// The mutation happened but left no trace. Treat it as a failed
		// execution: the conversation goes to ERROR and the caller retries
		// nothing automatically.
		s.failConversation(ctx, input.ConversationID, "audit write failed")
		return ExecuteResult{}, fmt.Errorf("record audit for %q: %w", kind, err)
	}

	result := ExecuteResult{
		ActionID: rec.ID,
		Kind:     kind,
		Message:  outcome.message,
		SheetID:  outcome.sheetID,
		Report:   report,
	}

	// Read-only kinds mutate nothing, so there is nothing to undo.
	if report.Reversible && kind != domain.ActionOpenSpreadsheet {
		rb, err := s.store.CreateSnapshot(ctx, rollback.CreateSnapshotInput{
			UserID:   userID,
			ActionID: rec.ID,
			SheetID:  outcome.sheetID,
			Kind:     kind,
			Params:   input.Intent.Params,
			Snapshot: outcome.snapshot,
		})
		if err != nil {
			// The action itself succeeded; losing the undo plan only costs
			// the user the undo button.
			s.log.ErrorContext(ctx, "undo plan not persisted",
				slog.String("action_id", rec.ID.String()),
				slog.String("kind", kind.String()),
				slog.Any("error", err),
			)
		} else {
			id := rb.ID
			result.RollbackID = &id
		}
	}

	if input.ConversationID != nil {
		if _, err := s.convs.Transition(ctx, *input.ConversationID, domain.StateCompleted, "execute: "+kind.String()+" done"); err != nil {
			// The mutation is done and audited; a lost transition race is a
			// conversation problem, not an execution failure.
			s.log.WarnContext(ctx, "completed transition failed",
				slog.String("conversation_id", input.ConversationID.String()),
				slog.Any("error", err),
			)
		}
	}

	s.log.InfoContext(ctx, "action executed",
		slog.String("action_id", rec.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("kind", kind.String()),
		slog.String("sheet_id", outcome.sheetID),
		slog.Int64("duration_ms", durationMs),
	)
	metrics.RecordAction(kind.String(), "success", float64(durationMs)/1000)

	return result, nil
}

// recordFailure writes the failure audit record and moves the conversation to
// ERROR. Best effort on both: the original execution error is what the caller
// gets regardless.
func (s *Service) recordFailure(ctx context.Context, userID uuid.UUID, input ExecuteInput, execErr error, durationMs int64) {
	msg := execErr.Error()
	sheetID := strPtr(input.SheetID)

	if _, err := s.audit.Create(ctx, domain.AuditRecord{
		UserID:       userID,
		ActionKind:   input.Intent.Kind,
		SheetID:      sheetID,
		Success:      false,
		ErrorMessage: &msg,
		DurationMs:   durationMs,
		RemoteAddr:   input.RemoteAddr,
		UserAgent:    input.UserAgent,
	}); err != nil {
		s.log.ErrorContext(ctx, "failure audit not persisted",
			slog.String("kind", input.Intent.Kind.String()),
			slog.Any("error", err),
		)
	}

	s.failConversation(ctx, input.ConversationID, msg)
}

func (s *Service) failConversation(ctx context.Context, conversationID *uuid.UUID, reason string) {
	if conversationID == nil {
		return
	}
	if _, err := s.convs.Transition(ctx, *conversationID, domain.StateError, "execute failed: "+reason); err != nil {
		s.log.ErrorContext(ctx, "error transition failed",
			slog.String("conversation_id", conversationID.String()),
			slog.Any("error", err),
		)
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
