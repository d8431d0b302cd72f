package rollback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// CreateSnapshotInput carries everything needed to persist one undo plan.
type CreateSnapshotInput struct {
	UserID   uuid.UUID
	ActionID uuid.UUID // audit record of the forward mutation
	SheetID  string
	Kind     domain.ActionKind
	Params   domain.ActionParams
	Snapshot *domain.Snapshot
}

// Validate checks the input and collects all field errors.
func (in CreateSnapshotInput) Validate() error {
	var fieldErrors []domain.FieldError

	if in.UserID == uuid.Nil {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "user_id", Message: "is required"})
	}
	if in.ActionID == uuid.Nil {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "action_id", Message: "is required"})
	}
	if in.SheetID == "" {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "sheet_id", Message: "is required"})
	}
	if !in.Kind.IsValid() {
		fieldErrors = append(fieldErrors, domain.FieldError{Field: "kind", Message: "unknown action kind"})
	}

	if len(fieldErrors) > 0 {
		return domain.NewValidationErrors(fieldErrors)
	}
	return nil
}

// CreateSnapshot builds the undo plan for a just-executed forward action and
// persists it with a validity window of now + TTL.
func (s *Service) CreateSnapshot(ctx context.Context, input CreateSnapshotInput) (domain.RollbackAction, error) {
	if err := input.Validate(); err != nil {
		return domain.RollbackAction{}, err
	}

	undoKind, undoData := BuildUndoPlan(input.Kind, input.Params, input.Snapshot)

	now := s.now()
	rb := domain.RollbackAction{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    input.UserID,
		ActionID:  input.ActionID,
		SheetID:   input.SheetID,
		UndoKind:  undoKind,
		UndoData:  undoData,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, rb); err != nil {
		return domain.RollbackAction{}, fmt.Errorf("persist undo plan: %w", err)
	}

	s.log.InfoContext(ctx, "undo plan created",
		slog.String("rollback_id", rb.ID.String()),
		slog.String("user_id", rb.UserID.String()),
		slog.String("undo_kind", undoKind.String()),
		slog.Time("expires_at", rb.ExpiresAt),
	)

	return rb, nil
}
