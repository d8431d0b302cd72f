package rollback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// UndoResult reports one successful undo execution.
type UndoResult struct {
	RollbackID uuid.UUID
	UndoKind   domain.UndoActionKind
	Message    string
}

// ExecuteUndo runs one undo plan exactly once. The record is atomically
// claimed before any backend call; if the undo itself fails, the claim is
// released so the user can retry while the window lasts.
//
// Error surface: domain.ErrNotFound, domain.ErrRollbackExecuted,
// domain.ErrRollbackExpired, domain.ErrUndoNotSupported, or the backend's
// mutation failure.
func (s *Service) ExecuteUndo(ctx context.Context, rollbackID uuid.UUID) (UndoResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return UndoResult{}, domain.ErrUnauthorized
	}

	rb, err := s.repo.Claim(ctx, userID, rollbackID, s.now())
	if err != nil {
		return UndoResult{}, fmt.Errorf("claim rollback: %w", err)
	}

	message, err := s.applyUndo(ctx, rb)
	if err != nil {
		// Release the claim: the plan is still intact, the backend call is
		// what failed.
		if unclaimErr := s.repo.Unclaim(ctx, userID, rollbackID); unclaimErr != nil {
			s.log.ErrorContext(ctx, "unclaim after failed undo",
				slog.String("rollback_id", rollbackID.String()),
				slog.String("error", unclaimErr.Error()),
			)
		}
		s.log.WarnContext(ctx, "undo failed",
			slog.String("rollback_id", rollbackID.String()),
			slog.String("undo_kind", rb.UndoKind.String()),
			slog.String("error", err.Error()),
		)
		metrics.RecordRollback(rb.UndoKind.String(), "failure")
		return UndoResult{}, err
	}

	s.log.InfoContext(ctx, "undo executed",
		slog.String("rollback_id", rollbackID.String()),
		slog.String("user_id", userID.String()),
		slog.String("undo_kind", rb.UndoKind.String()),
	)
	metrics.RecordRollback(rb.UndoKind.String(), "success")

	return UndoResult{
		RollbackID: rollbackID,
		UndoKind:   rb.UndoKind,
		Message:    message,
	}, nil
}
