package rollback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// UndoHistory returns the caller's un-executed, unexpired undo plans, newest
// first. limit <= 0 falls back to the default; the cap keeps one request from
// dragging a user's entire history.
func (s *Service) UndoHistory(ctx context.Context, limit int) ([]domain.RollbackAction, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	actions, err := s.repo.ListPending(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list undo history: %w", err)
	}

	return actions, nil
}

// CleanupExpired deletes rollback records past their validity window.
// Idempotent and safe to run concurrently with normal operation; the cleanup
// cron is its only caller.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired rollbacks: %w", err)
	}

	if deleted > 0 {
		s.log.InfoContext(ctx, "expired rollbacks deleted", slog.Int64("count", deleted))
		metrics.RollbacksExpiredCleaned.Add(float64(deleted))
	}

	return deleted, nil
}
