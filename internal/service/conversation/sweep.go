package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// SweepStale forces every conversation stuck in a non-terminal state for
// longer than the configured window into ERROR, and returns how many were
// moved. Idempotent: a conversation another sweeper instance already moved
// (or a user just ended) is skipped, not an error.
func (s *Service) SweepStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.staleAfter)

	stale, err := s.repo.ListStale(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale conversations: %w", err)
	}

	swept := 0
	for _, conv := range stale {
		reason := fmt.Sprintf("stale: no activity since %s", conv.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))

		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := s.repo.ForceUpdateState(txCtx, conv.ID, domain.StateError, reason)
			return err
		})
		if err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
				// Lost the race to another sweeper or to the user.
				continue
			}
			return swept, fmt.Errorf("sweep conversation %s: %w", conv.ID, err)
		}

		s.log.InfoContext(ctx, "stale conversation moved to error",
			slog.String("conversation_id", conv.ID.String()),
			slog.String("previous_state", conv.State.String()),
			slog.Time("last_activity", conv.UpdatedAt),
		)
		swept++
	}

	metrics.ConversationsSwept.Add(float64(swept))

	return swept, nil
}
