package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
)

// End closes a conversation owned by the calling user. The row keeps its
// final state as IDLE and is never transitioned again.
func (s *Service) End(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}

	if err := s.repo.End(ctx, id, domain.StateIdle); err != nil {
		return fmt.Errorf("end conversation: %w", err)
	}

	s.log.InfoContext(ctx, "conversation ended",
		slog.String("conversation_id", id.String()),
		slog.String("user_id", userID.String()),
	)

	return nil
}
