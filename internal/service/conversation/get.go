package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
)

// Get returns a conversation owned by the calling user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Conversation{}, domain.ErrUnauthorized
	}

	conv, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	return conv, nil
}

// History returns the transition log of a conversation owned by the calling
// user, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]domain.StateTransition, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Ownership check; transitions are not user-scoped themselves.
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	transitions, err := s.repo.ListTransitions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}

	return transitions, nil
}
