package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// Transition moves a conversation to target if the transition table allows it
// from the current state. The state change and its log row commit together;
// a rejected transition leaves the conversation untouched.
//
// A concurrent writer that wins the same transition surfaces as
// domain.ErrConflict from the repository's compare-and-set.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Conversation{}, domain.ErrUnauthorized
	}

	if !target.IsValid() {
		return domain.Conversation{}, domain.NewValidationError("state", fmt.Sprintf("unknown state %q", target))
	}

	conv, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	if !domain.CanTransition(conv.State, target) {
		return domain.Conversation{}, &domain.InvalidTransitionError{From: conv.State, To: target}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateState(txCtx, id, conv.State, target, reason)
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("transition conversation: %w", err)
	}

	s.log.InfoContext(ctx, "conversation transitioned",
		slog.String("conversation_id", id.String()),
		slog.String("from", conv.State.String()),
		slog.String("to", target.String()),
		slog.String("reason", reason),
	)
	metrics.ConversationTransitions.WithLabelValues(target.String(), "false").Inc()

	conv.State = target
	return conv, nil
}

// ForceTransition bypasses the transition table. It exists for operator
// recovery and the staleness sweep; the request flow never calls it. The
// transition log row is marked forced with the real from-state.
func (s *Service) ForceTransition(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error) {
	if !target.IsValid() {
		return domain.Conversation{}, domain.NewValidationError("state", fmt.Sprintf("unknown state %q", target))
	}

	var conv domain.Conversation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		conv, err = s.repo.ForceUpdateState(txCtx, id, target, reason)
		return err
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("force transition: %w", err)
	}

	s.log.WarnContext(ctx, "conversation transition forced",
		slog.String("conversation_id", id.String()),
		slog.String("to", target.String()),
		slog.String("reason", reason),
	)
	metrics.ConversationTransitions.WithLabelValues(target.String(), "true").Inc()

	return conv, nil
}
