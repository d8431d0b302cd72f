package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/ctxutil"
)

// StartInput carries the optional sheet a new conversation is bound to.
type StartInput struct {
	SheetID *string
}

// Validate checks the input.
func (in StartInput) Validate() error {
	if in.SheetID != nil && strings.TrimSpace(*in.SheetID) == "" {
		return domain.NewValidationError("sheet_id", "must not be blank")
	}
	return nil
}

// Start creates a new conversation in IDLE for the calling user.
func (s *Service) Start(ctx context.Context, input StartInput) (domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Conversation{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Conversation{}, err
	}

	conv, err := s.repo.Create(ctx, userID, input.SheetID)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}

	s.log.InfoContext(ctx, "conversation started",
		slog.String("conversation_id", conv.ID.String()),
		slog.String("user_id", userID.String()),
	)

	return conv, nil
}
