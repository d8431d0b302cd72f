// Package conversation implements the conversation state machine: CAS-backed
// transitions over the fixed transition table, the post-classification
// dispatch decision, and the staleness sweep.
package conversation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

const (
	// DefaultConfidenceThreshold is the classifier-confidence floor below
	// which a turn is routed to clarification instead of execution.
	DefaultConfidenceThreshold = 0.60

	// DefaultStaleAfter is how long a conversation may sit in a non-terminal
	// state before the sweep forces it into ERROR.
	DefaultStaleAfter = 30 * time.Minute

	// sweepBatchSize bounds one sweep pass. Leftovers are picked up by the
	// next run.
	sweepBatchSize = 100
)

type conversationRepo interface {
	Create(ctx context.Context, userID uuid.UUID, sheetID *string) (domain.Conversation, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Conversation, error)
	UpdateState(ctx context.Context, id uuid.UUID, from, to domain.ConversationState, reason string) error
	ForceUpdateState(ctx context.Context, id uuid.UUID, to domain.ConversationState, reason string) (domain.Conversation, error)
	End(ctx context.Context, id uuid.UUID, to domain.ConversationState) error
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Conversation, error)
	ListTransitions(ctx context.Context, conversationID uuid.UUID) ([]domain.StateTransition, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the conversation state machine.
type Service struct {
	repo       conversationRepo
	tx         txManager
	threshold  float64
	staleAfter time.Duration
	log        *slog.Logger

	now func() time.Time
}

// NewService creates a conversation service. threshold <= 0 and
// staleAfter <= 0 fall back to the defaults.
func NewService(
	log *slog.Logger,
	repo conversationRepo,
	tx txManager,
	threshold float64,
	staleAfter time.Duration,
) *Service {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Service{
		repo:       repo,
		tx:         tx,
		threshold:  threshold,
		staleAfter: staleAfter,
		log:        log.With("service", "conversation"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}
