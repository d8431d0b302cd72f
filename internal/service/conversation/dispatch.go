package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// Dispatch routes a classified turn out of INTENT_CLASSIFIED. The decision
// order is fixed: low confidence wins over everything, then the confirmation
// gate, then straight to ready.
//
// The classifier's confirmation hint is ORed with the simulator's judgment, so
// a confident classifier can never remove a confirmation the dry run demands.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID, intent domain.ActionIntent, report domain.DryRunReport) (domain.Conversation, error) {
	var (
		target domain.ConversationState
		reason string
	)

	switch {
	case intent.Confidence < s.threshold:
		target = domain.StateClarificationRequired
		reason = fmt.Sprintf("dispatch: confidence %.2f below threshold %.2f", intent.Confidence, s.threshold)
	case intent.ConfirmationRequired || report.RequiresConfirmation():
		target = domain.StateConfirmationRequired
		reason = fmt.Sprintf("dispatch: %s requires confirmation (risk %s, reversible %t)",
			intent.Kind, report.RiskLevel, report.Reversible)
	default:
		target = domain.StateReadyToExecute
		reason = fmt.Sprintf("dispatch: %s ready (risk %s)", intent.Kind, report.RiskLevel)
	}

	return s.Transition(ctx, id, target, reason)
}

// Confirm records the user's explicit approval of a pending action. Only
// valid from CONFIRMATION_REQUIRED; anywhere else the transition table
// rejects it.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	return s.Transition(ctx, id, domain.StateReadyToExecute, "user confirmed")
}
