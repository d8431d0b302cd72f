package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConversationState is the processing phase of one voice conversation.
type ConversationState string

const (
	StateIdle                  ConversationState = "IDLE"
	StateListening             ConversationState = "LISTENING"
	StateTranscribing          ConversationState = "TRANSCRIBING"
	StateIntentClassified      ConversationState = "INTENT_CLASSIFIED"
	StateClarificationRequired ConversationState = "CLARIFICATION_REQUIRED"
	StateConfirmationRequired  ConversationState = "CONFIRMATION_REQUIRED"
	StateReadyToExecute        ConversationState = "READY_TO_EXECUTE"
	StateExecuting             ConversationState = "EXECUTING"
	StateCompleted             ConversationState = "COMPLETED"
	StateError                 ConversationState = "ERROR"
)

func (s ConversationState) String() string { return string(s) }

func (s ConversationState) IsValid() bool {
	_, ok := transitionTable[s]
	return ok
}

// IsTerminal reports whether the state ends a turn. Terminal states only
// transition back to IDLE (ERROR also to LISTENING for immediate retry).
func (s ConversationState) IsTerminal() bool {
	return s == StateCompleted || s == StateError
}

// transitionTable is the authoritative allowed-transition set. Transitions
// not listed here are rejected; there is no default case.
var transitionTable = map[ConversationState][]ConversationState{
	StateIdle:                  {StateListening},
	StateListening:             {StateTranscribing, StateIdle, StateError},
	StateTranscribing:          {StateIntentClassified, StateError},
	StateIntentClassified:      {StateClarificationRequired, StateConfirmationRequired, StateReadyToExecute, StateError},
	StateClarificationRequired: {StateListening, StateIdle},
	StateConfirmationRequired:  {StateReadyToExecute, StateIdle, StateError},
	StateReadyToExecute:        {StateExecuting, StateError},
	StateExecuting:             {StateCompleted, StateError},
	StateCompleted:             {StateIdle},
	StateError:                 {StateIdle, StateListening},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to ConversationState) bool {
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed target states for a given state.
func AllowedTransitions(from ConversationState) []ConversationState {
	allowed := transitionTable[from]
	out := make([]ConversationState, len(allowed))
	copy(out, allowed)
	return out
}

// Conversation is one voice session. The state column is the soft lock a
// client is expected to respect; an ended conversation is never transitioned
// again.
type Conversation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SheetID   *string
	State     ConversationState
	CreatedAt time.Time
	UpdatedAt time.Time
	EndedAt   *time.Time
}

// Ended reports whether the conversation has been logically closed.
func (c *Conversation) Ended() bool { return c.EndedAt != nil }

// StateTransition is one row of the transition log. Forced transitions are
// the operator-recovery bypass and are recorded distinctly.
type StateTransition struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	FromState      ConversationState
	ToState        ConversationState
	Reason         string
	Forced         bool
	CreatedAt      time.Time
}
