package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var _ conversationRepo = &conversationRepoMock{}

type conversationRepoMock struct {
	CreateFunc           func(ctx context.Context, userID uuid.UUID, sheetID *string) (domain.Conversation, error)
	GetByIDFunc          func(ctx context.Context, userID, id uuid.UUID) (domain.Conversation, error)
	UpdateStateFunc      func(ctx context.Context, id uuid.UUID, from, to domain.ConversationState, reason string) error
	ForceUpdateStateFunc func(ctx context.Context, id uuid.UUID, to domain.ConversationState, reason string) (domain.Conversation, error)
	EndFunc              func(ctx context.Context, id uuid.UUID, to domain.ConversationState) error
	ListStaleFunc        func(ctx context.Context, cutoff time.Time, limit int) ([]domain.Conversation, error)
	ListTransitionsFunc  func(ctx context.Context, conversationID uuid.UUID) ([]domain.StateTransition, error)

	calls struct {
		Create []struct {
			Ctx     context.Context
			UserID  uuid.UUID
			SheetID *string
		}
		GetByID []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
		UpdateState []struct {
			Ctx    context.Context
			ID     uuid.UUID
			From   domain.ConversationState
			To     domain.ConversationState
			Reason string
		}
		ForceUpdateState []struct {
			Ctx    context.Context
			ID     uuid.UUID
			To     domain.ConversationState
			Reason string
		}
		End []struct {
			Ctx context.Context
			ID  uuid.UUID
			To  domain.ConversationState
		}
		ListStale []struct {
			Ctx    context.Context
			Cutoff time.Time
			Limit  int
		}
		ListTransitions []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
		}
	}
	lockCreate           sync.RWMutex
	lockGetByID          sync.RWMutex
	lockUpdateState      sync.RWMutex
	lockForceUpdateState sync.RWMutex
	lockEnd              sync.RWMutex
	lockListStale        sync.RWMutex
	lockListTransitions  sync.RWMutex
}

func (mock *conversationRepoMock) Create(ctx context.Context, userID uuid.UUID, sheetID *string) (domain.Conversation, error) {
	if mock.CreateFunc == nil {
		panic("conversationRepoMock.CreateFunc: method is nil but conversationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		UserID  uuid.UUID
		SheetID *string
	}{Ctx: ctx, UserID: userID, SheetID: sheetID}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, userID, sheetID)
}

func (mock *conversationRepoMock) CreateCalls() []struct {
	Ctx     context.Context
	UserID  uuid.UUID
	SheetID *string
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *conversationRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Conversation, error) {
	if mock.GetByIDFunc == nil {
		panic("conversationRepoMock.GetByIDFunc: method is nil but conversationRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, userID, id)
}

func (mock *conversationRepoMock) GetByIDCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *conversationRepoMock) UpdateState(ctx context.Context, id uuid.UUID, from, to domain.ConversationState, reason string) error {
	if mock.UpdateStateFunc == nil {
		panic("conversationRepoMock.UpdateStateFunc: method is nil but conversationRepo.UpdateState was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		From   domain.ConversationState
		To     domain.ConversationState
		Reason string
	}{Ctx: ctx, ID: id, From: from, To: to, Reason: reason}
	mock.lockUpdateState.Lock()
	mock.calls.UpdateState = append(mock.calls.UpdateState, callInfo)
	mock.lockUpdateState.Unlock()
	return mock.UpdateStateFunc(ctx, id, from, to, reason)
}

func (mock *conversationRepoMock) UpdateStateCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	From   domain.ConversationState
	To     domain.ConversationState
	Reason string
} {
	mock.lockUpdateState.RLock()
	calls := mock.calls.UpdateState
	mock.lockUpdateState.RUnlock()
	return calls
}

func (mock *conversationRepoMock) ForceUpdateState(ctx context.Context, id uuid.UUID, to domain.ConversationState, reason string) (domain.Conversation, error) {
	if mock.ForceUpdateStateFunc == nil {
		panic("conversationRepoMock.ForceUpdateStateFunc: method is nil but conversationRepo.ForceUpdateState was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		To     domain.ConversationState
		Reason string
	}{Ctx: ctx, ID: id, To: to, Reason: reason}
	mock.lockForceUpdateState.Lock()
	mock.calls.ForceUpdateState = append(mock.calls.ForceUpdateState, callInfo)
	mock.lockForceUpdateState.Unlock()
	return mock.ForceUpdateStateFunc(ctx, id, to, reason)
}

func (mock *conversationRepoMock) ForceUpdateStateCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	To     domain.ConversationState
	Reason string
} {
	mock.lockForceUpdateState.RLock()
	calls := mock.calls.ForceUpdateState
	mock.lockForceUpdateState.RUnlock()
	return calls
}

func (mock *conversationRepoMock) End(ctx context.Context, id uuid.UUID, to domain.ConversationState) error {
	if mock.EndFunc == nil {
		panic("conversationRepoMock.EndFunc: method is nil but conversationRepo.End was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		To  domain.ConversationState
	}{Ctx: ctx, ID: id, To: to}
	mock.lockEnd.Lock()
	mock.calls.End = append(mock.calls.End, callInfo)
	mock.lockEnd.Unlock()
	return mock.EndFunc(ctx, id, to)
}

func (mock *conversationRepoMock) EndCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	To  domain.ConversationState
} {
	mock.lockEnd.RLock()
	calls := mock.calls.End
	mock.lockEnd.RUnlock()
	return calls
}

func (mock *conversationRepoMock) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Conversation, error) {
	if mock.ListStaleFunc == nil {
		panic("conversationRepoMock.ListStaleFunc: method is nil but conversationRepo.ListStale was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Cutoff time.Time
		Limit  int
	}{Ctx: ctx, Cutoff: cutoff, Limit: limit}
	mock.lockListStale.Lock()
	mock.calls.ListStale = append(mock.calls.ListStale, callInfo)
	mock.lockListStale.Unlock()
	return mock.ListStaleFunc(ctx, cutoff, limit)
}

func (mock *conversationRepoMock) ListStaleCalls() []struct {
	Ctx    context.Context
	Cutoff time.Time
	Limit  int
} {
	mock.lockListStale.RLock()
	calls := mock.calls.ListStale
	mock.lockListStale.RUnlock()
	return calls
}

func (mock *conversationRepoMock) ListTransitions(ctx context.Context, conversationID uuid.UUID) ([]domain.StateTransition, error) {
	if mock.ListTransitionsFunc == nil {
		panic("conversationRepoMock.ListTransitionsFunc: method is nil but conversationRepo.ListTransitions was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
	}{Ctx: ctx, ConversationID: conversationID}
	mock.lockListTransitions.Lock()
	mock.calls.ListTransitions = append(mock.calls.ListTransitions, callInfo)
	mock.lockListTransitions.Unlock()
	return mock.ListTransitionsFunc(ctx, conversationID)
}

func (mock *conversationRepoMock) ListTransitionsCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
} {
	mock.lockListTransitions.RLock()
	calls := mock.calls.ListTransitions
	mock.lockListTransitions.RUnlock()
	return calls
}
