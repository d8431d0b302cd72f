package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/conversation"
)

var _ conversationService = &conversationServiceMock{}

type conversationServiceMock struct {
	StartFunc      func(ctx context.Context, input conversation.StartInput) (domain.Conversation, error)
	GetFunc        func(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	EndFunc        func(ctx context.Context, id uuid.UUID) error
	HistoryFunc    func(ctx context.Context, id uuid.UUID) ([]domain.StateTransition, error)
	TransitionFunc func(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error)
	DispatchFunc   func(ctx context.Context, id uuid.UUID, intent domain.ActionIntent, report domain.DryRunReport) (domain.Conversation, error)
	ConfirmFunc    func(ctx context.Context, id uuid.UUID) (domain.Conversation, error)

	calls struct {
		Start []struct {
			Ctx   context.Context
			Input conversation.StartInput
		}
		Get []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		End []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		History []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Transition []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Target domain.ConversationState
			Reason string
		}
		Dispatch []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Intent domain.ActionIntent
			Report domain.DryRunReport
		}
		Confirm []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockStart      sync.RWMutex
	lockGet        sync.RWMutex
	lockEnd        sync.RWMutex
	lockHistory    sync.RWMutex
	lockTransition sync.RWMutex
	lockDispatch   sync.RWMutex
	lockConfirm    sync.RWMutex
}

func (mock *conversationServiceMock) Start(ctx context.Context, input conversation.StartInput) (domain.Conversation, error) {
	if mock.StartFunc == nil {
		panic("conversationServiceMock.StartFunc: method is nil but conversationService.Start was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input conversation.StartInput
	}{Ctx: ctx, Input: input}
	mock.lockStart.Lock()
	mock.calls.Start = append(mock.calls.Start, callInfo)
	mock.lockStart.Unlock()
	return mock.StartFunc(ctx, input)
}

func (mock *conversationServiceMock) StartCalls() []struct {
	Ctx   context.Context
	Input conversation.StartInput
} {
	mock.lockStart.RLock()
	calls := mock.calls.Start
	mock.lockStart.RUnlock()
	return calls
}

func (mock *conversationServiceMock) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	if mock.GetFunc == nil {
		panic("conversationServiceMock.GetFunc: method is nil but conversationService.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *conversationServiceMock) GetCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *conversationServiceMock) End(ctx context.Context, id uuid.UUID) error {
	if mock.EndFunc == nil {
		panic("conversationServiceMock.EndFunc: method is nil but conversationService.End was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockEnd.Lock()
	mock.calls.End = append(mock.calls.End, callInfo)
	mock.lockEnd.Unlock()
	return mock.EndFunc(ctx, id)
}

func (mock *conversationServiceMock) EndCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockEnd.RLock()
	calls := mock.calls.End
	mock.lockEnd.RUnlock()
	return calls
}

func (mock *conversationServiceMock) History(ctx context.Context, id uuid.UUID) ([]domain.StateTransition, error) {
	if mock.HistoryFunc == nil {
		panic("conversationServiceMock.HistoryFunc: method is nil but conversationService.History was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockHistory.Lock()
	mock.calls.History = append(mock.calls.History, callInfo)
	mock.lockHistory.Unlock()
	return mock.HistoryFunc(ctx, id)
}

func (mock *conversationServiceMock) HistoryCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockHistory.RLock()
	calls := mock.calls.History
	mock.lockHistory.RUnlock()
	return calls
}

func (mock *conversationServiceMock) Transition(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error) {
	if mock.TransitionFunc == nil {
		panic("conversationServiceMock.TransitionFunc: method is nil but conversationService.Transition was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Target domain.ConversationState
		Reason string
	}{Ctx: ctx, ID: id, Target: target, Reason: reason}
	mock.lockTransition.Lock()
	mock.calls.Transition = append(mock.calls.Transition, callInfo)
	mock.lockTransition.Unlock()
	return mock.TransitionFunc(ctx, id, target, reason)
}

func (mock *conversationServiceMock) TransitionCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Target domain.ConversationState
	Reason string
} {
	mock.lockTransition.RLock()
	calls := mock.calls.Transition
	mock.lockTransition.RUnlock()
	return calls
}

func (mock *conversationServiceMock) Dispatch(ctx context.Context, id uuid.UUID, intent domain.ActionIntent, report domain.DryRunReport) (domain.Conversation, error) {
	if mock.DispatchFunc == nil {
		panic("conversationServiceMock.DispatchFunc: method is nil but conversationService.Dispatch was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Intent domain.ActionIntent
		Report domain.DryRunReport
	}{Ctx: ctx, ID: id, Intent: intent, Report: report}
	mock.lockDispatch.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, callInfo)
	mock.lockDispatch.Unlock()
	return mock.DispatchFunc(ctx, id, intent, report)
}

func (mock *conversationServiceMock) DispatchCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Intent domain.ActionIntent
	Report domain.DryRunReport
} {
	mock.lockDispatch.RLock()
	calls := mock.calls.Dispatch
	mock.lockDispatch.RUnlock()
	return calls
}

func (mock *conversationServiceMock) Confirm(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	if mock.ConfirmFunc == nil {
		panic("conversationServiceMock.ConfirmFunc: method is nil but conversationService.Confirm was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockConfirm.Lock()
	mock.calls.Confirm = append(mock.calls.Confirm, callInfo)
	mock.lockConfirm.Unlock()
	return mock.ConfirmFunc(ctx, id)
}

func (mock *conversationServiceMock) ConfirmCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockConfirm.RLock()
	calls := mock.calls.Confirm
	mock.lockConfirm.RUnlock()
	return calls
}
