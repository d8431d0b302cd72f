package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
)

var _ rollbackService = &rollbackServiceMock{}

type rollbackServiceMock struct {
	ExecuteUndoFunc func(ctx context.Context, rollbackID uuid.UUID) (rollback.UndoResult, error)
	UndoHistoryFunc func(ctx context.Context, limit int) ([]domain.RollbackAction, error)

	calls struct {
		ExecuteUndo []struct {
			Ctx        context.Context
			RollbackID uuid.UUID
		}
		UndoHistory []struct {
			Ctx   context.Context
			Limit int
		}
	}
	lockExecuteUndo sync.RWMutex
	lockUndoHistory sync.RWMutex
}

func (mock *rollbackServiceMock) ExecuteUndo(ctx context.Context, rollbackID uuid.UUID) (rollback.UndoResult, error) {
	if mock.ExecuteUndoFunc == nil {
		panic("rollbackServiceMock.ExecuteUndoFunc: method is nil but rollbackService.ExecuteUndo was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		RollbackID uuid.UUID
	}{Ctx: ctx, RollbackID: rollbackID}
	mock.lockExecuteUndo.Lock()
	mock.calls.ExecuteUndo = append(mock.calls.ExecuteUndo, callInfo)
	mock.lockExecuteUndo.Unlock()
	return mock.ExecuteUndoFunc(ctx, rollbackID)
}

func (mock *rollbackServiceMock) ExecuteUndoCalls() []struct {
	Ctx        context.Context
	RollbackID uuid.UUID
} {
	mock.lockExecuteUndo.RLock()
	calls := mock.calls.ExecuteUndo
	mock.lockExecuteUndo.RUnlock()
	return calls
}

func (mock *rollbackServiceMock) UndoHistory(ctx context.Context, limit int) ([]domain.RollbackAction, error) {
	if mock.UndoHistoryFunc == nil {
		panic("rollbackServiceMock.UndoHistoryFunc: method is nil but rollbackService.UndoHistory was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit int
	}{Ctx: ctx, Limit: limit}
	mock.lockUndoHistory.Lock()
	mock.calls.UndoHistory = append(mock.calls.UndoHistory, callInfo)
	mock.lockUndoHistory.Unlock()
	return mock.UndoHistoryFunc(ctx, limit)
}

func (mock *rollbackServiceMock) UndoHistoryCalls() []struct {
	Ctx   context.Context
	Limit int
} {
	mock.lockUndoHistory.RLock()
	calls := mock.calls.UndoHistory
	mock.lockUndoHistory.RUnlock()
	return calls
}
