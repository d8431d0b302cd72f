package rest

import (
	"context"
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/service/executor"
)

var _ actionExecutor = &actionExecutorMock{}

type actionExecutorMock struct {
	ExecuteFunc func(ctx context.Context, input executor.ExecuteInput) (executor.ExecuteResult, error)

	calls struct {
		Execute []struct {
			Ctx   context.Context
			Input executor.ExecuteInput
		}
	}
	lockExecute sync.RWMutex
}

func (mock *actionExecutorMock) Execute(ctx context.Context, input executor.ExecuteInput) (executor.ExecuteResult, error) {
	if mock.ExecuteFunc == nil {
		panic("actionExecutorMock.ExecuteFunc: method is nil but actionExecutor.Execute was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input executor.ExecuteInput
	}{Ctx: ctx, Input: input}
	mock.lockExecute.Lock()
	mock.calls.Execute = append(mock.calls.Execute, callInfo)
	mock.lockExecute.Unlock()
	return mock.ExecuteFunc(ctx, input)
}

func (mock *actionExecutorMock) ExecuteCalls() []struct {
	Ctx   context.Context
	Input executor.ExecuteInput
} {
	mock.lockExecute.RLock()
	calls := mock.calls.Execute
	mock.lockExecute.RUnlock()
	return calls
}
