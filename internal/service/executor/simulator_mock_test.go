package executor

import (
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var _ dryRunSimulator = &dryRunSimulatorMock{}

type dryRunSimulatorMock struct {
	SimulateFunc func(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error)

	calls struct {
		Simulate []struct {
			Kind   domain.ActionKind
			Params domain.ActionParams
		}
	}
	lockSimulate sync.RWMutex
}

func (mock *dryRunSimulatorMock) Simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error) {
	if mock.SimulateFunc == nil {
		panic("dryRunSimulatorMock.SimulateFunc: method is nil but dryRunSimulator.Simulate was just called")
	}
	callInfo := struct {
		Kind   domain.ActionKind
		Params domain.ActionParams
	}{Kind: kind, Params: params}
	mock.lockSimulate.Lock()
	mock.calls.Simulate = append(mock.calls.Simulate, callInfo)
	mock.lockSimulate.Unlock()
	return mock.SimulateFunc(kind, params)
}

func (mock *dryRunSimulatorMock) SimulateCalls() []struct {
	Kind   domain.ActionKind
	Params domain.ActionParams
} {
	mock.lockSimulate.RLock()
	calls := mock.calls.Simulate
	mock.lockSimulate.RUnlock()
	return calls
}
