package rest

import (
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var _ riskSimulator = &riskSimulatorMock{}

type riskSimulatorMock struct {
	SimulateFunc func(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error)

	calls struct {
		Simulate []struct {
			Kind   domain.ActionKind
			Params domain.ActionParams
		}
	}
	lockSimulate sync.RWMutex
}

func (mock *riskSimulatorMock) Simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error) {
	if mock.SimulateFunc == nil {
		panic("riskSimulatorMock.SimulateFunc: method is nil but riskSimulator.Simulate was just called")
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

func (mock *riskSimulatorMock) SimulateCalls() []struct {
	Kind   domain.ActionKind
	Params domain.ActionParams
} {
	mock.lockSimulate.RLock()
	calls := mock.calls.Simulate
	mock.lockSimulate.RUnlock()
	return calls
}
