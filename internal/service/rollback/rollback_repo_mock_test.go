package rollback

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var _ rollbackRepo = &rollbackRepoMock{}

type rollbackRepoMock struct {
	CreateFunc        func(ctx context.Context, rb domain.RollbackAction) error
	ClaimFunc         func(ctx context.Context, userID, id uuid.UUID, now time.Time) (domain.RollbackAction, error)
	UnclaimFunc       func(ctx context.Context, userID, id uuid.UUID) error
	ListPendingFunc   func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.RollbackAction, error)
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Rb  domain.RollbackAction
		}
		Claim []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
			Now    time.Time
		}
		Unclaim []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
		ListPending []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Now    time.Time
			Limit  int
		}
		DeleteExpired []struct {
			Ctx context.Context
			Now time.Time
		}
	}
	lockCreate        sync.RWMutex
	lockClaim         sync.RWMutex
	lockUnclaim       sync.RWMutex
	lockListPending   sync.RWMutex
	lockDeleteExpired sync.RWMutex
}

func (mock *rollbackRepoMock) Create(ctx context.Context, rb domain.RollbackAction) error {
	if mock.CreateFunc == nil {
		panic("rollbackRepoMock.CreateFunc: method is nil but rollbackRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rb  domain.RollbackAction
	}{Ctx: ctx, Rb: rb}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, rb)
}

func (mock *rollbackRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Rb  domain.RollbackAction
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *rollbackRepoMock) Claim(ctx context.Context, userID, id uuid.UUID, now time.Time) (domain.RollbackAction, error) {
	if mock.ClaimFunc == nil {
		panic("rollbackRepoMock.ClaimFunc: method is nil but rollbackRepo.Claim was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
		Now    time.Time
	}{Ctx: ctx, UserID: userID, ID: id, Now: now}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, userID, id, now)
}

func (mock *rollbackRepoMock) ClaimCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
	Now    time.Time
} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

func (mock *rollbackRepoMock) Unclaim(ctx context.Context, userID, id uuid.UUID) error {
	if mock.UnclaimFunc == nil {
		panic("rollbackRepoMock.UnclaimFunc: method is nil but rollbackRepo.Unclaim was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockUnclaim.Lock()
	mock.calls.Unclaim = append(mock.calls.Unclaim, callInfo)
	mock.lockUnclaim.Unlock()
	return mock.UnclaimFunc(ctx, userID, id)
}

func (mock *rollbackRepoMock) UnclaimCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockUnclaim.RLock()
	calls := mock.calls.Unclaim
	mock.lockUnclaim.RUnlock()
	return calls
}

func (mock *rollbackRepoMock) ListPending(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.RollbackAction, error) {
	if mock.ListPendingFunc == nil {
		panic("rollbackRepoMock.ListPendingFunc: method is nil but rollbackRepo.ListPending was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Now    time.Time
		Limit  int
	}{Ctx: ctx, UserID: userID, Now: now, Limit: limit}
	mock.lockListPending.Lock()
	mock.calls.ListPending = append(mock.calls.ListPending, callInfo)
	mock.lockListPending.Unlock()
	return mock.ListPendingFunc(ctx, userID, now, limit)
}

func (mock *rollbackRepoMock) ListPendingCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Now    time.Time
	Limit  int
} {
	mock.lockListPending.RLock()
	calls := mock.calls.ListPending
	mock.lockListPending.RUnlock()
	return calls
}

func (mock *rollbackRepoMock) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if mock.DeleteExpiredFunc == nil {
		panic("rollbackRepoMock.DeleteExpiredFunc: method is nil but rollbackRepo.DeleteExpired was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockDeleteExpired.Lock()
	mock.calls.DeleteExpired = append(mock.calls.DeleteExpired, callInfo)
	mock.lockDeleteExpired.Unlock()
	return mock.DeleteExpiredFunc(ctx, now)
}

func (mock *rollbackRepoMock) DeleteExpiredCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockDeleteExpired.RLock()
	calls := mock.calls.DeleteExpired
	mock.lockDeleteExpired.RUnlock()
	return calls
}
