package rest

import (
	"context"
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var _ intentClassifier = &intentClassifierMock{}

type intentClassifierMock struct {
	ClassifyFunc func(ctx context.Context, transcript, sheetID string) (domain.ActionIntent, error)

	calls struct {
		Classify []struct {
			Ctx        context.Context
			Transcript string
			SheetID    string
		}
	}
	lockClassify sync.RWMutex
}

func (mock *intentClassifierMock) Classify(ctx context.Context, transcript, sheetID string) (domain.ActionIntent, error) {
	if mock.ClassifyFunc == nil {
		panic("intentClassifierMock.ClassifyFunc: method is nil but intentClassifier.Classify was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Transcript string
		SheetID    string
	}{Ctx: ctx, Transcript: transcript, SheetID: sheetID}
	mock.lockClassify.Lock()
	mock.calls.Classify = append(mock.calls.Classify, callInfo)
	mock.lockClassify.Unlock()
	return mock.ClassifyFunc(ctx, transcript, sheetID)
}

func (mock *intentClassifierMock) ClassifyCalls() []struct {
	Ctx        context.Context
	Transcript string
	SheetID    string
} {
	mock.lockClassify.RLock()
	calls := mock.calls.Classify
	mock.lockClassify.RUnlock()
	return calls
}
