package rollback

import (
	"context"
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
)

var _ gridBackend = &gridBackendMock{}

type gridBackendMock struct {
	UpdateRangeFunc   func(ctx context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error)
	FormatRangeFunc   func(ctx context.Context, sheetID, rng string, format domain.CellFormat) error
	InsertRowsFunc    func(ctx context.Context, sheetID string, start, count int) error
	DeleteRowsFunc    func(ctx context.Context, sheetID string, start, count int) error
	InsertColumnsFunc func(ctx context.Context, sheetID string, start, count int) error
	DeleteColumnsFunc func(ctx context.Context, sheetID string, start, count int) error
	UnmergeCellsFunc  func(ctx context.Context, sheetID, rng string) error

	calls struct {
		UpdateRange []struct {
			Ctx     context.Context
			SheetID string
			Rng     string
			Values  [][]string
		}
		FormatRange []struct {
			Ctx     context.Context
			SheetID string
			Rng     string
			Format  domain.CellFormat
		}
		InsertRows []struct {
			Ctx     context.Context
			SheetID string
			Start   int
			Count   int
		}
		DeleteRows []struct {
			Ctx     context.Context
			SheetID string
			Start   int
			Count   int
		}
		InsertColumns []struct {
			Ctx     context.Context
			SheetID string
			Start   int
			Count   int
		}
		DeleteColumns []struct {
			Ctx     context.Context
			SheetID string
			Start   int
			Count   int
		}
		UnmergeCells []struct {
			Ctx     context.Context
			SheetID string
			Rng     string
		}
	}
	lockUpdateRange   sync.RWMutex
	lockFormatRange   sync.RWMutex
	lockInsertRows    sync.RWMutex
	lockDeleteRows    sync.RWMutex
	lockInsertColumns sync.RWMutex
	lockDeleteColumns sync.RWMutex
	lockUnmergeCells  sync.RWMutex
}

func (mock *gridBackendMock) UpdateRange(ctx context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error) {
	if mock.UpdateRangeFunc == nil {
		panic("gridBackendMock.UpdateRangeFunc: method is nil but gridBackend.UpdateRange was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Rng     string
		Values  [][]string
	}{Ctx: ctx, SheetID: sheetID, Rng: rng, Values: values}
	mock.lockUpdateRange.Lock()
	mock.calls.UpdateRange = append(mock.calls.UpdateRange, callInfo)
	mock.lockUpdateRange.Unlock()
	return mock.UpdateRangeFunc(ctx, sheetID, rng, values)
}

func (mock *gridBackendMock) UpdateRangeCalls() []struct {
	Ctx     context.Context
	SheetID string
	Rng     string
	Values  [][]string
} {
	mock.lockUpdateRange.RLock()
	calls := mock.calls.UpdateRange
	mock.lockUpdateRange.RUnlock()
	return calls
}

func (mock *gridBackendMock) FormatRange(ctx context.Context, sheetID, rng string, format domain.CellFormat) error {
	if mock.FormatRangeFunc == nil {
		panic("gridBackendMock.FormatRangeFunc: method is nil but gridBackend.FormatRange was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Rng     string
		Format  domain.CellFormat
	}{Ctx: ctx, SheetID: sheetID, Rng: rng, Format: format}
	mock.lockFormatRange.Lock()
	mock.calls.FormatRange = append(mock.calls.FormatRange, callInfo)
	mock.lockFormatRange.Unlock()
	return mock.FormatRangeFunc(ctx, sheetID, rng, format)
}

func (mock *gridBackendMock) FormatRangeCalls() []struct {
	Ctx     context.Context
	SheetID string
	Rng     string
	Format  domain.CellFormat
} {
	mock.lockFormatRange.RLock()
	calls := mock.calls.FormatRange
	mock.lockFormatRange.RUnlock()
	return calls
}

func (mock *gridBackendMock) InsertRows(ctx context.Context, sheetID string, start, count int) error {
	if mock.InsertRowsFunc == nil {
		panic("gridBackendMock.InsertRowsFunc: method is nil but gridBackend.InsertRows was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Start   int
		Count   int
	}{Ctx: ctx, SheetID: sheetID, Start: start, Count: count}
	mock.lockInsertRows.Lock()
	mock.calls.InsertRows = append(mock.calls.InsertRows, callInfo)
	mock.lockInsertRows.Unlock()
	return mock.InsertRowsFunc(ctx, sheetID, start, count)
}

func (mock *gridBackendMock) InsertRowsCalls() []struct {
	Ctx     context.Context
	SheetID string
	Start   int
	Count   int
} {
	mock.lockInsertRows.RLock()
	calls := mock.calls.InsertRows
	mock.lockInsertRows.RUnlock()
	return calls
}

func (mock *gridBackendMock) DeleteRows(ctx context.Context, sheetID string, start, count int) error {
	if mock.DeleteRowsFunc == nil {
		panic("gridBackendMock.DeleteRowsFunc: method is nil but gridBackend.DeleteRows was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Start   int
		Count   int
	}{Ctx: ctx, SheetID: sheetID, Start: start, Count: count}
	mock.lockDeleteRows.Lock()
	mock.calls.DeleteRows = append(mock.calls.DeleteRows, callInfo)
	mock.lockDeleteRows.Unlock()
	return mock.DeleteRowsFunc(ctx, sheetID, start, count)
}

func (mock *gridBackendMock) DeleteRowsCalls() []struct {
	Ctx     context.Context
	SheetID string
	Start   int
	Count   int
} {
	mock.lockDeleteRows.RLock()
	calls := mock.calls.DeleteRows
	mock.lockDeleteRows.RUnlock()
	return calls
}

func (mock *gridBackendMock) InsertColumns(ctx context.Context, sheetID string, start, count int) error {
	if mock.InsertColumnsFunc == nil {
		panic("gridBackendMock.InsertColumnsFunc: method is nil but gridBackend.InsertColumns was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Start   int
		Count   int
	}{Ctx: ctx, SheetID: sheetID, Start: start, Count: count}
	mock.lockInsertColumns.Lock()
	mock.calls.InsertColumns = append(mock.calls.InsertColumns, callInfo)
	mock.lockInsertColumns.Unlock()
	return mock.InsertColumnsFunc(ctx, sheetID, start, count)
}

func (mock *gridBackendMock) InsertColumnsCalls() []struct {
	Ctx     context.Context
	SheetID string
	Start   int
	Count   int
} {
	mock.lockInsertColumns.RLock()
	calls := mock.calls.InsertColumns
	mock.lockInsertColumns.RUnlock()
	return calls
}

func (mock *gridBackendMock) DeleteColumns(ctx context.Context, sheetID string, start, count int) error {
	if mock.DeleteColumnsFunc == nil {
		panic("gridBackendMock.DeleteColumnsFunc: method is nil but gridBackend.DeleteColumns was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Start   int
		Count   int
	}{Ctx: ctx, SheetID: sheetID, Start: start, Count: count}
	mock.lockDeleteColumns.Lock()
	mock.calls.DeleteColumns = append(mock.calls.DeleteColumns, callInfo)
	mock.lockDeleteColumns.Unlock()
	return mock.DeleteColumnsFunc(ctx, sheetID, start, count)
}

func (mock *gridBackendMock) DeleteColumnsCalls() []struct {
	Ctx     context.Context
	SheetID string
	Start   int
	Count   int
} {
	mock.lockDeleteColumns.RLock()
	calls := mock.calls.DeleteColumns
	mock.lockDeleteColumns.RUnlock()
	return calls
}

func (mock *gridBackendMock) UnmergeCells(ctx context.Context, sheetID, rng string) error {
	if mock.UnmergeCellsFunc == nil {
		panic("gridBackendMock.UnmergeCellsFunc: method is nil but gridBackend.UnmergeCells was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SheetID string
		Rng     string
	}{Ctx: ctx, SheetID: sheetID, Rng: rng}
	mock.lockUnmergeCells.Lock()
	mock.calls.UnmergeCells = append(mock.calls.UnmergeCells, callInfo)
	mock.lockUnmergeCells.Unlock()
	return mock.UnmergeCellsFunc(ctx, sheetID, rng)
}

func (mock *gridBackendMock) UnmergeCellsCalls() []struct {
	Ctx     context.Context
	SheetID string
	Rng     string
} {
	mock.lockUnmergeCells.RLock()
	calls := mock.calls.UnmergeCells
	mock.lockUnmergeCells.RUnlock()
	return calls
}
