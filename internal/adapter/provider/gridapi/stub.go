package gridapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
)

// Stub is an in-memory grid backend for local development and tests. It
// implements the same operations as Client with real value semantics, so undo
// round trips can be exercised without a live backend.
type Stub struct {
	mu     sync.Mutex
	seq    int
	sheets map[string]*stubSheet
}

type stubSheet struct {
	title         string
	cells         [][]string // row-major, 0-based
	merged        map[string]bool
	formats       map[string]domain.CellFormat
	frozenRows    int
	frozenColumns int
}

// NewStub creates an empty in-memory backend.
func NewStub() *Stub {
	return &Stub{sheets: make(map[string]*stubSheet)}
}

// ---------------------------------------------------------------------------
// Spreadsheet lifecycle
// ---------------------------------------------------------------------------

func (s *Stub) CreateSpreadsheet(_ context.Context, title string) (provider.SpreadsheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := "stub-" + strconv.Itoa(s.seq)
	s.sheets[id] = &stubSheet{
		title:   title,
		merged:  make(map[string]bool),
		formats: make(map[string]domain.CellFormat),
	}
	return provider.SpreadsheetInfo{SheetID: id, Title: title}, nil
}

func (s *Stub) GetSpreadsheet(_ context.Context, sheetID string) (provider.SpreadsheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return provider.SpreadsheetInfo{}, err
	}
	return provider.SpreadsheetInfo{SheetID: sheetID, Title: sh.title}, nil
}

func (s *Stub) RenameSheet(_ context.Context, sheetID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	sh.title = title
	return nil
}

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

func (s *Stub) ReadRange(_ context.Context, sheetID, rng string) (provider.ValueRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return provider.ValueRange{}, err
	}

	r, err := s.bound(sh, rng)
	if err != nil {
		return provider.ValueRange{}, err
	}

	values := make([][]string, 0, r.EndRow-r.StartRow+1)
	for row := r.StartRow; row <= r.EndRow; row++ {
		line := make([]string, 0, r.EndCol-r.StartCol+1)
		for col := r.StartCol; col <= r.EndCol; col++ {
			line = append(line, sh.get(row, col))
		}
		values = append(values, line)
	}

	return provider.ValueRange{Range: r.String(), Values: values}, nil
}

func (s *Stub) UpdateRange(_ context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return provider.UpdateResult{}, err
	}

	r, err := domain.ParseRange(rng)
	if err != nil {
		return provider.UpdateResult{}, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	if r.StartRow == 0 || r.StartCol == 0 {
		return provider.UpdateResult{}, fmt.Errorf("write to unbounded range %q: %w", rng, domain.ErrValidation)
	}

	cells := 0
	for i, line := range values {
		for j, v := range line {
			sh.set(r.StartRow+i, r.StartCol+j, v)
			cells++
		}
	}

	return provider.UpdateResult{UpdatedRange: r.String(), UpdatedCells: cells}, nil
}

func (s *Stub) ClearRange(_ context.Context, sheetID, rng string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	r, err := s.bound(sh, rng)
	if err != nil {
		return err
	}

	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			sh.set(row, col, "")
		}
	}
	return nil
}

func (s *Stub) AppendRow(_ context.Context, sheetID string, row []string) (provider.AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return provider.AppendResult{}, err
	}

	idx := sh.lastNonEmptyRow() + 1
	for j, v := range row {
		sh.set(idx, j+1, v)
	}
	return provider.AppendResult{RowIndex: idx}, nil
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

func (s *Stub) InsertRows(_ context.Context, sheetID string, start, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	if start < 1 || count < 1 {
		return fmt.Errorf("insert rows start=%d count=%d: %w", start, count, domain.ErrValidation)
	}

	sh.ensureRows(start - 1)
	blank := make([][]string, count)
	idx := start - 1
	if idx > len(sh.cells) {
		idx = len(sh.cells)
	}
	sh.cells = append(sh.cells[:idx], append(blank, sh.cells[idx:]...)...)
	return nil
}

func (s *Stub) DeleteRows(_ context.Context, sheetID string, start, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	if start < 1 || count < 1 {
		return fmt.Errorf("delete rows start=%d count=%d: %w", start, count, domain.ErrValidation)
	}

	from := start - 1
	if from >= len(sh.cells) {
		return nil
	}
	to := from + count
	if to > len(sh.cells) {
		to = len(sh.cells)
	}
	sh.cells = append(sh.cells[:from], sh.cells[to:]...)
	return nil
}

func (s *Stub) InsertColumns(_ context.Context, sheetID string, start, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	if start < 1 || count < 1 {
		return fmt.Errorf("insert columns start=%d count=%d: %w", start, count, domain.ErrValidation)
	}

	for i, line := range sh.cells {
		idx := start - 1
		if idx > len(line) {
			idx = len(line)
		}
		blank := make([]string, count)
		sh.cells[i] = append(line[:idx], append(blank, line[idx:]...)...)
	}
	return nil
}

func (s *Stub) DeleteColumns(_ context.Context, sheetID string, start, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	if start < 1 || count < 1 {
		return fmt.Errorf("delete columns start=%d count=%d: %w", start, count, domain.ErrValidation)
	}

	for i, line := range sh.cells {
		from := start - 1
		if from >= len(line) {
			continue
		}
		to := from + count
		if to > len(line) {
			to = len(line)
		}
		sh.cells[i] = append(line[:from], line[to:]...)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Formatting and views
// ---------------------------------------------------------------------------

// FormatRange records the format under its exact range reference. The stub
// does not split or merge overlapping ranges.
func (s *Stub) FormatRange(_ context.Context, sheetID, rng string, format domain.CellFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	sh.formats[rng] = format
	return nil
}

// ReadFormat returns the format last applied to the exact range, or the zero
// format when none was.
func (s *Stub) ReadFormat(_ context.Context, sheetID, rng string) (domain.CellFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return domain.CellFormat{}, err
	}
	return sh.formats[rng], nil
}

func (s *Stub) MergeCells(_ context.Context, sheetID, rng string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	sh.merged[rng] = true
	return nil
}

func (s *Stub) UnmergeCells(_ context.Context, sheetID, rng string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	delete(sh.merged, rng)
	return nil
}

// SortRange sorts the rows covered by the range by the given 1-based column.
// Numeric values compare numerically, everything else lexically.
func (s *Stub) SortRange(_ context.Context, sheetID, rng string, column int, ascending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}

	r, err := s.bound(sh, rng)
	if err != nil {
		return err
	}
	if column < 1 {
		column = r.StartCol
	}
	if r.StartRow > len(sh.cells) {
		return nil
	}

	rows := sh.cells[r.StartRow-1 : min(r.EndRow, len(sh.cells))]
	sort.SliceStable(rows, func(i, j int) bool {
		a := cellAt(rows[i], column)
		b := cellAt(rows[j], column)
		less := lessValue(a, b)
		if ascending {
			return less
		}
		return !less && a != b
	})
	return nil
}

func (s *Stub) SetFilter(_ context.Context, sheetID, _ string, _ int, _ string) error {
	return s.touch(sheetID)
}

func (s *Stub) CreateChart(_ context.Context, sheetID, _, _, _ string) error {
	return s.touch(sheetID)
}

func (s *Stub) FreezeRows(_ context.Context, sheetID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	sh.frozenRows = count
	return nil
}

func (s *Stub) FreezeColumns(_ context.Context, sheetID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.sheet(sheetID)
	if err != nil {
		return err
	}
	sh.frozenColumns = count
	return nil
}

func (s *Stub) AddDataValidation(_ context.Context, sheetID, _, _ string) error {
	return s.touch(sheetID)
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *Stub) sheet(sheetID string) (*stubSheet, error) {
	sh, ok := s.sheets[sheetID]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %s: %w", sheetID, domain.ErrNotFound)
	}
	return sh, nil
}

// touch verifies the sheet exists for operations the stub otherwise ignores.
func (s *Stub) touch(sheetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.sheet(sheetID)
	return err
}

// bound parses a range and clamps unbounded axes to the sheet's current
// extent, so row/column bands become rectangles.
func (s *Stub) bound(sh *stubSheet, rng string) (domain.CellRange, error) {
	r, err := domain.ParseRange(rng)
	if err != nil {
		return domain.CellRange{}, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}

	if r.StartRow == 0 {
		r.StartRow, r.EndRow = 1, max(sh.rowCount(), 1)
	}
	if r.StartCol == 0 {
		r.StartCol, r.EndCol = 1, max(sh.colCount(), 1)
	}
	return r, nil
}

func (sh *stubSheet) rowCount() int { return len(sh.cells) }

func (sh *stubSheet) colCount() int {
	widest := 0
	for _, line := range sh.cells {
		if len(line) > widest {
			widest = len(line)
		}
	}
	return widest
}

func (sh *stubSheet) lastNonEmptyRow() int {
	for i := len(sh.cells) - 1; i >= 0; i-- {
		for _, v := range sh.cells[i] {
			if v != "" {
				return i + 1
			}
		}
	}
	return 0
}

func (sh *stubSheet) ensureRows(n int) {
	for len(sh.cells) < n {
		sh.cells = append(sh.cells, nil)
	}
}

func (sh *stubSheet) get(row, col int) string {
	if row < 1 || col < 1 || row > len(sh.cells) {
		return ""
	}
	line := sh.cells[row-1]
	if col > len(line) {
		return ""
	}
	return line[col-1]
}

func (sh *stubSheet) set(row, col int, v string) {
	sh.ensureRows(row)
	line := sh.cells[row-1]
	for len(line) < col {
		line = append(line, "")
	}
	line[col-1] = v
	sh.cells[row-1] = line
}

func cellAt(line []string, col int) string {
	if col > len(line) {
		return ""
	}
	return line[col-1]
}

// lessValue compares two cell values, numerically when both parse as numbers.
func lessValue(a, b string) bool {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
