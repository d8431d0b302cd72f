package executor

import (
	"context"
	"fmt"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// tallyHeader is the first row written into a fresh tally sheet.
var tallyHeader = []string{"Date", "Description", "Amount", "Category", "Notes"}

// outcome is what one backend dispatch produces: the user-facing message, the
// sheet it ran against, the pre-mutation snapshot (nil when the action
// overwrites nothing) and the audit detail payload.
type outcome struct {
	message  string
	sheetID  string
	snapshot *domain.Snapshot
	details  map[string]any
}

// dispatch runs the backend mutation for one intent. Pre-mutation reads
// happen here, before the destructive call: a failed read aborts the whole
// dispatch so an action never runs without the data its undo plan needs.
func (s *Service) dispatch(ctx context.Context, sheetID string, intent domain.ActionIntent) (outcome, error) {
	params := intent.Params
	if params == nil {
		params = domain.ActionParams{}
	}

	switch intent.Kind {
	case domain.ActionCreateSpreadsheet:
		return s.createSpreadsheet(ctx, params, false)
	case domain.ActionCreateTallySheet:
		return s.createSpreadsheet(ctx, params, true)
	case domain.ActionOpenSpreadsheet:
		return s.openSpreadsheet(ctx, sheetID, params)
	case domain.ActionUpdateCell:
		return s.writeCell(ctx, sheetID, params, params.String("value"))
	case domain.ActionApplyFormula:
		return s.writeCell(ctx, sheetID, params, params.String("formula"))
	case domain.ActionUpdateRange:
		return s.updateRange(ctx, sheetID, params)
	case domain.ActionClearRange:
		return s.clearRange(ctx, sheetID, params)
	case domain.ActionInsertRow:
		return s.insertLines(ctx, sheetID, params, "row_index", "row")
	case domain.ActionInsertColumn:
		return s.insertLines(ctx, sheetID, params, "column_index", "column")
	case domain.ActionDeleteRow:
		return s.deleteLines(ctx, sheetID, params, "row_index", "row")
	case domain.ActionDeleteColumn:
		return s.deleteLines(ctx, sheetID, params, "column_index", "column")
	case domain.ActionFormatCells:
		return s.formatCells(ctx, sheetID, params)
	case domain.ActionSortData:
		return s.sortData(ctx, sheetID, params)
	case domain.ActionFilterData:
		return s.filterData(ctx, sheetID, params)
	case domain.ActionCreateChart:
		return s.createChart(ctx, sheetID, params)
	case domain.ActionRenameSheet:
		return s.renameSheet(ctx, sheetID, params)
	case domain.ActionMergeCells:
		return s.mergeCells(ctx, sheetID, params)
	case domain.ActionFreezeRows:
		return s.freeze(ctx, sheetID, params, "row")
	case domain.ActionFreezeColumns:
		return s.freeze(ctx, sheetID, params, "column")
	case domain.ActionAddDataValidation:
		return s.addValidation(ctx, sheetID, params)
	case domain.ActionAppendTransaction:
		return s.appendTransaction(ctx, sheetID, params)
	}

	return outcome{}, fmt.Errorf("dispatch %q: %w", intent.Kind, domain.ErrUnsupportedAction)
}

// ---------------------------------------------------------------------------
// Per-kind handlers
// ---------------------------------------------------------------------------

func (s *Service) createSpreadsheet(ctx context.Context, params domain.ActionParams, tally bool) (outcome, error) {
	title := params.String("title")
	if title == "" {
		title = "Untitled"
	}

	info, err := s.grid.CreateSpreadsheet(ctx, title)
	if err != nil {
		return outcome{}, fmt.Errorf("create spreadsheet: %w", err)
	}

	if tally {
		rng := fmt.Sprintf("A1:%s1", domain.ColumnName(len(tallyHeader)))
		if _, err := s.grid.UpdateRange(ctx, info.SheetID, rng, [][]string{tallyHeader}); err != nil {
			return outcome{}, fmt.Errorf("write tally header: %w", err)
		}
		return outcome{
			message: fmt.Sprintf("Created tally sheet %q", info.Title),
			sheetID: info.SheetID,
			details: map[string]any{"title": info.Title, "header": rng},
		}, nil
	}

	return outcome{
		message: fmt.Sprintf("Created spreadsheet %q", info.Title),
		sheetID: info.SheetID,
		details: map[string]any{"title": info.Title},
	}, nil
}

func (s *Service) openSpreadsheet(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	if id := params.String("sheet_id"); id != "" {
		sheetID = id
	}

	info, err := s.grid.GetSpreadsheet(ctx, sheetID)
	if err != nil {
		return outcome{}, fmt.Errorf("open spreadsheet: %w", err)
	}

	return outcome{
		message: fmt.Sprintf("Opened spreadsheet %q", info.Title),
		sheetID: info.SheetID,
		details: map[string]any{"title": info.Title},
	}, nil
}

// writeCell handles update_cell and apply_formula: both overwrite one cell
// (or a small range) with a single value, so they share the snapshot and the
// write path.
func (s *Service) writeCell(ctx context.Context, sheetID string, params domain.ActionParams, value string) (outcome, error) {
	rng := params.String("range")
	if rng == "" {
		return outcome{}, domain.NewValidationError("range", "is required")
	}

	snap, err := s.snapshotRange(ctx, sheetID, rng)
	if err != nil {
		return outcome{}, err
	}

	res, err := s.grid.UpdateRange(ctx, sheetID, rng, [][]string{{value}})
	if err != nil {
		return outcome{}, fmt.Errorf("update %s: %w", rng, err)
	}

	return outcome{
		message:  fmt.Sprintf("Set %s to %q", rng, value),
		sheetID:  sheetID,
		snapshot: snap,
		details:  map[string]any{"range": rng, "updated_cells": res.UpdatedCells},
	}, nil
}

func (s *Service) updateRange(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	if rng == "" {
		return outcome{}, domain.NewValidationError("range", "is required")
	}
	values := params.Values("values")
	if len(values) == 0 {
		return outcome{}, domain.NewValidationError("values", "is required")
	}

	snap, err := s.snapshotRange(ctx, sheetID, rng)
	if err != nil {
		return outcome{}, err
	}

	res, err := s.grid.UpdateRange(ctx, sheetID, rng, values)
	if err != nil {
		return outcome{}, fmt.Errorf("update %s: %w", rng, err)
	}

	return outcome{
		message:  fmt.Sprintf("Updated %d cells in %s", res.UpdatedCells, rng),
		sheetID:  sheetID,
		snapshot: snap,
		details:  map[string]any{"range": rng, "updated_cells": res.UpdatedCells},
	}, nil
}

func (s *Service) clearRange(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	if rng == "" {
		return outcome{}, domain.NewValidationError("range", "is required")
	}

	snap, err := s.snapshotRange(ctx, sheetID, rng)
	if err != nil {
		return outcome{}, err
	}

	if err := s.grid.ClearRange(ctx, sheetID, rng); err != nil {
		return outcome{}, fmt.Errorf("clear %s: %w", rng, err)
	}

	return outcome{
		message:  fmt.Sprintf("Cleared %s", rng),
		sheetID:  sheetID,
		snapshot: snap,
		details:  map[string]any{"range": rng},
	}, nil
}

func (s *Service) insertLines(ctx context.Context, sheetID string, params domain.ActionParams, indexKey, unit string) (outcome, error) {
	start := params.IntOr(indexKey, 1)
	count := params.IntOr("count", 1)

	var err error
	if unit == "column" {
		err = s.grid.InsertColumns(ctx, sheetID, start, count)
	} else {
		err = s.grid.InsertRows(ctx, sheetID, start, count)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("insert %ss: %w", unit, err)
	}

	return outcome{
		message: fmt.Sprintf("Inserted %d %s(s) at %s %d", count, unit, unit, start),
		sheetID: sheetID,
		details: map[string]any{indexKey: start, "count": count},
	}, nil
}

// deleteLines snapshots the doomed band before removing it, so the undo plan
// can put the content back, not just the empty rows or columns.
func (s *Service) deleteLines(ctx context.Context, sheetID string, params domain.ActionParams, indexKey, unit string) (outcome, error) {
	start := params.IntOr(indexKey, 1)
	count := params.IntOr("count", 1)

	band := domain.RowBand(start, count)
	if unit == "column" {
		band = domain.ColumnBand(start, count)
	}

	snap, err := s.snapshotRange(ctx, sheetID, band)
	if err != nil {
		return outcome{}, err
	}

	if unit == "column" {
		err = s.grid.DeleteColumns(ctx, sheetID, start, count)
	} else {
		err = s.grid.DeleteRows(ctx, sheetID, start, count)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("delete %ss: %w", unit, err)
	}

	return outcome{
		message:  fmt.Sprintf("Deleted %d %s(s) starting at %s %d", count, unit, unit, start),
		sheetID:  sheetID,
		snapshot: snap,
		details:  map[string]any{indexKey: start, "count": count},
	}, nil
}

func (s *Service) formatCells(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	if rng == "" {
		return outcome{}, domain.NewValidationError("range", "is required")
	}
	format := params.Format("format")
	if format == nil {
		return outcome{}, domain.NewValidationError("format", "is required")
	}

	prior, err := s.grid.ReadFormat(ctx, sheetID, rng)
	if err != nil {
		return outcome{}, fmt.Errorf("read format of %s: %w", rng, err)
	}

	if err := s.grid.FormatRange(ctx, sheetID, rng, *format); err != nil {
		return outcome{}, fmt.Errorf("format %s: %w", rng, err)
	}

	return outcome{
		message:  fmt.Sprintf("Formatted %s", rng),
		sheetID:  sheetID,
		snapshot: &domain.Snapshot{Range: rng, Format: &prior},
		details:  map[string]any{"range": rng, "changed": format.ChangedAttributes()},
	}, nil
}

func (s *Service) sortData(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	column := params.IntOr("column", 1)
	ascending := params.Bool("ascending")

	if err := s.grid.SortRange(ctx, sheetID, rng, column, ascending); err != nil {
		return outcome{}, fmt.Errorf("sort %s: %w", rng, err)
	}

	return outcome{
		message: fmt.Sprintf("Sorted %s by column %d", rng, column),
		sheetID: sheetID,
		details: map[string]any{"range": rng, "column": column, "ascending": ascending},
	}, nil
}

func (s *Service) filterData(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	column := params.IntOr("column", 1)
	condition := params.String("condition")

	if err := s.grid.SetFilter(ctx, sheetID, rng, column, condition); err != nil {
		return outcome{}, fmt.Errorf("filter %s: %w", rng, err)
	}

	return outcome{
		message: fmt.Sprintf("Applied filter to %s", rng),
		sheetID: sheetID,
		details: map[string]any{"range": rng, "column": column, "condition": condition},
	}, nil
}

func (s *Service) createChart(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	chartType := params.String("chart_type")
	dataRange := params.String("data_range")
	title := params.String("title")

	if err := s.grid.CreateChart(ctx, sheetID, chartType, dataRange, title); err != nil {
		return outcome{}, fmt.Errorf("create chart: %w", err)
	}

	return outcome{
		message: fmt.Sprintf("Created %s chart from %s", chartType, dataRange),
		sheetID: sheetID,
		details: map[string]any{"chart_type": chartType, "data_range": dataRange},
	}, nil
}

func (s *Service) renameSheet(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	title := params.String("title")
	if title == "" {
		return outcome{}, domain.NewValidationError("title", "is required")
	}

	if err := s.grid.RenameSheet(ctx, sheetID, title); err != nil {
		return outcome{}, fmt.Errorf("rename sheet: %w", err)
	}

	return outcome{
		message: fmt.Sprintf("Renamed spreadsheet to %q", title),
		sheetID: sheetID,
		details: map[string]any{"title": title},
	}, nil
}

func (s *Service) mergeCells(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	if rng == "" {
		return outcome{}, domain.NewValidationError("range", "is required")
	}

	if err := s.grid.MergeCells(ctx, sheetID, rng); err != nil {
		return outcome{}, fmt.Errorf("merge %s: %w", rng, err)
	}

	return outcome{
		message: fmt.Sprintf("Merged %s", rng),
		sheetID: sheetID,
		details: map[string]any{"range": rng},
	}, nil
}

func (s *Service) freeze(ctx context.Context, sheetID string, params domain.ActionParams, unit string) (outcome, error) {
	count := params.IntOr("count", 1)

	var err error
	if unit == "column" {
		err = s.grid.FreezeColumns(ctx, sheetID, count)
	} else {
		err = s.grid.FreezeRows(ctx, sheetID, count)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("freeze %ss: %w", unit, err)
	}

	return outcome{
		message: fmt.Sprintf("Froze the first %d %s(s)", count, unit),
		sheetID: sheetID,
		details: map[string]any{"count": count},
	}, nil
}

func (s *Service) addValidation(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	rng := params.String("range")
	rule := params.String("rule")
	if rule == "" {
		return outcome{}, domain.NewValidationError("rule", "is required")
	}

	if err := s.grid.AddDataValidation(ctx, sheetID, rng, rule); err != nil {
		return outcome{}, fmt.Errorf("add validation to %s: %w", rng, err)
	}

	return outcome{
		message: fmt.Sprintf("Added validation rule to %s", rng),
		sheetID: sheetID,
		details: map[string]any{"range": rng, "rule": rule},
	}, nil
}

// appendTransaction folds the backend-reported landing row into the snapshot:
// the undo plan cannot know the row index before the append happens.
func (s *Service) appendTransaction(ctx context.Context, sheetID string, params domain.ActionParams) (outcome, error) {
	// The classifier emits the cells under "values"; "row" stays accepted for
	// direct API callers.
	row := params.Row("values")
	if len(row) == 0 {
		row = params.Row("row")
	}
	if len(row) == 0 {
		return outcome{}, domain.NewValidationError("values", "is required")
	}

	res, err := s.grid.AppendRow(ctx, sheetID, row)
	if err != nil {
		return outcome{}, fmt.Errorf("append row: %w", err)
	}

	return outcome{
		message:  fmt.Sprintf("Appended transaction at row %d", res.RowIndex),
		sheetID:  sheetID,
		snapshot: &domain.Snapshot{AppendedRow: res.RowIndex},
		details:  map[string]any{"row_index": res.RowIndex},
	}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// snapshotRange reads the current content of rng for the undo plan.
func (s *Service) snapshotRange(ctx context.Context, sheetID, rng string) (*domain.Snapshot, error) {
	vr, err := s.grid.ReadRange(ctx, sheetID, rng)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", rng, err)
	}

	snapRange := vr.Range
	if snapRange == "" {
		snapRange = rng
	}
	return &domain.Snapshot{Range: snapRange, Values: vr.Values}, nil
}
