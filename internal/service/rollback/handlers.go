package rollback

import (
	"context"
	"fmt"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// applyUndo dispatches one claimed undo plan to the grid backend and returns
// a user-facing message. Plans whose kind has no handler, or whose payload
// lacks the content a restoring kind needs, fail explicitly — a half-applied
// undo is worse than a refused one.
func (s *Service) applyUndo(ctx context.Context, rb domain.RollbackAction) (string, error) {
	data := rb.UndoData

	switch rb.UndoKind {
	case domain.UndoRestoreCell, domain.UndoRestoreRange, domain.UndoRestoreClearedRange:
		if data.Range == "" || len(data.Values) == 0 {
			return "", fmt.Errorf("plan carries no captured values for %s: %w", rb.UndoKind, domain.ErrUndoNotSupported)
		}
		if _, err := s.grid.UpdateRange(ctx, rb.SheetID, data.Range, data.Values); err != nil {
			return "", fmt.Errorf("restore %s: %w", data.Range, err)
		}
		return fmt.Sprintf("Restored previous values in %s", data.Range), nil

	case domain.UndoRestoreFormat:
		if data.Range == "" || data.Format == nil {
			return "", fmt.Errorf("plan carries no captured format: %w", domain.ErrUndoNotSupported)
		}
		if err := s.grid.FormatRange(ctx, rb.SheetID, data.Range, *data.Format); err != nil {
			return "", fmt.Errorf("restore format on %s: %w", data.Range, err)
		}
		return fmt.Sprintf("Restored previous formatting on %s", data.Range), nil

	case domain.UndoRestoreDeletedRow:
		return s.restoreDeletedRows(ctx, rb)

	case domain.UndoRestoreDeletedColumn:
		return s.restoreDeletedColumns(ctx, rb)

	case domain.UndoDeleteInsertedRow:
		if data.RowIndex < 1 {
			return "", fmt.Errorf("plan carries no row position: %w", domain.ErrUndoNotSupported)
		}
		if err := s.grid.DeleteRows(ctx, rb.SheetID, data.RowIndex, max(data.Count, 1)); err != nil {
			return "", fmt.Errorf("delete inserted rows: %w", err)
		}
		return fmt.Sprintf("Removed the inserted rows at row %d", data.RowIndex), nil

	case domain.UndoDeleteInsertedColumn:
		if data.ColumnIndex < 1 {
			return "", fmt.Errorf("plan carries no column position: %w", domain.ErrUndoNotSupported)
		}
		if err := s.grid.DeleteColumns(ctx, rb.SheetID, data.ColumnIndex, max(data.Count, 1)); err != nil {
			return "", fmt.Errorf("delete inserted columns: %w", err)
		}
		return fmt.Sprintf("Removed the inserted columns at column %d", data.ColumnIndex), nil

	case domain.UndoDeleteAppendedRow:
		if data.RowIndex < 1 {
			return "", fmt.Errorf("append landing row unknown: %w", domain.ErrUndoNotSupported)
		}
		if err := s.grid.DeleteRows(ctx, rb.SheetID, data.RowIndex, 1); err != nil {
			return "", fmt.Errorf("delete appended row: %w", err)
		}
		return fmt.Sprintf("Removed the appended row %d", data.RowIndex), nil

	case domain.UndoUnmergeCells:
		if data.Range == "" {
			return "", fmt.Errorf("plan carries no merge range: %w", domain.ErrUndoNotSupported)
		}
		if err := s.grid.UnmergeCells(ctx, rb.SheetID, data.Range); err != nil {
			return "", fmt.Errorf("unmerge %s: %w", data.Range, err)
		}
		return fmt.Sprintf("Unmerged %s", data.Range), nil
	}

	return "", fmt.Errorf("no handler for %s: %w", rb.UndoKind, domain.ErrUndoNotSupported)
}

// restoreDeletedRows reinserts deleted rows and writes their captured
// contents back. Without captured values the restore would reinsert blank
// rows and silently lose data, so it refuses instead.
func (s *Service) restoreDeletedRows(ctx context.Context, rb domain.RollbackAction) (string, error) {
	data := rb.UndoData
	count := max(data.Count, 1)

	if data.RowIndex < 1 {
		return "", fmt.Errorf("plan carries no row position: %w", domain.ErrUndoNotSupported)
	}
	if len(data.Values) == 0 {
		return "", fmt.Errorf("deleted row contents were not captured: %w", domain.ErrUndoNotSupported)
	}

	if err := s.grid.InsertRows(ctx, rb.SheetID, data.RowIndex, count); err != nil {
		return "", fmt.Errorf("reinsert rows: %w", err)
	}

	width := 0
	for _, row := range data.Values {
		if len(row) > width {
			width = len(row)
		}
	}
	rng := domain.CellRange{
		StartCol: 1,
		StartRow: data.RowIndex,
		EndCol:   max(width, 1),
		EndRow:   data.RowIndex + len(data.Values) - 1,
	}.String()

	if _, err := s.grid.UpdateRange(ctx, rb.SheetID, rng, data.Values); err != nil {
		return "", fmt.Errorf("restore row contents: %w", err)
	}

	return fmt.Sprintf("Restored %d deleted row(s) at row %d with their contents", count, data.RowIndex), nil
}

// restoreDeletedColumns mirrors restoreDeletedRows on the column axis. The
// captured values are the full rectangle of the deleted columns.
func (s *Service) restoreDeletedColumns(ctx context.Context, rb domain.RollbackAction) (string, error) {
	data := rb.UndoData
	count := max(data.Count, 1)

	if data.ColumnIndex < 1 {
		return "", fmt.Errorf("plan carries no column position: %w", domain.ErrUndoNotSupported)
	}
	if len(data.Values) == 0 {
		return "", fmt.Errorf("deleted column contents were not captured: %w", domain.ErrUndoNotSupported)
	}

	if err := s.grid.InsertColumns(ctx, rb.SheetID, data.ColumnIndex, count); err != nil {
		return "", fmt.Errorf("reinsert columns: %w", err)
	}

	rng := domain.CellRange{
		StartCol: data.ColumnIndex,
		StartRow: 1,
		EndCol:   data.ColumnIndex + count - 1,
		EndRow:   len(data.Values),
	}.String()

	if _, err := s.grid.UpdateRange(ctx, rb.SheetID, rng, data.Values); err != nil {
		return "", fmt.Errorf("restore column contents: %w", err)
	}

	return fmt.Sprintf("Restored %d deleted column(s) at column %d with their contents", count, data.ColumnIndex), nil
}
