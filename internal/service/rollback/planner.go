package rollback

import (
	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// BuildUndoPlan derives the inverse-action descriptor for a forward action.
// Pure function: the kind mapping is deterministic and 1:1, and the payload
// is assembled from the forward parameters plus whatever snap captured.
//
// When snap is nil the plan degrades to positional data only — enough to
// delete what was inserted, not enough to restore what was removed. Callers
// must pass a snapshot whenever the forward action overwrites or removes
// data; ExecuteUndo refuses content-restoring plans that carry no content.
func BuildUndoPlan(kind domain.ActionKind, params domain.ActionParams, snap *domain.Snapshot) (domain.UndoActionKind, domain.UndoData) {
	undoKind := domain.UndoKindForAction(kind)
	data := domain.UndoData{}

	switch undoKind {
	case domain.UndoRestoreCell, domain.UndoRestoreRange, domain.UndoRestoreClearedRange:
		data.Range = params.String("range")
		if snap != nil {
			if snap.Range != "" {
				data.Range = snap.Range
			}
			data.Values = snap.Values
		}

	case domain.UndoRestoreFormat:
		data.Range = params.String("range")
		if snap != nil {
			if snap.Range != "" {
				data.Range = snap.Range
			}
			data.Format = snap.Format
		}

	case domain.UndoRestoreDeletedRow:
		data.RowIndex = params.IntOr("row_index", 1)
		data.Count = params.IntOr("count", 1)
		if snap != nil {
			data.Values = snap.Values
		}

	case domain.UndoRestoreDeletedColumn:
		data.ColumnIndex = params.IntOr("column_index", 1)
		data.Count = params.IntOr("count", 1)
		if snap != nil {
			data.Values = snap.Values
		}

	case domain.UndoDeleteInsertedRow:
		data.RowIndex = params.IntOr("row_index", 1)
		data.Count = params.IntOr("count", 1)

	case domain.UndoDeleteInsertedColumn:
		data.ColumnIndex = params.IntOr("column_index", 1)
		data.Count = params.IntOr("count", 1)

	case domain.UndoDeleteAppendedRow:
		if snap != nil {
			data.RowIndex = snap.AppendedRow
		}
		data.Count = 1

	case domain.UndoUnmergeCells:
		data.Range = params.String("range")

	default:
		// Generic undo_<kind> placeholder: positional best effort. The
		// executor refuses these; the record still documents what happened.
		data.Range = params.String("range")
	}

	return undoKind, data
}
