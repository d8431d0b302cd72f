package domain

import (
	"time"

	"github.com/google/uuid"
)

// UndoActionKind identifies the inverse operation a rollback record carries.
type UndoActionKind string

const (
	UndoRestoreCell          UndoActionKind = "restore_cell"
	UndoRestoreRange         UndoActionKind = "restore_range"
	UndoRestoreFormat        UndoActionKind = "restore_format"
	UndoRestoreClearedRange  UndoActionKind = "restore_cleared_range"
	UndoRestoreDeletedRow    UndoActionKind = "restore_deleted_row"
	UndoRestoreDeletedColumn UndoActionKind = "restore_deleted_column"
	UndoDeleteInsertedRow    UndoActionKind = "delete_inserted_row"
	UndoDeleteInsertedColumn UndoActionKind = "delete_inserted_column"
	UndoDeleteAppendedRow    UndoActionKind = "delete_appended_row"
	UndoUnmergeCells         UndoActionKind = "unmerge_cells"
)

func (k UndoActionKind) String() string { return string(k) }

// UndoKindForAction maps a forward action kind to its inverse, 1:1 and
// deterministic. Kinds without a well-defined inverse map to a generic
// "undo_<kind>" placeholder the rollback store refuses to execute.
func UndoKindForAction(kind ActionKind) UndoActionKind {
	switch kind {
	case ActionUpdateCell, ActionApplyFormula:
		return UndoRestoreCell
	case ActionUpdateRange:
		return UndoRestoreRange
	case ActionFormatCells:
		return UndoRestoreFormat
	case ActionClearRange:
		return UndoRestoreClearedRange
	case ActionDeleteRow:
		return UndoRestoreDeletedRow
	case ActionDeleteColumn:
		return UndoRestoreDeletedColumn
	case ActionInsertRow:
		return UndoDeleteInsertedRow
	case ActionInsertColumn:
		return UndoDeleteInsertedColumn
	case ActionAppendTransaction:
		return UndoDeleteAppendedRow
	case ActionMergeCells:
		return UndoUnmergeCells
	default:
		return UndoActionKind("undo_" + string(kind))
	}
}

// Snapshot carries the pre-mutation data the executor reads from the target
// sheet before a destructive or overwriting action runs. Without it, undo
// plans degrade to positional data only.
type Snapshot struct {
	// Range is the A1 reference the snapshot covers.
	Range string `json:"range,omitempty"`

	// Values are the cell values as they were before the mutation.
	Values [][]string `json:"values,omitempty"`

	// Format is the prior formatting, captured for format changes only.
	Format *CellFormat `json:"format,omitempty"`

	// AppendedRow is the 1-based row index an append landed on, reported by
	// the backend after the fact.
	AppendedRow int `json:"appended_row,omitempty"`
}

// UndoData is the payload of one undo plan: positional data mirroring the
// forward parameters plus whatever the snapshot captured.
type UndoData struct {
	Range       string      `json:"range,omitempty"`
	RowIndex    int         `json:"row_index,omitempty"`
	ColumnIndex int         `json:"column_index,omitempty"`
	Count       int         `json:"count,omitempty"`
	Values      [][]string  `json:"values,omitempty"`
	Format      *CellFormat `json:"format,omitempty"`
}

// HasContent reports whether the plan captured actual cell data, as opposed
// to positions only.
func (d UndoData) HasContent() bool {
	return len(d.Values) > 0 || d.Format != nil
}

// RollbackAction is one persisted undo plan. It can be executed at most once
// and becomes unusable past ExpiresAt even if never executed.
type RollbackAction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ActionID  uuid.UUID // audit record of the forward mutation
	SheetID   string
	UndoKind  UndoActionKind
	UndoData  UndoData
	Executed  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is past its validity window.
func (r *RollbackAction) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
