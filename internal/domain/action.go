package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ActionKind identifies one spreadsheet operation the assistant can perform.
// The set is closed: the classifier, the simulator, the executor, and the
// rollback store all branch on these values and nothing else.
type ActionKind string

const (
	ActionCreateSpreadsheet ActionKind = "create_spreadsheet"
	ActionOpenSpreadsheet   ActionKind = "open_spreadsheet"
	ActionUpdateCell        ActionKind = "update_cell"
	ActionUpdateRange       ActionKind = "update_range"
	ActionInsertRow         ActionKind = "insert_row"
	ActionInsertColumn      ActionKind = "insert_column"
	ActionDeleteRow         ActionKind = "delete_row"
	ActionDeleteColumn      ActionKind = "delete_column"
	ActionFormatCells       ActionKind = "format_cells"
	ActionApplyFormula      ActionKind = "apply_formula"
	ActionSortData          ActionKind = "sort_data"
	ActionFilterData        ActionKind = "filter_data"
	ActionCreateChart       ActionKind = "create_chart"
	ActionRenameSheet       ActionKind = "rename_sheet"
	ActionMergeCells        ActionKind = "merge_cells"
	ActionFreezeRows        ActionKind = "freeze_rows"
	ActionFreezeColumns     ActionKind = "freeze_columns"
	ActionAddDataValidation ActionKind = "add_data_validation"
	ActionClearRange        ActionKind = "clear_range"
	ActionAppendTransaction ActionKind = "append_transaction"
	ActionCreateTallySheet  ActionKind = "create_tally_sheet"
)

func (k ActionKind) String() string { return string(k) }

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionCreateSpreadsheet, ActionOpenSpreadsheet, ActionUpdateCell,
		ActionUpdateRange, ActionInsertRow, ActionInsertColumn,
		ActionDeleteRow, ActionDeleteColumn, ActionFormatCells,
		ActionApplyFormula, ActionSortData, ActionFilterData,
		ActionCreateChart, ActionRenameSheet, ActionMergeCells,
		ActionFreezeRows, ActionFreezeColumns, ActionAddDataValidation,
		ActionClearRange, ActionAppendTransaction, ActionCreateTallySheet:
		return true
	}
	return false
}

// ActionParams is the parameter bag attached to an intent. Shapes depend on
// the action kind; the typed accessors below tolerate the loose types that
// survive a JSON round trip (float64 for numbers, etc.).
type ActionParams map[string]any

// String returns the named parameter as a string, or "" if absent.
func (p ActionParams) String(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the named parameter as an int. JSON numbers arrive as float64;
// numeric strings are accepted because classifiers are sloppy about types.
func (p ActionParams) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// IntOr returns the named parameter as an int, or def if absent or untyped.
func (p ActionParams) IntOr(key string, def int) int {
	if n, ok := p.Int(key); ok {
		return n
	}
	return def
}

// Bool returns the named parameter as a bool, defaulting to false.
func (p ActionParams) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Values returns the named parameter as a cell value grid. Both [][]string
// and the [][]any produced by JSON decoding are accepted; every cell is
// stringified.
func (p ActionParams) Values(key string) [][]string {
	switch v := p[key].(type) {
	case [][]string:
		return v
	case []any:
		grid := make([][]string, 0, len(v))
		for _, row := range v {
			cells, ok := row.([]any)
			if !ok {
				return nil
			}
			r := make([]string, len(cells))
			for i, c := range cells {
				r[i] = stringifyCell(c)
			}
			grid = append(grid, r)
		}
		return grid
	}
	return nil
}

// Row returns the named parameter as a single row of cell values.
func (p ActionParams) Row(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		row := make([]string, len(v))
		for i, c := range v {
			row[i] = stringifyCell(c)
		}
		return row
	}
	return nil
}

// Format returns the named parameter as a CellFormat, or nil if absent or
// malformed. The value is round-tripped through JSON because params arrive as
// loose maps.
func (p ActionParams) Format(key string) *CellFormat {
	v, ok := p[key]
	if !ok {
		return nil
	}
	if f, ok := v.(*CellFormat); ok {
		return f
	}
	if f, ok := v.(CellFormat); ok {
		return &f
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var f CellFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return &f
}

func stringifyCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}

// CellFormat describes the formatting attributes the assistant can change.
// Nil fields mean "leave as is"; that also lets a captured pre-mutation
// format express only the attributes that were touched.
type CellFormat struct {
	Bold            *bool   `json:"bold,omitempty"`
	Italic          *bool   `json:"italic,omitempty"`
	Underline       *bool   `json:"underline,omitempty"`
	FontSize        *int    `json:"font_size,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	NumberFormat    *string `json:"number_format,omitempty"`
}

// ChangedAttributes lists the attribute names a format touches, in a fixed
// order suitable for previews.
func (f CellFormat) ChangedAttributes() []string {
	var attrs []string
	if f.Bold != nil {
		attrs = append(attrs, "bold")
	}
	if f.Italic != nil {
		attrs = append(attrs, "italic")
	}
	if f.Underline != nil {
		attrs = append(attrs, "underline")
	}
	if f.FontSize != nil {
		attrs = append(attrs, "font size")
	}
	if f.TextColor != nil {
		attrs = append(attrs, "text color")
	}
	if f.BackgroundColor != nil {
		attrs = append(attrs, "background color")
	}
	if f.NumberFormat != nil {
		attrs = append(attrs, "number format")
	}
	return attrs
}
