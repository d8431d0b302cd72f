package provider

// SpreadsheetInfo identifies a spreadsheet on the grid backend.
type SpreadsheetInfo struct {
	SheetID string
	Title   string
}

// ValueRange is a rectangle of cell values read from the grid backend.
type ValueRange struct {
	Range  string
	Values [][]string
}

// UpdateResult reports what a write touched.
type UpdateResult struct {
	UpdatedRange string
	UpdatedCells int
}

// AppendResult reports where an appended row landed (1-based).
type AppendResult struct {
	RowIndex int
}
