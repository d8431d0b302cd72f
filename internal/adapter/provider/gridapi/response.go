package gridapi

import "github.com/voxsheet/voxsheet-backend/internal/domain"

// Wire types for the grid backend API. Field names follow the backend's JSON
// contract, not ours.

type spreadsheetResponse struct {
	SheetID string `json:"sheet_id"`
	Title   string `json:"title"`
}

type createSpreadsheetRequest struct {
	Title string `json:"title"`
}

type valueRangeResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

type updateValuesRequest struct {
	Values [][]string `json:"values"`
}

type updateValuesResponse struct {
	UpdatedRange string `json:"updated_range"`
	UpdatedCells int    `json:"updated_cells"`
}

type appendRowRequest struct {
	Values []string `json:"values"`
}

type appendRowResponse struct {
	RowIndex int `json:"row_index"`
}

type lineRequest struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

type formatRequest struct {
	Range  string            `json:"range"`
	Format domain.CellFormat `json:"format"`
}

type formatResponse struct {
	Range  string            `json:"range"`
	Format domain.CellFormat `json:"format"`
}

type rangeRequest struct {
	Range string `json:"range"`
}

type sortRequest struct {
	Range     string `json:"range"`
	Column    int    `json:"column"`
	Ascending bool   `json:"ascending"`
}

type filterRequest struct {
	Range     string `json:"range"`
	Column    int    `json:"column"`
	Condition string `json:"condition"`
}

type chartRequest struct {
	ChartType string `json:"chart_type"`
	DataRange string `json:"data_range"`
	Title     string `json:"title,omitempty"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type freezeRequest struct {
	Count int `json:"count"`
}

type validationRequest struct {
	Range string `json:"range"`
	Rule  string `json:"rule"`
}

type errorResponse struct {
	Error string `json:"error"`
}
