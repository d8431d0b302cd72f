// Package gridapi talks to the spreadsheet grid backend over HTTP. The
// executor and the rollback store are its only callers; everything here is a
// thin verb-per-endpoint wrapper with one retry on 5xx.
package gridapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
)

// Client is the HTTP grid backend adapter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the given backend base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "gridapi"),
	}
}

// ---------------------------------------------------------------------------
// Spreadsheet lifecycle
// ---------------------------------------------------------------------------

// CreateSpreadsheet creates a new spreadsheet and returns its identity.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (provider.SpreadsheetInfo, error) {
	var resp spreadsheetResponse
	err := c.do(ctx, http.MethodPost, "/v1/spreadsheets", createSpreadsheetRequest{Title: title}, &resp)
	if err != nil {
		return provider.SpreadsheetInfo{}, err
	}
	return provider.SpreadsheetInfo{SheetID: resp.SheetID, Title: resp.Title}, nil
}

// GetSpreadsheet returns spreadsheet metadata, or domain.ErrNotFound.
func (c *Client) GetSpreadsheet(ctx context.Context, sheetID string) (provider.SpreadsheetInfo, error) {
	var resp spreadsheetResponse
	err := c.do(ctx, http.MethodGet, "/v1/spreadsheets/"+url.PathEscape(sheetID), nil, &resp)
	if err != nil {
		return provider.SpreadsheetInfo{}, err
	}
	return provider.SpreadsheetInfo{SheetID: resp.SheetID, Title: resp.Title}, nil
}

// RenameSheet changes a spreadsheet's title.
func (c *Client) RenameSheet(ctx context.Context, sheetID, title string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "rename"), renameRequest{Title: title}, nil)
}

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

// ReadRange returns the cell values of an A1 range.
func (c *Client) ReadRange(ctx context.Context, sheetID, rng string) (provider.ValueRange, error) {
	var resp valueRangeResponse
	path := "/v1/spreadsheets/" + url.PathEscape(sheetID) + "/values/" + url.PathEscape(rng)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return provider.ValueRange{}, err
	}
	return provider.ValueRange{Range: resp.Range, Values: resp.Values}, nil
}

// UpdateRange writes a value grid into an A1 range.
func (c *Client) UpdateRange(ctx context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error) {
	var resp updateValuesResponse
	path := "/v1/spreadsheets/" + url.PathEscape(sheetID) + "/values/" + url.PathEscape(rng)
	if err := c.do(ctx, http.MethodPut, path, updateValuesRequest{Values: values}, &resp); err != nil {
		return provider.UpdateResult{}, err
	}
	return provider.UpdateResult{UpdatedRange: resp.UpdatedRange, UpdatedCells: resp.UpdatedCells}, nil
}

// ClearRange empties an A1 range, keeping formatting.
func (c *Client) ClearRange(ctx context.Context, sheetID, rng string) error {
	path := "/v1/spreadsheets/" + url.PathEscape(sheetID) + "/values/" + url.PathEscape(rng) + ":clear"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// AppendRow appends one row after the last non-empty row and reports where
// it landed.
func (c *Client) AppendRow(ctx context.Context, sheetID string, row []string) (provider.AppendResult, error) {
	var resp appendRowResponse
	path := "/v1/spreadsheets/" + url.PathEscape(sheetID) + "/values:append"
	if err := c.do(ctx, http.MethodPost, path, appendRowRequest{Values: row}, &resp); err != nil {
		return provider.AppendResult{}, err
	}
	return provider.AppendResult{RowIndex: resp.RowIndex}, nil
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

// InsertRows inserts count empty rows starting at the 1-based index.
func (c *Client) InsertRows(ctx context.Context, sheetID string, start, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "rows:insert"), lineRequest{Start: start, Count: count}, nil)
}

// DeleteRows deletes count rows starting at the 1-based index.
func (c *Client) DeleteRows(ctx context.Context, sheetID string, start, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "rows:delete"), lineRequest{Start: start, Count: count}, nil)
}

// InsertColumns inserts count empty columns starting at the 1-based index.
func (c *Client) InsertColumns(ctx context.Context, sheetID string, start, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "columns:insert"), lineRequest{Start: start, Count: count}, nil)
}

// DeleteColumns deletes count columns starting at the 1-based index.
func (c *Client) DeleteColumns(ctx context.Context, sheetID string, start, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "columns:delete"), lineRequest{Start: start, Count: count}, nil)
}

// ---------------------------------------------------------------------------
// Formatting and views
// ---------------------------------------------------------------------------

// FormatRange applies formatting attributes to an A1 range.
func (c *Client) FormatRange(ctx context.Context, sheetID, rng string, format domain.CellFormat) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "format"), formatRequest{Range: rng, Format: format}, nil)
}

// ReadFormat returns the formatting currently applied to an A1 range. The
// executor captures it before a format change so the change can be undone.
func (c *Client) ReadFormat(ctx context.Context, sheetID, rng string) (domain.CellFormat, error) {
	var resp formatResponse
	path := c.sheetPath(sheetID, "format") + "?range=" + url.QueryEscape(rng)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.CellFormat{}, err
	}
	return resp.Format, nil
}

// MergeCells merges an A1 range into one cell.
func (c *Client) MergeCells(ctx context.Context, sheetID, rng string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "merge"), rangeRequest{Range: rng}, nil)
}

// UnmergeCells splits a previously merged range.
func (c *Client) UnmergeCells(ctx context.Context, sheetID, rng string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "unmerge"), rangeRequest{Range: rng}, nil)
}

// SortRange sorts the rows of a range by a 1-based column.
func (c *Client) SortRange(ctx context.Context, sheetID, rng string, column int, ascending bool) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "sort"),
		sortRequest{Range: rng, Column: column, Ascending: ascending}, nil)
}

// SetFilter applies a basic filter view over a range.
func (c *Client) SetFilter(ctx context.Context, sheetID, rng string, column int, condition string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "filter"),
		filterRequest{Range: rng, Column: column, Condition: condition}, nil)
}

// CreateChart adds a chart fed by the given data range.
func (c *Client) CreateChart(ctx context.Context, sheetID, chartType, dataRange, title string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "charts"),
		chartRequest{ChartType: chartType, DataRange: dataRange, Title: title}, nil)
}

// FreezeRows pins the first count rows.
func (c *Client) FreezeRows(ctx context.Context, sheetID string, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "freeze:rows"), freezeRequest{Count: count}, nil)
}

// FreezeColumns pins the first count columns.
func (c *Client) FreezeColumns(ctx context.Context, sheetID string, count int) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "freeze:columns"), freezeRequest{Count: count}, nil)
}

// AddDataValidation attaches a validation rule to a range.
func (c *Client) AddDataValidation(ctx context.Context, sheetID, rng, rule string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(sheetID, "validation"), validationRequest{Range: rng, Rule: rule}, nil)
}

// ---------------------------------------------------------------------------
// Transport plumbing
// ---------------------------------------------------------------------------

func (c *Client) sheetPath(sheetID, suffix string) string {
	return "/v1/spreadsheets/" + url.PathEscape(sheetID) + "/" + suffix
}

// do sends one JSON request and decodes the response into out (when non-nil).
// 404 maps to domain.ErrNotFound; other non-2xx statuses surface the
// backend's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gridapi: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("gridapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.DebugContext(ctx, "gridapi request", slog.String("method", method), slog.String("path", path))

	resp, err := c.doWithRetry(ctx, req, body)
	if err != nil {
		c.log.ErrorContext(ctx, "gridapi request failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return fmt.Errorf("gridapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("gridapi: %s: %w", path, domain.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("gridapi: status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("gridapi: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gridapi: read body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("gridapi: decode json: %w", err)
	}

	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The request body is re-encoded because http.Request bodies are
// single-use.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "gridapi retry", slog.String("path", req.URL.Path), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	retry := req.Clone(ctx)
	if body != nil {
		data, mErr := json.Marshal(body)
		if mErr != nil {
			return nil, fmt.Errorf("encode retry request: %w", mErr)
		}
		retry.Body = io.NopCloser(bytes.NewReader(data))
		retry.ContentLength = int64(len(data))
	}

	time.Sleep(500 * time.Millisecond)

	return c.httpClient.Do(retry)
}
