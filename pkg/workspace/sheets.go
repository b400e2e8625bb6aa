package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
	"github.com/jakechorley/google-api-wrapper/pkg/clients/sheetsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

// ListSheetsRequest identifies a spreadsheet
type ListSheetsRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
}

// ListSheets reads every tab of a spreadsheet as records keyed by tab title.
// The first row of each tab is its header; empty tabs are skipped.
func (s *Session) ListSheets(ctx context.Context, req ListSheetsRequest) envelope.Result {
	meta := map[string]any{"spreadsheet_id": req.SpreadsheetID}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceSheets); err != nil {
		return envelope.Failure(err, meta)
	}

	titles, err := s.sheets.SheetTitles(ctx, req.SpreadsheetID)
	if err != nil {
		return envelope.Failure(err, meta)
	}

	tabs := make(map[string][]map[string]string, len(titles))
	var lines []string
	for _, title := range titles {
		values, err := s.sheets.GetValues(ctx, req.SpreadsheetID, sheetsclient.A1Range(title, ""))
		if err != nil {
			return envelope.Failure(err, meta)
		}
		if len(values) == 0 {
			lines = append(lines, fmt.Sprintf("Sheet '%s' is empty.", title))
			continue
		}
		_, records := sheetsclient.RowsToRecords(values)
		tabs[title] = records
		lines = append(lines, fmt.Sprintf("Returned sheet: %s (%d record(s))", title, len(records)))
	}

	meta["sheets"] = titles
	return envelope.Success(strings.Join(lines, "\n"), meta, envelope.Records(tabs))
}

// AddSheetRequest creates a tab and fills it. Records, when given, take
// precedence over Rows; Columns then fixes the leading column order.
type AddSheetRequest struct {
	SpreadsheetID string           `json:"spreadsheet_id" validate:"required"`
	SheetName     string           `json:"sheet_name" validate:"required"`
	Columns       []string         `json:"columns" validate:"required_without=Records"`
	Rows          [][]string       `json:"rows"`
	Records       []map[string]any `json:"records"`
}

// AddSheet adds a tab and writes the header and rows from A1 as raw values
func (s *Session) AddSheet(ctx context.Context, req AddSheetRequest) envelope.Result {
	meta := map[string]any{"spreadsheet_id": req.SpreadsheetID, "new_sheet_name": req.SheetName}
	if err := validateRequest(req); err != nil {
		return envelope.Failure(err, meta)
	}
	if err := s.require(auth.SurfaceSheets); err != nil {
		return envelope.Failure(err, meta)
	}

	var table [][]interface{}
	if len(req.Records) > 0 {
		table = sheetsclient.TableFromRecords(req.Records, req.Columns)
	} else {
		table = sheetsclient.StringTable(req.Columns, req.Rows)
	}

	sheetID, err := s.sheets.CreateSheet(ctx, req.SpreadsheetID, req.SheetName)
	if err != nil {
		return envelope.Failure(err, meta)
	}
	meta["sheet_id"] = sheetID
	lines := []string{fmt.Sprintf("Created new tab: %s", req.SheetName)}

	resp, err := s.sheets.UpdateValues(ctx, req.SpreadsheetID, sheetsclient.A1Range(req.SheetName, "A1"), table)
	if err != nil {
		return envelope.FailureWithData(err, strings.Join(append(lines, fmt.Sprintf("Error: %v", err)), "\n"), meta, envelope.Records(meta))
	}
	meta["updated_cells"] = resp.UpdatedCells
	lines = append(lines, fmt.Sprintf("Data written to '%s' tab.", req.SheetName))

	return envelope.Success(strings.Join(lines, "\n"), meta, envelope.Records(meta))
}
