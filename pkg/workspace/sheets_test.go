package workspace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

func TestListSheets_FlattensTabs(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handleJSON(http.MethodGet, "/spreadsheets/ss-1",
		`{"sheets":[{"properties":{"title":"People"}},{"properties":{"title":"Blank"}}]}`)
	fake.handleJSON(http.MethodGet, "/values/'People'",
		`{"values":[["name","team"],["ada","core"],["grace"]]}`)
	fake.handleJSON(http.MethodGet, "/values/'Blank'", `{}`)
	session := fake.session(t, Options{})

	result := session.ListSheets(context.Background(), ListSheetsRequest{SpreadsheetID: "ss-1"})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Returned sheet: People (2 record(s))\nSheet 'Blank' is empty.", result.Message)

	tabs := result.Response.Data.(map[string]any)["records"].([]map[string][]map[string]string)
	require.Len(t, tabs, 1)
	assert.Equal(t, []map[string]string{
		{"name": "ada", "team": "core"},
		{"name": "grace", "team": ""},
	}, tabs[0]["People"])
	assert.NotContains(t, tabs[0], "Blank")
}

func TestAddSheet_WritesHeaderAndRows(t *testing.T) {
	fake := newFakeGoogle(t)
	fake.handle(http.MethodPost, "/spreadsheets/ss-1:batchUpdate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		decodeBody(t, r, &body)
		add := body["requests"].([]any)[0].(map[string]any)["addSheet"].(map[string]any)
		assert.Equal(t, "Summary", add["properties"].(map[string]any)["title"])
		writeJSON(w, http.StatusOK, `{"replies":[{"addSheet":{"properties":{"sheetId":42,"title":"Summary"}}}]}`)
	})
	fake.handle(http.MethodPut, "/values/'Summary'!A1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		var body map[string]any
		decodeBody(t, r, &body)
		assert.Equal(t, []any{
			[]any{"name", "score"},
			[]any{"ada", "10"},
		}, body["values"])
		writeJSON(w, http.StatusOK, `{"updatedCells":4}`)
	})
	session := fake.session(t, Options{})

	result := session.AddSheet(context.Background(), AddSheetRequest{
		SpreadsheetID: "ss-1",
		SheetName:     "Summary",
		Columns:       []string{"name", "score"},
		Rows:          [][]string{{"ada", "10"}},
	})

	require.Equal(t, envelope.StatusSuccess, result.Status, result.Message)
	assert.Equal(t, "Created new tab: Summary\nData written to 'Summary' tab.", result.Message)
	assert.EqualValues(t, 42, result.Response.MetaData["sheet_id"])
	assert.EqualValues(t, 4, result.Response.MetaData["updated_cells"])
}

func TestAddSheet_NeedsColumnsOrRecords(t *testing.T) {
	fake := newFakeGoogle(t)
	session := fake.session(t, Options{})

	result := session.AddSheet(context.Background(), AddSheetRequest{SpreadsheetID: "ss-1", SheetName: "x"})

	assert.Equal(t, envelope.KindValidation, result.Kind)
	assert.Zero(t, fake.hitCount())
}
