package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowsToRecords_PadsShortRows(t *testing.T) {
	values := [][]interface{}{
		{"name", "score"},
		{"Alice", "95"},
		{"Bob"},
	}

	header, records := RowsToRecords(values)

	assert.Equal(t, []string{"name", "score"}, header)
	assert.Equal(t, []map[string]string{
		{"name": "Alice", "score": "95"},
		{"name": "Bob", "score": ""},
	}, records)
}

func TestRowsToRecords_DropsCellsBeyondHeader(t *testing.T) {
	_, records := RowsToRecords([][]interface{}{
		{"a"},
		{"1", "extra"},
	})
	assert.Equal(t, []map[string]string{{"a": "1"}}, records)
}

func TestRowsToRecords_NonStringCells(t *testing.T) {
	_, records := RowsToRecords([][]interface{}{
		{"n", "ok"},
		{float64(3), true},
	})
	assert.Equal(t, "3", records[0]["n"])
	assert.Equal(t, "true", records[0]["ok"])
}

func TestRowsToRecords_Empty(t *testing.T) {
	header, records := RowsToRecords(nil)
	assert.Nil(t, header)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestTableFromRecords(t *testing.T) {
	table := TableFromRecords([]map[string]any{
		{"name": "Alice", "score": 95},
		{"name": "Bob", "team": "red"},
	}, []string{"name", "score"})

	assert.Equal(t, [][]interface{}{
		{"name", "score", "team"},
		{"Alice", 95, ""},
		{"Bob", "", "red"},
	}, table)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Sheet 1'!A1", A1Range("Sheet 1", "A1"))
	assert.Equal(t, "'Bob''s'", A1Range("Bob's", ""))
}
