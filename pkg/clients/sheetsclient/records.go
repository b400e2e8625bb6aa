package sheetsclient

import (
	"fmt"
	"slices"
)

// RowsToRecords zips each row after the header into a column->value map.
// Short rows are padded with empty strings; cells beyond the header are dropped.
// Header names are taken as-is, so duplicate names keep the last value.
func RowsToRecords(values [][]interface{}) (header []string, records []map[string]string) {
	if len(values) == 0 {
		return nil, []map[string]string{}
	}

	header = make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellString(cell)
	}

	records = make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = cellString(row[i])
			} else {
				record[column] = ""
			}
		}
		records = append(records, record)
	}

	return header, records
}

// TableFromRecords turns records into a header row plus value rows. Columns
// follow the given order; any keys not listed are appended in sorted order.
func TableFromRecords(records []map[string]any, columns []string) [][]interface{} {
	ordered := slices.Clone(columns)
	var extra []string
	for _, record := range records {
		for key := range record {
			if !slices.Contains(ordered, key) && !slices.Contains(extra, key) {
				extra = append(extra, key)
			}
		}
	}
	slices.Sort(extra)
	ordered = append(ordered, extra...)

	table := make([][]interface{}, 0, len(records)+1)
	headerRow := make([]interface{}, len(ordered))
	for i, column := range ordered {
		headerRow[i] = column
	}
	table = append(table, headerRow)

	for _, record := range records {
		row := make([]interface{}, len(ordered))
		for i, column := range ordered {
			value, ok := record[column]
			if !ok || value == nil {
				row[i] = ""
				continue
			}
			row[i] = value
		}
		table = append(table, row)
	}

	return table
}

// StringTable builds a value grid from a header and string rows
func StringTable(columns []string, rows [][]string) [][]interface{} {
	table := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(columns))
	for i, column := range columns {
		headerRow[i] = column
	}
	table = append(table, headerRow)

	for _, row := range rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		table = append(table, values)
	}
	return table
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
