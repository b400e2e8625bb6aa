package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/google-api-wrapper/pkg/clients/sheetsclient"
	"github.com/jakechorley/google-api-wrapper/pkg/db"
)

// ParseCSVRecords reads CSV content whose first row is the header. Rows may
// have any length: short rows are padded with empty values and extra cells
// dropped. A leading UTF-8 byte order mark is ignored.
func ParseCSVRecords(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	header, records := sheetsclient.RowsToRecords(values)
	return header, records, nil
}

// SaveDataset stores records under a new dataset id
func SaveDataset(ctx context.Context, store db.DatasetStore, logger *zap.Logger, fileID, description string, columns []string, records []map[string]string) (*db.Dataset, error) {
	dataset := &db.Dataset{
		ID:          uuid.New().String(),
		FileID:      fileID,
		Description: description,
		Columns:     columns,
		Records:     records,
		CreatedAt:   time.Now().UTC(),
	}

	logger.Debug("Saving dataset",
		zap.String("data_id", dataset.ID),
		zap.String("file_id", fileID),
		zap.Int("records", len(records)))

	if err := store.SaveDataset(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}
	return dataset, nil
}
