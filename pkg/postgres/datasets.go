package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/google-api-wrapper/pkg/db"
)

// SaveDataset inserts a dataset record, replacing one with the same id
func (d *DB) SaveDataset(ctx context.Context, dataset *db.Dataset) error {
	records, err := json.Marshal(dataset.Records)
	if err != nil {
		return fmt.Errorf("failed to encode dataset records: %w", err)
	}

	createdAt := dataset.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO dataset (id, file_id, description, columns, records, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			file_id = EXCLUDED.file_id,
			description = EXCLUDED.description,
			columns = EXCLUDED.columns,
			records = EXCLUDED.records
	`, dataset.ID, dataset.FileID, dataset.Description, dataset.Columns, string(records), createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	return nil
}

// GetDataset retrieves a dataset by id, returning db.ErrNotFound when absent
func (d *DB) GetDataset(ctx context.Context, id string) (*db.Dataset, error) {
	var dataset db.Dataset
	var records []byte

	err := d.pool.QueryRow(ctx, `
		SELECT id, file_id, description, columns, records, created_at
		FROM dataset
		WHERE id = $1
	`, id).Scan(&dataset.ID, &dataset.FileID, &dataset.Description, &dataset.Columns, &records, &dataset.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}

	if err := json.Unmarshal(records, &dataset.Records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset records: %w", err)
	}
	return &dataset, nil
}
