package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a dataset id is unknown
var ErrNotFound = errors.New("dataset not found")

// DatasetStore defines the interface for dataset persistence.
// Both MemoryStore and postgres.DB implement this interface.
type DatasetStore interface {
	SaveDataset(ctx context.Context, dataset *Dataset) error
	GetDataset(ctx context.Context, id string) (*Dataset, error)
}
