package db

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps datasets for the lifetime of the process
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
}

// NewMemoryStore creates an empty in-memory dataset store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datasets: make(map[string]Dataset)}
}

// SaveDataset stores a copy of dataset, replacing any with the same id
func (s *MemoryStore) SaveDataset(ctx context.Context, dataset *Dataset) error {
	if dataset.ID == "" {
		return fmt.Errorf("dataset id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[dataset.ID] = cloneDataset(*dataset)
	return nil
}

// GetDataset returns the dataset with id, or ErrNotFound
func (s *MemoryStore) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := cloneDataset(dataset)
	return &copied, nil
}

func cloneDataset(d Dataset) Dataset {
	d.Columns = append([]string(nil), d.Columns...)
	records := make([]map[string]string, len(d.Records))
	for i, record := range d.Records {
		row := make(map[string]string, len(record))
		for k, v := range record {
			row[k] = v
		}
		records[i] = row
	}
	d.Records = records
	return d
}
