package db

import "time"

// Dataset is a set of records imported from a CSV file in Drive
type Dataset struct {
	ID          string
	FileID      string
	Description string
	Columns     []string
	Records     []map[string]string
	CreatedAt   time.Time
}
