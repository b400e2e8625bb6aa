package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Sorted(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_second.sql": {Data: []byte("SELECT 2")},
		"migrations/001_first.sql":  {Data: []byte("SELECT 1")},
		"migrations/README.md":      {Data: []byte("notes")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_second.sql"}, files)
}

func TestMigrationFiles_Embedded(t *testing.T) {
	files, err := migrationFiles(migrationsFS)
	require.NoError(t, err)
	assert.Contains(t, files, "001_create_datasets.sql")
}
