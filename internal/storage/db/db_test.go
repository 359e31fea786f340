package db_test

import (
	"path/filepath"
	"testing"

	"hd2mm/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDatabase(t *testing.T) {
	database, err := db.New(":memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.NotNil(t, database)
}

func TestNew_RunsMigrations(t *testing.T) {
	database, err := db.New(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var count int
	err = database.QueryRow("SELECT COUNT(*) FROM deployments").Scan(&count)
	assert.NoError(t, err)

	err = database.QueryRow("SELECT COUNT(*) FROM deployed_files").Scan(&count)
	assert.NoError(t, err)

	var version int
	err = database.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hd2mm.db")

	database, err := db.New(path)
	require.NoError(t, err)
	_, err = database.BeginDeployment("Default", 2)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	database, err = db.New(path)
	require.NoError(t, err)
	defer database.Close()

	last, err := database.LastDeployment()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "Default", last.ProfileName)
}
