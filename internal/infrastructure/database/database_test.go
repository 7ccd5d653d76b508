package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/infrastructure/config"
)

func TestSQLiteMigrations(t *testing.T) {
	db, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "forge.db"))
	require.NoError(t, err)
	defer db.Close()

	mg, err := NewMigrator(db)
	require.NoError(t, err)

	version, dirty, err := mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	changed, err := mg.Up(0)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = mg.Up(0)
	require.NoError(t, err)
	assert.False(t, changed)

	version, _, err = mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	_, err = db.DB.Exec(`INSERT INTO kv_store (key, value, updated_at) VALUES ('k', 'v', 1)`)
	require.NoError(t, err)

	changed, err = mg.Down(0)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = db.DB.Exec(`SELECT 1 FROM kv_store`)
	assert.Error(t, err)
}

func TestOpenMigrated(t *testing.T) {
	cfg := config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "forge.db")}

	db, err := OpenMigrated(cfg)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.DB.Get(&count, `SELECT COUNT(*) FROM kv_store`))
	assert.Equal(t, 0, count)
	assert.Equal(t, config.DriverSQLite, db.GetConnectionInfo()["driver"])
}

func TestNew_RejectsNonSQLDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: config.DriverRedis})
	assert.Error(t, err)
}
