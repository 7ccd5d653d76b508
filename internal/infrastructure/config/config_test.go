package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.False(t, cfg.JWT.AuthEnabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, time.Hour, cfg.Tasks.SweepInterval)
	assert.True(t, cfg.App.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TASKS_SWEEP_INTERVAL", "10m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Tasks.SweepInterval)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.JWT.AuthEnabled())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: redis
  key_prefix: "forge:"
  redis:
    host: cache
    port: 6380
logger:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "forge:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.GetAddr())
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("STORAGE_DRIVER", "floppy")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "70000")
	_, err = Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "forge", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=forge sslmode=disable", cfg.GetDSN())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
