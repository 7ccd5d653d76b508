package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/ports"
)

func testStoreContract(t *testing.T, store ports.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, ports.TasksKey, `[{"id":"1"}]`))
	v, found, err := store.Get(ctx, ports.TasksKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, store.Set(ctx, ports.TasksKey, `[]`))
	v, _, err = store.Get(ctx, ports.TasksKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, store.Remove(ctx, ports.TasksKey))
	_, found, err = store.Get(ctx, ports.TasksKey)
	require.NoError(t, err)
	assert.False(t, found)

	// removing twice is fine
	require.NoError(t, store.Remove(ctx, ports.TasksKey))
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	testStoreContract(t, store)

	require.NoError(t, store.Set(context.Background(), ports.MoneyKey, `{"a":1}`))
	b, err := os.ReadFile(filepath.Join(dir, ports.MoneyKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSQLStore_SQLite(t *testing.T) {
	backend, err := Open(context.Background(), config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "forge.db"),
	})
	require.NoError(t, err)
	defer backend.Close()

	testStoreContract(t, backend.Store)
	assert.NoError(t, backend.Store.(ports.Pinger).Ping(context.Background()))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FORGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORGE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	testStoreContract(t, NewRedisStoreFromClient(client, "forge-test:"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, b.Store)
	assert.NoError(t, b.Close())

	b, err = Open(ctx, config.StorageConfig{Driver: config.DriverFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, b.Store)

	_, err = Open(ctx, config.StorageConfig{Driver: "tape"})
	assert.ErrorIs(t, err, entities.ErrUnknownStorageDriver)
}

func TestInstrumented(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	store := Instrument(NewMemoryStore(), m)

	testStoreContract(t, store)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ops.WithLabelValues("get", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ops.WithLabelValues("set", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ops.WithLabelValues("remove", "ok")))
	assert.NoError(t, store.Ping(context.Background()))
}
